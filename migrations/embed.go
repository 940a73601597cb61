// Package migrations ships the SQL schema inside the binary.
package migrations

import "embed"

// FS holds every NNN_name.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
