package entity

import "github.com/garyjia/invoice-engine/pkg/money"

// SettlementCandidate is an outstanding invoice offered for settlement by a
// payment. PendingAmount is derived; ApplyAmount is chosen by the user.
type SettlementCandidate struct {
	InvoiceID     int64        `json:"invoice_id"`
	InvoiceNumber string       `json:"invoice_number,omitempty"`
	InvoiceTotal  money.Number `json:"invoice_total"`
	TotalPaid     money.Number `json:"total_paid"`
	PendingAmount money.Number `json:"pending_amount"`
	ApplyAmount   money.Number `json:"apply_amount"`
	IsSelected    bool         `json:"is_selected"`
}

// PaymentForm is the editable snapshot of a received payment
type PaymentForm struct {
	CustomerID  int64                 `json:"customer_id"`
	TotalAmount money.Number          `json:"total_amount"`
	PaymentDate string                `json:"payment_date,omitempty"`
	PaymentMode string                `json:"payment_mode,omitempty"`
	Reference   string                `json:"reference,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Candidates  []SettlementCandidate `json:"candidates"`
}

// SettlementLine maps part of a payment onto one invoice
type SettlementLine struct {
	InvoiceID     int64   `json:"invoice_id"`
	InvoiceAmount float64 `json:"invoice_amount"`
	PaidBefore    float64 `json:"paid_before"`
	PayNow        float64 `json:"pay_now"`
}

// SettlementPayload is what gets submitted for a payment
type SettlementPayload struct {
	CustomerID  int64            `json:"customer_id"`
	TotalAmount float64          `json:"total_amount"`
	PaymentDate string           `json:"payment_date,omitempty"`
	PaymentMode string           `json:"payment_mode,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Settlements []SettlementLine `json:"settlements"`
}
