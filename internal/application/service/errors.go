package service

import "errors"

var (
	// ErrDraftNotFound is returned when a draft id does not exist
	ErrDraftNotFound = errors.New("invoice draft not found")

	// ErrInvalidDraftID is returned for non-positive draft ids
	ErrInvalidDraftID = errors.New("invalid invoice draft id")

	// ErrPaymentNotSubmittable is returned when a payment lacks a customer or a positive amount
	ErrPaymentNotSubmittable = errors.New("payment requires a customer and a positive amount")
)
