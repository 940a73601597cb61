package entity

import (
	"time"

	"github.com/garyjia/invoice-engine/pkg/money"
)

// InvoiceLineItem is one editable row of an invoice form. TaxAmount and Amount
// are computed and are overwritten on every recompute.
type InvoiceLineItem struct {
	ID                      string         `json:"id,omitempty"`
	ItemName                string         `json:"item_name,omitempty"`
	Unit                    string         `json:"unit,omitempty"`
	HSNCode                 string         `json:"hsn_code,omitempty"`
	Quantity                money.Number   `json:"quantity"`
	Price                   money.Number   `json:"price"`
	DiscountPercent         money.Number   `json:"discount_percent"`
	DiscountAmount          money.Number   `json:"discount_amount"`
	LastEditedDiscountField EditedField    `json:"last_edited_discount_field,omitempty"`
	TaxPercent              money.Number   `json:"tax_percent"`
	TaxAmount               money.Number   `json:"tax_amount"`
	Amount                  money.Number   `json:"amount"`
	DiscountSource          DiscountSource `json:"discount_source,omitempty"`
}

// AdditionalCharge is a document level charge such as freight or packing.
// It contributes to totals but never to a line item.
type AdditionalCharge struct {
	Name          string        `json:"name,omitempty"`
	Amount        money.Number  `json:"amount"`
	TaxApplicable TaxApplicable `json:"tax_applicable,omitempty"`
	TaxRate       money.Number  `json:"tax_rate"`
}

// InvoiceForm is the editable snapshot of an invoice. The caller owns it;
// every computed value is a projection of it.
type InvoiceForm struct {
	InvoiceNumber       string             `json:"invoice_number,omitempty"`
	CustomerID          int64              `json:"customer_id,omitempty"`
	Items               []InvoiceLineItem  `json:"items"`
	AdditionalCharges   []AdditionalCharge `json:"additional_charges"`
	BillDiscountAmount  money.Number       `json:"bill_discount_amount"`
	BillDiscountPercent money.Number       `json:"bill_discount_percent"`
	BillDiscountType    BillDiscountType   `json:"bill_discount_type,omitempty"`
	BillLastEdited      EditedField        `json:"bill_last_edited,omitempty"`
	RoundOff            bool               `json:"round_off"`
	RoundOffAmount      money.Number       `json:"round_off_amount"`
	RoundOffType        RoundOffType       `json:"round_off_type,omitempty"`
	AmountReceived      money.Number       `json:"amount_received"`
	InvoiceDate         string             `json:"invoice_date,omitempty"`
	PaymentTermsDays    money.Number       `json:"payment_terms_days"`
	Notes               string             `json:"notes,omitempty"`
}

// Clone returns a deep copy so that callers can mutate the result freely
func (f InvoiceForm) Clone() InvoiceForm {
	out := f
	if f.Items != nil {
		out.Items = append([]InvoiceLineItem(nil), f.Items...)
	}
	if f.AdditionalCharges != nil {
		out.AdditionalCharges = append([]AdditionalCharge(nil), f.AdditionalCharges...)
	}
	return out
}

// InvoiceDraft is a persisted invoice form
type InvoiceDraft struct {
	ID            int64       `json:"id"`
	InvoiceNumber string      `json:"invoice_number"`
	CustomerID    int64       `json:"customer_id"`
	Form          InvoiceForm `json:"form"`
	Total         float64     `json:"total"`
	BalanceAmount float64     `json:"balance_amount"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
