package entity

// EditedField records which half of a percent/amount pair the user touched
// last. The other half is always derived from it.
type EditedField string

const (
	EditedPercent EditedField = "percent"
	EditedAmount  EditedField = "amount"
)

// IsValid reports whether the field is a known value
func (f EditedField) IsValid() bool {
	return f == EditedPercent || f == EditedAmount
}

// OrPercent returns the field, defaulting unknown values to EditedPercent
func (f EditedField) OrPercent() EditedField {
	if f == EditedAmount {
		return EditedAmount
	}
	return EditedPercent
}

// DiscountSource marks who authored a line item's discount
type DiscountSource string

const (
	DiscountSourceItem DiscountSource = "item" // typed on the row
	DiscountSourceBill DiscountSource = "bill" // distributed from the bill discount
)

// BillDiscountType selects where the document level discount is applied
type BillDiscountType string

const (
	BillDiscountBeforeTax BillDiscountType = "before_tax"
	BillDiscountAfterTax  BillDiscountType = "after_tax"
)

// IsValid reports whether the type is a known value
func (t BillDiscountType) IsValid() bool {
	return t == BillDiscountBeforeTax || t == BillDiscountAfterTax
}

// RoundOffType is the direction of a manual round off adjustment
type RoundOffType string

const (
	RoundOffAdd    RoundOffType = "add"
	RoundOffRemove RoundOffType = "remove"
)

// TaxApplicable is the tax treatment of an additional charge
type TaxApplicable string

const (
	TaxNone TaxApplicable = "none"
	TaxGST  TaxApplicable = "gst"
)

// DateLayout is the calendar date format used by invoice and payment forms
const DateLayout = "2006-01-02"
