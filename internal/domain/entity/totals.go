package entity

// DerivedTotals is everything the invoice pipeline computes from a form
type DerivedTotals struct {
	Rows                []InvoiceLineItem `json:"rows"`
	Subtotal            float64           `json:"subtotal"`
	BillDiscountAmount  float64           `json:"bill_discount_amount"`
	BillDiscountPercent float64           `json:"bill_discount_percent"`
	ItemDiscountTotal   float64           `json:"item_discount_total"`
	TaxableValue        float64           `json:"taxable_value"`
	TaxTotal            float64           `json:"tax_total"`
	AdditionalTotal     float64           `json:"additional_total"`
	AdditionalTax       float64           `json:"additional_tax"`
	TotalBeforeRoundOff float64           `json:"total_before_round_off"`
	RoundOffAmount      float64           `json:"round_off_amount"`
	Total               float64           `json:"total"`
	SGST                float64           `json:"sgst"`
	CGST                float64           `json:"cgst"`
	IGST                float64           `json:"igst"`
	BalanceAmount       float64           `json:"balance_amount"`
	DueDate             string            `json:"due_date"`
	QtyTotal            float64           `json:"qty_total"`

	IsItemDiscountDisabled bool `json:"is_item_discount_disabled"`
	IsAnyItemTaxApplied    bool `json:"is_any_item_tax_applied"`
}
