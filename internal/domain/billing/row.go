// Package billing computes invoice line items and invoice totals from an
// editable form snapshot. Every function here is pure: it takes values and
// returns new values.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// CalculateRow recomputes a line item's discount pair, tax and amount.
//
// The half of the discount pair named by LastEditedDiscountField is taken as
// given and the other half is derived. Tax is always recomputed from
// TaxPercent on the discounted base so it can never lag the discount.
// Every derived value is rounded to two digits as it is produced.
func CalculateRow(item entity.InvoiceLineItem) entity.InvoiceLineItem {
	out := item

	qty := money.NonNegative(item.Quantity.Decimal())
	price := money.NonNegative(item.Price.Decimal())
	gross := qty.Mul(price)

	var discAmt, discPct decimal.Decimal
	if item.LastEditedDiscountField.OrPercent() == entity.EditedAmount {
		discAmt, _ = money.Clamp(item.DiscountAmount.Decimal(), decimal.Zero, gross)
		discPct = money.Percent(discAmt, gross)
	} else {
		discPct, _ = money.Clamp(item.DiscountPercent.Decimal(), decimal.Zero, money.Hundred())
		discAmt = money.PercentOf(gross, discPct)
	}

	taxPct := money.NonNegative(item.TaxPercent.Decimal())
	taxAmt := money.PercentOf(gross.Sub(discAmt), taxPct)

	out.Quantity = money.Number(qty.InexactFloat64())
	out.Price = money.Number(price.InexactFloat64())
	out.DiscountAmount = money.Number(discAmt.InexactFloat64())
	out.DiscountPercent = money.Number(discPct.InexactFloat64())
	out.TaxPercent = money.Number(taxPct.InexactFloat64())
	out.TaxAmount = money.Number(taxAmt.InexactFloat64())
	out.Amount = money.Number(money.Round2(gross.Sub(discAmt).Add(taxAmt)).InexactFloat64())
	if out.DiscountSource == "" {
		out.DiscountSource = entity.DiscountSourceItem
	}
	return out
}

// Gross returns quantity * price for a line item, unrounded
func Gross(item entity.InvoiceLineItem) decimal.Decimal {
	return money.NonNegative(item.Quantity.Decimal()).Mul(money.NonNegative(item.Price.Decimal()))
}

// CheckItemDiscount reports whether a typed discount value lies within its
// bounds for the given row. The row calculator clamps silently; this lets a
// caller surface the correction that will be applied.
func CheckItemDiscount(item entity.InvoiceLineItem, field entity.EditedField, value float64) money.Correction {
	hi := money.Hundred()
	if field.OrPercent() == entity.EditedAmount {
		hi = Gross(item)
	}
	_, c := money.Clamp(money.ToNumber(value), decimal.Zero, hi)
	return c
}
