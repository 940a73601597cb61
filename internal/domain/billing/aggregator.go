package billing

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// Recompute runs the invoice pipeline over a form snapshot.
//
// The stages run in a fixed order and each consumes the previous stage's
// rounded output, so reordering them changes results. Recompute never fails:
// missing or malformed numbers count as zero.
func Recompute(form entity.InvoiceForm) entity.DerivedTotals {
	subtotal := subtotalOf(form.Items)
	bill := billDiscountOf(form, subtotal)
	rows := calculateRows(form.Items, bill, subtotal)
	tax := taxesOf(rows, form.AdditionalCharges)
	taxable := subtotal.Sub(sumDiscounts(rows))
	total := totalOf(taxable, tax, bill)
	rounded := roundOff(form, total)
	sgst, cgst, igst := splitTax(tax)

	return entity.DerivedTotals{
		Rows:                rows,
		Subtotal:            subtotal.InexactFloat64(),
		BillDiscountAmount:  bill.amount.InexactFloat64(),
		BillDiscountPercent: bill.percent.InexactFloat64(),
		ItemDiscountTotal:   sumDiscounts(rows).InexactFloat64(),
		TaxableValue:        taxable.InexactFloat64(),
		TaxTotal:            tax.items.InexactFloat64(),
		AdditionalTotal:     tax.additionalTotal.InexactFloat64(),
		AdditionalTax:       tax.additional.InexactFloat64(),
		TotalBeforeRoundOff: money.Round2(total).InexactFloat64(),
		RoundOffAmount:      rounded.adjustment.InexactFloat64(),
		Total:               rounded.total.InexactFloat64(),
		SGST:                sgst.InexactFloat64(),
		CGST:                cgst.InexactFloat64(),
		IGST:                igst.InexactFloat64(),
		BalanceAmount:       money.Round2(rounded.total.Sub(form.AmountReceived.Decimal())).InexactFloat64(),
		DueDate:             dueDateOf(form.InvoiceDate, form.PaymentTermsDays),
		QtyTotal:            qtyTotalOf(form.Items).InexactFloat64(),

		IsItemDiscountDisabled: bill.amount.IsPositive(),
		IsAnyItemTaxApplied:    lo.SomeBy(rows, func(r entity.InvoiceLineItem) bool { return r.TaxAmount > 0 }),
	}
}

// ApplyTotals writes the derived row fields and the bill discount pair back
// into a copy of the form, giving the snapshot a UI would hold after the
// recompute. Recompute(ApplyTotals(f, Recompute(f))) equals Recompute(f).
func ApplyTotals(form entity.InvoiceForm, totals entity.DerivedTotals) entity.InvoiceForm {
	out := form.Clone()
	out.Items = append([]entity.InvoiceLineItem(nil), totals.Rows...)
	out.BillDiscountAmount = money.Number(totals.BillDiscountAmount)
	out.BillDiscountPercent = money.Number(totals.BillDiscountPercent)
	if out.RoundOff {
		out.RoundOffAmount = money.Number(totals.RoundOffAmount)
	}
	return out
}

type billDiscount struct {
	amount  decimal.Decimal
	percent decimal.Decimal
	// beforeTax spreads the discount over the rows, afterTax takes it off the
	// total. An unrecognized type does neither.
	beforeTax bool
	afterTax  bool
}

type taxBreakdown struct {
	items           decimal.Decimal
	additionalTotal decimal.Decimal
	additional      decimal.Decimal
}

type roundedTotal struct {
	total      decimal.Decimal
	adjustment decimal.Decimal
}

func subtotalOf(items []entity.InvoiceLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(Gross(item))
	}
	return money.Round2(sum)
}

func billDiscountOf(form entity.InvoiceForm, subtotal decimal.Decimal) billDiscount {
	var amt, pct decimal.Decimal
	if form.BillLastEdited.OrPercent() == entity.EditedAmount {
		amt, _ = money.Clamp(form.BillDiscountAmount.Decimal(), decimal.Zero, subtotal)
		pct = money.Percent(amt, subtotal)
	} else {
		pct, _ = money.Clamp(form.BillDiscountPercent.Decimal(), decimal.Zero, money.Hundred())
		amt = money.PercentOf(subtotal, pct)
	}

	if !amt.IsPositive() {
		amt, pct = decimal.Zero, decimal.Zero
	}

	return billDiscount{
		amount:    amt,
		percent:   pct,
		beforeTax: form.BillDiscountType == entity.BillDiscountBeforeTax || form.BillDiscountType == "",
		afterTax:  form.BillDiscountType == entity.BillDiscountAfterTax,
	}
}

// calculateRows runs every row through CalculateRow. A before-tax bill
// discount is first spread over the rows in proportion to their gross value
// and replaces whatever discount the row carried.
func calculateRows(items []entity.InvoiceLineItem, bill billDiscount, subtotal decimal.Decimal) []entity.InvoiceLineItem {
	distribute := bill.amount.IsPositive() && bill.beforeTax

	return lo.Map(items, func(item entity.InvoiceLineItem, _ int) entity.InvoiceLineItem {
		if !distribute {
			if item.DiscountSource == entity.DiscountSourceBill {
				// the bill discount that produced this row's discount is gone
				item.DiscountAmount, item.DiscountPercent = 0, 0
				item.DiscountSource = entity.DiscountSourceItem
			}
			return CalculateRow(item)
		}

		gross := Gross(item)
		share := decimal.Zero
		if subtotal.IsPositive() {
			share = gross.Div(subtotal).Mul(bill.amount)
		}
		pct := money.Percent(share, gross)

		item.DiscountAmount = money.Number(money.Round2(share).InexactFloat64())
		item.LastEditedDiscountField = entity.EditedAmount
		item.DiscountSource = entity.DiscountSourceBill

		row := CalculateRow(item)
		row.DiscountPercent = money.Number(pct.InexactFloat64())
		return row
	})
}

func sumDiscounts(rows []entity.InvoiceLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.DiscountAmount.Decimal())
	}
	return sum
}

func taxesOf(rows []entity.InvoiceLineItem, charges []entity.AdditionalCharge) taxBreakdown {
	var t taxBreakdown
	for _, r := range rows {
		t.items = t.items.Add(r.TaxAmount.Decimal())
	}
	for _, c := range charges {
		amt := c.Amount.Decimal()
		t.additionalTotal = t.additionalTotal.Add(amt)
		if c.TaxApplicable == entity.TaxGST {
			t.additional = t.additional.Add(money.PercentOf(amt, money.NonNegative(c.TaxRate.Decimal())))
		}
	}
	return t
}

// totalOf is the pre round-off total. An after-tax bill discount comes off
// here once and never touches the rows.
func totalOf(taxable decimal.Decimal, tax taxBreakdown, bill billDiscount) decimal.Decimal {
	total := taxable.Add(tax.items).Add(tax.additionalTotal).Add(tax.additional)
	if bill.afterTax {
		total = total.Sub(bill.amount)
	}
	return total
}

var oneHalf = decimal.New(5, -1)

func roundOff(form entity.InvoiceForm, total decimal.Decimal) roundedTotal {
	if form.RoundOff {
		// halves round up, so -2.5 becomes -2
		nearest := total.Add(oneHalf).Floor()
		return roundedTotal{
			total:      nearest,
			adjustment: money.Round2(nearest.Sub(total)),
		}
	}

	manual := form.RoundOffAmount.Decimal()
	switch form.RoundOffType {
	case entity.RoundOffAdd:
		total = total.Add(manual)
	case entity.RoundOffRemove:
		total = total.Sub(manual)
	default:
		manual = decimal.Zero
	}
	return roundedTotal{
		total:      money.Round2(total),
		adjustment: money.Round2(manual),
	}
}

// splitTax always reports intra-state SGST/CGST halves with IGST at zero.
// There is no place-of-supply rule behind it yet.
func splitTax(tax taxBreakdown) (sgst, cgst, igst decimal.Decimal) {
	half := money.Round2(tax.items.Add(tax.additional).Div(decimal.NewFromInt(2)))
	return half, half, decimal.Zero
}

func dueDateOf(invoiceDate string, terms money.Number) string {
	if invoiceDate == "" {
		return ""
	}
	d, err := time.Parse(entity.DateLayout, invoiceDate)
	if err != nil {
		return ""
	}
	days := int(terms.Decimal().IntPart())
	return d.AddDate(0, 0, days).Format(entity.DateLayout)
}

func qtyTotalOf(items []entity.InvoiceLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(money.NonNegative(item.Quantity.Decimal()))
	}
	return sum
}
