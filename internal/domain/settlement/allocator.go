// Package settlement allocates a received payment across a customer's
// outstanding invoices. Every function takes the candidate rows by value and
// returns a fresh slice; the input is never modified.
package settlement

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-engine/internal/domain/entity"
	"github.com/garyjia/invoice-engine/pkg/money"
)

// Normalize coerces the numeric fields of each row and derives its pending
// amount. Apply amounts and selection are reset.
func Normalize(rows []entity.SettlementCandidate) []entity.SettlementCandidate {
	return lo.Map(rows, func(r entity.SettlementCandidate, _ int) entity.SettlementCandidate {
		total := r.InvoiceTotal.Decimal()
		paid := r.TotalPaid.Decimal()

		r.InvoiceTotal = money.Number(total.InexactFloat64())
		r.TotalPaid = money.Number(paid.InexactFloat64())
		r.PendingAmount = money.Number(money.Round2(money.NonNegative(total.Sub(paid))).InexactFloat64())
		r.ApplyAmount = 0
		r.IsSelected = false
		return r
	})
}

// Toggle flips the selection of the row at index. Selecting seeds the apply
// amount with the full pending amount; deselecting zeroes it.
func Toggle(rows []entity.SettlementCandidate, index int) []entity.SettlementCandidate {
	out := clone(rows)
	if !inRange(out, index) {
		return out
	}

	r := &out[index]
	r.IsSelected = !r.IsSelected
	if r.IsSelected {
		r.ApplyAmount = r.PendingAmount
	} else {
		r.ApplyAmount = 0
	}
	return out
}

// SetApplyAmount clamps value into [0, pending] for the row at index and
// selects the row when the result is positive. The returned Correction tells
// the caller whether the value had to be changed.
func SetApplyAmount(rows []entity.SettlementCandidate, index int, value float64) ([]entity.SettlementCandidate, money.Correction) {
	out := clone(rows)
	if !inRange(out, index) {
		return out, money.Correction{OK: true, Corrected: value}
	}

	r := &out[index]
	applied, correction := money.Clamp(money.ToNumber(value), decimal.Zero, money.NonNegative(r.PendingAmount.Decimal()))
	r.ApplyAmount = money.Number(applied.InexactFloat64())
	r.IsSelected = applied.IsPositive()
	return out, correction
}

// AutoDistribute spends totalAmount over the selected rows in their current
// order, giving each row as much of its pending amount as is left. Rows
// earlier in the slice are paid first; unselected rows are zeroed.
func AutoDistribute(rows []entity.SettlementCandidate, totalAmount float64) []entity.SettlementCandidate {
	remaining := money.NonNegative(money.ToNumber(totalAmount))

	return lo.Map(rows, func(r entity.SettlementCandidate, _ int) entity.SettlementCandidate {
		if !r.IsSelected {
			r.ApplyAmount = 0
			return r
		}
		apply := decimal.Min(money.NonNegative(r.PendingAmount.Decimal()), remaining)
		remaining = remaining.Sub(apply)
		r.ApplyAmount = money.Number(apply.InexactFloat64())
		return r
	})
}

// UsedAmount sums apply amounts over every row, selected or not. Unselected
// rows are expected to carry zero.
func UsedAmount(rows []entity.SettlementCandidate) float64 {
	return usedAmount(rows).InexactFloat64()
}

// Balance is the part of total not yet applied to any row
func Balance(total float64, rows []entity.SettlementCandidate) float64 {
	return money.Round2(money.ToNumber(total).Sub(usedAmount(rows))).InexactFloat64()
}

// CanSubmit is the only submission precondition. It does not require the
// payment to be fully allocated.
func CanSubmit(form entity.PaymentForm) bool {
	return form.TotalAmount > 0 && form.CustomerID > 0
}

// BuildPayload maps the selected rows with a positive apply amount to
// settlement lines.
func BuildPayload(form entity.PaymentForm, rows []entity.SettlementCandidate) entity.SettlementPayload {
	lines := lo.FilterMap(rows, func(r entity.SettlementCandidate, _ int) (entity.SettlementLine, bool) {
		if !r.IsSelected || r.ApplyAmount <= 0 {
			return entity.SettlementLine{}, false
		}
		return entity.SettlementLine{
			InvoiceID:     r.InvoiceID,
			InvoiceAmount: r.InvoiceTotal.Float(),
			PaidBefore:    r.TotalPaid.Float(),
			PayNow:        r.ApplyAmount.Float(),
		}, true
	})

	return entity.SettlementPayload{
		CustomerID:  form.CustomerID,
		TotalAmount: money.ToFloat(form.TotalAmount),
		PaymentDate: form.PaymentDate,
		PaymentMode: form.PaymentMode,
		Reference:   form.Reference,
		Notes:       form.Notes,
		Settlements: lines,
	}
}

func usedAmount(rows []entity.SettlementCandidate) decimal.Decimal {
	return lo.Reduce(rows, func(acc decimal.Decimal, r entity.SettlementCandidate, _ int) decimal.Decimal {
		return acc.Add(r.ApplyAmount.Decimal())
	}, decimal.Zero)
}

func clone(rows []entity.SettlementCandidate) []entity.SettlementCandidate {
	if rows == nil {
		return nil
	}
	return append([]entity.SettlementCandidate(nil), rows...)
}

func inRange(rows []entity.SettlementCandidate, index int) bool {
	return index >= 0 && index < len(rows)
}
