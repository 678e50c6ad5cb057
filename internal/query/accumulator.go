package query

import (
	"salesdesk/internal/model"

	"github.com/shopspring/decimal"
)

// Accumulator keeps running totals over matching records. Amounts are summed
// as decimals so the result does not depend on the order records arrive in.
type Accumulator struct {
	units    int64
	amount   decimal.Decimal
	discount decimal.Decimal
}

func NewAccumulator() *Accumulator {
	return &Accumulator{amount: decimal.Zero, discount: decimal.Zero}
}

// Add folds one matching record into the totals.
func (a *Accumulator) Add(rec *model.SalesRecord) {
	final := decimal.NewFromFloat(rec.FinalAmount)
	a.units += int64(rec.Quantity)
	a.amount = a.amount.Add(final)
	a.discount = a.discount.Add(decimal.NewFromFloat(rec.TotalAmount).Sub(final))
}

// Summary returns the totals rounded to cents.
func (a *Accumulator) Summary() model.Summary {
	return model.Summary{
		TotalUnits:    a.units,
		TotalAmount:   a.amount.Round(2).InexactFloat64(),
		TotalDiscount: a.discount.Round(2).InexactFloat64(),
	}
}

// Summarize accumulates a bounded slice of matching records.
func Summarize(recs []model.SalesRecord) model.Summary {
	acc := NewAccumulator()
	for i := range recs {
		acc.Add(&recs[i])
	}
	return acc.Summary()
}
