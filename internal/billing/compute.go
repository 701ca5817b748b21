// Package billing holds the derived-value arithmetic for weight intake and
// invoice generation. Everything here is pure: callers persist the results as
// snapshots and never recompute them.
package billing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Money values carry 2 decimal places, weights 3.
const (
	MoneyScale  = 2
	WeightScale = 3
)

var (
	ErrNoCrates       = errors.New("at least one crate weight is required")
	ErrNonPositive    = errors.New("value must be positive")
	ErrNoItems        = errors.New("at least one bill item is required")
	ErrNegativeAmount = errors.New("deduction must not be negative")
)

// LineItem is one bill line before persistence.
type LineItem struct {
	FruitID string
	Weight  decimal.Decimal
	Rate    decimal.Decimal
}

// Deductions are the three amounts subtracted from a bill subtotal.
type Deductions struct {
	Transport  decimal.Decimal
	Commission decimal.Decimal
	Other      decimal.Decimal
}

// BillTotals is the computed outcome of a bill: per-line amounts in item
// order, their sum, and the net after deductions.
type BillTotals struct {
	Amounts  []decimal.Decimal
	Subtotal decimal.Decimal
	Net      decimal.Decimal
}

// CrateAggregate is the outcome of a multiple-crate weighing.
type CrateAggregate struct {
	TotalWeight     decimal.Decimal
	NumberOfCrates  int
	AveragePerCrate decimal.Decimal
}

// LineAmount computes weight × rate rounded to money scale.
func LineAmount(weight, rate decimal.Decimal) decimal.Decimal {
	return weight.Mul(rate).Round(MoneyScale)
}

// ComputeBill derives per-item amounts, the subtotal and the net amount:
//
//	subtotal = Σ(weight × rate)
//	net      = subtotal − (transport + commission + other)
func ComputeBill(items []LineItem, d Deductions) (BillTotals, error) {
	if len(items) == 0 {
		return BillTotals{}, ErrNoItems
	}

	for _, amt := range []decimal.Decimal{d.Transport, d.Commission, d.Other} {
		if amt.IsNegative() {
			return BillTotals{}, ErrNegativeAmount
		}
	}

	totals := BillTotals{
		Amounts:  make([]decimal.Decimal, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		if !item.Weight.IsPositive() || !item.Rate.IsPositive() {
			return BillTotals{}, ErrNonPositive
		}
		amount := LineAmount(item.Weight, item.Rate)
		totals.Amounts = append(totals.Amounts, amount)
		totals.Subtotal = totals.Subtotal.Add(amount)
	}

	totals.Subtotal = totals.Subtotal.Round(MoneyScale)
	deducted := d.Transport.Add(d.Commission).Add(d.Other)
	totals.Net = totals.Subtotal.Sub(deducted).Round(MoneyScale)
	return totals, nil
}

// AggregateCrates sums per-crate weights into the totals stored on a
// "multiple" weight entry. The average is total weight over crate count.
func AggregateCrates(crateWeights []decimal.Decimal) (CrateAggregate, error) {
	if len(crateWeights) == 0 {
		return CrateAggregate{}, ErrNoCrates
	}

	total := decimal.Zero
	for _, w := range crateWeights {
		if !w.IsPositive() {
			return CrateAggregate{}, ErrNonPositive
		}
		total = total.Add(w)
	}
	total = total.Round(WeightScale)

	count := decimal.NewFromInt(int64(len(crateWeights)))
	return CrateAggregate{
		TotalWeight:     total,
		NumberOfCrates:  len(crateWeights),
		AveragePerCrate: total.Div(count).Round(WeightScale),
	}, nil
}

// EntryTotal computes the monetary value of a weight entry snapshot.
func EntryTotal(totalWeight, rate decimal.Decimal) (decimal.Decimal, error) {
	if !totalWeight.IsPositive() || !rate.IsPositive() {
		return decimal.Decimal{}, ErrNonPositive
	}
	return totalWeight.Mul(rate).Round(MoneyScale), nil
}
