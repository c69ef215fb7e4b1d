// Package planner splits a loan total into installments and summarises
// installment plans.
package planner

import (
	"errors"
	"fmt"
	"math"

	"financeiro/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidPlan is returned for a non-positive total or installment count.
var ErrInvalidPlan = errors.New("invalid installment plan")

// MaxInstallments bounds the number of rows a single plan may create.
const MaxInstallments = 600

// RoundTotal rounds total to cents, the precision a plan is split and
// stored at. Totals that are not finite or round to zero are rejected.
func RoundTotal(total float64) (float64, error) {
	t, err := cents(total)
	if err != nil {
		return 0, err
	}
	return t.InexactFloat64(), nil
}

func cents(total float64) (decimal.Decimal, error) {
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return decimal.Zero, fmt.Errorf("%w: total must be finite, got %v", ErrInvalidPlan, total)
	}
	t := decimal.NewFromFloat(total).Round(2)
	if !t.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: total must be at least one cent, got %v", ErrInvalidPlan, total)
	}
	return t, nil
}

// Split divides total, rounded to cents, into count installments truncated
// to cents. The last installment absorbs the remainder, so the values always
// add up to RoundTotal(total) and no installment is negative.
func Split(total float64, count int) ([]float64, error) {
	if count < 1 || count > MaxInstallments {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidPlan, MaxInstallments, count)
	}
	t, err := cents(total)
	if err != nil {
		return nil, err
	}

	each := t.Div(decimal.NewFromInt(int64(count))).Truncate(2)

	values := make([]float64, count)
	allocated := decimal.Zero
	for i := 0; i < count-1; i++ {
		values[i] = each.InexactFloat64()
		allocated = allocated.Add(each)
	}
	values[count-1] = t.Sub(allocated).InexactFloat64()
	return values, nil
}

// Summary reports paid and remaining totals for a plan.
type Summary struct {
	Total          float64 `json:"total"`
	PaidTotal      float64 `json:"paid_total"`
	RemainingTotal float64 `json:"remaining_total"`
	Count          int     `json:"count"`
	PaidCount      int     `json:"paid_count"`
}

// Summarize computes the Summary of a set of installments. Values are
// summed as they are stored; edits that break the even split are kept.
func Summarize(installments []models.Installment) Summary {
	total, paid := decimal.Zero, decimal.Zero
	var s Summary
	for _, in := range installments {
		v := decimal.NewFromFloat(in.Value)
		total = total.Add(v)
		if in.IsPaid {
			paid = paid.Add(v)
			s.PaidCount++
		}
	}
	s.Count = len(installments)
	s.Total = total.InexactFloat64()
	s.PaidTotal = paid.InexactFloat64()
	s.RemainingTotal = total.Sub(paid).InexactFloat64()
	return s
}
