// Package report aggregates transactions for the dashboard and exports them.
package report

import (
	"sort"
	"time"

	"financeiro/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Month summarises one month of transactions.
type Month struct {
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Income     float64         `json:"income"`
	Expense    float64         `json:"expense"`
	Balance    float64         `json:"balance"`
	Categories []CategoryTotal `json:"categories"`
}

// MonthPoint is one bar pair of the yearly chart.
type MonthPoint struct {
	Month   time.Month `json:"month"`
	Income  float64    `json:"income"`
	Expense float64    `json:"expense"`
}

// MonthSummary totals the transactions dated in year/month. Expense
// categories are sorted by total, largest first.
func MonthSummary(txs []models.Transaction, year int, month time.Month) Month {
	income, expense := decimal.Zero, decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	counts := make(map[string]int)

	for _, t := range txs {
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		v := decimal.NewFromFloat(t.Value)
		switch t.Type {
		case models.Income:
			income = income.Add(v)
		case models.Expense:
			expense = expense.Add(v)
			byCategory[t.Category] = byCategory[t.Category].Add(v)
			counts[t.Category]++
		}
	}

	cats := make([]CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		pct := 0.0
		if expense.IsPositive() {
			pct = total.Div(expense).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		cats = append(cats, CategoryTotal{
			Category:   name,
			Total:      total.InexactFloat64(),
			Count:      counts[name],
			Percentage: pct,
		})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Total != cats[j].Total {
			return cats[i].Total > cats[j].Total
		}
		return cats[i].Category < cats[j].Category
	})

	return Month{
		Year:       year,
		Month:      month,
		Income:     income.InexactFloat64(),
		Expense:    expense.InexactFloat64(),
		Balance:    income.Sub(expense).InexactFloat64(),
		Categories: cats,
	}
}

// YearSeries returns twelve points with monthly income and expense for year.
func YearSeries(txs []models.Transaction, year int) []MonthPoint {
	income := make([]decimal.Decimal, 12)
	expense := make([]decimal.Decimal, 12)
	for _, t := range txs {
		if t.Date.Year() != year {
			continue
		}
		i := int(t.Date.Month()) - 1
		v := decimal.NewFromFloat(t.Value)
		switch t.Type {
		case models.Income:
			income[i] = income[i].Add(v)
		case models.Expense:
			expense[i] = expense[i].Add(v)
		}
	}

	points := make([]MonthPoint, 12)
	for i := range points {
		points[i] = MonthPoint{
			Month:   time.Month(i + 1),
			Income:  income[i].InexactFloat64(),
			Expense: expense[i].InexactFloat64(),
		}
	}
	return points
}
