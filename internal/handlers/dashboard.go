package handlers

import (
	"log"
	"net/http"

	"financeiro/internal/models"
	"financeiro/internal/report"
)

// StatsCategoryItem represents a category with its spending statistics.
type StatsCategoryItem struct {
	report.CategoryTotal
	CategoryStyle CategoryStyle
}

// SeriesItem is one month of the yearly chart, with bar heights relative
// to the largest value of the year.
type SeriesItem struct {
	report.MonthPoint
	Label         string
	IncomeHeight  float64
	ExpenseHeight float64
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Page
	MonthNav
	Income        float64
	Expense       float64
	Balance       float64
	Categories    []StatsCategoryItem
	Series        []SeriesItem
	Recent        []TransactionItem
	Goals         []models.Goal
	DebtRemaining float64
}

const recentLimit = 5

// Dashboard renders the monthly balance, category breakdown and yearly chart.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	year, month := monthParam(r)
	ctx := r.Context()

	txs, err := h.db.ListTransactionsByYear(ctx, user.ID, year)
	if err != nil {
		log.Printf("ListTransactionsByYear error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	recent, err := h.db.RecentTransactions(ctx, user.ID, recentLimit)
	if err != nil {
		log.Printf("RecentTransactions error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	goals, err := h.db.ListGoals(ctx, user.ID)
	if err != nil {
		log.Printf("ListGoals error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	debt, err := h.db.DebtRemaining(ctx, user.ID)
	if err != nil {
		log.Printf("DebtRemaining error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	summary := report.MonthSummary(txs, year, month)
	categories := make([]StatsCategoryItem, 0, len(summary.Categories))
	for _, ct := range summary.Categories {
		categories = append(categories, StatsCategoryItem{CategoryTotal: ct, CategoryStyle: getCategoryStyle(ct.Category)})
	}

	h.render(w, r, "dashboard.html", DashboardViewModel{
		Page:          Page{User: user},
		MonthNav:      newMonthNav(year, month),
		Income:        summary.Income,
		Expense:       summary.Expense,
		Balance:       summary.Balance,
		Categories:    categories,
		Series:        seriesItems(report.YearSeries(txs, year)),
		Recent:        newTransactionItems(recent),
		Goals:         goals,
		DebtRemaining: debt,
	})
}

func seriesItems(points []report.MonthPoint) []SeriesItem {
	var peak float64
	for _, p := range points {
		peak = max(peak, p.Income, p.Expense)
	}

	items := make([]SeriesItem, 0, len(points))
	for _, p := range points {
		item := SeriesItem{MonthPoint: p, Label: monthName(p.Month)[:3]}
		if peak > 0 {
			item.IncomeHeight = p.Income / peak * 100
			item.ExpenseHeight = p.Expense / peak * 100
		}
		items = append(items, item)
	}
	return items
}
