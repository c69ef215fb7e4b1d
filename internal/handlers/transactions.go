package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"financeiro/internal/models"
	"financeiro/internal/report"
	"financeiro/internal/storage"
)

// TransactionItem represents a transaction in list views.
type TransactionItem struct {
	models.Transaction
	IsIncome      bool
	CategoryStyle CategoryStyle
}

func newTransactionItems(txs []models.Transaction) []TransactionItem {
	items := make([]TransactionItem, 0, len(txs))
	for _, t := range txs {
		items = append(items, TransactionItem{
			Transaction:   t,
			IsIncome:      t.Type == models.Income,
			CategoryStyle: getCategoryStyle(t.Category),
		})
	}
	return items
}

// TransactionForm holds submitted values so a rejected form keeps them.
type TransactionForm struct {
	Type        string
	Category    string
	Value       string
	Date        string
	Description string
	Recurring   bool
}

// TransactionsViewModel is the data passed to the transactions template.
type TransactionsViewModel struct {
	Page
	MonthNav
	Items      []TransactionItem
	Income     float64
	Expense    float64
	Balance    float64
	Categories []string
	Form       TransactionForm
}

// ListTransactions renders the month's transactions and the entry form.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month := monthParam(r)
	h.renderTransactions(w, r, http.StatusOK, year, month, TransactionForm{
		Type: string(models.Expense),
		Date: time.Now().Format(dateLayout),
	}, "")
}

func (h *Handlers) renderTransactions(w http.ResponseWriter, r *http.Request, status, year int, month time.Month, form TransactionForm, errMsg string) {
	user := GetUserFromContext(r)
	txs, err := h.db.ListTransactionsByMonth(r.Context(), user.ID, year, month)
	if err != nil {
		log.Printf("ListTransactionsByMonth error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	summary := report.MonthSummary(txs, year, month)

	h.renderStatus(w, r, status, "transactions.html", TransactionsViewModel{
		Page:       Page{User: user, Error: errMsg},
		MonthNav:   newMonthNav(year, month),
		Items:      newTransactionItems(txs),
		Income:     summary.Income,
		Expense:    summary.Expense,
		Balance:    summary.Balance,
		Categories: formCategories(form.Type),
		Form:       form,
	})
}

// CreateTransaction handles the entry form.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	year, month := monthParam(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := TransactionForm{
		Type:        r.FormValue("type"),
		Category:    r.FormValue("category"),
		Value:       r.FormValue("value"),
		Date:        r.FormValue("date"),
		Description: strings.TrimSpace(r.FormValue("description")),
		Recurring:   r.FormValue("recurring") != "",
	}

	t, msg := parseTransaction(form)
	if msg != "" {
		h.renderTransactions(w, r, http.StatusBadRequest, year, month, form, msg)
		return
	}
	t.UserID = user.ID

	if err := h.db.CreateTransaction(r.Context(), t); err != nil {
		if errors.Is(err, storage.ErrInvalidValue) || errors.Is(err, models.ErrInvalidCategory) || errors.Is(err, models.ErrInvalidType) {
			h.renderTransactions(w, r, http.StatusBadRequest, year, month, form, storageMessage(err))
			return
		}
		log.Printf("CreateTransaction error: %v", err)
		h.renderTransactions(w, r, http.StatusInternalServerError, year, month, form, msgInternal)
		return
	}

	h.redirect(w, r, fmt.Sprintf("/transactions?year=%d&month=%d", t.Date.Year(), int(t.Date.Month())))
}

func parseTransaction(form TransactionForm) (*models.Transaction, string) {
	typ, err := models.ParseTransactionType(form.Type)
	if err != nil {
		return nil, storageMessage(err)
	}
	value, err := parseAmount(form.Value)
	if err != nil || value <= 0 {
		return nil, "Informe um valor maior que zero."
	}
	date, err := parseDate(form.Date)
	if err != nil {
		return nil, "Data inválida."
	}
	return &models.Transaction{
		Type:        typ,
		Category:    form.Category,
		Value:       value,
		Date:        date,
		Description: form.Description,
		Recurring:   form.Recurring,
	}, ""
}

// DeleteTransaction removes one of the user's transactions.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteTransaction(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("DeleteTransaction error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	year, month := monthParam(r)
	h.redirect(w, r, fmt.Sprintf("/transactions?year=%d&month=%d", year, int(month)))
}

// ExportCSV downloads the month's transactions as CSV.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv; charset=utf-8", report.WriteCSV)
}

// ExportXLSX downloads the month's transactions as a spreadsheet.
func (h *Handlers) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.WriteXLSX)
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request, ext, contentType string,
	write func(io.Writer, []models.Transaction) error) {
	user := GetUserFromContext(r)
	year, month := monthParam(r)

	txs, err := h.db.ListTransactionsByMonth(r.Context(), user.ID, year, month)
	if err != nil {
		log.Printf("ListTransactionsByMonth error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.ExportFilename(year, month, ext)))
	if err := write(w, txs); err != nil {
		log.Printf("export %s error: %v", ext, err)
	}
}
