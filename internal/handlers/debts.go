package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"financeiro/internal/models"
	"financeiro/internal/storage"
)

// DebtItem is a debt with its outstanding amount.
type DebtItem struct {
	models.Debt
	Remaining float64
	Settled   bool
}

// DebtsViewModel is the data passed to the debts template.
type DebtsViewModel struct {
	Page
	Debts     []DebtItem
	Remaining float64
}

// ListDebts renders the user's debts.
func (h *Handlers) ListDebts(w http.ResponseWriter, r *http.Request) {
	h.renderDebts(w, r, http.StatusOK, "")
}

func (h *Handlers) renderDebts(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := GetUserFromContext(r)
	debts, err := h.db.ListDebts(r.Context(), user.ID)
	if err != nil {
		log.Printf("ListDebts error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	vm := DebtsViewModel{Page: Page{User: user, Error: errMsg}, Debts: make([]DebtItem, 0, len(debts))}
	for _, d := range debts {
		remaining := max(d.Remaining(), 0)
		vm.Remaining += remaining
		vm.Debts = append(vm.Debts, DebtItem{Debt: d, Remaining: remaining, Settled: remaining == 0})
	}
	h.renderStatus(w, r, status, "debts.html", vm)
}

// CreateDebt handles the new debt form.
func (h *Handlers) CreateDebt(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		h.renderDebts(w, r, http.StatusBadRequest, "Informe a descrição da dívida.")
		return
	}
	total, err := parseAmount(r.FormValue("total_value"))
	if err != nil || total <= 0 {
		h.renderDebts(w, r, http.StatusBadRequest, "Informe um valor maior que zero.")
		return
	}
	var paid float64
	if v := strings.TrimSpace(r.FormValue("paid_value")); v != "" {
		if paid, err = parseAmount(v); err != nil || paid < 0 {
			h.renderDebts(w, r, http.StatusBadRequest, "Valor pago inválido.")
			return
		}
	}
	due, err := parseDate(r.FormValue("due_date"))
	if err != nil {
		h.renderDebts(w, r, http.StatusBadRequest, "Data inválida.")
		return
	}

	d := &models.Debt{UserID: user.ID, Description: description, TotalValue: total, PaidValue: paid, DueDate: due}
	if err := h.db.CreateDebt(r.Context(), d); err != nil {
		if !errors.Is(err, storage.ErrInvalidTarget) {
			log.Printf("CreateDebt error: %v", err)
		}
		h.renderDebts(w, r, http.StatusBadRequest, storageMessage(err))
		return
	}
	h.redirect(w, r, "/debts")
}

// PayDebt records a payment against a debt.
func (h *Handlers) PayDebt(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid debt ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil || amount <= 0 {
		h.renderDebts(w, r, http.StatusBadRequest, "Informe um valor maior que zero.")
		return
	}

	if err := h.db.PayDebt(r.Context(), user.ID, id, amount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Debt not found", http.StatusNotFound)
			return
		}
		log.Printf("PayDebt error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/debts")
}

// DeleteDebt removes a debt.
func (h *Handlers) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid debt ID", http.StatusBadRequest)
		return
	}
	if err := h.db.DeleteDebt(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Debt not found", http.StatusNotFound)
			return
		}
		log.Printf("DeleteDebt error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/debts")
}
