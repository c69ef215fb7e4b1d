package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"financeiro/internal/planner"
	"financeiro/internal/storage"
)

// FinancingsViewModel is the data passed to the financings template.
type FinancingsViewModel struct {
	Page
	Plans           []planner.Plan
	MaxInstallments int
}

// FinancingViewModel is the data passed to the single financing template.
type FinancingViewModel struct {
	Page
	Plan *planner.Plan
}

// ListFinancings renders the user's installment plans.
func (h *Handlers) ListFinancings(w http.ResponseWriter, r *http.Request) {
	h.renderFinancings(w, r, http.StatusOK, "")
}

func (h *Handlers) renderFinancings(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := GetUserFromContext(r)
	plans, err := h.plans.List(r.Context(), user.ID)
	if err != nil {
		log.Printf("List plans error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.renderStatus(w, r, status, "financings.html", FinancingsViewModel{
		Page:            Page{User: user, Error: errMsg},
		Plans:           plans,
		MaxInstallments: planner.MaxInstallments,
	})
}

// CreateFinancing splits the submitted total into installments.
func (h *Handlers) CreateFinancing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	total, err := parseAmount(r.FormValue("total_value"))
	if err != nil {
		h.renderFinancings(w, r, http.StatusBadRequest, "Informe um valor maior que zero.")
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("installments")))
	if err != nil {
		h.renderFinancings(w, r, http.StatusBadRequest, "Número de parcelas inválido.")
		return
	}

	id, err := h.plans.CreatePlan(r.Context(), user.ID, r.FormValue("name"), total, count)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, planner.ErrInvalidPlan) {
			log.Printf("CreatePlan error: %v", err)
			status = http.StatusInternalServerError
		}
		h.renderFinancings(w, r, status, storageMessage(err))
		return
	}
	h.redirect(w, r, fmt.Sprintf("/financings/%d", id))
}

// ShowFinancing renders one plan with its installments.
func (h *Handlers) ShowFinancing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid financing ID", http.StatusBadRequest)
		return
	}

	plan, err := h.plans.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Financing not found", http.StatusNotFound)
			return
		}
		log.Printf("Get plan error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "financing.html", FinancingViewModel{Page: Page{User: user}, Plan: plan})
}

// UpdateInstallment sets the paid flag and value of one installment.
func (h *Handlers) UpdateInstallment(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid installment ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	value, err := parseAmount(r.FormValue("value"))
	if err != nil || value < 0 {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}
	paid := r.FormValue("paid") != ""

	if err := h.plans.SetInstallment(r.Context(), user.ID, id, paid, value); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Installment not found", http.StatusNotFound)
			return
		}
		log.Printf("SetInstallment error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	target := "/financings"
	if fid, err := strconv.ParseInt(r.FormValue("financing_id"), 10, 64); err == nil && fid > 0 {
		target = fmt.Sprintf("/financings/%d", fid)
	}
	h.redirect(w, r, target)
}

// DeleteFinancing removes a plan and all of its installments.
func (h *Handlers) DeleteFinancing(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid financing ID", http.StatusBadRequest)
		return
	}
	if err := h.plans.DeletePlan(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Financing not found", http.StatusNotFound)
			return
		}
		log.Printf("DeletePlan error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/financings")
}
