package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"financeiro/internal/models"
	"financeiro/internal/storage"
)

// GoalItem is a goal with its progress precomputed for the template.
type GoalItem struct {
	models.Goal
	Progress  float64
	Remaining float64
	Reached   bool
}

// GoalsViewModel is the data passed to the goals template.
type GoalsViewModel struct {
	Page
	Goals []GoalItem
}

// ListGoals renders the user's savings goals.
func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	h.renderGoals(w, r, http.StatusOK, "")
}

func (h *Handlers) renderGoals(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := GetUserFromContext(r)
	goals, err := h.db.ListGoals(r.Context(), user.ID)
	if err != nil {
		log.Printf("ListGoals error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]GoalItem, 0, len(goals))
	for _, g := range goals {
		items = append(items, GoalItem{
			Goal:      g,
			Progress:  g.Progress(),
			Remaining: max(g.TargetValue-g.CurrentValue, 0),
			Reached:   g.CurrentValue >= g.TargetValue,
		})
	}
	h.renderStatus(w, r, status, "goals.html", GoalsViewModel{Page: Page{User: user, Error: errMsg}, Goals: items})
}

// CreateGoal handles the new goal form.
func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		h.renderGoals(w, r, http.StatusBadRequest, "Informe o nome da meta.")
		return
	}
	target, err := parseAmount(r.FormValue("target_value"))
	if err != nil || target <= 0 {
		h.renderGoals(w, r, http.StatusBadRequest, "Informe um valor maior que zero.")
		return
	}
	var current float64
	if v := strings.TrimSpace(r.FormValue("current_value")); v != "" {
		if current, err = parseAmount(v); err != nil || current < 0 {
			h.renderGoals(w, r, http.StatusBadRequest, "Valor inicial inválido.")
			return
		}
	}
	deadline, err := parseDate(r.FormValue("deadline"))
	if err != nil {
		h.renderGoals(w, r, http.StatusBadRequest, "Data inválida.")
		return
	}

	g := &models.Goal{UserID: user.ID, Title: title, TargetValue: target, CurrentValue: current, Deadline: deadline}
	if err := h.db.CreateGoal(r.Context(), g); err != nil {
		if !errors.Is(err, storage.ErrInvalidTarget) {
			log.Printf("CreateGoal error: %v", err)
		}
		h.renderGoals(w, r, http.StatusBadRequest, storageMessage(err))
		return
	}
	h.redirect(w, r, "/goals")
}

// ContributeGoal adds an amount to a goal's saved value.
func (h *Handlers) ContributeGoal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil || amount <= 0 {
		h.renderGoals(w, r, http.StatusBadRequest, "Informe um valor maior que zero.")
		return
	}

	if err := h.db.ContributeToGoal(r.Context(), user.ID, id, amount); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		log.Printf("ContributeToGoal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/goals")
}

// DeleteGoal removes a goal.
func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}
	if err := h.db.DeleteGoal(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		log.Printf("DeleteGoal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/goals")
}
