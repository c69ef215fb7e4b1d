package handlers

import (
	"encoding/json"
	"net/http"

	"financeiro/internal/models"
)

// CategoryStyle defines the visual style for a category.
type CategoryStyle struct {
	Icon  string
	Color string
}

var categoryStyles = map[string]CategoryStyle{
	"Salário":       {"💼", "#22c55e"},
	"Renda Extra":   {"💡", "#84cc16"},
	"Investimentos": {"📈", "#14b8a6"},
	"Alimentação":   {"🍽️", "#60a5fa"},
	"Moradia":       {"🏠", "#818cf8"},
	"Transporte":    {"🚌", "#a78bfa"},
	"Lazer":         {"🎮", "#f472b6"},
	"Dívidas":       {"💳", "#ef4444"},
	"Saúde":         {"🩺", "#fb7185"},
	"Educação":      {"📚", "#fbbf24"},
}

func getCategoryStyle(category string) CategoryStyle {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return CategoryStyle{Icon: "📦", Color: "#94a3b8"}
}

// CategoryOptions is the data passed to the category select fragment.
type CategoryOptions struct {
	Categories []string
	Selected   string
}

// formCategories lists the categories for the form's type, falling back to
// expenses when the submitted type is unknown.
func formCategories(typ string) []string {
	t, err := models.ParseTransactionType(typ)
	if err != nil {
		t = models.Expense
	}
	return models.Categories(t)
}

// Categories lists the categories allowed for the "type" query parameter.
// htmx requests from the transaction form get the <option> elements of the
// category select; anything else gets JSON.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseTransactionType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, "invalid type", http.StatusBadRequest)
		return
	}
	if isPartial(r) {
		h.render(w, r, "categories.html", CategoryOptions{
			Categories: models.Categories(t),
			Selected:   r.URL.Query().Get("category"),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Type       models.TransactionType `json:"type"`
		Categories []string               `json:"categories"`
	}{t, models.Categories(t)})
}
