package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"financeiro/internal/auth"
	"financeiro/internal/models"
	"financeiro/internal/money"
	"financeiro/internal/planner"
	"financeiro/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "financeiro_user"
	// LogoutCookieName marks a browser that has just logged out.
	LogoutCookieName = "financeiro_logout"

	dateLayout = "2006-01-02"

	msgInternal = "Ocorreu um erro. Tente novamente."
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	auth         *auth.Authenticator
	plans        *planner.Service
	templateDir  string
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, templateDir string, secureCookie bool) *Handlers {
	return &Handlers{
		db:           db,
		auth:         auth.New(db),
		plans:        planner.NewService(db),
		templateDir:  templateDir,
		secureCookie: secureCookie,
	}
}

// Page carries what every view needs.
type Page struct {
	User   *models.User
	Error  string
	Notice string
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication. Sessions past
// half their lifetime are renewed and the cookie refreshed.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			h.redirectToLogin(w, r)
			return
		}

		sess, renewed, err := h.auth.ResolveSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				log.Printf("ResolveSession error: %v", err)
			}
			h.clearSessionCookie(w)
			h.redirectToLogin(w, r)
			return
		}
		if renewed {
			h.setSessionCookie(w, sess)
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sess.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Health reports whether the database answers, for readiness checks.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		log.Printf("Ping error: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// isPartial reports an htmx request that swaps a fragment. Boosted links
// and forms swap the whole body and get full pages.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}

func (h *Handlers) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isPartial(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, sess *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// redirect sends the browser to path after a successful form post.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isPartial(r) {
		w.Header().Set("HX-Location", fmt.Sprintf(`{"path":%q, "target":"#content"}`, path))
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

var monthNames = [...]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

var funcs = template.FuncMap{
	"brl": money.Format,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006")
	},
	"isoDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(dateLayout)
	},
	"percent": func(f float64) string {
		return strconv.FormatFloat(f*100, 'f', 0, 64) + "%"
	},
	"monthName": monthName,
	"income":    func(t models.TransactionType) bool { return t == models.Income },
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	h.renderStatus(w, r, http.StatusOK, viewName, data)
}

func (h *Handlers) renderStatus(w http.ResponseWriter, r *http.Request, status int, viewName string, data any) {
	tmpl, err := template.New("base.html").Funcs(funcs).ParseFiles(
		filepath.Join(h.templateDir, "base.html"),
		filepath.Join(h.templateDir, viewName),
	)
	if err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if isPartial(r) {
		target = "content"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		log.Printf("Template execution error: %v", err)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD form value; empty input yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func parseAmount(s string) (float64, error) {
	return money.Parse(s)
}

// monthParam reads year and month from the query, defaulting to the current month.
func monthParam(r *http.Request) (int, time.Month) {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

// MonthNav links a month view to its neighbours.
type MonthNav struct {
	Year, PrevYear, NextYear    int
	Month, PrevMonth, NextMonth int
	MonthName                   string
	IsCurrentMonth              bool
}

func newMonthNav(year int, month time.Month) MonthNav {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	now := time.Now()
	return MonthNav{
		Year:           year,
		Month:          int(month),
		MonthName:      monthName(month),
		PrevYear:       prev.Year(),
		PrevMonth:      int(prev.Month()),
		NextYear:       next.Year(),
		NextMonth:      int(next.Month()),
		IsCurrentMonth: year == now.Year() && month == now.Month(),
	}
}

// storageMessage maps storage errors to what the user sees.
func storageMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "Registro não encontrado."
	case errors.Is(err, models.ErrInvalidCategory):
		return "Categoria inválida para o tipo selecionado."
	case errors.Is(err, models.ErrInvalidType):
		return "Tipo inválido."
	case errors.Is(err, storage.ErrInvalidValue), errors.Is(err, storage.ErrInvalidTarget):
		return "Informe um valor maior que zero."
	case errors.Is(err, planner.ErrInvalidPlan):
		return fmt.Sprintf("Financiamento inválido: informe nome, valor e de 1 a %d parcelas.", planner.MaxInstallments)
	}
	return msgInternal
}
