package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"financeiro/internal/auth"
)

// LoginViewModel is the data passed to the login template.
type LoginViewModel struct {
	Page
	Username string
}

// RegisterViewModel is the data passed to the register template.
type RegisterViewModel struct {
	Page
	Username    string
	DisplayName string
}

// LoginPage renders the login page. A browser holding a live session goes
// straight to the dashboard unless it has just logged out.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(LogoutCookieName); err == nil {
		h.clearLogoutMarker(w)
	} else if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, _, err := h.auth.ResolveSession(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}

	vm := LoginViewModel{}
	if r.URL.Query().Get("registered") == "1" {
		vm.Notice = "Conta criada. Faça login para continuar."
	}
	h.render(w, r, "login.html", vm)
}

// Login handles login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "login.html", LoginViewModel{Page: Page{Error: "Formulário inválido."}})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		vm := LoginViewModel{Username: username, Page: Page{Error: "Usuário ou senha incorretos."}}
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Printf("Authenticate error: %v", err)
			vm.Error = msgInternal
			status = http.StatusInternalServerError
		}
		h.renderStatus(w, r, status, "login.html", vm)
		return
	}

	sess, err := h.auth.IssueSession(r.Context(), user)
	if err != nil {
		log.Printf("IssueSession error: %v", err)
		h.renderStatus(w, r, http.StatusInternalServerError, "login.html", LoginViewModel{Username: username, Page: Page{Error: msgInternal}})
		return
	}

	h.setSessionCookie(w, sess)
	h.clearLogoutMarker(w)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// RegisterPage renders the account creation form.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", RegisterViewModel{})
}

// Register creates an account and sends the user to the login page.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "register.html", RegisterViewModel{Page: Page{Error: "Formulário inválido."}})
		return
	}

	vm := RegisterViewModel{
		Username:    strings.TrimSpace(r.FormValue("username")),
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
	}
	password := r.FormValue("password")

	if confirm := r.FormValue("confirm"); confirm != "" && confirm != password {
		vm.Error = "As senhas não conferem."
		h.renderStatus(w, r, http.StatusBadRequest, "register.html", vm)
		return
	}

	_, err := h.auth.Register(r.Context(), vm.Username, password, vm.DisplayName)
	switch {
	case err == nil:
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
	case errors.Is(err, auth.ErrDuplicateUsername):
		vm.Error = "Este nome de usuário já está em uso."
		h.renderStatus(w, r, http.StatusConflict, "register.html", vm)
	case errors.Is(err, auth.ErrInvalidCredentials):
		vm.Error = "Informe usuário e senha."
		h.renderStatus(w, r, http.StatusBadRequest, "register.html", vm)
	default:
		log.Printf("Register error: %v", err)
		vm.Error = msgInternal
		h.renderStatus(w, r, http.StatusInternalServerError, "register.html", vm)
	}
}

// Logout revokes the session so the old cookie can no longer be used.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.auth.RevokeSession(r.Context(), cookie.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	h.clearSessionCookie(w)
	http.SetCookie(w, &http.Cookie{
		Name:     LogoutCookieName,
		Value:    "1",
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) clearLogoutMarker(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     LogoutCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
