package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"financeiro/internal/auth"
	"financeiro/internal/config"
	"financeiro/internal/handlers"
	"financeiro/internal/storage"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := bootstrapAdmin(context.Background(), db, cfg); err != nil {
		log.Fatalf("Failed to create initial user: %v", err)
	}

	scheduler, err := startSessionCleanup(db, cfg.SessionCleanupSpec)
	if err != nil {
		log.Fatalf("Invalid session cleanup schedule %q: %v", cfg.SessionCleanupSpec, err)
	}

	h := handlers.NewHandlers(db, cfg.TemplateDir, cfg.SecureCookie)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h, cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Public routes
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /logout", h.Logout)

	// Protected routes
	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /dashboard", protected(h.Dashboard))
	mux.Handle("GET /categories", protected(h.Categories))

	mux.Handle("GET /transactions", protected(h.ListTransactions))
	mux.Handle("POST /transactions", protected(h.CreateTransaction))
	mux.Handle("POST /transactions/{id}/delete", protected(h.DeleteTransaction))
	mux.Handle("GET /transactions/export.csv", protected(h.ExportCSV))
	mux.Handle("GET /transactions/export.xlsx", protected(h.ExportXLSX))

	mux.Handle("GET /goals", protected(h.ListGoals))
	mux.Handle("POST /goals", protected(h.CreateGoal))
	mux.Handle("POST /goals/{id}/contribute", protected(h.ContributeGoal))
	mux.Handle("POST /goals/{id}/delete", protected(h.DeleteGoal))

	mux.Handle("GET /debts", protected(h.ListDebts))
	mux.Handle("POST /debts", protected(h.CreateDebt))
	mux.Handle("POST /debts/{id}/pay", protected(h.PayDebt))
	mux.Handle("POST /debts/{id}/delete", protected(h.DeleteDebt))

	mux.Handle("GET /financings", protected(h.ListFinancings))
	mux.Handle("POST /financings", protected(h.CreateFinancing))
	mux.Handle("GET /financings/{id}", protected(h.ShowFinancing))
	mux.Handle("POST /financings/{id}/delete", protected(h.DeleteFinancing))
	mux.Handle("POST /installments/{id}", protected(h.UpdateInstallment))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	return mux
}

// bootstrapAdmin creates the configured user on an empty database.
func bootstrapAdmin(ctx context.Context, db *storage.DB, cfg *config.Config) error {
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil
	}
	n, err := db.UserCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	user, err := auth.New(db).Register(ctx, cfg.AdminUser, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return err
	}
	log.Printf("Created initial user %s", user.Username)
	return nil
}

// startSessionCleanup purges expired sessions on the given cron schedule.
func startSessionCleanup(db *storage.DB, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := db.CleanExpiredSessions(ctx)
		if err != nil {
			log.Printf("CleanExpiredSessions error: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Removed %d expired sessions", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
