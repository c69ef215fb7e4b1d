package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"financeiro/internal/config"
	"financeiro/internal/handlers"
	"financeiro/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	if _, err := os.Stat("../../web/templates"); os.IsNotExist(err) {
		t.Skip("Template directory not found, skipping router test")
	}

	h := handlers.NewHandlers(db, "../../web/templates", false)

	// setupRouter panics on conflicting patterns
	mux := setupRouter(h, "../../web/static")

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		allowAlt   []int
	}{
		{name: "Root redirects to /dashboard", method: "GET", path: "/", wantStatus: http.StatusFound},
		{name: "Static file access", method: "GET", path: "/static/style.css", wantStatus: http.StatusOK, allowAlt: []int{http.StatusNotFound}},
		{name: "Health check is public", method: "GET", path: "/healthz", wantStatus: http.StatusOK},
		{name: "Categories require auth", method: "GET", path: "/categories?type=Entrada", wantStatus: http.StatusFound},
		{name: "Login page is public", method: "GET", path: "/login", wantStatus: http.StatusOK},
		{name: "Register page is public", method: "GET", path: "/register", wantStatus: http.StatusOK},
		{name: "Dashboard requires auth", method: "GET", path: "/dashboard", wantStatus: http.StatusFound},
		{name: "Transactions require auth", method: "GET", path: "/transactions", wantStatus: http.StatusFound},
		{name: "Export requires auth", method: "GET", path: "/transactions/export.csv", wantStatus: http.StatusFound},
		{name: "Financing detail requires auth", method: "GET", path: "/financings/1", wantStatus: http.StatusFound},
		{name: "Installment update requires auth", method: "POST", path: "/installments/1", wantStatus: http.StatusFound},
		{name: "Unknown path", method: "GET", path: "/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if len(tt.allowAlt) > 0 {
				acceptableStatuses := append([]int{tt.wantStatus}, tt.allowAlt...)
				assert.Contains(t, acceptableStatuses, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			}
		})
	}
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{AdminUser: "ana", AdminPassword: "senha123", AdminName: "Ana"}
	require.NoError(t, bootstrapAdmin(ctx, db, cfg))

	user, err := db.GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.DisplayName)

	// a populated database is left alone
	cfg.AdminUser = "bruno"
	require.NoError(t, bootstrapAdmin(ctx, db, cfg))
	n, err := db.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBootstrapAdminDisabled(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, bootstrapAdmin(ctx, db, &config.Config{}))
	n, err := db.UserCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartSessionCleanup(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = startSessionCleanup(db, "not a schedule")
	assert.Error(t, err)

	c, err := startSessionCleanup(db, "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
