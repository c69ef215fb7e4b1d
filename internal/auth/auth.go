package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"financeiro/internal/models"
	"financeiro/internal/storage"
)

// SessionDuration is how long a session lasts without renewal.
const SessionDuration = 5 * 24 * time.Hour

var (
	// ErrInvalidCredentials covers unknown usernames, wrong passwords and
	// empty input alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNoSession is returned for unknown, expired or revoked tokens.
	ErrNoSession = errors.New("no session")
)

// Store is the persistence the authenticator needs.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash, displayName string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	ValidateSessionWithInfo(ctx context.Context, token string) (*storage.SessionInfo, error)
	RenewSession(ctx context.Context, token string, newExpiresAt time.Time) error
	DeleteSession(ctx context.Context, token string) error
}

// Authenticator registers users and manages their sessions.
type Authenticator struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// New returns an Authenticator issuing sessions of SessionDuration.
func New(store Store) *Authenticator {
	return &Authenticator{store: store, ttl: SessionDuration, now: time.Now}
}

// Session is an issued session token.
type Session struct {
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

// Register creates a user with a bcrypt hash of password.
func (a *Authenticator) Register(ctx context.Context, username, password, displayName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := a.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.store.CreateUser(ctx, username, hash, strings.TrimSpace(displayName))
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks username and password. Any failure to match is
// reported as ErrInvalidCredentials; only storage errors differ.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession creates a persisted session for user.
func (a *Authenticator) IssueSession(ctx context.Context, user *models.User) (*Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	expiresAt := a.now().Add(a.ttl)
	if err := a.store.CreateSession(ctx, token, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// ResolveSession returns the session for token. Sessions in the second half
// of their lifetime are renewed; renewed reports whether that happened so
// the caller can refresh the cookie.
func (a *Authenticator) ResolveSession(ctx context.Context, token string) (sess *Session, renewed bool, err error) {
	if token == "" {
		return nil, false, ErrNoSession
	}
	info, err := a.store.ValidateSessionWithInfo(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, ErrNoSession
	}
	if err != nil {
		return nil, false, fmt.Errorf("validate session: %w", err)
	}

	sess = &Session{Token: token, User: info.User, ExpiresAt: info.ExpiresAt}

	now := a.now()
	if info.ExpiresAt.Sub(now) < a.ttl/2 {
		newExpiresAt := now.Add(a.ttl)
		// if renewal fails the current session is still valid
		if err := a.store.RenewSession(ctx, token, newExpiresAt); err == nil {
			sess.ExpiresAt = newExpiresAt
			renewed = true
		}
	}
	return sess, renewed, nil
}

// RevokeSession deletes the session server-side. A stale copy of the token
// no longer resolves afterwards.
func (a *Authenticator) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.store.DeleteSession(ctx, token)
}
