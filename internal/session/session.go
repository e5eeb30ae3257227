// Package session owns the authenticated user state: who is logged in,
// the bearer token, and its persistence across restarts. The session
// file lives in ~/.config/gravity/session.toml unless overridden.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/mohdsalimkhatib/Gravity/internal/api"
)

const defaultSessionPath = "~/.config/gravity/session.toml"

// Profile is the cached identity of the logged-in user.
type Profile struct {
	Username string
	Email    string
	Roles    []string
}

// Result is the outcome of a login or register attempt. Failures carry
// the server's message when one was provided; the store never returns
// an error to its caller.
type Result struct {
	Success bool
	Error   string
}

// Authenticator is the slice of the backend the store needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (api.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) error
	SetToken(token string)
	ClearToken()
}

// Store holds the current session and mirrors it to durable storage.
type Store struct {
	mu      sync.RWMutex
	path    string
	client  Authenticator
	log     *zap.Logger
	token   string
	user    *Profile
	persist bool
	loading bool
}

// sessionFile is the on-disk shape of a remembered session.
type sessionFile struct {
	Token    string    `toml:"token"`
	Username string    `toml:"username"`
	Email    string    `toml:"email"`
	Roles    []string  `toml:"roles"`
	SavedAt  time.Time `toml:"saved_at"`
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// New builds a Store. Call Load before first use so a remembered
// session is visible to the first render.
func New(client Authenticator, path string, log *zap.Logger) *Store {
	if strings.TrimSpace(path) == "" {
		path = defaultSessionPath
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		path:    path,
		client:  client,
		log:     log,
		loading: true,
	}
}

// Load rehydrates the session from durable storage synchronously.
// Missing or unreadable files leave the store logged out; a remembered
// token that is already expired is discarded. Loading reports false
// once this returns.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	resolved, err := expandPath(s.path)
	if err != nil {
		return
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read session file", zap.Error(err))
		}
		return
	}

	var file sessionFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		s.log.Warn("parse session file", zap.Error(err))
		return
	}
	if strings.TrimSpace(file.Token) == "" {
		return
	}
	if tokenExpired(file.Token, time.Now()) {
		s.log.Info("discarding expired session", zap.String("username", file.Username))
		_ = os.Remove(resolved)
		return
	}

	s.token = file.Token
	s.user = &Profile{Username: file.Username, Email: file.Email, Roles: file.Roles}
	s.persist = true
	s.client.SetToken(file.Token)
}

// Login authenticates and, when rememberMe is set, persists the session
// for future runs. Network and auth failures become Result values.
func (s *Store) Login(ctx context.Context, username, password string, rememberMe bool) Result {
	resp, err := s.client.Login(ctx, username, password, rememberMe)
	if err != nil {
		return failure(err, "Login failed")
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &Profile{Username: resp.Username, Email: resp.Email, Roles: resp.Roles}
	s.persist = rememberMe
	s.mu.Unlock()

	s.client.SetToken(resp.Token)

	if rememberMe {
		if err := s.save(resp); err != nil {
			// The login itself succeeded; persistence is best effort.
			s.log.Warn("persist session", zap.Error(err))
		}
	}
	return Result{Success: true}
}

// Register creates an account. It does not log the new user in.
func (s *Store) Register(ctx context.Context, username, email, password string) Result {
	if err := s.client.Register(ctx, username, email, password); err != nil {
		return failure(err, "Registration failed")
	}
	return Result{Success: true}
}

// Logout clears the in-memory session and removes the session file.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	persisted := s.persist
	s.persist = false
	s.mu.Unlock()

	s.client.ClearToken()

	if persisted {
		if resolved, err := expandPath(s.path); err == nil {
			if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.log.Warn("remove session file", zap.Error(err))
			}
		}
	}
}

// IsAuthenticated reports whether a token is loaded.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile of the logged-in user, nil when
// logged out.
func (s *Store) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Roles = append([]string(nil), s.user.Roles...)
	return &u
}

// HasRole is a pure membership test over the cached role list; false
// when no user is loaded.
func (s *Store) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, r := range s.user.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Loading reports whether rehydration has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) save(resp api.LoginResponse) error {
	resolved, err := expandPath(s.path)
	if err != nil {
		return fmt.Errorf("resolve session path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := toml.Marshal(sessionFile{
		Token:    resp.Token,
		Username: resp.Username,
		Email:    resp.Email,
		Roles:    resp.Roles,
		SavedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// Tokens are credentials; keep the file owner-readable only.
	if err := os.WriteFile(resolved, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// tokenExpired does an unverified parse of the JWT exp claim. Signature
// verification is the backend's job; the client only wants to avoid
// rehydrating a session it knows is stale. Tokens without an exp claim,
// or that don't parse at all, are left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func failure(err error, fallback string) Result {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return Result{Error: apiErr.Message}
	}
	return Result{Error: fallback}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
