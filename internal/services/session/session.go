// Package session owns the authentication token and the signed-in user's
// profile, and announces session lifecycle changes to the other stores.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/api"
	"github.com/gojetter/storefront/internal/models"
	"github.com/gojetter/storefront/internal/router"
	"github.com/gojetter/storefront/internal/storage"
)

// unverifiedEmailPhrase marks a login rejected because the account's email
// address still needs a one-time-password confirmation.
const unverifiedEmailPhrase = "email not verified"

const defaultLoginMessage = "Login failed"

// LoginError is a login rejected by the backend
type LoginError struct {
	Message string
}

// Error implements the error interface.
func (e *LoginError) Error() string {
	return e.Message
}

// LoginResult is what a login attempt signals back to the UI
type LoginResult struct {
	OTPRequired bool   `json:"otpRequired"`
	Message     string `json:"message,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Event is a session lifecycle change
type Event int

const (
	// EventLoggedIn follows a successful login
	EventLoggedIn Event = iota + 1
	// EventLoggedOut follows an explicit or forced logout
	EventLoggedOut
	// EventExpired follows the backend reporting the session as unauthorized
	EventExpired
)

// String returns the event name
func (e Event) String() string {
	switch e {
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	case EventExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Listener receives lifecycle events. Listeners run synchronously, after the
// session state has been updated.
type Listener func(ctx context.Context, ev Event)

// API is the subset of the backend client the session needs
type API interface {
	Get(ctx context.Context, path string, out any) (*api.Response, error)
	Post(ctx context.Context, path string, body, out any) (*api.Response, error)
}

// Storage is the durable local storage the session persists itself to
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Navigator receives navigation requests
type Navigator interface {
	Push(path string)
}

// Deps bundles the Store's collaborators
type Deps struct {
	API       API
	Storage   Storage
	Navigator Navigator
	Logger    *zap.Logger
}

// State is a snapshot of the session
type State struct {
	Token string          `json:"-"`
	User  *models.Profile `json:"user"`
}

// Store holds the session
type Store struct {
	api    API
	store  Storage
	nav    Navigator
	logger *zap.Logger

	mu        sync.RWMutex
	token     string
	user      *models.Profile
	listeners []Listener
}

// New creates the session store and hydrates it from local storage
func New(ctx context.Context, deps Deps) (*Store, error) {
	if deps.API == nil {
		return nil, errors.New("session: api is required")
	}
	if deps.Storage == nil {
		return nil, errors.New("session: storage is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Store{
		api:    deps.API,
		store:  deps.Storage,
		nav:    deps.Navigator,
		logger: deps.Logger.Named("session"),
	}
	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) error {
	token, _, err := s.store.GetItem(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrCorruptValue) {
		s.discardStored(ctx, storage.KeyToken, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load token: %w", err)
	}

	rawUser, ok, err := s.store.GetItem(ctx, storage.KeyUser)
	if errors.Is(err, storage.ErrCorruptValue) {
		s.discardStored(ctx, storage.KeyUser, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load user: %w", err)
	}
	var user *models.Profile
	if ok && rawUser != "" && rawUser != "null" {
		user = new(models.Profile)
		if err := json.Unmarshal([]byte(rawUser), user); err != nil {
			s.logger.Warn("discarding unreadable stored user", zap.Error(err))
			user = nil
		}
	}

	if exp, ok := TokenExpiry(token); ok && exp.Before(time.Now()) {
		s.logger.Warn("stored token has expired; keeping it until the backend rejects it",
			zap.Time("expired_at", exp))
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// discardStored starts without a session when a stored value cannot be opened,
// typically after the storage key changed.
func (s *Store) discardStored(ctx context.Context, key string, err error) {
	s.logger.Warn("discarding unreadable stored session", zap.String("key", key), zap.Error(err))
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear local storage", zap.Error(err))
	}
}

// Subscribe registers a lifecycle listener
func (s *Store) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Token returns the current token. Safe on a nil Store.
func (s *Store) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user's profile, or nil
func (s *Store) User() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// Authenticated reports whether a user is present. Token freshness is not
// checked.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Snapshot returns a copy of the session
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Token: s.token, User: s.user.Clone()}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login signs in with an email address or username.
func (s *Store) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	var profile models.Profile
	resp, err := s.api.Post(ctx, "/login", loginRequest{Login: identifier, Password: password}, &profile)
	if err != nil {
		msg := api.MessageOf(err)
		if isUnverifiedEmail(msg) {
			return LoginResult{
				OTPRequired: true,
				Message:     msg,
				Email:       otpEmail(resp, identifier),
			}, nil
		}

		s.clearUser()

		var be *api.BusinessError
		if errors.As(err, &be) {
			if msg == "" {
				msg = defaultLoginMessage
			}
			s.logger.Info("login rejected", zap.String("message", msg))
			return LoginResult{}, &LoginError{Message: msg}
		}

		s.logger.Error("login failed", zap.Error(err))
		return LoginResult{}, fmt.Errorf("session: login: %w", err)
	}

	user := profile.Clone()
	s.mu.Lock()
	s.user = user
	s.token = profile.Token
	s.mu.Unlock()

	s.persist(ctx, profile.Token, user)
	s.publish(ctx, EventLoggedIn)
	s.push(router.BookingRoute)

	return LoginResult{OTPRequired: false}, nil
}

// FetchUser refreshes the profile. Without a token it does nothing; on any
// failure the session is logged out.
func (s *Store) FetchUser(ctx context.Context) error {
	if s.Token() == "" {
		return nil
	}

	var profile models.Profile
	if _, err := s.api.Get(ctx, "/me", &profile); err != nil {
		s.logger.Warn("profile refresh failed; logging out", zap.Error(err))
		s.Logout(ctx)
		return fmt.Errorf("session: fetch user: %w", err)
	}

	user := profile.Clone()
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if err := s.writeUser(ctx, user); err != nil {
		s.logger.Warn("failed to persist user", zap.Error(err))
	}
	return nil
}

// Logout clears the session and local storage and returns to the home page
func (s *Store) Logout(ctx context.Context) {
	s.reset(ctx)
	s.publish(ctx, EventLoggedOut)
	s.push(router.HomeRoute)
}

// Expire is the forced variant used when the backend reports the session as
// unauthorized: same reset, but the client is sent to the login page.
func (s *Store) Expire(ctx context.Context) {
	s.reset(ctx)
	s.publish(ctx, EventExpired)
	s.push(router.LoginRoute)
}

func (s *Store) reset(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear local storage", zap.Error(err))
	}
}

func (s *Store) clearUser() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) persist(ctx context.Context, token string, user *models.Profile) {
	var err error
	if token == "" {
		err = s.store.RemoveItem(ctx, storage.KeyToken)
	} else {
		err = s.store.SetItem(ctx, storage.KeyToken, token)
	}
	if err != nil {
		s.logger.Warn("failed to persist token", zap.Error(err))
	}
	if err := s.writeUser(ctx, user); err != nil {
		s.logger.Warn("failed to persist user", zap.Error(err))
	}
}

func (s *Store) writeUser(ctx context.Context, user *models.Profile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.SetItem(ctx, storage.KeyUser, string(raw))
}

func (s *Store) publish(ctx context.Context, ev Event) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	s.logger.Debug("session event", zap.Stringer("event", ev))
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

func (s *Store) push(path string) {
	if s.nav != nil {
		s.nav.Push(path)
	}
}

func isUnverifiedEmail(msg string) bool {
	return msg != "" && strings.Contains(strings.ToLower(msg), unverifiedEmailPhrase)
}

func otpEmail(resp *api.Response, identifier string) string {
	if resp != nil && len(resp.Data) > 0 {
		var data struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(resp.Data, &data); err == nil && data.Email != "" {
			return data.Email
		}
	}
	return identifier
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Tokens that are not JWTs, or carry no exp, report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
