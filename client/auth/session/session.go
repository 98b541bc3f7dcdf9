package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amjido-01/webTray-sub001/client/auth/store"
	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var (
	// ErrNotLoggedIn is returned when an operation needs a token and none is held
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnknownStore is returned when selecting a store the user does not administer
	ErrUnknownStore = errors.New("store is not administered by the current user")
	// ErrIncompleteProfile is returned by CheckAuth when the backend answers without a user
	ErrIncompleteProfile = errors.New("profile response has no user")
)

// Session is the client-side authentication state. It is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	backend     Backend
	store       store.Store
	logger      zerolog.Logger
	now         func() time.Time
	token       *oauth2.Token
	user        *schema.User
	stores      []*schema.Store
	activeStore *schema.Store
	hasBusiness bool
	// epoch changes whenever the session identity is replaced (login, logout)
	epoch uint64

	hydrateOnce sync.Once
	hydrateErr  error
	hasHydrated atomic.Bool
	hydrated    chan struct{}
}

// New creates an empty, not yet hydrated session
func New(backend Backend, aStore store.Store, options ...Option) *Session {
	ret := &Session{
		backend:  backend,
		store:    aStore,
		logger:   log.Logger,
		now:      time.Now,
		hydrated: make(chan struct{}),
	}
	if ret.store == nil {
		ret.store = store.NewMemoryStore()
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Hydrate loads the persisted snapshot into memory. It runs once per Session;
// the hydration flag is set even when loading fails, leaving the session empty.
func (s *Session) Hydrate(ctx context.Context) error {
	s.hydrateOnce.Do(func() {
		snapshot, err := s.store.Load(ctx)
		s.mu.Lock()
		if err != nil {
			s.hydrateErr = fmt.Errorf("failed to load session: %w", err)
			s.logger.Warn().Err(err).Msg("session hydration failed, starting unauthenticated")
		} else if snapshot != nil {
			s.restore(snapshot)
		}
		s.mu.Unlock()
		s.hasHydrated.Store(true)
		close(s.hydrated)
	})
	return s.hydrateErr
}

// HasHydrated returns true once Hydrate completed
func (s *Session) HasHydrated() bool {
	return s.hasHydrated.Load()
}

// Hydrated returns a channel closed when Hydrate completes
func (s *Session) Hydrated() <-chan struct{} {
	return s.hydrated
}

// IsLoggedIn returns true if a non-empty access token is held
func (s *Session) IsLoggedIn() bool {
	return s.AccessToken() != ""
}

// AccessToken returns the current access token or empty string
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

func (s *Session) current() (string, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return "", s.epoch
	}
	return s.token.AccessToken, s.epoch
}

// Token returns a copy of the current token
func (s *Session) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneToken(s.token)
}

// State returns a copy of the session state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := State{
		Token:       cloneToken(s.token),
		User:        s.user.Clone(),
		Stores:      schema.CloneStores(s.stores),
		HasBusiness: s.hasBusiness,
		Hydrated:    s.HasHydrated(),
	}
	if s.activeStore != nil {
		ret.ActiveStore = schema.FindStore(ret.Stores, s.activeStore.ID)
	}
	return ret
}

// Login authenticates with credentials and replaces the session
func (s *Session) Login(ctx context.Context, credentials *schema.Credentials) error {
	result, err := s.backend.Login(ctx, credentials)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.token = s.newToken(result.AccessToken, result.RefreshToken, result.ExpiresIn)
	s.user = result.User.Clone()
	s.stores = schema.CloneStores(result.Stores)
	s.activeStore = nil
	if len(s.stores) > 0 {
		s.activeStore = s.stores[0]
	}
	s.hasBusiness = len(s.stores) > 0 || (s.user != nil && s.user.HasBusiness)
	s.persist(ctx)
	return nil
}

// CheckAuth validates the held token against the backend and refreshes user and stores.
// Without a token it returns false and makes no call. On failure the state is left untouched.
func (s *Session) CheckAuth(ctx context.Context) (bool, error) {
	accessToken, epoch := s.current()
	if accessToken == "" {
		return false, nil
	}
	profile, err := s.backend.Profile(ctx, accessToken)
	if err != nil {
		return false, fmt.Errorf("check auth: %w", err)
	}
	if profile == nil || profile.User == nil {
		return false, ErrIncompleteProfile
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// logged out or logged in again while the call was in flight
		return false, ErrNotLoggedIn
	}
	s.user = profile.User.Clone()
	s.stores = schema.CloneStores(profile.Stores)
	var activeID string
	if s.activeStore != nil {
		activeID = s.activeStore.ID
	}
	s.activeStore = schema.FindStore(s.stores, activeID)
	if s.activeStore == nil && len(s.stores) > 0 {
		s.activeStore = s.stores[0]
	}
	s.hasBusiness = s.user.HasBusiness || len(s.stores) > 0
	s.persist(ctx)
	return true, nil
}

// RefreshToken exchanges the current session for a new access token.
// On failure the session is unchanged so the caller can decide to Logout.
func (s *Session) RefreshToken(ctx context.Context) error {
	s.mu.RLock()
	var refreshToken string
	if s.token != nil {
		refreshToken = s.token.RefreshToken
	}
	epoch := s.epoch
	s.mu.RUnlock()
	result, err := s.backend.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrNotLoggedIn
	}
	token := s.newToken(result.AccessToken, result.RefreshToken, result.ExpiresIn)
	if token.RefreshToken == "" && s.token != nil {
		token.RefreshToken = s.token.RefreshToken
	}
	s.token = token
	s.persist(ctx)
	return nil
}

// Logout clears the session locally, then informs the backend.
// The local clear happens regardless of the backend outcome.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	var accessToken string
	if s.token != nil {
		accessToken = s.token.AccessToken
	}
	s.epoch++
	s.token = nil
	s.user = nil
	s.stores = nil
	s.activeStore = nil
	s.hasBusiness = false
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.mu.Unlock()

	if accessToken == "" {
		return nil
	}
	if err := s.backend.Logout(ctx, accessToken); err != nil {
		s.logger.Info().Err(err).Msg("backend logout failed, local session cleared")
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SetHasBusiness records whether the user completed business onboarding
func (s *Session) SetHasBusiness(hasBusiness bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasBusiness = hasBusiness
	if s.user != nil {
		s.user.HasBusiness = hasBusiness
	}
	s.persist(context.Background())
}

// SetActiveStore selects the store dashboard operations act on; nil clears the selection
func (s *Session) SetActiveStore(aStore *schema.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if aStore == nil {
		s.activeStore = nil
		s.persist(context.Background())
		return nil
	}
	found := schema.FindStore(s.stores, aStore.ID)
	if found == nil {
		return fmt.Errorf("%w: %v", ErrUnknownStore, aStore.ID)
	}
	s.activeStore = found
	s.persist(context.Background())
	return nil
}

// ActiveStore returns a copy of the selected store
func (s *Session) ActiveStore() *schema.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeStore.Clone()
}

// User returns a copy of the authenticated user
func (s *Session) User() *schema.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Session) restore(snapshot *store.Snapshot) {
	s.token = cloneToken(snapshot.Token)
	s.user = snapshot.User.Clone()
	s.stores = schema.CloneStores(snapshot.Stores)
	s.activeStore = schema.FindStore(s.stores, snapshot.ActiveStoreID)
	s.hasBusiness = snapshot.HasBusiness
}

func (s *Session) snapshot() *store.Snapshot {
	ret := &store.Snapshot{
		Version:     store.Version,
		Token:       cloneToken(s.token),
		User:        s.user.Clone(),
		Stores:      schema.CloneStores(s.stores),
		HasBusiness: s.hasBusiness,
		UpdatedAt:   s.now().UTC(),
	}
	if s.activeStore != nil {
		ret.ActiveStoreID = s.activeStore.ID
	}
	return ret
}

// persist saves the current state; callers hold the write lock so saves keep mutation order.
// Failures are logged only: the in-memory state stays authoritative.
func (s *Session) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}
