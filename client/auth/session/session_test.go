package session_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/amjido-01/webTray-sub001/client/auth/session"
	"github.com/amjido-01/webTray-sub001/client/auth/store"
	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeBackend is a scripted Backend; nil funcs fall back to defaults
type fakeBackend struct {
	mu           sync.Mutex
	profileCalls int
	refreshCalls int
	logoutCalls  int
	loggedOut    []string
	profileErr   error
	refreshErr   error
	logoutErr    error
	loginErr     error
	profile      *schema.Profile
	refreshed    *schema.RefreshResult
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		profile: &schema.Profile{
			User: &schema.User{ID: "u1", Email: "ada@example.com", FirstName: "Ada", HasBusiness: true},
			Stores: []*schema.Store{
				{ID: "s1", Name: "Corner Shop"},
				{ID: "s2", Name: "Market Stall"},
			},
		},
		refreshed: &schema.RefreshResult{AccessToken: "access-2", ExpiresIn: 3600},
	}
}

func (f *fakeBackend) Login(_ context.Context, credentials *schema.Credentials) (*schema.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &schema.LoginResult{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    900,
		User:         &schema.User{ID: "u1", Email: credentials.Email},
		Stores:       []*schema.Store{{ID: "s1", Name: "Corner Shop"}},
	}, nil
}

func (f *fakeBackend) Profile(_ context.Context, accessToken string) (*schema.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &schema.Profile{User: f.profile.User.Clone(), Stores: schema.CloneStores(f.profile.Stores)}, nil
}

func (f *fakeBackend) Refresh(_ context.Context, refreshToken string) (*schema.RefreshResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	ret := *f.refreshed
	return &ret, nil
}

func (f *fakeBackend) Logout(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.loggedOut = append(f.loggedOut, accessToken)
	return f.logoutErr
}

// failingStore loads nothing and fails every write
type failingStore struct{}

func (failingStore) Load(context.Context) (*store.Snapshot, error) { return nil, nil }
func (failingStore) Save(context.Context, *store.Snapshot) error {
	return errors.New("disk full")
}
func (failingStore) Clear(context.Context) error { return errors.New("disk full") }

type brokenStore struct{ failingStore }

func (brokenStore) Load(context.Context) (*store.Snapshot, error) {
	return nil, store.ErrCorrupt
}

var testCredentials = &schema.Credentials{Email: "ada@example.com", Password: "secret"}

func newTestSession(t *testing.T, backend session.Backend, aStore store.Store) *session.Session {
	t.Helper()
	s := session.New(backend, aStore, session.WithLogger(zerolog.Nop()))
	require.NoError(t, s.Hydrate(context.Background()))
	return s
}

func TestSession_FreshProcess(t *testing.T) {
	backend := newFakeBackend()
	s := session.New(backend, store.NewMemoryStore(), session.WithLogger(zerolog.Nop()))
	assert.False(t, s.HasHydrated())

	require.NoError(t, s.Hydrate(context.Background()))
	assert.True(t, s.HasHydrated())
	select {
	case <-s.Hydrated():
	default:
		t.Fatal("hydrated channel not closed")
	}
	assert.False(t, s.IsLoggedIn())

	ok, err := s.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 0, backend.profileCalls, "no backend call without a token")
}

func TestSession_HydrateOnce(t *testing.T) {
	ctx := context.Background()
	aStore := store.NewMemoryStore()
	s := newTestSession(t, newFakeBackend(), aStore)

	other := newTestSession(t, newFakeBackend(), aStore)
	require.NoError(t, other.Login(ctx, testCredentials))

	require.NoError(t, s.Hydrate(ctx))
	assert.False(t, s.IsLoggedIn(), "second hydrate must not reload")
}

func TestSession_HydrateFailure(t *testing.T) {
	s := session.New(newFakeBackend(), brokenStore{}, session.WithLogger(zerolog.Nop()))
	err := s.Hydrate(context.Background())
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.True(t, s.HasHydrated())
	assert.False(t, s.IsLoggedIn())
}

func TestSession_Login(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := session.New(newFakeBackend(), nil, session.WithLogger(zerolog.Nop()), session.WithClock(func() time.Time { return now }))
	require.NoError(t, s.Login(context.Background(), testCredentials))

	state := s.State()
	assert.Equal(t, "access-1", state.AccessToken())
	assert.Equal(t, "refresh-1", state.Token.RefreshToken)
	assert.Equal(t, now.Add(15*time.Minute), state.Token.Expiry)
	assert.Equal(t, "ada@example.com", state.User.Email)
	require.NotNil(t, state.ActiveStore)
	assert.Equal(t, "s1", state.ActiveStore.ID)
	assert.True(t, state.HasBusiness)
}

func TestSession_LoginFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.loginErr = errors.New("invalid credentials")
	s := newTestSession(t, backend, nil)
	err := s.Login(context.Background(), testCredentials)
	assert.ErrorContains(t, err, "invalid credentials")
	assert.False(t, s.IsLoggedIn())
}

func TestSession_CheckAuth(t *testing.T) {
	var testCases = []struct {
		description string
		profileErr  error
		expectOK    bool
		expectUser  string
		expectCount int
	}{
		{description: "backend confirms identity", expectOK: true, expectUser: "ada@example.com", expectCount: 2},
		{description: "backend rejects", profileErr: errors.New("401 unauthorized"), expectOK: false, expectUser: "ada@example.com", expectCount: 1},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			backend := newFakeBackend()
			s := newTestSession(t, backend, nil)
			require.NoError(t, s.Login(context.Background(), testCredentials))
			backend.profileErr = testCase.profileErr

			ok, err := s.CheckAuth(context.Background())
			assert.Equal(t, testCase.expectOK, ok)
			if testCase.profileErr != nil {
				assert.ErrorIs(t, err, testCase.profileErr)
			} else {
				assert.NoError(t, err)
			}
			state := s.State()
			assert.Equal(t, testCase.expectUser, state.User.Email)
			assert.Len(t, state.Stores, testCase.expectCount)
			assert.True(t, s.IsLoggedIn(), "check auth never logs out")
		})
	}
}

func TestSession_CheckAuthRejectsProfileWithoutUser(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend, nil)
	require.NoError(t, s.Login(context.Background(), testCredentials))
	before := s.State()
	backend.profile.User = nil
	backend.profile.Stores = nil

	ok, err := s.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, session.ErrIncompleteProfile)
	after := s.State()
	assert.Equal(t, before.User, after.User)
	assert.Equal(t, before.Stores, after.Stores)
	assert.True(t, after.HasBusiness)
	assert.True(t, s.IsLoggedIn())
}

func TestSession_CheckAuthKeepsActiveStore(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend, nil)
	require.NoError(t, s.Login(context.Background(), testCredentials))
	_, err := s.CheckAuth(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.SetActiveStore(&schema.Store{ID: "s2"}))

	_, err = s.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s2", s.ActiveStore().ID)

	backend.profile.Stores = backend.profile.Stores[:1]
	_, err = s.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ActiveStore().ID, "falls back to first store when the active one disappeared")
}

func TestSession_CheckAuthIdempotent(t *testing.T) {
	s := newTestSession(t, newFakeBackend(), nil)
	require.NoError(t, s.Login(context.Background(), testCredentials))

	_, err := s.CheckAuth(context.Background())
	require.NoError(t, err)
	first := s.State()
	_, err = s.CheckAuth(context.Background())
	require.NoError(t, err)
	second := s.State()

	assert.Equal(t, first.User, second.User)
	assert.Equal(t, first.Stores, second.Stores)
	assert.Equal(t, first.ActiveStore, second.ActiveStore)
}

func TestSession_RefreshToken(t *testing.T) {
	t.Run("success keeps refresh token", func(t *testing.T) {
		s := newTestSession(t, newFakeBackend(), nil)
		require.NoError(t, s.Login(context.Background(), testCredentials))
		require.NoError(t, s.RefreshToken(context.Background()))
		token := s.Token()
		assert.Equal(t, "access-2", token.AccessToken)
		assert.Equal(t, "refresh-1", token.RefreshToken)
	})
	t.Run("failure leaves state", func(t *testing.T) {
		backend := newFakeBackend()
		backend.refreshErr = errors.New("refresh expired")
		s := newTestSession(t, backend, nil)
		require.NoError(t, s.Login(context.Background(), testCredentials))
		err := s.RefreshToken(context.Background())
		assert.ErrorIs(t, err, backend.refreshErr)
		assert.Equal(t, "access-1", s.AccessToken())
	})
	t.Run("expiry from jwt claim", func(t *testing.T) {
		exp := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).SignedString([]byte("k"))
		require.NoError(t, err)
		backend := newFakeBackend()
		backend.refreshed = &schema.RefreshResult{AccessToken: signed}
		s := newTestSession(t, backend, nil)
		require.NoError(t, s.RefreshToken(context.Background()))
		assert.True(t, exp.Equal(s.Token().Expiry))
	})
}

func TestSession_Logout(t *testing.T) {
	var testCases = []struct {
		description string
		logoutErr   error
	}{
		{description: "backend accepts"},
		{description: "backend fails", logoutErr: errors.New("connection refused")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			backend := newFakeBackend()
			backend.logoutErr = testCase.logoutErr
			aStore := store.NewMemoryStore()
			s := newTestSession(t, backend, aStore)
			require.NoError(t, s.Login(ctx, testCredentials))

			err := s.Logout(ctx)
			if testCase.logoutErr != nil {
				assert.ErrorIs(t, err, testCase.logoutErr)
			} else {
				assert.NoError(t, err)
			}
			state := s.State()
			assert.False(t, s.IsLoggedIn())
			assert.Nil(t, state.User)
			assert.Nil(t, state.Stores)
			assert.Nil(t, state.ActiveStore)
			assert.Equal(t, []string{"access-1"}, backend.loggedOut)

			persisted, err := aStore.Load(ctx)
			assert.NoError(t, err)
			assert.Nil(t, persisted)
		})
	}
}

func TestSession_LogoutWithoutToken(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend, nil)
	assert.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, 0, backend.logoutCalls)
}

func TestSession_SetActiveStore(t *testing.T) {
	s := newTestSession(t, newFakeBackend(), nil)
	require.NoError(t, s.Login(context.Background(), testCredentials))

	err := s.SetActiveStore(&schema.Store{ID: "elsewhere"})
	assert.ErrorIs(t, err, session.ErrUnknownStore)
	assert.Equal(t, "s1", s.ActiveStore().ID)

	require.NoError(t, s.SetActiveStore(nil))
	assert.Nil(t, s.ActiveStore())
}

func TestSession_SetHasBusiness(t *testing.T) {
	aStore := store.NewMemoryStore()
	s := newTestSession(t, newFakeBackend(), aStore)
	require.NoError(t, s.Login(context.Background(), testCredentials))
	s.SetHasBusiness(false)
	assert.False(t, s.State().HasBusiness)
	assert.False(t, s.User().HasBusiness)

	persisted, err := aStore.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, persisted.HasBusiness)
}

func TestSession_PersistenceFailureIsNotFatal(t *testing.T) {
	s := newTestSession(t, newFakeBackend(), failingStore{})
	require.NoError(t, s.Login(context.Background(), testCredentials))
	assert.True(t, s.IsLoggedIn())
	require.NoError(t, s.SetActiveStore(&schema.Store{ID: "s1"}))
	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsLoggedIn())
}

func TestSession_PersistRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	aStore := store.NewMemoryStore()
	s := newTestSession(t, newFakeBackend(), aStore)
	require.NoError(t, s.Login(ctx, testCredentials))
	_, err := s.CheckAuth(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetActiveStore(&schema.Store{ID: "s2"}))
	expected := s.State()

	restored := newTestSession(t, newFakeBackend(), aStore)
	actual := restored.State()
	assert.Equal(t, expected.AccessToken(), actual.AccessToken())
	assert.Equal(t, expected.Token.RefreshToken, actual.Token.RefreshToken)
	assert.True(t, expected.Token.Expiry.Equal(actual.Token.Expiry))
	assert.Equal(t, expected.User, actual.User)
	assert.Equal(t, expected.Stores, actual.Stores)
	assert.Equal(t, expected.ActiveStore, actual.ActiveStore)
	assert.True(t, actual.Hydrated)
}

func TestSession_RestoredTokenIsValidated(t *testing.T) {
	ctx := context.Background()
	aStore := store.NewMemoryStore()
	require.NoError(t, aStore.Save(ctx, &store.Snapshot{
		Token: &oauth2.Token{AccessToken: "persisted"},
		User:  &schema.User{ID: "u1", Email: "stale@example.com"},
	}))
	backend := newFakeBackend()
	s := newTestSession(t, backend, aStore)
	assert.Equal(t, "stale@example.com", s.User().Email)

	ok, err := s.CheckAuth(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com", s.User().Email)
	assert.Len(t, s.State().Stores, 2)
}

// TestSession_IsLoggedInProperty applies random mutation sequences and checks that
// IsLoggedIn follows the last token-setting mutation and any later logout.
func TestSession_IsLoggedInProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("sequence %d", i), func(t *testing.T) {
			ctx := context.Background()
			backend := newFakeBackend()
			s := newTestSession(t, backend, nil)
			expected := false
			for step := 0; step < 20; step++ {
				switch rnd.Intn(6) {
				case 0:
					require.NoError(t, s.Login(ctx, testCredentials))
					expected = true
				case 1:
					backend.refreshErr = nil
					if rnd.Intn(2) == 0 {
						backend.refreshErr = errors.New("refresh rejected")
					}
					if err := s.RefreshToken(ctx); err == nil {
						expected = true
					}
				case 2:
					_ = s.Logout(ctx)
					expected = false
				case 3:
					_, _ = s.CheckAuth(ctx)
				case 4:
					s.SetHasBusiness(rnd.Intn(2) == 0)
				case 5:
					_ = s.SetActiveStore(&schema.Store{ID: "s1"})
				}
				assert.Equal(t, expected, s.IsLoggedIn(), "step %d", step)
			}
		})
	}
}
