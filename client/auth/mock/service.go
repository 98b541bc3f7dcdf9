package mock

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/amjido-01/webTray-sub001/internal/collection"
	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/google/uuid"
)

// RefreshCookie is the name of the http-only refresh cookie
const RefreshCookie = "webtray_refresh"

type account struct {
	password string
	user     *schema.User
	stores   []*schema.Store
}

// Counters reports how many times each endpoint was hit
type Counters struct {
	Logins    int32
	Refreshes int32
	Profiles  int32
	Logouts   int32
	Resources int32
}

// Backend is the mock webtray backend
type Backend struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	accounts      *collection.SyncMap[string, *account]
	refreshTokens *collection.SyncMap[string, refreshGrant]
	inventory     *collection.SyncMap[string, []*Product]
	generation    atomic.Int64
	failRefresh   atomic.Bool
	failProfile   atomic.Bool
	now           func() time.Time
	cors          *Cors
	router        http.Handler

	logins    atomic.Int32
	refreshes atomic.Int32
	profiles  atomic.Int32
	logouts   atomic.Int32
	resources atomic.Int32
}

type refreshGrant struct {
	email   string
	expires time.Time
}

type Option func(*Backend)

// WithAccessTTL sets access token lifetime
func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.AccessTTL = ttl
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// New creates a mock backend
func New(options ...Option) *Backend {
	ret := &Backend{
		Secret:        []byte(uuid.NewString()),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		accounts:      collection.NewSyncMap[string, *account](),
		refreshTokens: collection.NewSyncMap[string, refreshGrant](),
		inventory:     collection.NewSyncMap[string, []*Product](),
		now:           time.Now,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.router = ret.newRouter()
	return ret
}

// Handler returns the backend http handler
func (b *Backend) Handler() http.Handler {
	return b.router
}

// AddUser registers a vendor administering stores with the given names
func (b *Backend) AddUser(email, password string, storeNames ...string) *schema.User {
	user := &schema.User{ID: uuid.NewString(), Email: email, Role: "vendor", HasBusiness: len(storeNames) > 0}
	var stores []*schema.Store
	for _, name := range storeNames {
		aStore := &schema.Store{
			ID:        uuid.NewString(),
			Name:      name,
			Slug:      strings.ReplaceAll(strings.ToLower(name), " ", "-"),
			Currency:  "NGN",
			CreatedAt: b.now().UTC().Truncate(time.Second),
		}
		stores = append(stores, aStore)
		b.inventory.Put(aStore.ID, nil)
	}
	b.accounts.Put(strings.ToLower(email), &account{password: password, user: user, stores: stores})
	return user.Clone()
}

// Stores returns the stores of the user registered with email
func (b *Backend) Stores(email string) []*schema.Store {
	if acc, ok := b.accounts.Get(strings.ToLower(email)); ok {
		return schema.CloneStores(acc.stores)
	}
	return nil
}

// ExpireAccessTokens invalidates every access token issued so far
func (b *Backend) ExpireAccessTokens() {
	b.generation.Add(1)
}

// RevokeRefreshTokens invalidates every refresh token issued so far
func (b *Backend) RevokeRefreshTokens() {
	b.refreshTokens.DeleteFunc(func(string, refreshGrant) bool { return true })
}

// FailRefresh makes the refresh endpoint reject every call
func (b *Backend) FailRefresh(fail bool) {
	b.failRefresh.Store(fail)
}

// FailProfile makes the profile endpoint answer 500
func (b *Backend) FailProfile(fail bool) {
	b.failProfile.Store(fail)
}

// Counters returns endpoint hit counts
func (b *Backend) Counters() Counters {
	return Counters{
		Logins:    b.logins.Load(),
		Refreshes: b.refreshes.Load(),
		Profiles:  b.profiles.Load(),
		Logouts:   b.logouts.Load(),
		Resources: b.resources.Load(),
	}
}

// HTTPTestServer is a Backend listening on a local httptest server
type HTTPTestServer struct {
	*Backend
	Server *httptest.Server
	URL    string
}

// NewHTTPTestServer starts backend on a local port
func NewHTTPTestServer(options ...Option) *HTTPTestServer {
	backend := New(options...)
	server := httptest.NewServer(backend.Handler())
	return &HTTPTestServer{Backend: backend, Server: server, URL: server.URL}
}

// Close stops the server
func (s *HTTPTestServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
}

func (b *Backend) lookup(email string) (*account, bool) {
	return b.accounts.Get(strings.ToLower(email))
}

var _ http.Handler = (*Backend)(nil)

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}
