package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/amjido-01/webTray-sub001/client/api"
	"github.com/amjido-01/webTray-sub001/client/auth/hydration"
	"github.com/amjido-01/webTray-sub001/client/auth/initializer"
	"github.com/amjido-01/webTray-sub001/client/auth/session"
	"github.com/amjido-01/webTray-sub001/client/auth/store"
	"github.com/amjido-01/webTray-sub001/client/auth/transport"
	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// Client is the assembled webtray client
type Client struct {
	options       *Options
	logger        zerolog.Logger
	baseTransport http.RoundTripper
	jar           http.CookieJar
	redis         redis.UniversalClient
	store         store.Store
	onReady       []func(initializer.Result)
	closers       []func() error

	api         *api.Client
	session     *session.Session
	gate        *hydration.Gate
	initializer *initializer.Initializer
	transport   *transport.RoundTripper
	httpClient  *http.Client
}

// New builds a client; call Start before issuing authenticated requests
func New(ctx context.Context, options *Options, opts ...Option) (*Client, error) {
	if options == nil || options.URL == "" {
		return nil, errors.New("backend url was empty")
	}
	ret := &Client{
		options:       options,
		logger:        log.Logger,
		baseTransport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(ret)
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if err := ret.initJar(ctx); err != nil {
		return nil, err
	}
	ret.initStore()

	ret.api = api.New(options.URL,
		api.WithHTTPClient(&http.Client{Transport: ret.baseTransport, Timeout: timeout}),
		api.WithCookieJar(ret.jar),
		api.WithLogger(ret.logger))
	ret.session = session.New(ret.api, ret.store, session.WithLogger(ret.logger))
	ret.gate = hydration.New(ret.session)
	initOptions := []initializer.Option{initializer.WithLogger(ret.logger)}
	for _, fn := range ret.onReady {
		initOptions = append(initOptions, initializer.WithOnReady(fn))
	}
	ret.initializer = initializer.New(ret.session, initOptions...)

	var err error
	ret.transport, err = transport.New(ret.session,
		transport.WithTransport(ret.baseTransport),
		transport.WithCookieJar(ret.jar),
		transport.WithLogger(ret.logger))
	if err != nil {
		return nil, err
	}
	ret.httpClient = &http.Client{Transport: ret.transport, Timeout: timeout}
	return ret, nil
}

func (c *Client) initJar(ctx context.Context) error {
	if c.jar != nil {
		return nil
	}
	if c.options.CookieURL != "" {
		jar, err := transport.NewFileJar(ctx, c.options.CookieURL)
		if err != nil {
			return fmt.Errorf("failed to open cookie jar: %w", err)
		}
		c.jar = jar
		return nil
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.jar = jar
	return nil
}

func (c *Client) initStore() {
	switch {
	case c.store != nil:
	case c.redis != nil || c.options.RedisAddr != "":
		if c.redis == nil {
			rdb := redis.NewClient(&redis.Options{Addr: c.options.RedisAddr})
			c.redis = rdb
			c.closers = append(c.closers, rdb.Close)
		}
		c.store = store.NewRedisStore(c.redis, c.options.RedisKey, c.options.SessionTTL)
	case c.options.SessionURL != "":
		c.store = store.NewFileStore(c.options.SessionURL)
	default:
		c.store = store.NewMemoryStore()
	}
}

// Start hydrates the session and validates it with the backend.
// A failed validation is reported through Initializer().Result(), not as an error.
func (c *Client) Start(ctx context.Context) error {
	if err := c.session.Hydrate(ctx); err != nil {
		c.logger.Debug().Err(err).Msg("continuing with empty session")
	}
	return c.initializer.Run(ctx)
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.session.Login(ctx, &schema.Credentials{Email: email, Password: password})
}

// Logout ends the session
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// HTTPClient returns the authenticated http client
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Session returns the auth session
func (c *Client) Session() *session.Session {
	return c.session
}

// Gate returns the hydration gate
func (c *Client) Gate() *hydration.Gate {
	return c.gate
}

// Initializer returns the auth initializer
func (c *Client) Initializer() *initializer.Initializer {
	return c.initializer
}

// API returns the backend client
func (c *Client) API() *api.Client {
	return c.api
}

// Close releases connections the client opened; the session is kept
func (c *Client) Close() error {
	c.initializer.Close()
	var errs []error
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
