package client

import (
	"net/http"

	"github.com/amjido-01/webTray-sub001/client/auth/initializer"
	"github.com/amjido-01/webTray-sub001/client/auth/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Option represents option
type Option func(c *Client)

// WithStore sets the session store, overriding SessionURL and RedisAddr
func WithStore(aStore store.Store) Option {
	return func(c *Client) {
		c.store = aStore
	}
}

// WithRedisClient stores the session in redis using client
func WithRedisClient(client redis.UniversalClient) Option {
	return func(c *Client) {
		c.redis = client
	}
}

// WithCookieJar sets the jar holding the backend refresh cookie
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithTransport sets the base transport under the authenticated pipeline
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.baseTransport = transport
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithOnReady registers fn to run once the auth check completes
func WithOnReady(fn func(initializer.Result)) Option {
	return func(c *Client) {
		c.onReady = append(c.onReady, fn)
	}
}
