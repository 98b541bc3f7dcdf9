package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithHTTPClient sets the http client used for session endpoints
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithCookieJar sets the jar carrying the backend refresh cookie
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
