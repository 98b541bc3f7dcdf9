package mock

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/amjido-01/webTray-sub001/client/api"
)

const (
	allowOriginHeader      = "Access-Control-Allow-Origin"
	allowHeadersHeader     = "Access-Control-Allow-Headers"
	allowMethodsHeader     = "Access-Control-Allow-Methods"
	allowCredentialsHeader = "Access-Control-Allow-Credentials"
	requestMethodHeader    = "Access-Control-Request-Method"
	maxAgeHeader           = "Access-Control-Max-Age"
)

// Cors lets a browser dashboard on another origin call the backend with the refresh cookie
type Cors struct {
	AllowOrigins []string
	MaxAge       int
}

func (c *Cors) allows(origin string) bool {
	for _, candidate := range c.AllowOrigins {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

// WithCors enables CORS for the listed origins; "*" allows any origin
func WithCors(origins ...string) Option {
	return func(b *Backend) {
		b.cors = &Cors{AllowOrigins: origins, MaxAge: 600}
	}
}

// middleware answers preflights and rejects browser requests from unknown origins.
// Requests without Origin (non-browser clients) pass through untouched.
func (c *Cors) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !c.allows(origin) {
			writeFailure(w, http.StatusForbidden, "origin not allowed")
			return
		}
		header := w.Header()
		// credentials forbid the "*" wildcard, so the origin is echoed
		header.Set(allowOriginHeader, origin)
		header.Set(allowCredentialsHeader, "true")
		header.Add("Vary", "Origin")
		if r.Method == http.MethodOptions && r.Header.Get(requestMethodHeader) != "" {
			header.Set(allowMethodsHeader, strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
			header.Set(allowHeadersHeader, strings.Join([]string{"Authorization", "Content-Type", api.HeaderRequestID}, ", "))
			header.Set(maxAgeHeader, strconv.Itoa(c.MaxAge))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
