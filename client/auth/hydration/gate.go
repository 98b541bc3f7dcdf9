// Package hydration provides a gate that holds back dependent work until a
// session has been restored from durable storage.
package hydration

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Signal exposes the hydration flag of a session
type Signal interface {
	HasHydrated() bool
	Hydrated() <-chan struct{}
}

// Gate blocks rendering until Signal reports hydration. Once open it never closes again.
type Gate struct {
	signal      Signal
	renderOnce  sync.Once
	retryAfter  time.Duration
	placeholder http.Handler
}

type Option func(*Gate)

// WithRetryAfter sets the Retry-After hint sent while the gate is closed
func WithRetryAfter(d time.Duration) Option {
	return func(g *Gate) {
		g.retryAfter = d
	}
}

// WithPlaceholder sets the handler serving requests while the gate is closed
func WithPlaceholder(handler http.Handler) Option {
	return func(g *Gate) {
		g.placeholder = handler
	}
}

// New creates a gate over signal
func New(signal Signal, options ...Option) *Gate {
	ret := &Gate{signal: signal, retryAfter: time.Second}
	for _, opt := range options {
		opt(ret)
	}
	if ret.placeholder == nil {
		ret.placeholder = http.HandlerFunc(ret.loading)
	}
	return ret
}

// Ready returns true once the session is hydrated
func (g *Gate) Ready() bool {
	return g.signal.HasHydrated()
}

// Wait blocks until the session is hydrated or ctx is done
func (g *Gate) Wait(ctx context.Context) error {
	if g.Ready() {
		return nil
	}
	select {
	case <-g.signal.Hydrated():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render calls placeholder while not ready, then children once the session is hydrated.
// children runs at most once per Gate; later calls return immediately.
func (g *Gate) Render(ctx context.Context, placeholder, children func()) error {
	if !g.Ready() && placeholder != nil {
		placeholder()
	}
	if err := g.Wait(ctx); err != nil {
		return err
	}
	g.renderOnce.Do(func() {
		if children != nil {
			children()
		}
	})
	return nil
}

// Handler serves the placeholder until the session is hydrated, next afterwards
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Ready() {
			g.placeholder.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) loading(w http.ResponseWriter, _ *http.Request) {
	seconds := int(g.retryAfter / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"responseSuccessful":false,"responseMessage":"loading session","responseBody":null}`))
}
