// Package initializer validates a restored session exactly once after hydration.
package initializer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is what the initializer needs from a session
type Session interface {
	HasHydrated() bool
	Hydrated() <-chan struct{}
	IsLoggedIn() bool
	CheckAuth(ctx context.Context) (bool, error)
}

// Result describes the outcome of the validation pass
type Result struct {
	// Checked is true when the backend was asked to confirm the session
	Checked bool
	// LoggedIn reports the session state once initialization finished
	LoggedIn bool
	// Err is the logged CheckAuth failure, if any
	Err error
}

// Initializer runs a single validation pass once hydration completes.
type Initializer struct {
	session Session
	logger  zerolog.Logger
	ready   atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
	mu      sync.Mutex
	result  Result
	onReady []func(Result)
	started bool

	// abandoned is closed and replaced when a leader gives up before hydration
	abandoned chan struct{}
}

type Option func(*Initializer)

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Initializer) {
		i.logger = logger
	}
}

// WithOnReady registers a callback invoked once initialization completes
func WithOnReady(fn func(Result)) Option {
	return func(i *Initializer) {
		i.onReady = append(i.onReady, fn)
	}
}

// New creates an initializer for session
func New(session Session, options ...Option) *Initializer {
	ret := &Initializer{session: session, logger: log.Logger, done: make(chan struct{}), abandoned: make(chan struct{})}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Run waits for hydration, then checks the session against the backend when logged in.
// Only the first call does work; later calls wait for it and return.
// A CheckAuth failure is logged, not returned: initialization still completes.
func (i *Initializer) Run(ctx context.Context) error {
	for {
		i.mu.Lock()
		started := i.started
		i.started = true
		abandoned := i.abandoned
		i.mu.Unlock()
		if !started {
			return i.run(ctx)
		}
		select {
		case <-i.done:
			return nil
		case <-abandoned:
			// the leader's context ended before hydration; try to take over
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (i *Initializer) run(ctx context.Context) error {
	if !i.session.HasHydrated() {
		select {
		case <-i.session.Hydrated():
		case <-ctx.Done():
			// the pass never started; a later Run may try again
			i.mu.Lock()
			i.started = false
			close(i.abandoned)
			i.abandoned = make(chan struct{})
			i.mu.Unlock()
			return ctx.Err()
		}
	}
	result := Result{}
	if i.session.IsLoggedIn() {
		result.Checked = true
		if _, err := i.session.CheckAuth(ctx); err != nil {
			result.Err = err
			i.logger.Warn().Err(err).Msg("session validation failed")
		}
	}
	result.LoggedIn = i.session.IsLoggedIn()
	i.finish(result)
	return nil
}

func (i *Initializer) finish(result Result) {
	i.mu.Lock()
	i.result = result
	callbacks := i.onReady
	i.mu.Unlock()
	i.ready.Store(true)
	close(i.done)
	if i.closed.Load() {
		return
	}
	for _, fn := range callbacks {
		fn(result)
	}
}

// Ready returns true once the validation pass finished
func (i *Initializer) Ready() bool {
	return i.ready.Load()
}

// Done returns a channel closed when the validation pass finished
func (i *Initializer) Done() <-chan struct{} {
	return i.done
}

// Result returns the outcome of the validation pass; valid once Ready
func (i *Initializer) Result() Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.result
}

// Close detaches the owner: a pass completing afterwards no longer invokes callbacks.
func (i *Initializer) Close() {
	i.closed.Store(true)
}
