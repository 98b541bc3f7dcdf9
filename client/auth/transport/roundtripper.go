package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrRefreshFailed is returned when a 401 could not be recovered by refreshing the session
var ErrRefreshFailed = errors.New("session refresh failed")

const refreshKey = "refresh"

// Session is what the pipeline needs from a session
type Session interface {
	AccessToken() string
	RefreshToken(ctx context.Context) error
	Logout(ctx context.Context) error
}

// RoundTripper injects the session token and recovers once from 401 responses.
type RoundTripper struct {
	session   Session
	transport http.RoundTripper
	jar       http.CookieJar
	logger    zerolog.Logger
	group     singleflight.Group
}

// New creates a RoundTripper over session
func New(session Session, options ...Option) (*RoundTripper, error) {
	if session == nil {
		return nil, errors.New("session was nil")
	}
	ret := &RoundTripper{
		session:   session,
		transport: http.DefaultTransport,
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.transport = WrapWithCookieJar(ret.transport, ret.jar)
	return ret, nil
}

// Client returns an http client using the RoundTripper
func (r *RoundTripper) Client() *http.Client {
	return &http.Client{Transport: r}
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := readBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	ctx := req.Context()

	// 1) Send with whatever token the session holds right now.
	accessToken := r.session.AccessToken()
	resp, err := r.transport.RoundTrip(clone(req, body, accessToken))
	if err != nil {
		return nil, err
	}

	// 2) Anything but a first 401 goes straight back to the caller.
	if resp.StatusCode != http.StatusUnauthorized || IsRetried(ctx) {
		return resp, nil
	}
	discard(resp)

	// 3) Refresh (shared with concurrent 401s), or log out and surface the refresh failure.
	accessToken, err = r.refresh(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// 4) Replay once; a second 401 is terminal.
	r.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("replaying request with refreshed token")
	retry := req.WithContext(WithRetried(ctx))
	return r.transport.RoundTrip(clone(retry, body, accessToken))
}

// refresh returns a token newer than stale, refreshing the session at most once for all concurrent callers.
func (r *RoundTripper) refresh(ctx context.Context, stale string) (string, error) {
	if current := r.session.AccessToken(); current != "" && current != stale {
		return current, nil
	}
	results := r.group.DoChan(refreshKey, func() (interface{}, error) {
		if current := r.session.AccessToken(); current != "" && current != stale {
			return current, nil
		}
		// one caller cancelling must not fail the others sharing this refresh
		refreshCtx := context.WithoutCancel(ctx)
		if err := r.session.RefreshToken(refreshCtx); err != nil {
			if current := r.session.AccessToken(); current != "" && current != stale {
				// superseded by a login that landed while refreshing
				r.logger.Debug().Err(err).Msg("refresh superseded by a newer session")
				return current, nil
			}
			r.logger.Warn().Err(err).Msg("token refresh failed, logging out")
			if logoutErr := r.session.Logout(refreshCtx); logoutErr != nil {
				r.logger.Debug().Err(logoutErr).Msg("logout after failed refresh")
			}
			return nil, err
		}
		return r.session.AccessToken(), nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", fmt.Errorf("%w: %w", ErrRefreshFailed, result.Err)
		}
		accessToken, _ := result.Val.(string)
		if accessToken == "" {
			return "", fmt.Errorf("%w: no access token after refresh", ErrRefreshFailed)
		}
		return accessToken, nil
	}
}
