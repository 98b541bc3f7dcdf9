package session

import (
	"time"

	"github.com/rs/zerolog"
)

type Option func(*Session)

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock sets the time source used to compute token expiry
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}
