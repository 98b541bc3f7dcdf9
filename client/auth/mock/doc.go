// Package mock provides an in-process webtray backend that facilitates testing
// of the client-side session lifecycle.
//
// It issues short-lived HS256 access tokens and rotating refresh tokens, serves
// the profile endpoint and a protected inventory resource, and exposes hooks to
// expire tokens or make endpoints fail so tests can drive the refresh path.
package mock
