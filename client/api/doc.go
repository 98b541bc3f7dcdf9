// Package api is a thin REST client for the webtray backend.
//
// Responses are decoded from the backend's uniform envelope; an unsuccessful
// envelope or a non-2xx status becomes an *Error.
package api
