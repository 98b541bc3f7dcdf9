// Package transport implements the authenticated request pipeline: an
// http.RoundTripper that attaches the session's bearer token to every request
// and recovers once from an expired credential.
//
// When a request comes back 401 Unauthorized, the RoundTripper refreshes the
// session (concurrent 401s share a single refresh) and replays the request
// once with the new token. If the refresh fails the session is logged out and
// the refresh error is returned instead of the 401. A replayed request that is
// rejected again is returned as-is.
package transport
