// Package auth groups the client side session lifecycle.
//
// The sub-packages build on each other:
//   - store persists session snapshots (memory, file via afs, redis).
//   - session holds the token, user and stores, and talks to the backend.
//   - hydration gates rendering and serving until the snapshot is loaded.
//   - initializer validates a restored session once per process.
//   - transport injects the bearer token and recovers from 401 with a single shared refresh.
//   - mock is an in-process webtray backend for tests and local development.
package auth
