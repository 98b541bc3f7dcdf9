// Package session holds the vendor's authentication state: the access token,
// the authenticated user and the stores (tenants) the user administers.
//
// A Session is the single source of truth shared by the request pipeline and
// the dashboard. It is restored once from a store.Store by Hydrate and saved
// back after every mutation.
package session
