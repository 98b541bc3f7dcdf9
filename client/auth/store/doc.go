// Package store defines the durable record behind a client session and the
// backends that can hold it.
//
// A Store holds exactly one Snapshot. The in-memory implementation is enough
// for tests and short-lived tools; FileStore persists to any afs URL so the
// session survives process restarts, and RedisStore serves deployments where
// several processes act on behalf of the same vendor.
package store
