// Package schema defines the wire types exchanged with the webtray backend.
//
// Every backend endpoint answers with the same Envelope; the payload types in
// this package are what travels in its responseBody field.
package schema
