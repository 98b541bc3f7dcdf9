// Package cli implements the webtray command line: login, whoami, logout, get, stores and mock.
package cli
