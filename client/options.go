package client

import "time"

// Options configures a Client. Fields carry go-flags tags for the CLI and yaml tags for config files.
type Options struct {
	URL        string        `short:"u" long:"url" description:"webtray backend url" yaml:"url"`
	SessionURL string        `short:"s" long:"session" description:"session snapshot location, e.g. file:///home/me/.webtray/session.json" yaml:"session"`
	CookieURL  string        `long:"cookies" description:"cookie jar location, in-memory when empty" yaml:"cookies"`
	RedisAddr  string        `short:"r" long:"redis" description:"redis address, stores the session in redis when set" yaml:"redis"`
	RedisKey   string        `long:"redis-key" description:"redis key holding the session" yaml:"redisKey"`
	SessionTTL time.Duration `long:"session-ttl" description:"redis session expiry, 0 keeps it until logout" yaml:"sessionTTL"`
	Timeout    time.Duration `long:"timeout" description:"http timeout" yaml:"timeout"`
}

// Merge fills empty fields from other
func (o *Options) Merge(other *Options) {
	if other == nil {
		return
	}
	if o.URL == "" {
		o.URL = other.URL
	}
	if o.SessionURL == "" {
		o.SessionURL = other.SessionURL
	}
	if o.CookieURL == "" {
		o.CookieURL = other.CookieURL
	}
	if o.RedisAddr == "" {
		o.RedisAddr = other.RedisAddr
	}
	if o.RedisKey == "" {
		o.RedisKey = other.RedisKey
	}
	if o.SessionTTL == 0 {
		o.SessionTTL = other.SessionTTL
	}
	if o.Timeout == 0 {
		o.Timeout = other.Timeout
	}
}
