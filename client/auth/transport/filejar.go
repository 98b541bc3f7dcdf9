package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
)

// FileJar is a cookie jar persisted as JSON at an afs URL. It keeps its own
// index of cookies because cookiejar.Jar cannot enumerate its content.
type FileJar struct {
	mu     sync.RWMutex
	inner  *cookiejar.Jar
	URL    string
	fs     afs.Service
	logger zerolog.Logger
	index  map[string]persistedCookie
	now    func() time.Time
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

func (c *persistedCookie) key() string {
	return c.Domain + "|" + c.Path + "|" + c.Name
}

func (c *persistedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && now.After(c.Expires)
}

// NewFileJar creates a cookie jar persisted at URL and loads what was saved there before.
func NewFileJar(ctx context.Context, URL string) (*FileJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	ret := &FileJar{
		inner:  inner,
		URL:    URL,
		fs:     afs.New(),
		logger: log.Logger,
		index:  map[string]persistedCookie{},
		now:    time.Now,
	}
	if err = ret.load(ctx); err != nil {
		ret.logger.Warn().Err(err).Str("url", URL).Msg("ignoring unreadable cookie jar")
	}
	return ret, nil
}

func (j *FileJar) Cookies(u *neturl.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := j.now()
	for _, c := range cookies {
		pc := persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   cookieDomain(u, c),
			Path:     cookiePath(c),
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			pc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || pc.expired(now) {
			delete(j.index, pc.key())
			continue
		}
		j.index[pc.key()] = pc
	}
	if err := j.save(context.Background()); err != nil {
		j.logger.Warn().Err(err).Str("url", j.URL).Msg("failed to persist cookies")
	}
}

func (j *FileJar) save(ctx context.Context) error {
	snap := cookieSnapshot{}
	now := j.now()
	for key, pc := range j.index {
		if pc.expired(now) {
			delete(j.index, key)
			continue
		}
		snap.Cookies = append(snap.Cookies, pc)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return j.fs.Upload(ctx, j.URL, 0o600, bytes.NewReader(data))
}

func (j *FileJar) load(ctx context.Context) error {
	ok, err := j.fs.Exists(ctx, j.URL)
	if err != nil || !ok {
		return err
	}
	data, err := j.fs.DownloadWithURL(ctx, j.URL)
	if err != nil {
		return err
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	now := j.now()
	for _, pc := range snap.Cookies {
		if pc.expired(now) || pc.Domain == "" {
			continue
		}
		scheme := "http"
		if pc.Secure {
			scheme = "https"
		}
		u := &neturl.URL{Scheme: scheme, Host: strings.TrimPrefix(pc.Domain, "."), Path: pc.Path}
		j.inner.SetCookies(u, []*http.Cookie{{
			Name:     pc.Name,
			Value:    pc.Value,
			Path:     pc.Path,
			Expires:  pc.Expires,
			Secure:   pc.Secure,
			HttpOnly: pc.HttpOnly,
		}})
		j.index[pc.key()] = pc
	}
	return nil
}

// cookieDomain returns the cookie domain, or the request host (without port) for host-only cookies
func cookieDomain(u *neturl.URL, c *http.Cookie) string {
	if domain := strings.TrimSpace(c.Domain); domain != "" {
		return strings.TrimPrefix(domain, ".")
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
		host = h
	}
	return host
}

func cookiePath(c *http.Cookie) string {
	if strings.TrimSpace(c.Path) == "" {
		return "/"
	}
	return c.Path
}
