package transport

import (
	"net/http"
)

// jarTransport sends cookies held by a jar with each request and records the
// cookies the backend sets, so the refresh cookie travels even when a
// RoundTripper is used without an http.Client.
type jarTransport struct {
	inner http.RoundTripper
	jar   http.CookieJar
}

// WrapWithCookieJar wraps inner with jar; a nil jar or inner returns inner unchanged.
func WrapWithCookieJar(inner http.RoundTripper, jar http.CookieJar) http.RoundTripper {
	if jar == nil || inner == nil {
		return inner
	}
	return &jarTransport{inner: inner, jar: jar}
}

func (w *jarTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cookies := w.jar.Cookies(req.URL)
	if len(cookies) > 0 {
		req = req.Clone(req.Context())
		for _, cookie := range cookies {
			if _, err := req.Cookie(cookie.Name); err == nil {
				continue // explicitly set by the caller
			}
			req.AddCookie(cookie)
		}
	}
	resp, err := w.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if set := resp.Cookies(); len(set) > 0 {
		w.jar.SetCookies(req.URL, set)
	}
	return resp, nil
}
