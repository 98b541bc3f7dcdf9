package transport

import (
	"bytes"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// readBody buffers the request body so the request can be replayed
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// clone copies r with a fresh body reader and the given bearer token
func clone(r *http.Request, body []byte, accessToken string) *http.Request {
	cloned := r.Clone(r.Context())
	if body != nil {
		cloned.Body = io.NopCloser(bytes.NewReader(body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		cloned.ContentLength = int64(len(body))
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(cloned)
	}
	return cloned
}

// discard drains and closes a response that will not reach the caller
func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
