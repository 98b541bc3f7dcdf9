package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	PathLogin   = "/auth/login"
	PathRefresh = "/auth/refresh"
	PathLogout  = "/auth/logout"
	PathProfile = "/user/profile"

	// HeaderRequestID correlates client and backend logs
	HeaderRequestID = "X-Request-Id"
)

// Client calls the webtray backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        http.CookieJar
	logger     zerolog.Logger
}

// New creates a backend client rooted at baseURL
func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if ret.jar != nil && ret.httpClient.Jar == nil {
		cloned := *ret.httpClient
		cloned.Jar = ret.jar
		ret.httpClient = &cloned
	}
	return ret
}

// BaseURL returns backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns absolute URL for the backend path
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, credentials *schema.Credentials) (*schema.LoginResult, error) {
	ret := &schema.LoginResult{}
	if err := c.send(ctx, c.httpClient, http.MethodPost, PathLogin, "", credentials, ret); err != nil {
		return nil, err
	}
	if ret.AccessToken == "" {
		return nil, fmt.Errorf("%s: missing access token", PathLogin)
	}
	return ret, nil
}

// Profile returns the identity behind accessToken
func (c *Client) Profile(ctx context.Context, accessToken string) (*schema.Profile, error) {
	ret := &schema.Profile{}
	if err := c.send(ctx, c.httpClient, http.MethodGet, PathProfile, accessToken, nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Refresh obtains a new access token; refreshToken may be empty when the backend uses a refresh cookie
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*schema.RefreshResult, error) {
	ret := &schema.RefreshResult{}
	if err := c.send(ctx, c.httpClient, http.MethodPost, PathRefresh, "", &schema.RefreshRequest{RefreshToken: refreshToken}, ret); err != nil {
		return nil, err
	}
	if ret.AccessToken == "" {
		return nil, fmt.Errorf("%s: missing access token", PathRefresh)
	}
	return ret, nil
}

// Logout informs the backend that the session ended
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.send(ctx, c.httpClient, http.MethodPost, PathLogout, accessToken, nil, nil)
}

// Do sends a request with httpClient (typically the authenticated one) and decodes the envelope body into out
func (c *Client) Do(ctx context.Context, httpClient *http.Client, method, path string, in, out interface{}) error {
	if httpClient == nil {
		httpClient = c.httpClient
	}
	return c.send(ctx, httpClient, method, path, "", in, out)
}

// Call is a typed variant of Client.Do
func Call[T any](ctx context.Context, c *Client, httpClient *http.Client, method, path string, in interface{}) (T, error) {
	var ret T
	err := c.Do(ctx, httpClient, method, path, in, &ret)
	return ret, err
}

func (c *Client) send(ctx context.Context, httpClient *http.Client, method, path, accessToken string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Str("requestId", requestID).Msg("backend call failed")
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("requestId", requestID).Msg("backend call")
	return decodeEnvelope(method, path, resp.StatusCode, data, out)
}

func decodeEnvelope(method, path string, status int, data []byte, out interface{}) error {
	envelope := &schema.Envelope[json.RawMessage]{}
	decodeErr := json.Unmarshal(data, envelope)
	if status < 200 || status > 299 {
		ret := &Error{Method: method, Path: path, StatusCode: status}
		if decodeErr == nil {
			ret.Message = envelope.ResponseMessage
		}
		return ret
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, decodeErr)
	}
	if !envelope.ResponseSuccessful {
		return &Error{Method: method, Path: path, StatusCode: status, Message: envelope.ResponseMessage}
	}
	if out == nil || len(envelope.ResponseBody) == 0 || string(envelope.ResponseBody) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.ResponseBody, out); err != nil {
		return fmt.Errorf("failed to decode %s body: %w", path, err)
	}
	return nil
}
