package mock

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amjido-01/webTray-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(b *Backend, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	b.ServeHTTP(recorder, req)
	return recorder
}

func login(t *testing.T, b *Backend) *schema.LoginResult {
	t.Helper()
	recorder := serve(b, http.MethodPost, "/auth/login", "", &schema.Credentials{Email: "Ada@Webtray.test", Password: "pw"})
	require.Equal(t, http.StatusOK, recorder.Code)
	envelope := &schema.Envelope[*schema.LoginResult]{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), envelope))
	require.True(t, envelope.ResponseSuccessful)
	return envelope.ResponseBody
}

func TestBackend_AccessToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := New(WithAccessTTL(time.Minute), WithClock(func() time.Time { return now }))
	b.AddUser("ada@webtray.test", "pw", "Main")
	result := login(t, b)
	assert.Equal(t, int64(60), result.ExpiresIn)

	assert.Equal(t, http.StatusOK, serve(b, http.MethodGet, "/user/profile", result.AccessToken, nil).Code)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusUnauthorized, serve(b, http.MethodGet, "/user/profile", result.AccessToken, nil).Code)
}

func TestBackend_ExpireAccessTokens(t *testing.T) {
	b := New()
	b.AddUser("ada@webtray.test", "pw")
	result := login(t, b)
	b.ExpireAccessTokens()

	recorder := serve(b, http.MethodGet, "/user/profile", result.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestBackend_RefreshTokenRotates(t *testing.T) {
	b := New()
	b.AddUser("ada@webtray.test", "pw")
	result := login(t, b)

	first := serve(b, http.MethodPost, "/auth/refresh", "", &schema.RefreshRequest{RefreshToken: result.RefreshToken})
	assert.Equal(t, http.StatusOK, first.Code)
	reused := serve(b, http.MethodPost, "/auth/refresh", "", &schema.RefreshRequest{RefreshToken: result.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, reused.Code)
	assert.Equal(t, int32(2), b.Counters().Refreshes)
}

func TestBackend_FailureInjection(t *testing.T) {
	b := New()
	b.AddUser("ada@webtray.test", "pw")
	result := login(t, b)

	b.FailProfile(true)
	assert.Equal(t, http.StatusInternalServerError, serve(b, http.MethodGet, "/user/profile", result.AccessToken, nil).Code)
	b.FailRefresh(true)
	assert.Equal(t, http.StatusUnauthorized, serve(b, http.MethodPost, "/auth/refresh", "", &schema.RefreshRequest{RefreshToken: result.RefreshToken}).Code)
}

func TestBackend_InventoryOwnership(t *testing.T) {
	b := New()
	b.AddUser("ada@webtray.test", "pw", "Main")
	b.AddUser("bola@webtray.test", "pw", "Other")
	result := login(t, b)
	own := b.Stores("ada@webtray.test")[0].ID
	other := b.Stores("bola@webtray.test")[0].ID

	created := serve(b, http.MethodPost, "/stores/"+own+"/inventory", result.AccessToken, &Product{Name: "Suya", Quantity: 3})
	assert.Equal(t, http.StatusCreated, created.Code)
	invalid := serve(b, http.MethodPost, "/stores/"+own+"/inventory", result.AccessToken, &Product{})
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.Equal(t, http.StatusForbidden, serve(b, http.MethodGet, "/stores/"+other+"/inventory", result.AccessToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(b, http.MethodGet, "/nowhere", result.AccessToken, nil).Code)
}

func TestBackend_Cors(t *testing.T) {
	b := New(WithCors("https://dashboard.webtray.test"))
	b.AddUser("ada@webtray.test", "pw")

	preflight := httptest.NewRequest(http.MethodOptions, "/auth/refresh", nil)
	preflight.Header.Set("Origin", "https://dashboard.webtray.test")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	b.ServeHTTP(recorder, preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://dashboard.webtray.test", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	foreign := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	foreign.Header.Set("Origin", "https://evil.test")
	recorder = httptest.NewRecorder()
	b.ServeHTTP(recorder, foreign)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	assert.Equal(t, http.StatusOK, serve(b, http.MethodPost, "/auth/login", "", &schema.Credentials{Email: "ada@webtray.test", Password: "pw"}).Code)
}
