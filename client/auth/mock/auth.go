package mock

import (
	"encoding/json"
	"net/http"

	"github.com/amjido-01/webTray-sub001/schema"
)

func (b *Backend) loginHandler(w http.ResponseWriter, r *http.Request) {
	b.logins.Add(1)
	credentials := &schema.Credentials{}
	if err := json.NewDecoder(r.Body).Decode(credentials); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	acc, ok := b.lookup(credentials.Email)
	if !ok || acc.password != credentials.Password {
		writeFailure(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	accessToken, err := b.issueAccessToken(acc)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	refreshToken := b.issueRefreshToken(acc)
	b.setRefreshCookie(w, refreshToken)
	writeJSON(w, http.StatusOK, schema.NewEnvelope(&schema.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(b.AccessTTL.Seconds()),
		User:         acc.user,
		Stores:       acc.stores,
	}, "login successful"))
}

// refreshHandler accepts the refresh token from the body or, failing that, the refresh cookie
func (b *Backend) refreshHandler(w http.ResponseWriter, r *http.Request) {
	b.refreshes.Add(1)
	if b.failRefresh.Load() {
		writeFailure(w, http.StatusUnauthorized, "refresh rejected")
		return
	}
	request := &schema.RefreshRequest{}
	if r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(request)
	}
	token := request.RefreshToken
	if token == "" {
		if cookie, err := r.Cookie(RefreshCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		writeFailure(w, http.StatusUnauthorized, "missing refresh token")
		return
	}
	acc, err := b.redeemRefreshToken(token)
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, err.Error())
		return
	}
	accessToken, err := b.issueAccessToken(acc)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	refreshToken := b.issueRefreshToken(acc)
	b.setRefreshCookie(w, refreshToken)
	writeJSON(w, http.StatusOK, schema.NewEnvelope(&schema.RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(b.AccessTTL.Seconds()),
	}, "token refreshed"))
}

func (b *Backend) logoutHandler(w http.ResponseWriter, r *http.Request) {
	b.logouts.Add(1)
	acc := accountFrom(r)
	b.refreshTokens.DeleteFunc(func(_ string, grant refreshGrant) bool {
		return grant.email == acc.user.Email
	})
	http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, schema.NewEnvelope[any](nil, "logged out"))
}

func (b *Backend) profileHandler(w http.ResponseWriter, r *http.Request) {
	b.profiles.Add(1)
	if b.failProfile.Load() {
		writeFailure(w, http.StatusInternalServerError, "profile unavailable")
		return
	}
	acc := accountFrom(r)
	writeJSON(w, http.StatusOK, schema.NewEnvelope(&schema.Profile{User: acc.user, Stores: acc.stores}, "profile"))
}

func (b *Backend) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     "/auth",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(b.RefreshTTL.Seconds()),
	})
}
