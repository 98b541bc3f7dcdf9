package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// newToken builds an oauth2 token; expiry comes from expiresIn seconds, or the
// exp claim when the access token is a JWT and expiresIn is not given.
func (s *Session) newToken(accessToken, refreshToken string, expiresIn int64) *oauth2.Token {
	ret := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
	}
	if expiresIn > 0 {
		ret.Expiry = s.now().Add(time.Duration(expiresIn) * time.Second)
		return ret
	}
	if expiry, ok := jwtExpiry(accessToken); ok {
		ret.Expiry = expiry
	}
	return ret
}

// jwtExpiry reads the exp claim without verifying the signature; the backend stays the authority.
func jwtExpiry(accessToken string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
