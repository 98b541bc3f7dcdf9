package session

import (
	"github.com/amjido-01/webTray-sub001/schema"
	"golang.org/x/oauth2"
)

// State is a point-in-time copy of a Session
type State struct {
	Token       *oauth2.Token
	User        *schema.User
	Stores      []*schema.Store
	ActiveStore *schema.Store
	HasBusiness bool
	Hydrated    bool
}

// AccessToken returns the access token or empty string
func (s *State) AccessToken() string {
	if s.Token == nil {
		return ""
	}
	return s.Token.AccessToken
}

func cloneToken(token *oauth2.Token) *oauth2.Token {
	if token == nil {
		return nil
	}
	ret := *token
	return &ret
}
