package session

import (
	"context"

	"github.com/amjido-01/webTray-sub001/schema"
)

// Backend is the subset of the webtray API a Session depends on; *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, credentials *schema.Credentials) (*schema.LoginResult, error)
	Profile(ctx context.Context, accessToken string) (*schema.Profile, error)
	Refresh(ctx context.Context, refreshToken string) (*schema.RefreshResult, error)
	Logout(ctx context.Context, accessToken string) error
}
