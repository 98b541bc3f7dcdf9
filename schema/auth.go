package schema

type (
	// Credentials represents a vendor login request
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginResult represents the body of a successful login
	LoginResult struct {
		AccessToken  string   `json:"accessToken"`
		RefreshToken string   `json:"refreshToken,omitempty"`
		ExpiresIn    int64    `json:"expiresIn,omitempty"`
		User         *User    `json:"user"`
		Stores       []*Store `json:"stores,omitempty"`
	}

	// RefreshRequest carries the refresh token when the client holds one;
	// otherwise the backend falls back to its refresh cookie.
	RefreshRequest struct {
		RefreshToken string `json:"refreshToken,omitempty"`
	}

	// RefreshResult represents the body of a successful token refresh
	RefreshResult struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken,omitempty"`
		ExpiresIn    int64  `json:"expiresIn,omitempty"`
	}
)
