package domain

// Session is what login hands back to the caller: the signed token plus the
// identity fields the UI needs without decoding the JWT itself.
type Session struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"` // "Bearer"
	ExpiresIn int64       `json:"expires_in"` // whole seconds until expiry
	User      SessionUser `json:"user"`
}

// SessionUser is the public projection of a User. No hash, no internals.
type SessionUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// PublicUser projects a User into its API-safe form.
func PublicUser(u User) SessionUser {
	return SessionUser{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Name:          u.Name,
		Avatar:        u.Avatar,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}
