package domain

import "time"

// Role is the coarse authorization level baked into the session token.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the identity record. Email is stored lowercased; Username is the
// unique public handle. PasswordHash is argon2id-encoded and never leaves the
// service.
type User struct {
	ID            string
	Email         string
	Username      string
	PasswordHash  string
	Name          string // optional display name
	Avatar        string // optional avatar URL
	Role          Role
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
