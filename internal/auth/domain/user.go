package domain

import (
	"log/slog"
	"time"
)

type User struct {
	ID           string
	Username     string
	Fullname     string
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public strips the digest so the result is safe to serialise or embed in a token.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Fullname: u.Fullname}
}

// PublicUser is the externally visible view of a user.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// Credentials are a username and plaintext password presented at login. They
// only live for the duration of one request.
type Credentials struct {
	Username string
	Password string
}

// LogValue keeps the password out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", "[REDACTED]"),
	)
}
