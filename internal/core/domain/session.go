package domain

import "time"

// Claims is the signed payload carried by a bearer token.
type Claims struct {
	ID         string // jti
	Subject    string // username
	Role       Role
	IdentityID int64
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Principal is the caller identity rebuilt for a single request from a
// verified token and a fresh store lookup.
type Principal struct {
	IdentityID int64
	Username   string
	Role       Role
	Status     Status

	// TokenID and TokenExpiresAt describe the token presented with the request.
	TokenID        string
	TokenExpiresAt time.Time
}
