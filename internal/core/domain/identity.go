package domain

import "time"

// Identity is the authenticated caller as proven by a verified token.
type Identity struct {
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the identity carries the claims a handler
// needs to act on behalf of a caller.
func (id *Identity) Authenticated() bool {
	return id != nil && id.Email != "" && id.Role != ""
}

// IsAdmin reports whether the identity holds the admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}
