package session

import (
	"strings"
	"time"
)

// Role is the authorization level carried by an Identity. The platform encodes
// roles upper-case on the wire (ADMIN/USER); ParseRole normalizes.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a wire-format role onto a known Role. Anything unrecognized
// degrades to RoleUser.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Credential is the persisted bearer token together with the expiry encoded in it.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Identity is the authenticated user's role-bearing profile. It is only ever
// derived from a valid Credential.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

// Decision is the outcome of an authorization check for a protected view.
type Decision int

const (
	// Allow grants access to the requested view.
	Allow Decision = iota
	// RedirectToLogin means the caller is not authenticated.
	RedirectToLogin
	// RedirectToDefault means the caller is authenticated but lacks the required role.
	RedirectToDefault
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToDefault:
		return "redirect_to_default"
	default:
		return "unknown"
	}
}

// Redirect targets returned by Login, matching the platform's landing views.
const (
	AdminLanding   = "/admin"
	DefaultLanding = "/user"
)
