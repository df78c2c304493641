package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the claim set embedded in a signed token
type AuthClaims interface {
	Subject() string
	Roles() []string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claim set: the registered claims plus the
// role list the service grants the subject.
type JWTClaims struct {
	jwt.RegisteredClaims
	RoleList []string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Roles returns the role claim
func (c *JWTClaims) Roles() []string {
	return c.RoleList
}

// HasRole checks if the claim set carries a specific role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.RoleList {
		if r == role {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
