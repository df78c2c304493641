package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role granted at registration
	RoleUser UserRole = "user"
	// RoleAdmin is an administrative role
	RoleAdmin UserRole = "admin"
)

// User is the principal model. Created at registration; immutable except
// role/password through flows outside this package.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RoleList adapts the single stored role to the role array token claim.
func (u *User) RoleList() []string {
	if u.Role == "" {
		return nil
	}
	return []string{u.Role}
}

// TokenKind tags stored token records so the asymmetric persistence of
// access and refresh tokens funnels through one code path.
type TokenKind = string

const (
	// TokenKindAccess is a short lived access token record
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is a long lived refresh token record
	TokenKindRefresh TokenKind = "refresh"
)

// Token is a ledger row for an issued token. Rows are mutated only by
// revocation, which flips the expired/revoked flags; they are never
// deleted so the ledger doubles as an audit trail.
type Token struct {
	bun.BaseModel `bun:"table:tokens,alias:tok"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	User          *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Raw           string     `bun:"token,notnull,unique" json:"token,omitempty"`
	Kind          TokenKind  `bun:"kind,notnull" json:"kind,omitempty"`
	Revoked       bool       `bun:"revoked,notnull,default:false" json:"revoked"`
	Expired       bool       `bun:"expired,notnull,default:false" json:"expired"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Active reports whether the record still counts toward the holder's
// outstanding tokens.
func (t *Token) Active() bool {
	return !t.Revoked && !t.Expired
}

// Revoke transitions the record to its terminal state. There is no way
// back to active.
func (t *Token) Revoke() {
	t.Revoked = true
	t.Expired = true
}
