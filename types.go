package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// TokenPair is the pair of raw signed tokens returned by every
// boundary operation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticator holds the boundary operations exposed to transport layers
type Authenticator interface {
	Register(ctx context.Context, username, password string) (*TokenPair, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// CredentialVerifier checks a plaintext password against the stored hash
// for a username and returns the backing user on success.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (*User, error)
}

// PrincipalStore is the subset of the users repository the token
// lifecycle needs to resolve a token subject back to an account.
type PrincipalStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// RevocationLedger is the slice of the tokens repository the lifecycle
// needs for bookkeeping. Mutations only flip the revoked/expired flags,
// rows are never deleted.
type RevocationLedger interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Token, error)
	GetByRawToken(ctx context.Context, raw string) (*Token, error)
	Store(ctx context.Context, token *Token) (*Token, error)
	SaveAll(ctx context.Context, tokens []*Token) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
