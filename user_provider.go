package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// UserProvider resolves usernames to accounts and verifies credentials
// against the stored bcrypt hash.
type UserProvider struct {
	store  Users
	logger Logger
}

var (
	_ CredentialVerifier = (*UserProvider)(nil)
	_ PrincipalStore     = (*UserProvider)(nil)
)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyCredentials will find the user and compare the password to the
// stored hash. An unknown username and a wrong password produce the same
// failure so callers cannot probe for account existence.
func (u *UserProvider) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAuthenticationFailed
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		u.logger.Debug("credential verification failed", "username", username)
		return nil, ErrAuthenticationFailed
	}

	return user, nil
}

// GetByUsername satisfies PrincipalStore for the refresh path.
func (u *UserProvider) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUnknownPrincipal
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by username")
	}

	return user, nil
}
