package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther composes credential verification with the token lifecycle to
// implement the register, login and refresh flows.
type Auther struct {
	verifier  CredentialVerifier
	users     Users
	lifecycle *TokenLifecycle
	logger    Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator wired from explicit
// collaborators.
func NewAuthenticator(verifier CredentialVerifier, users Users, lifecycle *TokenLifecycle) *Auther {
	return &Auther{
		verifier:  verifier,
		users:     users,
		lifecycle: lifecycle,
		logger:    defLogger{},
	}
}

// NewAuthenticatorFromConfig builds the whole chain, signing key, codec,
// user provider and lifecycle, from a validated Config and a repository
// manager. Misconfiguration fails here, before any request is served.
func NewAuthenticatorFromConfig(repo RepositoryManager, cfg *Config) (*Auther, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil", errors.CategoryValidation).
			WithTextCode("MISSING_CONFIG")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	signingKey, err := NewSigningKeyFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	provider := NewUserProvider(repo.Users())
	codec := NewTokenCodec(signingKey, nil)
	lifecycle := NewTokenLifecycle(codec, repo.Tokens(), provider, cfg)

	return NewAuthenticator(provider, repo.Users(), lifecycle), nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
		s.lifecycle.WithLogger(logger)
	}
	return s
}

// Lifecycle exposes the token lifecycle manager used by this Authenticator
func (s *Auther) Lifecycle() *TokenLifecycle {
	return s.lifecycle
}

// Register creates the account with the default role and issues its first
// token pair.
func (s *Auther) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	hash, err := HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user, err := s.users.Register(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		s.logger.Error("Register create user error", "username", username, "error", err)
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	pair, err := s.lifecycle.IssuePair(ctx, user)
	if err != nil {
		s.logger.Error("Register issue pair error", "username", username, "error", err)
		return nil, err
	}

	return pair, nil
}

// Login verifies the credentials and rotates the user's tokens: every
// previously outstanding token is revoked before the new pair is issued.
// Failed verification leaves the ledger untouched.
func (s *Auther) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.verifier.VerifyCredentials(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify credentials error", "username", username, "error", err)
		return nil, err
	}

	pair, err := s.lifecycle.RotatePair(ctx, user)
	if err != nil {
		s.logger.Error("Login rotate pair error", "username", username, "error", err)
		return nil, err
	}

	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. All
// internal token failure kinds collapse into a single invalid-or-expired
// class here; the distinctions stay available in logs.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, err := s.lifecycle.Refresh(ctx, refreshToken)
	if err != nil {
		if isTokenFailure(err) {
			s.logger.Debug("Refresh rejected token", "error", err)
			return nil, ErrTokenInvalidOrExpired
		}

		s.logger.Error("Refresh error", "error", err)
		return nil, err
	}

	return pair, nil
}

// isTokenFailure reports whether the error belongs to the class that is
// surfaced to callers as a generic invalid token. UnknownPrincipal is in
// the set so token subjects cannot be used to probe account existence.
func isTokenFailure(err error) bool {
	for _, sentinel := range []error{
		ErrTokenInvalidOrExpired,
		ErrTokenExpired,
		ErrTokenMalformed,
		ErrTokenSignatureInvalid,
		ErrUnknownPrincipal,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
