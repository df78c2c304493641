package auth_test

import (
	"context"
	"testing"

	auth "github.com/Athirson-Pequeno/jwt-auth-template"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuther_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the user with the default role", func(t *testing.T) {
		auther, repo := newTestAuthenticator(t, "auther-secret")

		pair, err := auther.Register(ctx, "alice", "password-123")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		user, err := repo.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, user.Role)
		assert.NotEqual(t, uuid.Nil, user.ID)

		// the stored hash verifies against the plaintext
		assert.NoError(t, auth.ComparePasswordAndHash("password-123", user.PasswordHash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		auther, _ := newTestAuthenticator(t, "auther-secret")

		_, err := auther.Register(ctx, "alice", "")
		assert.Error(t, err)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		auther, _ := newTestAuthenticator(t, "auther-secret")

		_, err := auther.Register(ctx, "alice", "password-123")
		require.NoError(t, err)

		_, err = auther.Register(ctx, "alice", "password-456")
		assert.Error(t, err)
	})
}

func TestAuther_LoginDelegatesVerification(t *testing.T) {
	ctx := context.Background()

	cfg, err := auth.NewConfig("auther-secret", testAccessTTL)
	require.NoError(t, err)

	repo := auth.NewRepositoryManager(setupTestDB(t))

	key, err := auth.NewSigningKeyFromConfig(cfg)
	require.NoError(t, err)

	codec := auth.NewTokenCodec(key, nil)
	provider := auth.NewUserProvider(repo.Users())
	lifecycle := auth.NewTokenLifecycle(codec, repo.Tokens(), provider, cfg)

	t.Run("issues a pair on verifier success", func(t *testing.T) {
		verifier := &MockCredentialVerifier{}
		auther := auth.NewAuthenticator(verifier, repo.Users(), lifecycle)

		user, err := repo.Users().Register(ctx, &auth.User{
			Username:     "bob",
			PasswordHash: "irrelevant-here",
		})
		require.NoError(t, err)

		verifier.On("VerifyCredentials", ctx, "bob", "pw").Return(user, nil).Once()

		pair, err := auther.Login(ctx, "bob", "pw")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		verifier.AssertExpectations(t)
	})

	t.Run("propagates authentication failure", func(t *testing.T) {
		verifier := &MockCredentialVerifier{}
		auther := auth.NewAuthenticator(verifier, repo.Users(), lifecycle)

		verifier.On("VerifyCredentials", ctx, "bob", "bad").
			Return(nil, auth.ErrAuthenticationFailed).Once()

		_, err := auther.Login(ctx, "bob", "bad")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)

		verifier.AssertExpectations(t)
	})
}

func TestUserProvider_VerifyCredentials(t *testing.T) {
	ctx := context.Background()

	repo := auth.NewRepositoryManager(setupTestDB(t))
	provider := auth.NewUserProvider(repo.Users())

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	seeded, err := repo.Users().Register(ctx, &auth.User{
		Username:     "carol",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	t.Run("returns the user on a matching password", func(t *testing.T) {
		user, err := provider.VerifyCredentials(ctx, "carol", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, user.ID)
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		_, wrongPwd := provider.VerifyCredentials(ctx, "carol", "battery-staple")
		_, unknown := provider.VerifyCredentials(ctx, "nobody", "battery-staple")

		require.Error(t, wrongPwd)
		require.Error(t, unknown)
		assert.ErrorIs(t, wrongPwd, auth.ErrAuthenticationFailed)
		assert.ErrorIs(t, unknown, auth.ErrAuthenticationFailed)
	})

	t.Run("unknown subject maps to UnknownPrincipal on lookup", func(t *testing.T) {
		_, err := provider.GetByUsername(ctx, "nobody")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUnknownPrincipal)
	})
}

func TestAuther_RefreshCollapsesTokenFailures(t *testing.T) {
	ctx := context.Background()
	auther, _ := newTestAuthenticator(t, "auther-secret")

	logger := &MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	auther.WithLogger(logger)

	_, err := auther.Refresh(ctx, "garbage")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrTokenInvalidOrExpired)
}
