package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	auth "github.com/Athirson-Pequeno/jwt-auth-template"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testAccessTTL = 15 * time.Minute

var testDBCounter atomic.Int64

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockCredentialVerifier implements auth.CredentialVerifier
type MockCredentialVerifier struct {
	mock.Mock
}

func (m *MockCredentialVerifier) VerifyCredentials(ctx context.Context, username, password string) (*auth.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// MockPrincipalStore implements auth.PrincipalStore
type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// setupTestDB opens an in-memory sqlite bun.DB and creates the auth tables.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// one connection keeps the shared in-memory database alive and
	// serializes writers, sqlite locks otherwise
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	ctx := context.Background()

	_, err = db.NewCreateTable().Model((*auth.User)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewCreateTable().Model((*auth.Token)(nil)).IfNotExists().Exec(ctx)
	require.NoError(t, err)

	return db
}

// newTestAuthenticator wires a full stack against an in-memory DB.
func newTestAuthenticator(t *testing.T, secret string) (*auth.Auther, auth.RepositoryManager) {
	t.Helper()

	cfg, err := auth.NewConfig(secret, testAccessTTL)
	require.NoError(t, err)

	repo := auth.NewRepositoryManager(setupTestDB(t))
	repo.MustValidate()

	auther, err := auth.NewAuthenticatorFromConfig(repo, cfg)
	require.NoError(t, err)

	return auther, repo
}
