package auth

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// TokenLifecycle is the state machine that orchestrates token issuance,
// validation and revocation bookkeeping. A (user, token) pair has exactly
// two states, active and revoked, and the only transition is
// active -> revoked.
//
// Revoke-then-issue is a read-modify-write sequence on the ledger, so the
// lifecycle serializes it per username: a single writer per principal
// within this process. Deployments running multiple processes against one
// ledger still race and need coordination at the storage layer.
type TokenLifecycle struct {
	codec  TokenCodec
	ledger RevocationLedger
	users  PrincipalStore
	cfg    *Config
	logger Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTokenLifecycle creates the lifecycle manager
func NewTokenLifecycle(codec TokenCodec, ledger RevocationLedger, users PrincipalStore, cfg *Config) *TokenLifecycle {
	return &TokenLifecycle{
		codec:  codec,
		ledger: ledger,
		users:  users,
		cfg:    cfg,
		logger: defLogger{},
		locks:  map[string]*sync.Mutex{},
	}
}

func (l *TokenLifecycle) WithLogger(logger Logger) *TokenLifecycle {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// IssuePair generates an access/refresh token pair for the user and
// records the refresh token as a new active ledger row. The access token
// is returned but not persisted at issuance time; it only reaches the
// ledger through Refresh.
func (l *TokenLifecycle) IssuePair(ctx context.Context, user *User) (*TokenPair, error) {
	lock := l.lockFor(user.Username)
	lock.Lock()
	defer lock.Unlock()

	return l.issuePair(ctx, user)
}

// RotatePair revokes every active token for the user and issues a fresh
// pair, as one serialized step. A successful login funnels through here so
// it invalidates every previously outstanding refresh token.
func (l *TokenLifecycle) RotatePair(ctx context.Context, user *User) (*TokenPair, error) {
	lock := l.lockFor(user.Username)
	lock.Lock()
	defer lock.Unlock()

	if err := l.revokeActiveTokens(ctx, user); err != nil {
		return nil, err
	}

	return l.issuePair(ctx, user)
}

// Refresh validates the presented refresh token, revokes the user's
// outstanding tokens and issues a new access token, persisted as an
// active ledger row. The refresh token string is reused, not reissued.
//
// Validity is computed from the embedded signature and expiry alone; the
// ledger row backing the presented string was just revoked, so the same
// string will refresh again until its embedded expiry passes. That is the
// documented behavior, not an accident, see the codec's IsValid.
func (l *TokenLifecycle) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := l.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	user, err := l.users.GetByUsername(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	if !l.codec.IsValid(raw, user.Username) {
		return nil, ErrTokenInvalidOrExpired
	}

	lock := l.lockFor(user.Username)
	lock.Lock()
	defer lock.Unlock()

	if err := l.revokeActiveTokens(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := l.codec.Encode(user.Username, user.RoleList(), l.cfg.GetAccessTokenExpiration())
	if err != nil {
		return nil, err
	}

	if err := l.storeToken(ctx, user, accessToken, TokenKindAccess); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: raw,
	}, nil
}

// RevokeActiveTokens bulk-transitions every active token for the user to
// revoked. The transition is terminal.
func (l *TokenLifecycle) RevokeActiveTokens(ctx context.Context, user *User) error {
	lock := l.lockFor(user.Username)
	lock.Lock()
	defer lock.Unlock()

	return l.revokeActiveTokens(ctx, user)
}

func (l *TokenLifecycle) issuePair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := l.codec.Encode(user.Username, user.RoleList(), l.cfg.GetAccessTokenExpiration())
	if err != nil {
		return nil, err
	}

	refreshToken, err := l.codec.Encode(user.Username, user.RoleList(), l.cfg.GetRefreshTokenExpiration())
	if err != nil {
		return nil, err
	}

	if err := l.storeToken(ctx, user, refreshToken, TokenKindRefresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (l *TokenLifecycle) revokeActiveTokens(ctx context.Context, user *User) error {
	active, err := l.ledger.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load active tokens")
	}

	if len(active) == 0 {
		return nil
	}

	for _, token := range active {
		token.Revoke()
	}

	if err := l.ledger.SaveAll(ctx, active); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to revoke active tokens")
	}

	l.logger.Debug("revoked active tokens", "username", user.Username, "count", len(active))

	return nil
}

// storeToken is the single persistence funnel for issued tokens; both the
// refresh-at-issuance and access-at-refresh paths go through it.
func (l *TokenLifecycle) storeToken(ctx context.Context, user *User, raw string, kind TokenKind) error {
	record := &Token{
		UserID: user.ID,
		Raw:    raw,
		Kind:   kind,
	}

	if _, err := l.ledger.Store(ctx, record); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist token record")
	}

	return nil
}

func (l *TokenLifecycle) lockFor(username string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[username] = lock
	}

	return lock
}
