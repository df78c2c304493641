package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenCodec encodes and decodes signed compact tokens
type TokenCodec interface {
	Encode(subject string, roles []string, ttl time.Duration) (string, error)
	Decode(raw string) (*JWTClaims, error)
	ExtractSubject(raw string) (string, error)
	ExtractExpiry(raw string) (time.Time, error)
	IsValid(raw, subject string) bool
}

// TokenCodecImpl implements TokenCodec over HMAC-SHA-512
type TokenCodecImpl struct {
	signingKey *SigningKey
	logger     Logger
}

// NewTokenCodec creates a new TokenCodec instance
func NewTokenCodec(signingKey *SigningKey, logger Logger) TokenCodec {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenCodecImpl{
		signingKey: signingKey,
		logger:     logger,
	}
}

// Encode builds a claim set for the subject and produces a signed compact
// token. Issued-at is always the current wall clock time.
func (tc *TokenCodecImpl) Encode(subject string, roles []string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject must not be empty", errors.CategoryValidation).
			WithTextCode("EMPTY_SUBJECT")
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		RoleList: roles,
	}

	return tc.SignClaims(claims)
}

// SignClaims signs an arbitrary claim set using the configured signing key.
func (tc *TokenCodecImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signedString, err := token.SignedString(tc.signingKey.Key())
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Decode verifies the signature and structural validity of a raw token
// and returns its claims. Failures are tagged so callers can tell a
// syntactically broken token from a tampered or an expired one.
func (tc *TokenCodecImpl) Decode(raw string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, tc.keyFunc)

	if err != nil {
		return nil, tc.classifyParseError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	tc.logger.Error("TokenCodec decode could not map claims")
	return nil, ErrTokenMalformed
}

// ExtractSubject decodes the token and returns its subject claim.
func (tc *TokenCodecImpl) ExtractSubject(raw string) (string, error) {
	claims, err := tc.Decode(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject(), nil
}

// ExtractExpiry returns the embedded expiry deadline. The signature is
// still verified but expiry validation is skipped so the deadline of an
// already expired token can be read back.
func (tc *TokenCodecImpl) ExtractExpiry(raw string) (time.Time, error) {
	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, tc.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return time.Time{}, tc.classifyParseError(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return time.Time{}, ErrTokenMalformed
	}

	return claims.Expires(), nil
}

// IsValid reports whether the token verifies against the signing key,
// belongs to the given subject, and has not passed its embedded expiry.
// Expiry is evaluated against the wall clock at call time. The revocation
// ledger is deliberately not consulted here: validity is a property of the
// token string alone, bookkeeping lives in the lifecycle manager.
func (tc *TokenCodecImpl) IsValid(raw, subject string) bool {
	claims, err := tc.Decode(raw)
	if err != nil {
		return false
	}

	return claims.Subject() == subject && claims.Expires().After(time.Now())
}

func (tc *TokenCodecImpl) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		tc.logger.Error("TokenCodec encountered unexpected signing method", "alg", t.Header["alg"])
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return tc.signingKey.Key(), nil
}

func (tc *TokenCodecImpl) classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	}

	return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
		WithTextCode(ErrTokenMalformed.TextCode)
}
