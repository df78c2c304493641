package auth

import (
	"github.com/goliatone/go-errors"
)

// SigningKey holds the symmetric key material used to sign and verify
// tokens. It is built once from the configured secret and never rotates
// for the lifetime of the process.
type SigningKey struct {
	key []byte
}

// NewSigningKey derives HMAC-SHA-512 key material from the configured
// secret. An absent secret is a startup failure, not a runtime one.
func NewSigningKey(secret string) (*SigningKey, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty", errors.CategoryValidation).
			WithTextCode("MISSING_SIGNING_SECRET")
	}

	return &SigningKey{key: []byte(secret)}, nil
}

// NewSigningKeyFromConfig is a convenience wrapper for callers holding a
// validated Config.
func NewSigningKeyFromConfig(cfg *Config) (*SigningKey, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil", errors.CategoryValidation).
			WithTextCode("MISSING_CONFIG")
	}
	return NewSigningKey(cfg.GetSigningSecret())
}

// Key returns the raw key bytes.
func (s *SigningKey) Key() []byte {
	return s.key
}
