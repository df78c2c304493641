package auth

import (
	"time"

	"github.com/goliatone/go-errors"
)

// RefreshExpirationFactor scales the access token duration into the
// refresh token duration: 24 * 7, a week's worth of base windows.
const RefreshExpirationFactor = 168

// Config holds the immutable auth options. Build one with NewConfig and
// pass it into constructors; the package keeps no ambient state.
type Config struct {
	signingSecret   string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewConfig derives the refresh window from the access window once, at
// construction. Misconfiguration is surfaced here so the process can
// refuse to start.
func NewConfig(signingSecret string, accessTokenTTL time.Duration) (*Config, error) {
	cfg := &Config{
		signingSecret:   signingSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: accessTokenTTL * RefreshExpirationFactor,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.signingSecret == "" {
		return errors.New("signing secret is required", errors.CategoryValidation).
			WithTextCode("MISSING_SIGNING_SECRET")
	}

	if c.accessTokenTTL <= 0 {
		return errors.New("access token expiration must be positive", errors.CategoryValidation).
			WithTextCode("INVALID_TOKEN_EXPIRATION")
	}

	return nil
}

func (c *Config) GetSigningSecret() string {
	return c.signingSecret
}

func (c *Config) GetAccessTokenExpiration() time.Duration {
	return c.accessTokenTTL
}

func (c *Config) GetRefreshTokenExpiration() time.Duration {
	return c.refreshTokenTTL
}
