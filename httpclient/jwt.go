package httpclient

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/ssj4429108/OkRequest/validation"
)

// JWTMethod is an HMAC signing algorithm.
type JWTMethod string

const (
	HS256 JWTMethod = "HS256"
	HS384 JWTMethod = "HS384"
	HS512 JWTMethod = "HS512"
)

const defaultJWTTTL = 5 * time.Minute

// JWTConfig signs short-lived bearer tokens on the client side.
type JWTConfig struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is the signing algorithm. Defaults to HS256.
	Method JWTMethod `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512"`
	// Issuer is the "iss" claim.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Subject is the "sub" claim.
	Subject string `yaml:"subject" mapstructure:"subject"`
	// Audience is the "aud" claim.
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Validate checks the signing settings.
func (c *JWTConfig) Validate() error {
	v := validation.New().
		Required("secret", c.Secret).
		OneOf("method", string(c.Method), []string{string(HS256), string(HS384), string(HS512)}).
		Custom(c.TTL >= 0, "ttl", "must not be negative")
	if err := v.Validate(); err != nil {
		return fmt.Errorf("httpclient: jwt auth: %w", err)
	}
	return nil
}

func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

// Sign returns a token issued at now.
func (c *JWTConfig) Sign(now time.Time) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultJWTTTL
	}
	claims := gojwt.RegisteredClaims{
		Issuer:    c.Issuer,
		Subject:   c.Subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}
	if len(c.Audience) > 0 {
		claims.Audience = gojwt.ClaimStrings(c.Audience)
	}
	signed, err := gojwt.NewWithClaims(c.signingMethod(), claims).SignedString([]byte(c.Secret))
	if err != nil {
		return "", fmt.Errorf("httpclient: sign jwt: %w", err)
	}
	return signed, nil
}
