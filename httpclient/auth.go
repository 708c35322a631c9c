package httpclient

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"time"
)

// AuthType identifies the authentication method.
type AuthType string

const (
	// AuthNone disables authentication.
	AuthNone AuthType = ""
	// AuthBearer uses Bearer token authentication.
	AuthBearer AuthType = "bearer"
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic AuthType = "basic"
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey AuthType = "api_key"
	// AuthJWT signs a fresh bearer token for every request.
	AuthJWT AuthType = "jwt"
)

const defaultAPIKeyName = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=bearer basic api_key jwt"`
	// Token is the bearer token (AuthBearer).
	Token string `yaml:"token" mapstructure:"token"`
	// Username is the basic auth username (AuthBasic).
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the basic auth password (AuthBasic).
	Password string `yaml:"password" mapstructure:"password"`
	// Key is the API key value (AuthAPIKey).
	Key string `yaml:"key" mapstructure:"key"`
	// In specifies where to place the API key: "header" (default) or "query".
	In string `yaml:"in" mapstructure:"in" validate:"omitempty,oneof=header query"`
	// Name is the header or query parameter name. Defaults to "X-API-Key".
	Name string `yaml:"name" mapstructure:"name"`
	// JWT holds the signing settings (AuthJWT).
	JWT *JWTConfig `yaml:"jwt" mapstructure:"jwt"`
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: defaultAPIKeyName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// Validate checks that the credentials for the selected type are present.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthNone:
	case AuthBearer:
		if a.Token == "" {
			return fmt.Errorf("httpclient: bearer auth requires a token")
		}
	case AuthBasic:
		if a.Username == "" {
			return fmt.Errorf("httpclient: basic auth requires a username")
		}
	case AuthAPIKey:
		if a.Key == "" {
			return fmt.Errorf("httpclient: api key auth requires a key")
		}
	case AuthJWT:
		if a.JWT == nil {
			return fmt.Errorf("httpclient: jwt auth requires jwt settings")
		}
		return a.JWT.Validate()
	default:
		return fmt.Errorf("httpclient: unknown auth type %q", a.Type)
	}
	return nil
}

// Interceptor returns a request interceptor that applies the credentials.
// Requests that already carry an Authorization (or API key) header keep it.
func (a *AuthConfig) Interceptor() RequestInterceptor {
	return RequestInterceptorFunc(func(req *Request) (*Request, error) {
		if a == nil || a.Type == AuthNone {
			return req, nil
		}
		b := req.NewBuilder()
		if err := a.apply(b); err != nil {
			return nil, err
		}
		return b.buildWithID(req.ID())
	})
}

// apply applies authentication to a request builder.
func (a *AuthConfig) apply(b *RequestBuilder) error {
	switch a.Type {
	case AuthBearer:
		b.BearerAuth(a.Token)
	case AuthBasic:
		b.BasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyName
		}
		if a.In == "query" {
			b.Query(url.Values{name: {a.Key}})
		} else {
			b.Header(name, a.Key)
		}
	case AuthJWT:
		if _, ok := b.headers.Get("Authorization"); ok {
			return nil
		}
		token, err := a.JWT.Sign(time.Now())
		if err != nil {
			return err
		}
		b.BearerAuth(token)
	}
	return nil
}

func basicCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
