package httpclient

import (
	"fmt"
	"time"

	"github.com/ssj4429108/OkRequest/security"
	"github.com/ssj4429108/OkRequest/validation"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxConnections = 5
)

// Protocol is an HTTP protocol preference passed to the transport.
type Protocol string

const (
	ProtocolHTTP10           Protocol = "http/1.0"
	ProtocolHTTP11           Protocol = "http/1.1"
	ProtocolHTTP2            Protocol = "h2"
	ProtocolH2PriorKnowledge Protocol = "h2_prior_knowledge"
)

// Config configures the HTTP client and the transport engine behind it.
type Config struct {
	// BaseURL is prepended to request urls that do not start with "http".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds connection setup and waiting for response headers. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxConnections caps concurrent connections per host. Defaults to 5.
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections" validate:"gte=0"`

	// Protocols lists accepted protocols in preference order. Empty lets the
	// engine negotiate.
	Protocols []Protocol `yaml:"protocols" mapstructure:"protocols" validate:"dive,oneof=http/1.0 http/1.1 h2 h2_prior_knowledge"`

	// TLS configures server verification and the client identity.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Cache is applied to requests that carry no cache control of their own.
	Cache *CacheControl `yaml:"cache" mapstructure:"cache"`

	// Headers are default headers added to every request that lacks them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	// NoProxy disables proxies from the environment.
	NoProxy bool `yaml:"no_proxy" mapstructure:"no_proxy"`

	// RateLimit throttles outgoing requests. Nil disables throttling.
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// EnableCurlLog logs every outgoing request as a curl command at debug level.
	EnableCurlLog bool `yaml:"enable_curl_log" mapstructure:"enable_curl_log"`

	// RequestInterceptors run on every request in order.
	RequestInterceptors []RequestInterceptor `yaml:"-" mapstructure:"-"`

	// ResponseInterceptors run on every response in order.
	ResponseInterceptors []ResponseInterceptor `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = defaultMaxConnections
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	if c.Auth != nil {
		if err := c.Auth.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasProtocol reports whether p is among the configured protocols.
func (c *Config) HasProtocol(p Protocol) bool {
	for _, proto := range c.Protocols {
		if proto == p {
			return true
		}
	}
	return false
}
