package security

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

// VerifyMode selects how server certificates are verified.
type VerifyMode string

const (
	// VerifyDefault verifies against the system roots and any extra CACerts.
	VerifyDefault VerifyMode = "default"
	// VerifyAll accepts any server certificate.
	VerifyAll VerifyMode = "all"
	// VerifyCustom verifies only against PEM, CAFile and CACerts.
	VerifyCustom VerifyMode = "custom"
)

// Certificate encodings accepted in Cert.Type.
const (
	CertTypePEM = "pem"
	CertTypeDER = "der"
)

// Cert is an additional root certificate.
type Cert struct {
	// Cert is the certificate content. DER content is the raw bytes held in a string.
	Cert string `yaml:"cert" mapstructure:"cert"`
	// Type is "pem" or "der" (case-insensitive).
	Type string `yaml:"type" mapstructure:"type"`
}

// TLSConfig holds the TLS settings of a transport engine.
type TLSConfig struct {
	// VerifyMode selects server verification. Empty means VerifyDefault.
	VerifyMode VerifyMode `yaml:"verify_mode" mapstructure:"verify_mode" validate:"omitempty,oneofci=default all custom"`

	// PEM is a bundle of trusted CA certificates, used by VerifyCustom.
	PEM string `yaml:"pem" mapstructure:"pem"`

	// CAFile is the path to a CA certificate file.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CACerts are extra root certificates.
	CACerts []Cert `yaml:"ca_certs" mapstructure:"ca_certs"`

	// ClientCert is a PEM bundle with the client certificate chain and private key (for mTLS).
	ClientCert string `yaml:"client_cert" mapstructure:"client_cert"`

	// CertFile is the path to the client TLS certificate file (for mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the path to the client TLS key file (for mTLS).
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the server name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// Build creates a *tls.Config from the configuration.
// Returns nil if nothing is configured.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.hasSettings() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.mode() == VerifyAll, //nolint:gosec // explicit opt-in
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if err := c.loadRoots(cfg); err != nil {
		return nil, err
	}
	if err := c.loadClientCert(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	switch c.mode() {
	case VerifyDefault, VerifyAll:
	case VerifyCustom:
		if c.PEM == "" && c.CAFile == "" && len(c.CACerts) == 0 {
			return fmt.Errorf("security/tls: custom verify mode needs pem, ca_file or ca_certs")
		}
	default:
		return fmt.Errorf("security/tls: unknown verify mode %q", c.VerifyMode)
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: both cert_file and key_file must be provided together")
	}
	if c.ClientCert != "" && c.CertFile != "" {
		return fmt.Errorf("security/tls: client_cert and cert_file are mutually exclusive")
	}
	for _, cert := range c.CACerts {
		switch strings.ToLower(cert.Type) {
		case CertTypePEM, CertTypeDER:
		default:
			return fmt.Errorf("security/tls: unknown certificate type %q", cert.Type)
		}
	}
	return nil
}

// IsEnabled returns true if any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && c.hasSettings()
}

func (c *TLSConfig) mode() VerifyMode {
	if c.VerifyMode == "" {
		return VerifyDefault
	}
	return VerifyMode(strings.ToLower(string(c.VerifyMode)))
}

func (c *TLSConfig) hasSettings() bool {
	return c.VerifyMode != "" || c.PEM != "" || c.CAFile != "" || len(c.CACerts) > 0 ||
		c.ClientCert != "" || c.CertFile != "" || c.ServerName != "" || c.MinVersion != 0
}

// loadRoots fills cfg.RootCAs. VerifyDefault starts from the system pool,
// VerifyCustom from an empty one. Nothing is set when there is nothing to add.
func (c *TLSConfig) loadRoots(cfg *tls.Config) error {
	custom := c.mode() == VerifyCustom
	if !custom && c.CAFile == "" && len(c.CACerts) == 0 {
		return nil
	}

	var pool *x509.CertPool
	if custom {
		pool = x509.NewCertPool()
	} else {
		sys, err := x509.SystemCertPool()
		if err != nil || sys == nil {
			sys = x509.NewCertPool()
		}
		pool = sys
	}

	if custom && c.PEM != "" {
		if !pool.AppendCertsFromPEM([]byte(c.PEM)) {
			return fmt.Errorf("security/tls: failed to parse pem bundle")
		}
	}
	if c.CAFile != "" {
		ca, err := os.ReadFile(c.CAFile)
		if err != nil {
			return fmt.Errorf("security/tls: failed to read CA file: %w", err)
		}
		if !pool.AppendCertsFromPEM(ca) {
			return fmt.Errorf("security/tls: failed to parse CA certificate")
		}
	}
	for i, cert := range c.CACerts {
		if err := appendCert(pool, cert); err != nil {
			return fmt.Errorf("security/tls: ca_certs[%d]: %w", i, err)
		}
	}

	cfg.RootCAs = pool
	return nil
}

func appendCert(pool *x509.CertPool, cert Cert) error {
	switch strings.ToLower(cert.Type) {
	case CertTypePEM:
		if !pool.AppendCertsFromPEM([]byte(cert.Cert)) {
			return fmt.Errorf("failed to parse pem certificate")
		}
	case CertTypeDER:
		parsed, err := x509.ParseCertificate([]byte(cert.Cert))
		if err != nil {
			return fmt.Errorf("failed to parse der certificate: %w", err)
		}
		pool.AddCert(parsed)
	default:
		return fmt.Errorf("unknown certificate type %q", cert.Type)
	}
	return nil
}

// loadClientCert loads the client identity into the TLS config.
func (c *TLSConfig) loadClientCert(cfg *tls.Config) error {
	switch {
	case c.ClientCert != "":
		certPEM, keyPEM := splitIdentity([]byte(c.ClientCert))
		cert, err := tls.X509KeyPair(certPEM, keyPEM)
		if err != nil {
			return fmt.Errorf("security/tls: failed to parse client identity: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	case c.CertFile != "" && c.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return fmt.Errorf("security/tls: failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return nil
}

// splitIdentity separates a combined PEM bundle into certificate and key blocks.
func splitIdentity(bundle []byte) (certPEM, keyPEM []byte) {
	for {
		var block *pem.Block
		block, bundle = pem.Decode(bundle)
		if block == nil {
			return certPEM, keyPEM
		}
		encoded := pem.EncodeToMemory(block)
		if strings.Contains(block.Type, "PRIVATE KEY") {
			keyPEM = append(keyPEM, encoded...)
		} else {
			certPEM = append(certPEM, encoded...)
		}
	}
}
