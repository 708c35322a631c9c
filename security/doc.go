// Package security builds the TLS settings handed to the transport engine.
//
// Verification follows one of three modes:
//
//   - VerifyDefault: system roots plus any extra CA certificates.
//   - VerifyAll: accept every server certificate. Never use in production.
//   - VerifyCustom: trust only the PEM bundle and CA certificates supplied.
//
// A client identity can be given either as a PEM bundle holding both the
// certificate and its key, or as a cert/key file pair.
//
//	cfg := security.TLSConfig{
//	    VerifyMode: security.VerifyCustom,
//	    PEM:        caBundle,
//	}
//	tlsConfig, err := cfg.Build()
package security
