package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig describes how a transport should verify the peer during the TLS
// handshake. The zero value means "use the platform defaults" and Build
// returns nil for it.
//
// A single TLSConfig may be shared across many requests and clients; Build
// never mutates the receiver.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended outside of tests.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is the path to a PEM bundle of trusted root certificates.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile are the client certificate pair for mTLS.
	// Both must be set together.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the hostname used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum accepted TLS version. Defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`

	// VerifyPeer, when set, is called with the leaf certificate after the
	// standard chain verification succeeds. Returning an error aborts the
	// handshake. It runs in addition to, never instead of, chain
	// verification (unless SkipVerify is also set).
	VerifyPeer func(leaf *x509.Certificate) error `yaml:"-" mapstructure:"-"`
}

// Build creates a *tls.Config from the configuration. It returns (nil, nil)
// when nothing is configured so callers can fall through to the transport
// default.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.hasSettings() {
		return nil, nil
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("security/tls: no certificates parsed from %s", c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security/tls: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if verify := c.VerifyPeer; verify != nil {
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
			if len(verifiedChains) > 0 && len(verifiedChains[0]) > 0 {
				return verify(verifiedChains[0][0])
			}
			if len(rawCerts) == 0 {
				return fmt.Errorf("security/tls: no peer certificate presented")
			}
			leaf, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("security/tls: parse peer certificate: %w", err)
			}
			return verify(leaf)
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: cert_file and key_file must be provided together")
	}
	return nil
}

// IsEnabled reports whether any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && c.hasSettings()
}

func (c *TLSConfig) hasSettings() bool {
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" ||
		c.ServerName != "" || c.MinVersion != 0 || c.VerifyPeer != nil
}
