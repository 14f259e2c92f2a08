package security

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"testing"

	"github.com/Ahim13/restkit/security/tlstest"
)

func TestTLSConfig_Build_Empty(t *testing.T) {
	cfg := &TLSConfig{}
	built, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built != nil {
		t.Error("expected nil tls.Config for empty configuration")
	}

	var nilCfg *TLSConfig
	if built, err = nilCfg.Build(); err != nil || built != nil {
		t.Errorf("nil receiver should build to (nil, nil), got (%v, %v)", built, err)
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	cfg := &TLSConfig{SkipVerify: true}
	built, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !built.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if built.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected default MinVersion TLS 1.2, got %x", built.MinVersion)
	}
}

func TestTLSConfig_Build_CAFile(t *testing.T) {
	certs := tlstest.Generate(t)

	cfg := &TLSConfig{CAFile: certs.CAFile}
	built, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.RootCAs == nil {
		t.Error("expected RootCAs to be populated")
	}
}

func TestTLSConfig_Build_CAFileMissing(t *testing.T) {
	cfg := &TLSConfig{CAFile: "/nonexistent/ca.pem"}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected error for missing CA file")
	}
}

func TestTLSConfig_Build_ClientCert(t *testing.T) {
	certs := tlstest.Generate(t)

	cfg := &TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}
	built, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(built.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(built.Certificates))
	}
}

func TestTLSConfig_Build_VerifyPeer(t *testing.T) {
	certs := tlstest.Generate(t)
	wantErr := errors.New("rejected")

	cfg := &TLSConfig{
		CAFile: certs.CAFile,
		VerifyPeer: func(leaf *x509.Certificate) error {
			if leaf.Subject.CommonName != "localhost" {
				return wantErr
			}
			return nil
		},
	}
	built, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if built.VerifyPeerCertificate == nil {
		t.Fatal("expected VerifyPeerCertificate to be wired")
	}

	// Callback receives the verified leaf when chains are available.
	chains := [][]*x509.Certificate{{certs.ServerCert, certs.CACert}}
	if err := built.VerifyPeerCertificate(nil, chains); err != nil {
		t.Errorf("expected leaf to pass verification: %v", err)
	}

	// Without chains it falls back to parsing the raw certificate.
	if err := built.VerifyPeerCertificate([][]byte{certs.ServerCert.Raw}, nil); err != nil {
		t.Errorf("raw-cert fallback failed: %v", err)
	}

	if err := built.VerifyPeerCertificate(nil, nil); err == nil {
		t.Error("expected error when no peer certificate is presented")
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	cfg := &TLSConfig{CertFile: "cert.pem"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for cert without key")
	}

	cfg = &TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("nil config should validate: %v", err)
	}
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	if (&TLSConfig{}).IsEnabled() {
		t.Error("empty config should not be enabled")
	}
	if !(&TLSConfig{SkipVerify: true}).IsEnabled() {
		t.Error("skip_verify should enable the config")
	}
	if !(&TLSConfig{VerifyPeer: func(*x509.Certificate) error { return nil }}).IsEnabled() {
		t.Error("custom verifier should enable the config")
	}
}
