package netx

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domain     string
	Email      string
	StorageDir string // optional; defaults to $XDG_CACHE_HOME/hxblog/certmagic
	CA         string // optional; defaults to Let's Encrypt prod
}

// BuildCertMagicTLS provisions or loads certificates for cfg.Domain and
// returns a TLS config plus the handler that answers HTTP-01 challenges.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, http.Handler, error) {
	if cfg.Domain == "" {
		return nil, nil, errors.New("domain is required")
	}

	cm := certmagic.NewDefault()
	if cfg.StorageDir == "" {
		cfg.StorageDir = defaultCertDir()
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}

	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:  cfg.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, []string{cfg.Domain}); err != nil {
		return nil, nil, err
	}

	tlsConf := cm.TLSConfig()
	tlsConf.NextProtos = withProtos(tlsConf.NextProtos, "h2", "http/1.1")
	tlsConf.MinVersion = tls.VersionTLS12
	return tlsConf, issuer.HTTPChallengeHandler(http.NotFoundHandler()), nil
}

func defaultCertDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "hxblog", "certmagic")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "hxblog", "certmagic")
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// withProtos appends each ALPN protocol not already listed.
func withProtos(have []string, want ...string) []string {
	for _, w := range want {
		found := false
		for _, p := range have {
			if p == w {
				found = true
				break
			}
		}
		if !found {
			have = append(have, w)
		}
	}
	return have
}

// BuildFileTLS loads a certificate from PEM files for BYO certs.
func BuildFileTLS(certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, errors.New("both certFile and keyFile are required")
	}

	c, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}

	now := time.Now()
	for i, b := range c.Certificate {
		cert, err := x509.ParseCertificate(b)
		if err != nil {
			return nil, fmt.Errorf("invalid certificate at index %d: %w", i, err)
		}
		if now.Before(cert.NotBefore) {
			return nil, fmt.Errorf("certificate not yet valid (starts %s)", cert.NotBefore)
		}
		if now.After(cert.NotAfter) {
			return nil, fmt.Errorf("certificate expired on %s", cert.NotAfter)
		}
	}

	return &tls.Config{
		Certificates: []tls.Certificate{c},
		NextProtos:   []string{"h2", "http/1.1"},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// SelfSignedPEM returns a certificate and key for localhost valid from
// notBefore to notAfter. It is meant for tests and local development.
func SelfSignedPEM(notBefore, notAfter time.Time) (certPEM, keyPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	templ := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		DNSNames:              []string{"localhost"},
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, templ, templ, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})
	return certPEM, keyPEM, nil
}
