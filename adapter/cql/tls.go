package cql

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// TLSOptions points at the key material used for client encryption.
//
// Truststore and keystore are PKCS#12 files, the portable form of a Java keystore.
// A truststore may also be a PEM bundle.
type TLSOptions struct {
	TruststorePath     string
	TruststorePassword string
	KeystorePath       string
	KeystorePassword   string

	// VerifyHostname additionally checks the server certificate's host name. The
	// certificate chain is always verified against the truststore when one is given.
	VerifyHostname bool
}

// Config builds a tls.Config from the options.
//
// Returns:
//   - *tls.Config: The client configuration
//   - error: If a store cannot be read or decoded
func (o *TLSOptions) Config() (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if o.TruststorePath != "" {
		pool, err := loadTruststore(o.TruststorePath, o.TruststorePassword)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	if o.KeystorePath != "" {
		cert, err := loadKeystore(o.KeystorePath, o.KeystorePassword)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	if !o.VerifyHostname {
		// The driver disables its own verification when host verification is off,
		// so the chain is checked here instead.
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = verifyChain(cfg.RootCAs)
	}

	return cfg, nil
}

func loadTruststore(path, password string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read truststore: %w", err)
	}

	pool := x509.NewCertPool()
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN")) {
		if !pool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf("truststore %s contains no certificates", path)
		}
		return pool, nil
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, fmt.Errorf("decode truststore %s: %w", path, err)
	}

	n := 0
	for _, b := range blocks {
		if b.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(b.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse truststore certificate: %w", err)
		}
		pool.AddCert(cert)
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("truststore %s contains no certificates", path)
	}

	return pool, nil
}

func loadKeystore(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("read keystore: %w", err)
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode keystore %s: %w", path, err)
	}

	var certPEM, keyPEM []byte
	for _, b := range blocks {
		if b.Type == "CERTIFICATE" {
			certPEM = append(certPEM, pem.EncodeToMemory(b)...)
		} else {
			keyPEM = append(keyPEM, pem.EncodeToMemory(b)...)
		}
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load keystore key pair: %w", err)
	}

	return cert, nil
}

// verifyChain checks the presented chain against roots without a host name.
func verifyChain(roots *x509.CertPool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errors.New("server presented no certificate")
		}

		certs := make([]*x509.Certificate, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("parse server certificate: %w", err)
			}
			certs[i] = cert
		}

		intermediates := x509.NewCertPool()
		for _, c := range certs[1:] {
			intermediates.AddCert(c)
		}

		_, err := certs[0].Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
		})

		return err
	}
}
