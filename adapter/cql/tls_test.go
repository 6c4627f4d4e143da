package cql

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSigned(t *testing.T) (*x509.Certificate, []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "cassandra-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return cert, der
}

func TestTLSConfigPEMTruststore(t *testing.T) {
	cert, der := selfSigned(t)

	path := filepath.Join(t.TempDir(), "truststore.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))

	cfg, err := (&TLSOptions{TruststorePath: path}).Config()
	require.NoError(t, err)
	require.NotNil(t, cfg.RootCAs)
	assert.True(t, cfg.InsecureSkipVerify)
	require.NotNil(t, cfg.VerifyPeerCertificate)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)

	// The chain check accepts the trusted certificate and rejects garbage.
	require.NoError(t, cfg.VerifyPeerCertificate([][]byte{cert.Raw}, nil))
	require.Error(t, cfg.VerifyPeerCertificate([][]byte{[]byte("junk")}, nil))
	require.Error(t, cfg.VerifyPeerCertificate(nil, nil))
}

func TestTLSConfigUntrustedChain(t *testing.T) {
	_, trusted := selfSigned(t)
	other, _ := selfSigned(t)

	path := filepath.Join(t.TempDir(), "truststore.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: trusted}), 0o600))

	cfg, err := (&TLSOptions{TruststorePath: path}).Config()
	require.NoError(t, err)
	assert.Error(t, cfg.VerifyPeerCertificate([][]byte{other.Raw}, nil))
}

func TestTLSConfigVerifyHostname(t *testing.T) {
	cfg, err := (&TLSOptions{VerifyHostname: true}).Config()
	require.NoError(t, err)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.VerifyPeerCertificate)
}

func TestTLSConfigMissingFiles(t *testing.T) {
	_, err := (&TLSOptions{TruststorePath: "/nonexistent/truststore.p12"}).Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read truststore")

	_, err = (&TLSOptions{KeystorePath: "/nonexistent/keystore.p12"}).Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read keystore")
}

func TestTLSConfigInvalidPKCS12(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.p12")
	require.NoError(t, os.WriteFile(path, []byte("not a pkcs12 file"), 0o600))

	_, err := (&TLSOptions{KeystorePath: path, KeystorePassword: "secret"}).Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode keystore")

	_, err = (&TLSOptions{TruststorePath: path, TruststorePassword: "secret"}).Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode truststore")
}

func TestConnectOptionsWithDefaults(t *testing.T) {
	o := ConnectOptions{Hosts: []string{"127.0.0.1"}}.WithDefaults()
	assert.Equal(t, DefaultPort, o.Port)
	assert.Equal(t, DefaultConnectTimeout, o.ConnectTimeout)
	assert.Equal(t, DefaultReadTimeout, o.ReadTimeout)
	assert.Equal(t, LocalOne, o.Consistency)

	o = ConnectOptions{Port: 19042, Consistency: Quorum}.WithDefaults()
	assert.Equal(t, 19042, o.Port)
	assert.Equal(t, Quorum, o.Consistency)
}
