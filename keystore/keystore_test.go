package keystore_test

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/jrsteele09/go-mock-auth-server/keystore"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad(t *testing.T) {
	gen, err := keystore.GenerateSelfSigned(keystore.DefaultCertificateConfig())
	require.NoError(t, err)
	dir := t.TempDir()

	t.Run("pem bundle", func(t *testing.T) {
		path := writeFile(t, dir, "bundle.pem", append(append([]byte{}, gen.CertPEM...), gen.KeyPEM...))
		cert, err := keystore.Load(keystore.Source{Path: path})
		require.NoError(t, err)
		require.Len(t, cert.Certificate, 1)

		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		require.NoError(t, err)
		require.Equal(t, "localhost", leaf.Subject.CommonName)
	})

	t.Run("separate key file", func(t *testing.T) {
		certPath := writeFile(t, dir, "cert.pem", gen.CertPEM)
		keyPath := writeFile(t, dir, "key.pem", gen.KeyPEM)
		_, err := keystore.Load(keystore.Source{Path: certPath, KeyPath: keyPath})
		require.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := keystore.Load(keystore.Source{Path: filepath.Join(dir, "nope.p12"), Password: "changeit"})
		require.ErrorIs(t, err, errors.ErrKeyStore)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := keystore.Load(keystore.Source{})
		require.ErrorIs(t, err, errors.ErrKeyStore)
	})

	t.Run("garbage pkcs12", func(t *testing.T) {
		path := writeFile(t, dir, "broken.p12", []byte("not a key store"))
		_, err := keystore.Load(keystore.Source{Path: path, Password: "changeit"})
		require.ErrorIs(t, err, errors.ErrKeyStore)
	})

	t.Run("certificate without key", func(t *testing.T) {
		path := writeFile(t, dir, "certonly.pem", gen.CertPEM)
		_, err := keystore.Load(keystore.Source{Path: path})
		require.ErrorIs(t, err, errors.ErrKeyStore)
	})
}

func TestGenerateSelfSigned(t *testing.T) {
	for _, keyType := range []keystore.KeyType{keystore.KeyTypeECDSA, keystore.KeyTypeRSA} {
		t.Run(string(keyType), func(t *testing.T) {
			cfg := keystore.DefaultCertificateConfig()
			cfg.KeyType = keyType
			gen, err := keystore.GenerateSelfSigned(cfg)
			require.NoError(t, err)

			cert, err := gen.TLSCertificate()
			require.NoError(t, err)
			require.NotNil(t, cert.PrivateKey)
		})
	}

	t.Run("unsupported key type", func(t *testing.T) {
		cfg := keystore.DefaultCertificateConfig()
		cfg.KeyType = "dsa"
		_, err := keystore.GenerateSelfSigned(cfg)
		require.Error(t, err)
	})
}

func TestLoadBundledKeyStore(t *testing.T) {
	cert, err := keystore.Load(keystore.Source{Path: "../etc/keystore.p12", Password: "changeit"})
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	require.Equal(t, "localhost", leaf.Subject.CommonName)
	require.Contains(t, leaf.DNSNames, "localhost")

	_, err = keystore.Load(keystore.Source{Path: "../etc/keystore.p12", Password: "wrong"})
	require.ErrorIs(t, err, errors.ErrKeyStore)
}
