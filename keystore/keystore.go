// Package keystore loads the TLS server identity once at startup.
package keystore

import (
	"bytes"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"golang.org/x/crypto/pkcs12"
)

// Source describes where the server identity comes from.
type Source struct {
	// Path is a PKCS#12 key store (.p12, .pfx) or a PEM file holding the
	// certificate chain and, unless KeyPath is set, the private key.
	Path string

	// Password decrypts a PKCS#12 key store. Unused for PEM.
	Password string

	// KeyPath optionally names a separate PEM private key file.
	KeyPath string
}

// Load reads the identity described by src. The returned certificate is
// read-only and safe to share between handshakes.
func Load(src Source) (tls.Certificate, error) {
	if src.Path == "" {
		return tls.Certificate{}, fmt.Errorf("%w: no key store path configured", errors.ErrKeyStore)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %w", errors.ErrKeyStore, err)
	}

	var cert tls.Certificate
	switch {
	case isPKCS12(src.Path):
		cert, err = fromPKCS12(data, src.Password)
	case src.KeyPath != "":
		var keyData []byte
		keyData, err = os.ReadFile(src.KeyPath)
		if err == nil {
			cert, err = tls.X509KeyPair(data, keyData)
		}
	default:
		cert, err = tls.X509KeyPair(data, data)
	}
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %s: %w", errors.ErrKeyStore, src.Path, err)
	}
	return cert, nil
}

func isPKCS12(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return true
	}
	return false
}

// fromPKCS12 converts every bag of the store to PEM and pairs the
// certificate chain with the private key.
func fromPKCS12(data []byte, password string) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "decode pkcs12")
	}

	var certPEM, keyPEM bytes.Buffer
	for _, block := range blocks {
		switch block.Type {
		case "CERTIFICATE":
			if err := pem.Encode(&certPEM, block); err != nil {
				return tls.Certificate{}, err
			}
		case "PRIVATE KEY":
			if keyPEM.Len() > 0 {
				return tls.Certificate{}, fmt.Errorf("key store holds more than one private key")
			}
			if err := pem.Encode(&keyPEM, block); err != nil {
				return tls.Certificate{}, err
			}
		}
	}
	if keyPEM.Len() == 0 {
		return tls.Certificate{}, fmt.Errorf("key store holds no private key")
	}
	return tls.X509KeyPair(certPEM.Bytes(), keyPEM.Bytes())
}
