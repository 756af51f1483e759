package keystore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

// KeyType selects the algorithm of a generated key.
type KeyType string

const (
	KeyTypeECDSA KeyType = "ecdsa"
	KeyTypeRSA   KeyType = "rsa"
)

// CertificateConfig contains options for self-signed certificate generation.
type CertificateConfig struct {
	Organization string
	CommonName   string
	DNSNames     []string
	IPAddresses  []net.IP
	ValidFor     time.Duration
	KeyType      KeyType
}

// DefaultCertificateConfig returns a configuration suitable for local test runs.
func DefaultCertificateConfig() CertificateConfig {
	return CertificateConfig{
		Organization: "mock-auth-server",
		CommonName:   "localhost",
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
		ValidFor:     365 * 24 * time.Hour,
		KeyType:      KeyTypeECDSA,
	}
}

// GeneratedCertificate holds a self-signed certificate in PEM form.
type GeneratedCertificate struct {
	CertPEM []byte
	KeyPEM  []byte
}

// TLSCertificate parses the PEM pair into a certificate usable by crypto/tls.
func (g GeneratedCertificate) TLSCertificate() (tls.Certificate, error) {
	return tls.X509KeyPair(g.CertPEM, g.KeyPEM)
}

// GenerateSelfSigned creates a self-signed server certificate. It is used
// when no key store is configured and by tests.
func GenerateSelfSigned(cfg CertificateConfig) (GeneratedCertificate, error) {
	var (
		signer crypto.Signer
		err    error
	)
	switch cfg.KeyType {
	case KeyTypeRSA:
		signer, err = rsa.GenerateKey(rand.Reader, 2048)
	case KeyTypeECDSA, "":
		signer, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	default:
		return GeneratedCertificate{}, fmt.Errorf("unsupported key type %q", cfg.KeyType)
	}
	if err != nil {
		return GeneratedCertificate{}, fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return GeneratedCertificate{}, fmt.Errorf("failed to generate serial number: %w", err)
	}

	keyUsage := x509.KeyUsageDigitalSignature
	if cfg.KeyType == KeyTypeRSA {
		// RSA key exchange encrypts the premaster secret with the server key.
		keyUsage |= x509.KeyUsageKeyEncipherment
	}

	notBefore := time.Now().Add(-time.Minute)
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{cfg.Organization},
			CommonName:   cfg.CommonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(cfg.ValidFor),
		KeyUsage:              keyUsage,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              cfg.DNSNames,
		IPAddresses:           cfg.IPAddresses,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, signer.Public(), signer)
	if err != nil {
		return GeneratedCertificate{}, fmt.Errorf("failed to create certificate: %w", err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(signer)
	if err != nil {
		return GeneratedCertificate{}, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return GeneratedCertificate{
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}),
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	}, nil
}
