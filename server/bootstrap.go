package server

import (
	"crypto/tls"
	"fmt"

	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/jrsteele09/go-mock-auth-server/keystore"
	"github.com/jrsteele09/go-mock-auth-server/tlspolicy"
	"github.com/rs/zerolog/log"
)

// BuildTLSConfig loads the server identity and applies the configured
// protocol and cipher policy. The effective policy is logged so test
// harnesses can check what the listener will offer.
func BuildTLSConfig(c config.TLSConfig) (*tls.Config, tlspolicy.Effective, error) {
	cert, err := loadIdentity(c)
	if err != nil {
		return nil, tlspolicy.Effective{}, err
	}

	policy, err := c.GetTLSPolicy()
	if err != nil {
		return nil, tlspolicy.Effective{}, err
	}
	tlsConfig, eff, err := policy.ServerConfig([]tls.Certificate{cert})
	if err != nil {
		return nil, tlspolicy.Effective{}, err
	}

	log.Info().
		Strs("include_protocols", policy.IncludeProtocols()).
		Strs("exclude_protocols", policy.ExcludeProtocols()).
		Strs("exclude_cipher_patterns", policy.ExcludeCipherPatterns()).
		Msg("TLS policy configured")
	log.Info().EmbedObject(eff).Msg("TLS policy in effect")
	return tlsConfig, eff, nil
}

func loadIdentity(c config.TLSConfig) (tls.Certificate, error) {
	if c.GetSelfSigned() {
		gen, err := keystore.GenerateSelfSigned(keystore.DefaultCertificateConfig())
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("self-signed identity: %w", err)
		}
		log.Warn().Msg("TLS: serving a generated self-signed certificate")
		return gen.TLSCertificate()
	}

	cert, err := keystore.Load(keystore.Source{
		Path:     c.GetKeystorePath(),
		Password: c.GetKeyPassword(),
		KeyPath:  c.GetKeyPath(),
	})
	if err != nil {
		return tls.Certificate{}, err
	}
	log.Info().Str("keystore", c.GetKeystorePath()).Msg("TLS: identity loaded")
	return cert, nil
}
