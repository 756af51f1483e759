package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)

	require.Equal(t, 8097, c.GetHTTPPort())
	require.Equal(t, 1443, c.GetHTTPSPort())
	require.Equal(t, 30*time.Second, c.GetHTTPIdleTimeout())
	require.Equal(t, 500*time.Second, c.GetHTTPSIdleTimeout())
	require.Equal(t, "etc/keystore.p12", c.GetKeystorePath())
	require.Equal(t, "changeit", c.GetKeyPassword())
	require.Equal(t, "webapps/static-root", c.GetStaticRoot())
	require.Equal(t, 2000, c.GetHSTSMaxAge())
	require.True(t, c.GetHSTSIncludeSubDomains())
	require.False(t, c.GetEchoAPIKeyOnUnknownRefresh())

	policy, err := c.GetTLSPolicy()
	require.NoError(t, err)
	require.Equal(t, []string{"TLSv1.2", "TLSv1.1"}, policy.IncludeProtocols())
	require.Equal(t, []string{"SSLv3"}, policy.ExcludeProtocols())
	require.Len(t, policy.ExcludeCipherPatterns(), 4)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mockauth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9000
https:
  port: 9443
tls:
  include_protocols: [TLSv1.2, TLSv1.3]
  exclude_cipher_suites: ["^TLS_RSA_.*$"]
compat:
  echo_apikey_on_unknown_refresh: true
log:
  level: debug
`), 0o600))

	c, err := config.Load(config.NewViper(), path)
	require.NoError(t, err)
	require.Equal(t, 9000, c.GetHTTPPort())
	require.Equal(t, 9443, c.GetHTTPSPort())
	require.True(t, c.GetEchoAPIKeyOnUnknownRefresh())
	require.Equal(t, "debug", c.GetLogLevel())

	policy, err := c.GetTLSPolicy()
	require.NoError(t, err)
	require.Equal(t, []string{"TLSv1.2", "TLSv1.3"}, policy.IncludeProtocols())
	require.Equal(t, []string{"^TLS_RSA_.*$"}, policy.ExcludeCipherPatterns())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("MOCKAUTH_TLS_KEY_PASSWORD", "secret")
	t.Setenv("MOCKAUTH_HTTPS_PORT", "2443")

	c, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, "secret", c.GetKeyPassword())
	require.Equal(t, 2443, c.GetHTTPSPort())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"port out of range", config.KeyHTTPPort, 70000},
		{"same ports", config.KeyHTTPSPort, 8097},
		{"unknown protocol", config.KeyTLSIncludeProtocols, []string{"TLSv2"}},
		{"empty include list", config.KeyTLSIncludeProtocols, []string{}},
		{"bad cipher pattern", config.KeyTLSExcludeCiphers, []string{"("}},
		{"bad log level", config.KeyLogLevel, "loud"},
		{"zero idle timeout", config.KeyHTTPSIdleTimeout, 0},
		{"no key store", config.KeyTLSKeystorePath, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.NewViper()
			v.Set(tt.key, tt.val)
			_, err := config.Load(v, "")
			require.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}

	t.Run("missing config file", func(t *testing.T) {
		_, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, errors.ErrInvalidConfig)
	})
}

func TestLoad_SelfSignedWithoutKeyStore(t *testing.T) {
	v := config.NewViper()
	v.Set(config.KeyTLSKeystorePath, "")
	v.Set(config.KeyTLSSelfSigned, true)
	c, err := config.Load(v, "")
	require.NoError(t, err)
	require.True(t, c.GetSelfSigned())
}

func TestLoad_ShippedExample(t *testing.T) {
	c, err := config.Load(config.NewViper(), "../../etc/mock-auth-server.yaml")
	require.NoError(t, err)

	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 8097, c.GetHTTPPort())
	require.Equal(t, 500*time.Second, c.GetHTTPSIdleTimeout())

	policy, err := c.GetTLSPolicy()
	require.NoError(t, err)
	require.Equal(t, []string{`^TLS_RSA_.*$`}, policy.ExcludeCipherPatterns()[1:2])
}
