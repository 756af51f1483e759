package tlspolicy_test

import (
	"crypto/tls"
	"testing"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/jrsteele09/go-mock-auth-server/tlspolicy"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("unknown protocol", func(t *testing.T) {
		_, err := tlspolicy.New([]string{"TLSv9"}, nil, nil)
		require.ErrorIs(t, err, errors.ErrInvalidPolicy)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := tlspolicy.New([]string{tlspolicy.TLSv1_2}, nil, []string{"(unclosed"})
		require.ErrorIs(t, err, errors.ErrInvalidPolicy)
	})

	t.Run("lists are copied", func(t *testing.T) {
		include := []string{tlspolicy.TLSv1_2}
		p, err := tlspolicy.New(include, nil, nil)
		require.NoError(t, err)
		include[0] = tlspolicy.TLSv1_3
		require.Equal(t, []string{tlspolicy.TLSv1_2}, p.IncludeProtocols())
	})
}

func TestPolicy_ExcludesCipher(t *testing.T) {
	p := tlspolicy.Default()

	tests := []struct {
		name     string
		excluded bool
	}{
		{"TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA", true},
		{"TLS_RSA_WITH_AES_128_GCM_SHA256", true},
		{"TLS_RSA_WITH_NULL_MD5", true},
		{"TLS_ECDH_anon_WITH_AES_128_CBC_SHA256", true},
		{"TLS_ECDHE_ECDSA_WITH_NULL_SHA256", true},
		{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", false},
		{"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256", false},
		{"TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.excluded, p.ExcludesCipher(tt.name))
		})
	}

	t.Run("patterns match the whole name", func(t *testing.T) {
		p, err := tlspolicy.New([]string{tlspolicy.TLSv1_2}, nil, []string{"RSA"})
		require.NoError(t, err)
		require.False(t, p.ExcludesCipher("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"))
		require.True(t, p.ExcludesCipher("RSA"))
	})
}

func TestPolicy_EffectiveDefault(t *testing.T) {
	eff, err := tlspolicy.Default().Effective()
	require.NoError(t, err)

	require.Equal(t, uint16(tls.VersionTLS11), eff.MinVersion)
	require.Equal(t, uint16(tls.VersionTLS12), eff.MaxVersion)
	require.Equal(t, []string{tlspolicy.TLSv1_1, tlspolicy.TLSv1_2}, eff.Protocols)
	require.Empty(t, eff.FixedSuites)
	require.NotEmpty(t, eff.Offered)
	require.Len(t, eff.CipherSuites, len(eff.Offered))

	p := tlspolicy.Default()
	for _, name := range eff.Offered {
		require.False(t, p.ExcludesCipher(name), name)
	}
	for _, name := range eff.Excluded {
		require.True(t, p.ExcludesCipher(name), name)
	}
	require.Contains(t, eff.Offered, "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256")
	require.Contains(t, eff.Excluded, "TLS_RSA_WITH_AES_128_GCM_SHA256")
	require.Contains(t, eff.Excluded, "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA")
}

func TestPolicy_EffectiveProtocols(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		ciphers []string
		min     uint16
		max     uint16
		wantErr bool
	}{
		{
			name:    "exclude wins over include",
			include: []string{tlspolicy.TLSv1_1, tlspolicy.TLSv1_2},
			exclude: []string{tlspolicy.TLSv1_1},
			min:     tls.VersionTLS12,
			max:     tls.VersionTLS12,
		},
		{
			name:    "sslv3 is never enabled",
			include: []string{tlspolicy.SSLv3, tlspolicy.TLSv1},
			ciphers: []string{`^TLS_RSA_.*$`},
			min:     tls.VersionTLS10,
			max:     tls.VersionTLS10,
		},
		{
			name:    "tls1 has no suite left under the default patterns",
			include: []string{tlspolicy.TLSv1},
			wantErr: true,
		},
		{
			name:    "tls13 only",
			include: []string{tlspolicy.TLSv1_3},
			min:     tls.VersionTLS13,
			max:     tls.VersionTLS13,
		},
		{
			name:    "nothing left",
			include: []string{tlspolicy.TLSv1_2},
			exclude: []string{tlspolicy.TLSv1_2},
			wantErr: true,
		},
		{
			name:    "gap",
			include: []string{tlspolicy.TLSv1, tlspolicy.TLSv1_2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphers := tt.ciphers
			if ciphers == nil {
				ciphers = tlspolicy.DefaultExcludeCiphers
			}
			p, err := tlspolicy.New(tt.include, tt.exclude, ciphers)
			require.NoError(t, err)

			eff, err := p.Effective()
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.min, eff.MinVersion)
			require.Equal(t, tt.max, eff.MaxVersion)
		})
	}
}

func TestPolicy_EffectiveCipherErrors(t *testing.T) {
	t.Run("everything excluded", func(t *testing.T) {
		p, err := tlspolicy.New([]string{tlspolicy.TLSv1_2}, nil, []string{".*"})
		require.NoError(t, err)
		_, err = p.Effective()
		require.ErrorIs(t, err, errors.ErrInvalidPolicy)
	})

	t.Run("tls13 suite cannot be excluded", func(t *testing.T) {
		p, err := tlspolicy.New([]string{tlspolicy.TLSv1_3}, nil, []string{"TLS_AES_128_GCM_SHA256"})
		require.NoError(t, err)
		_, err = p.Effective()
		require.ErrorIs(t, err, errors.ErrInvalidPolicy)
	})

	t.Run("tls13 suites are reported", func(t *testing.T) {
		p, err := tlspolicy.New([]string{tlspolicy.TLSv1_2, tlspolicy.TLSv1_3}, nil, tlspolicy.DefaultExcludeCiphers)
		require.NoError(t, err)
		eff, err := p.Effective()
		require.NoError(t, err)
		require.Contains(t, eff.FixedSuites, "TLS_AES_128_GCM_SHA256")
		require.NotContains(t, eff.Offered, "TLS_AES_128_GCM_SHA256")
	})
}

func TestPolicy_ServerConfig(t *testing.T) {
	_, _, err := tlspolicy.Default().ServerConfig(nil)
	require.ErrorIs(t, err, errors.ErrInvalidPolicy)

	cfg, eff, err := tlspolicy.Default().ServerConfig([]tls.Certificate{{}})
	require.NoError(t, err)
	require.Equal(t, eff.CipherSuites, cfg.CipherSuites)
	require.Equal(t, eff.MinVersion, cfg.MinVersion)
	require.Equal(t, eff.MaxVersion, cfg.MaxVersion)
}

func TestVersionName(t *testing.T) {
	require.Equal(t, "TLSv1.2", tlspolicy.VersionName(tls.VersionTLS12))
	require.Equal(t, "SSLv3", tlspolicy.VersionName(0x0300))
	require.Equal(t, "0x0999", tlspolicy.VersionName(0x0999))
}
