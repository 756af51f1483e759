package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
	"github.com/jrsteele09/go-mock-auth-server/tlspolicy"
	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultAppName          = "Mock Auth Server"
	DefaultEnv              = "DEV"
	DefaultHTTPPort         = 8097
	DefaultHTTPSPort        = 1443
	DefaultHTTPIdleTimeout  = 30 * time.Second
	DefaultHTTPSIdleTimeout = 500 * time.Second
	DefaultStaticRoot       = "webapps/static-root"
	DefaultKeystorePath     = "etc/keystore.p12"
	DefaultKeyPassword      = "changeit"
	DefaultHSTSMaxAge       = 2000
)

// NewViper returns a viper instance with defaults and environment overrides
// registered. Flags may be bound to it before Load is called.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every configuration key so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppName, DefaultAppName)
	v.SetDefault(KeyEnv, DefaultEnv)
	v.SetDefault(KeyStaticRoot, DefaultStaticRoot)

	v.SetDefault(KeyHTTPPort, DefaultHTTPPort)
	v.SetDefault(KeyHTTPIdleTimeout, DefaultHTTPIdleTimeout)
	v.SetDefault(KeyHTTPSPort, DefaultHTTPSPort)
	v.SetDefault(KeyHTTPSIdleTimeout, DefaultHTTPSIdleTimeout)

	v.SetDefault(KeyTLSKeystorePath, DefaultKeystorePath)
	v.SetDefault(KeyTLSKeyPath, "")
	v.SetDefault(KeyTLSKeyPassword, DefaultKeyPassword)
	v.SetDefault(KeyTLSSelfSigned, false)
	v.SetDefault(KeyTLSIncludeProtocols, tlspolicy.DefaultIncludeProtocols)
	v.SetDefault(KeyTLSExcludeProtocols, tlspolicy.DefaultExcludeProtocols)
	v.SetDefault(KeyTLSExcludeCiphers, tlspolicy.DefaultExcludeCiphers)
	v.SetDefault(KeyTLSHSTSMaxAge, DefaultHSTSMaxAge)
	v.SetDefault(KeyTLSHSTSIncludeSubDoms, true)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 5)
	v.SetDefault(KeyLogMaxAgeDays, 30)

	v.SetDefault(KeyCompatEchoAPIKey, false)
}

// Load reads the optional config file into v, decodes the result and
// validates it.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", errors.ErrInvalidConfig, configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", errors.ErrInvalidConfig, err)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return New(s), nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the rules spanning several fields.
func Validate(s Settings) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	if s.HTTP.Port != 0 && s.HTTP.Port == s.HTTPS.Port {
		return fmt.Errorf("%w: http and https ports are both %d", errors.ErrInvalidConfig, s.HTTP.Port)
	}
	if _, err := New(s).GetTLSPolicy(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}
