package config

import (
	"time"

	"github.com/jrsteele09/go-mock-auth-server/tlspolicy"
)

type Config interface {
	EnvConfig
	ListenerConfig
	TLSConfig
	LogConfig
	CompatConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetStaticRoot() string
}

type ListenerConfig interface {
	GetHTTPPort() int
	GetHTTPSPort() int
	GetHTTPIdleTimeout() time.Duration
	GetHTTPSIdleTimeout() time.Duration
}

type TLSConfig interface {
	GetKeystorePath() string
	GetKeyPath() string
	GetKeyPassword() string
	GetSelfSigned() bool
	GetTLSPolicy() (tlspolicy.Policy, error)
	GetHSTSMaxAge() int
	GetHSTSIncludeSubDomains() bool
}

type LogConfig interface {
	GetLogLevel() string
	GetLogFile() string
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
	GetLogMaxAgeDays() int
}

type CompatConfig interface {
	GetEchoAPIKeyOnUnknownRefresh() bool
}

// Settings is the decoded configuration tree.
type Settings struct {
	AppName    string           `mapstructure:"app_name" validate:"required"`
	Env        string           `mapstructure:"env" validate:"required"`
	StaticRoot string           `mapstructure:"static_root" validate:"required"`
	HTTP       ListenerSettings `mapstructure:"http"`
	HTTPS      ListenerSettings `mapstructure:"https"`
	TLS        TLSSettings      `mapstructure:"tls"`
	Log        LogSettings      `mapstructure:"log"`
	Compat     CompatSettings   `mapstructure:"compat"`
}

type ListenerSettings struct {
	Port        int           `mapstructure:"port" validate:"min=0,max=65535"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
}

type TLSSettings struct {
	KeystorePath          string   `mapstructure:"keystore_path" validate:"required_without=SelfSigned"`
	KeyPath               string   `mapstructure:"key_path"`
	KeyPassword           string   `mapstructure:"key_password"`
	SelfSigned            bool     `mapstructure:"self_signed"`
	IncludeProtocols      []string `mapstructure:"include_protocols" validate:"min=1,dive,oneof=SSLv3 TLSv1 TLSv1.0 TLSv1.1 TLSv1.2 TLSv1.3"`
	ExcludeProtocols      []string `mapstructure:"exclude_protocols" validate:"dive,oneof=SSLv3 TLSv1 TLSv1.0 TLSv1.1 TLSv1.2 TLSv1.3"`
	ExcludeCipherSuites   []string `mapstructure:"exclude_cipher_suites"`
	HSTSMaxAge            int      `mapstructure:"hsts_max_age" validate:"min=0"`
	HSTSIncludeSubDomains bool     `mapstructure:"hsts_include_subdomains"`
}

type LogSettings struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
}

type CompatSettings struct {
	EchoAPIKeyOnUnknownRefresh bool `mapstructure:"echo_apikey_on_unknown_refresh"`
}

type mainConfig struct {
	s Settings
}

var _ Config = mainConfig{}

// New wraps validated settings in the Config accessors.
func New(s Settings) Config {
	return mainConfig{s: s}
}

func (c mainConfig) GetAppName() string    { return c.s.AppName }
func (c mainConfig) GetEnv() string        { return c.s.Env }
func (c mainConfig) GetStaticRoot() string { return c.s.StaticRoot }

func (c mainConfig) GetHTTPPort() int                   { return c.s.HTTP.Port }
func (c mainConfig) GetHTTPSPort() int                  { return c.s.HTTPS.Port }
func (c mainConfig) GetHTTPIdleTimeout() time.Duration  { return c.s.HTTP.IdleTimeout }
func (c mainConfig) GetHTTPSIdleTimeout() time.Duration { return c.s.HTTPS.IdleTimeout }

func (c mainConfig) GetKeystorePath() string        { return c.s.TLS.KeystorePath }
func (c mainConfig) GetKeyPath() string             { return c.s.TLS.KeyPath }
func (c mainConfig) GetKeyPassword() string         { return c.s.TLS.KeyPassword }
func (c mainConfig) GetSelfSigned() bool            { return c.s.TLS.SelfSigned }
func (c mainConfig) GetHSTSMaxAge() int             { return c.s.TLS.HSTSMaxAge }
func (c mainConfig) GetHSTSIncludeSubDomains() bool { return c.s.TLS.HSTSIncludeSubDomains }

func (c mainConfig) GetTLSPolicy() (tlspolicy.Policy, error) {
	return tlspolicy.New(c.s.TLS.IncludeProtocols, c.s.TLS.ExcludeProtocols, c.s.TLS.ExcludeCipherSuites)
}

func (c mainConfig) GetLogLevel() string   { return c.s.Log.Level }
func (c mainConfig) GetLogFile() string    { return c.s.Log.File }
func (c mainConfig) GetLogMaxSizeMB() int  { return c.s.Log.MaxSizeMB }
func (c mainConfig) GetLogMaxBackups() int { return c.s.Log.MaxBackups }
func (c mainConfig) GetLogMaxAgeDays() int { return c.s.Log.MaxAgeDays }

func (c mainConfig) GetEchoAPIKeyOnUnknownRefresh() bool { return c.s.Compat.EchoAPIKeyOnUnknownRefresh }
