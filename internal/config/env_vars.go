package config

// EnvPrefix is prepended to every environment override, e.g.
// MOCKAUTH_TLS_KEY_PASSWORD overrides tls.key_password.
const EnvPrefix = "MOCKAUTH"

// Configuration keys. Nested keys use dots in files and underscores in
// environment variables.
const (
	KeyAppName    = "app_name"
	KeyEnv        = "env"
	KeyStaticRoot = "static_root"

	KeyHTTPPort         = "http.port"
	KeyHTTPIdleTimeout  = "http.idle_timeout"
	KeyHTTPSPort        = "https.port"
	KeyHTTPSIdleTimeout = "https.idle_timeout"

	KeyTLSKeystorePath       = "tls.keystore_path"
	KeyTLSKeyPath            = "tls.key_path"
	KeyTLSKeyPassword        = "tls.key_password"
	KeyTLSSelfSigned         = "tls.self_signed"
	KeyTLSIncludeProtocols   = "tls.include_protocols"
	KeyTLSExcludeProtocols   = "tls.exclude_protocols"
	KeyTLSExcludeCiphers     = "tls.exclude_cipher_suites"
	KeyTLSHSTSMaxAge         = "tls.hsts_max_age"
	KeyTLSHSTSIncludeSubDoms = "tls.hsts_include_subdomains"

	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogMaxSizeMB  = "log.max_size_mb"
	KeyLogMaxBackups = "log.max_backups"
	KeyLogMaxAgeDays = "log.max_age_days"

	KeyCompatEchoAPIKey = "compat.echo_apikey_on_unknown_refresh"
)
