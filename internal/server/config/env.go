package config

// Environment variables recognised by parseEnv.
const (
	EnvPublicBaseURL = "PUBLIC_BASE_URL"
	EnvDatabaseDSN   = "DATABASE_DSN"
	EnvSecretKey     = "PAGETALK_SECRET_KEY"
	EnvLogLevel      = "PAGETALK_LOG_LEVEL"
)

// parseEnv overrides fields for every variable that is set and non-empty.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPublicBaseURL); ok && v != "" {
		config.PublicBaseURL = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup(EnvSecretKey); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		config.LogLevel = v
	}
}
