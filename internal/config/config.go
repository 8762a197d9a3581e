package config

type Config interface {
	EnvConfig
	TLSConfig
	SecurityConfig
	TelemetryConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	TLS
	Security
	Telemetry
}

func New() Config {
	return mainConfig{}
}
