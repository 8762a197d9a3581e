package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	folderEnvVar   = "FOLDER"
	logLevelEnvVar = "LOG_LEVEL"
	envEnvVar      = "ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Stateless Auth")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envEnvVar, "DEV")
}

func GetEnv(envVar, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}

// GetBoolEnv returns defaultValue when the variable is unset or not a valid bool.
func GetBoolEnv(envVar string, defaultValue bool) bool {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDurationEnv(envVar string, defaultValue time.Duration) (time.Duration, error) {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envVar, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", envVar, value)
	}
	return d, nil
}
