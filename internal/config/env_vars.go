package config

import (
	"strings"
)

const (
	defaultPort     = "8080"
	defaultAppName  = "Discord Auth"
	defaultEnv      = "DEV"
	defaultLogLevel = "info"
)

func (v Values) GetPort() string {
	port := valueOr(v.Port, defaultPort)
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (v Values) GetAppName() string {
	return valueOr(v.AppName, defaultAppName)
}

func (v Values) GetEnv() string {
	return valueOr(v.Env, defaultEnv)
}

// GetBaseURL returns the public origin used in sign-in links (e.g. "https://auth.example.com").
// Empty means the origin is taken from the incoming request.
func (v Values) GetBaseURL() string {
	return strings.TrimRight(v.BaseURL, "/")
}

func (v Values) GetLogLevel() string {
	return valueOr(v.LogLevel, defaultLogLevel)
}

func valueOr(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
