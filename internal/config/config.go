package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	OAuthConfig
	DiscordConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
}

// Values is the raw configuration read from the environment. Every getter
// falls back to a default when its field is empty, so a zero Values is usable.
type Values struct {
	Port     string `env:"PORT"`
	AppName  string `env:"APP_NAME"`
	Env      string `env:"ENV"`
	BaseURL  string `env:"BASE_URL"`
	LogLevel string `env:"LOG_LEVEL"`

	StoreDriver string `env:"STORE_DRIVER"`
	StorePath   string `env:"STORE_PATH"`

	GoogleClientID     string        `env:"GOOGLE_ID"`
	GoogleClientSecret string        `env:"GOOGLE_SECRET"`
	RedirectURI        string        `env:"REDIRECT_URI"`
	OAuthScopes        []string      `env:"OAUTH_SCOPES" envSeparator:","`
	AuthURL            string        `env:"GOOGLE_AUTH_URL"`
	TokenURL           string        `env:"GOOGLE_TOKEN_URL"`
	Issuer             string        `env:"GOOGLE_ISSUER"`
	JWKSURL            string        `env:"GOOGLE_JWKS_URL"`
	SignInTTL          time.Duration `env:"SIGNIN_TTL"`

	DiscordToken         string `env:"DISCORD_TOKEN"`
	DiscordApplicationID string `env:"DISCORD_APPLICATION_ID"`
	DiscordPublicKey     string `env:"DISCORD_PUBLIC_KEY"`
	DiscordGuildID       string `env:"DISCORD_GUILD_ID"`
	DiscordRoleID        string `env:"DISCORD_ROLE_ID"`
}

var _ Config = Values{}

// New reads the configuration from the process environment. Missing values
// are not an error here; handlers validate what they need per request.
func New() (Config, error) {
	var v Values
	if err := env.Parse(&v); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	return v, nil
}
