package config

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
)

// RequireRedirect checks the values needed to send a browser to the provider
func RequireRedirect(c OAuthConfig) error {
	return missing(map[string]string{
		"REDIRECT_URI": c.GetRedirectURI(),
		"GOOGLE_ID":    c.GetClientID(),
	})
}

// RequireOAuth checks the values needed to exchange an authorization code
func RequireOAuth(c OAuthConfig) error {
	return missing(map[string]string{
		"REDIRECT_URI":  c.GetRedirectURI(),
		"GOOGLE_ID":     c.GetClientID(),
		"GOOGLE_SECRET": c.GetClientSecret(),
	})
}

// RequireDiscord checks the values needed for role and message REST calls
func RequireDiscord(c DiscordConfig) error {
	return missing(map[string]string{
		"DISCORD_TOKEN":    c.GetDiscordToken(),
		"DISCORD_GUILD_ID": c.GetDiscordGuildID(),
		"DISCORD_ROLE_ID":  c.GetDiscordRoleID(),
	})
}

func missing(values map[string]string) error {
	var names []string
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s is not set", apperrors.ErrConfiguration, strings.Join(names, ", "))
}
