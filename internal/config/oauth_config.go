package config

import (
	"time"

	"golang.org/x/oauth2/endpoints"
)

const (
	defaultSignInTTL = 10 * time.Minute
	defaultAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultIssuer    = "https://accounts.google.com"
	defaultJWKSURL   = "https://www.googleapis.com/oauth2/v3/certs"
)

var defaultScopes = []string{"openid", "email", "profile"}

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetAuthURL() string
	GetTokenURL() string
	GetIssuer() string
	GetJWKSURL() string
	GetSignInTTL() time.Duration
}

func (v Values) GetClientID() string {
	return v.GoogleClientID
}

func (v Values) GetClientSecret() string {
	return v.GoogleClientSecret
}

func (v Values) GetRedirectURI() string {
	return v.RedirectURI
}

func (v Values) GetScopes() []string {
	if len(v.OAuthScopes) == 0 {
		return defaultScopes
	}
	return v.OAuthScopes
}

func (v Values) GetAuthURL() string {
	return valueOr(v.AuthURL, defaultAuthURL)
}

func (v Values) GetTokenURL() string {
	return valueOr(v.TokenURL, endpoints.Google.TokenURL)
}

func (v Values) GetIssuer() string {
	return valueOr(v.Issuer, defaultIssuer)
}

func (v Values) GetJWKSURL() string {
	return valueOr(v.JWKSURL, defaultJWKSURL)
}

// GetSignInTTL is how long a sign-in link stays valid
func (v Values) GetSignInTTL() time.Duration {
	if v.SignInTTL <= 0 {
		return defaultSignInTTL
	}
	return v.SignInTTL
}
