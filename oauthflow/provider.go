// Package oauthflow sends the browser to the identity provider, exchanges the
// returned authorization code and completes the pending sign-in.
package oauthflow

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"golang.org/x/oauth2"
)

// BuildAuthorizationURL returns the provider consent URL carrying state. It has no side effects.
func BuildAuthorizationURL(endpoint oauth2.Endpoint, clientID, redirectURI string, scopes []string, state string) string {
	conf := &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    endpoint,
		RedirectURL: redirectURI,
		Scopes:      scopes,
	}
	return conf.AuthCodeURL(state)
}

// AuthorizationURL builds the consent URL from configuration, failing with
// ErrConfiguration when the redirect URI or client ID is missing.
func AuthorizationURL(cfg config.OAuthConfig, state string) (string, error) {
	if err := config.RequireRedirect(cfg); err != nil {
		return "", err
	}
	return BuildAuthorizationURL(endpoint(cfg), cfg.GetClientID(), cfg.GetRedirectURI(), cfg.GetScopes(), state), nil
}

func endpoint(cfg config.OAuthConfig) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   cfg.GetAuthURL(),
		TokenURL:  cfg.GetTokenURL(),
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// Provider exchanges authorization codes and verifies the returned ID token
type Provider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewProvider validates the OAuth configuration and builds a provider.
// keySet supplies the provider's signing keys for ID token verification.
func NewProvider(cfg config.OAuthConfig, keySet oidc.KeySet) (*Provider, error) {
	if err := config.RequireOAuth(cfg); err != nil {
		return nil, err
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			Endpoint:     endpoint(cfg),
			RedirectURL:  cfg.GetRedirectURI(),
			Scopes:       cfg.GetScopes(),
		},
		verifier: oidc.NewVerifier(cfg.GetIssuer(), keySet, &oidc.Config{
			ClientID: cfg.GetClientID(),
		}),
	}, nil
}

// Exchange trades code for a token with a single POST to the token endpoint.
// A non-success response is returned as *errors.ProviderError. There is no retry.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, providerError(err)
	}
	return token, nil
}

// Identity verifies the ID token in token and returns the verified e-mail,
// or the subject claim when the provider did not assert a verified e-mail.
func (p *Provider) Identity(ctx context.Context, token *oauth2.Token) (string, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", &apperrors.ProviderError{Code: "missing_id_token", Description: "no id_token in token response"}
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", &apperrors.ProviderError{Code: "invalid_id_token", Description: err.Error()}
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", &apperrors.ProviderError{Code: "invalid_id_token", Description: err.Error()}
	}
	if claims.Email != "" && claims.EmailVerified {
		return claims.Email, nil
	}
	return idToken.Subject, nil
}

func providerError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if apperrors.As(err, &retrieveErr) {
		pe := &apperrors.ProviderError{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
		}
		if retrieveErr.Response != nil {
			pe.StatusCode = retrieveErr.Response.StatusCode
		}
		return pe
	}
	return fmt.Errorf("%w: %v", apperrors.ErrProvider, err)
}
