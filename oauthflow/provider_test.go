package oauthflow_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/oauthflow"
	"github.com/jrsteele09/go-discord-auth/oauthflow/oauthflowtest"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testEmail = "student@example.com"

func TestBuildAuthorizationURL(t *testing.T) {
	raw := oauthflow.BuildAuthorizationURL(
		oauth2.Endpoint{AuthURL: config.Values{}.GetAuthURL(), TokenURL: config.Values{}.GetTokenURL()},
		"client-1",
		"https://bot.example.com/auth/callback",
		[]string{"https://www.googleapis.com/auth/userinfo.profile"},
		"abc123",
	)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)
	require.Equal(t, "/o/oauth2/v2/auth", u.Path)

	q := u.Query()
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "https://www.googleapis.com/auth/userinfo.profile", q.Get("scope"))
	require.Equal(t, "https://bot.example.com/auth/callback", q.Get("redirect_uri"))
	require.Equal(t, "abc123", q.Get("state"))
}

func TestAuthorizationURL_Configuration(t *testing.T) {
	t.Run("missing redirect uri", func(t *testing.T) {
		_, err := oauthflow.AuthorizationURL(config.Values{GoogleClientID: "id"}, "abc123")
		require.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("configured", func(t *testing.T) {
		raw, err := oauthflow.AuthorizationURL(config.Values{
			GoogleClientID: "id",
			RedirectURI:    "https://bot.example.com/auth/callback",
		}, "abc123")
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, "openid email profile", u.Query().Get("scope"))
		require.Equal(t, "abc123", u.Query().Get("state"))
	})
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	fake := oauthflowtest.New(t)
	cfg := fake.Config()
	cfg.GoogleClientSecret = ""

	_, err := oauthflow.NewProvider(cfg, fake.KeySet)
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestProvider_ExchangeAndIdentity(t *testing.T) {
	ctx := context.Background()
	fake := oauthflowtest.New(t)
	fake.AddCode("good-code", testEmail)

	p, err := oauthflow.NewProvider(fake.Config(), fake.KeySet)
	require.NoError(t, err)

	token, err := p.Exchange(ctx, "good-code")
	require.NoError(t, err)
	require.Equal(t, "access-good-code", token.AccessToken)

	identity, err := p.Identity(ctx, token)
	require.NoError(t, err)
	require.Equal(t, testEmail, identity)

	t.Run("replayed code fails at the provider", func(t *testing.T) {
		_, err := p.Exchange(ctx, "good-code")
		var providerErr *apperrors.ProviderError
		require.True(t, apperrors.As(err, &providerErr))
		require.Equal(t, "invalid_grant", providerErr.Code)
		require.Equal(t, 400, providerErr.StatusCode)
	})
}

func TestProvider_ExchangeInvalidClient(t *testing.T) {
	fake := oauthflowtest.New(t)
	cfg := fake.Config()
	cfg.GoogleClientSecret = "wrong"

	p, err := oauthflow.NewProvider(cfg, fake.KeySet)
	require.NoError(t, err)

	_, err = p.Exchange(context.Background(), "any")
	require.ErrorIs(t, err, apperrors.ErrProvider)
	require.Contains(t, err.Error(), "invalid_client")
}

func TestProvider_ExchangeUnreachable(t *testing.T) {
	fake := oauthflowtest.New(t)
	cfg := fake.Config()
	fake.Server.Close()

	p, err := oauthflow.NewProvider(cfg, fake.KeySet)
	require.NoError(t, err)

	_, err = p.Exchange(context.Background(), "any")
	require.ErrorIs(t, err, apperrors.ErrProvider)
}

func TestProvider_Identity(t *testing.T) {
	ctx := context.Background()
	fake := oauthflowtest.New(t)
	p, err := oauthflow.NewProvider(fake.Config(), fake.KeySet)
	require.NoError(t, err)

	withIDToken := func(t *testing.T, claims jwtlib.MapClaims) *oauth2.Token {
		t.Helper()
		raw, err := fake.SignIDToken(claims)
		require.NoError(t, err)
		return (&oauth2.Token{AccessToken: "x"}).WithExtra(map[string]any{"id_token": raw})
	}
	baseClaims := func() jwtlib.MapClaims {
		return jwtlib.MapClaims{
			"iss": fake.Issuer,
			"aud": oauthflowtest.ClientID,
			"sub": "google-subject",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	t.Run("missing id_token", func(t *testing.T) {
		_, err := p.Identity(ctx, &oauth2.Token{AccessToken: "x"})
		require.ErrorIs(t, err, apperrors.ErrProvider)
		require.Contains(t, err.Error(), "missing_id_token")
	})

	t.Run("unverified email falls back to subject", func(t *testing.T) {
		claims := baseClaims()
		claims["email"] = testEmail
		claims["email_verified"] = false

		identity, err := p.Identity(ctx, withIDToken(t, claims))
		require.NoError(t, err)
		require.Equal(t, "google-subject", identity)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "someone-else"

		_, err := p.Identity(ctx, withIDToken(t, claims))
		require.ErrorIs(t, err, apperrors.ErrProvider)
		require.Contains(t, err.Error(), "invalid_id_token")
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()

		_, err := p.Identity(ctx, withIDToken(t, claims))
		require.ErrorIs(t, err, apperrors.ErrProvider)
	})
}
