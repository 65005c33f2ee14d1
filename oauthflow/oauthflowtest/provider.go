// Package oauthflowtest runs a fake OpenID Connect token endpoint for tests.
package oauthflowtest

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-discord-auth/internal/config"
)

const (
	ClientID     = "test-client-id"
	ClientSecret = "test-client-secret"
	RedirectURI  = "https://bot.example.com/auth/callback"
)

// Provider is an httptest token endpoint issuing RS256 ID tokens for
// registered authorization codes. Codes are single use.
type Provider struct {
	Server *httptest.Server
	KeySet oidc.KeySet
	Issuer string

	// OmitIDToken makes successful exchanges return no id_token
	OmitIDToken bool

	key *rsa.PrivateKey

	mu       sync.Mutex
	codes    map[string]string // code -> email
	Requests int
}

func New(t *testing.T) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	p := &Provider{
		key:    key,
		KeySet: &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}},
		codes:  make(map[string]string),
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.handleToken))
	p.Issuer = p.Server.URL
	t.Cleanup(p.Server.Close)
	return p
}

// AddCode registers an authorization code that exchanges to an ID token for email
func (p *Provider) AddCode(code, email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[code] = email
}

// Config returns OAuth configuration pointing at this provider
func (p *Provider) Config() config.Values {
	return config.Values{
		GoogleClientID:     ClientID,
		GoogleClientSecret: ClientSecret,
		RedirectURI:        RedirectURI,
		AuthURL:            p.Server.URL + "/auth",
		TokenURL:           p.Server.URL + "/token",
		Issuer:             p.Issuer,
	}
}

// SignIDToken signs claims with the provider key
func (p *Provider) SignIDToken(claims jwtlib.MapClaims) (string, error) {
	return jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims).SignedString(p.key)
}

func (p *Provider) handleToken(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.Requests++
	p.mu.Unlock()

	if r.Method != http.MethodPost || r.URL.Path != "/token" {
		writeError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if r.PostFormValue("grant_type") != "authorization_code" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "")
		return
	}
	if r.PostFormValue("client_id") != ClientID || r.PostFormValue("client_secret") != ClientSecret {
		writeError(w, http.StatusUnauthorized, "invalid_client", "The OAuth client was not found.")
		return
	}
	if r.PostFormValue("redirect_uri") != RedirectURI {
		writeError(w, http.StatusBadRequest, "redirect_uri_mismatch", "Bad Request")
		return
	}

	code := r.PostFormValue("code")
	p.mu.Lock()
	email, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_grant", "Bad Request")
		return
	}

	resp := map[string]any{
		"access_token": "access-" + code,
		"token_type":   "Bearer",
		"expires_in":   3599,
		"scope":        "openid email profile",
	}
	if !p.OmitIDToken {
		now := time.Now()
		idToken, err := p.SignIDToken(jwtlib.MapClaims{
			"iss":            p.Issuer,
			"aud":            ClientID,
			"sub":            "google-" + code,
			"email":          email,
			"email_verified": true,
			"iat":            now.Unix(),
			"exp":            now.Add(time.Hour).Unix(),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
			return
		}
		resp["id_token"] = idToken
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	body := map[string]string{"error": code}
	if description != "" {
		body["error_description"] = description
	}
	_ = json.NewEncoder(w).Encode(body)
}
