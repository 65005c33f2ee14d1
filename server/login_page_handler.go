package server

import (
	"errors"
	"net/http"

	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/oauthflow"
	"github.com/rs/zerolog/log"
)

// LoginRedirectHandler sends the browser to the identity provider with the
// sign-in token as the OAuth state
func (s *Server) LoginRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.URL.Query().Get("requestId")
		if requestID == "" {
			http.Error(w, "requestId is required", http.StatusBadRequest)
			return
		}

		authURL, err := oauthflow.AuthorizationURL(s.config, requestID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrConfiguration) {
				log.Err(err).Msg("Login: failed to build authorization URL")
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
