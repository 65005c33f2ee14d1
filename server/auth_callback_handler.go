package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/oauthflow"
	"github.com/rs/zerolog/log"
)

const (
	callbackSuccessText = "Sign-in successful! You can close this browser tab."
	callbackPartialText = "Sign-in successful, but the bot could not finish setting you up (%s). " +
		"Run /login again in a DM with the bot, or ask a server admin for help."
)

// OAuthCallbackHandler completes the sign-in when the provider redirects back
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// Consent denied or provider-side failure
		if errorParam := query.Get("error"); errorParam != "" {
			msg := "Authorization failed: " + errorParam
			if desc := query.Get("error_description"); desc != "" {
				msg += " - " + desc
			}
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		code := query.Get("code")
		state := query.Get("state")
		if code == "" || state == "" {
			http.Error(w, "code and state are required", http.StatusBadRequest)
			return
		}

		outcome, err := s.flow.Complete(r.Context(), code, state)
		if err != nil {
			writeCallbackError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if outcome.Partial() {
			_, _ = fmt.Fprintf(w, callbackPartialText, partialReason(outcome))
			return
		}
		_, _ = fmt.Fprint(w, callbackSuccessText)
	}
}

func writeCallbackError(w http.ResponseWriter, err error) {
	var providerErr *apperrors.ProviderError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		http.Error(w, "requestId is not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrExpired):
		http.Error(w, "requestId is expired. Please try again.", http.StatusBadRequest)
	case errors.As(err, &providerErr):
		log.Warn().Err(err).Int("provider_status", providerErr.StatusCode).Msg("Callback: token exchange failed")
		http.Error(w, providerErr.Error(), http.StatusInternalServerError)
	case errors.Is(err, apperrors.ErrProvider):
		log.Warn().Err(err).Msg("Callback: token exchange failed")
		http.Error(w, "Failed to exchange code for token", http.StatusInternalServerError)
	case errors.Is(err, apperrors.ErrConfiguration):
		log.Err(err).Msg("Callback: server misconfigured")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		log.Err(err).Msg("Callback: failed to complete sign-in")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func partialReason(o *oauthflow.Outcome) string {
	var reasons []string
	if !o.RoleGranted {
		reasons = append(reasons, "role not granted")
	}
	if !o.Notified {
		reasons = append(reasons, "direct message not delivered")
	}
	return strings.Join(reasons, ", ")
}
