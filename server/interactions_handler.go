package server

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/jrsteele09/go-discord-auth/commands"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxInteractionBytes = 1 << 20

// InteractionsHandler is the Discord interactions endpoint. Requests must
// carry a valid Ed25519 signature from Discord.
func (s *Server) InteractionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := interactionPublicKey(s.config)
		if err != nil {
			log.Err(err).Msg("Interactions: server misconfigured")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxInteractionBytes)
		if !discordgo.VerifyInteraction(r, key) {
			http.Error(w, "invalid request signature", http.StatusUnauthorized)
			return
		}

		var interaction discordgo.Interaction
		if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
			http.Error(w, "invalid interaction payload", http.StatusBadRequest)
			return
		}

		switch interaction.Type {
		case discordgo.InteractionPing:
			writeJSON(w, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
		case discordgo.InteractionApplicationCommand:
			resp, err := s.commands.Handle(r.Context(), s.origin(r), &interaction)
			if err != nil {
				log.Err(err).Str("user", commands.InvokerID(&interaction)).Msg("Interactions: command failed")
				resp = commands.ErrorResponse()
			}
			writeJSON(w, resp)
		default:
			http.Error(w, fmt.Sprintf("unsupported interaction type %d", interaction.Type), http.StatusBadRequest)
		}
	}
}

func interactionPublicKey(cfg config.DiscordConfig) (ed25519.PublicKey, error) {
	raw := cfg.GetDiscordPublicKey()
	if raw == "" {
		return nil, fmt.Errorf("%w: DISCORD_PUBLIC_KEY is not set", apperrors.ErrConfiguration)
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: DISCORD_PUBLIC_KEY is not a hex encoded Ed25519 key", apperrors.ErrConfiguration)
	}
	return ed25519.PublicKey(key), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to write JSON response")
	}
}
