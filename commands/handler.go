// Package commands answers the bot's slash command interactions.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jrsteele09/go-discord-auth/discord"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/internal/utils"
	"github.com/jrsteele09/go-discord-auth/signin"
	"github.com/jrsteele09/go-discord-auth/userstate"
	"github.com/rs/zerolog/log"
)

// LoginPath is the route the sign-in link points at
const LoginPath = "/login"

type Handler struct {
	config   config.OAuthConfig
	requests *signin.Manager
	states   *userstate.Repo
	members  discord.Members
}

func NewHandler(cfg config.OAuthConfig, requests *signin.Manager, states *userstate.Repo, members discord.Members) *Handler {
	return &Handler{
		config:   cfg,
		requests: requests,
		states:   states,
		members:  members,
	}
}

// Handle answers an application command interaction. origin is the public
// base URL used to build sign-in links.
func (h *Handler) Handle(ctx context.Context, origin string, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	data, ok := i.Data.(discordgo.ApplicationCommandInteractionData)
	if i.Type != discordgo.InteractionApplicationCommand || !ok {
		return nil, fmt.Errorf("[commands Handle] unsupported interaction type %d", i.Type)
	}

	name := data.Name
	switch name {
	case CommandLogin, CommandSignIn:
		return h.login(ctx, origin, i, name)
	case CommandStatus:
		return h.status(ctx, i, name)
	case CommandPing:
		return message("pong"), nil
	default:
		return ephemeral(&discordgo.InteractionResponseData{Content: fmt.Sprintf("Unknown command `/%s`", name)}), nil
	}
}

func (h *Handler) login(ctx context.Context, origin string, i *discordgo.Interaction, command string) (*discordgo.InteractionResponse, error) {
	userID, err := h.directUser(ctx, i, command)
	if err != nil {
		if errors.Is(err, apperrors.ErrContext) {
			return unavailableHere(), nil
		}
		return nil, err
	}

	_, err = h.states.Get(ctx, userID)
	switch {
	case err == nil:
		if err := h.members.GrantRole(ctx, userID); err != nil {
			log.Warn().Err(err).Str("subject", userID).Msg("re-granting role failed")
			return embeds(discord.RoleGrantFailedEmbed()), nil
		}
		return embeds(discord.AlreadyAuthorizedEmbed()), nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	ttl := h.config.GetSignInTTL()
	token, err := h.requests.Issue(ctx, userID, ttl)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s%s?requestId=%s", origin, LoginPath, token)
	return embeds(discord.LoginPageEmbed(url, formatTTL(ttl))), nil
}

func (h *Handler) status(ctx context.Context, i *discordgo.Interaction, command string) (*discordgo.InteractionResponse, error) {
	userID, err := h.directUser(ctx, i, command)
	if err != nil {
		if errors.Is(err, apperrors.ErrContext) {
			return unavailableHere(), nil
		}
		return nil, err
	}

	if _, err := h.states.Get(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return embeds(discord.NotAuthorizedEmbed()), nil
		}
		return nil, err
	}
	return embeds(discord.AlreadyAuthorizedEmbed()), nil
}

// directUser returns the invoking user when the command was sent in a DM.
// In a guild it points the member at their DMs and returns ErrContext.
func (h *Handler) directUser(ctx context.Context, i *discordgo.Interaction, command string) (string, error) {
	if i.User != nil && i.User.ID != "" {
		return i.User.ID, nil
	}

	if i.Member != nil && i.Member.User != nil {
		memberID := i.Member.User.ID
		err := h.members.Notify(ctx, memberID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{discord.AvailableHereEmbed("/" + command)},
		})
		if err != nil {
			log.Warn().Err(err).Str("subject", memberID).Msg("failed to DM guild member")
		}
	}
	return "", apperrors.ErrContext
}

// ErrorResponse is the ephemeral reply used when a command fails unexpectedly
func ErrorResponse() *discordgo.InteractionResponse {
	return ephemeral(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{discord.ErrorEmbed()},
	})
}

func unavailableHere() *discordgo.InteractionResponse {
	return ephemeral(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{discord.UnavailableHereEmbed()},
	})
}

func message(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	}
}

func embeds(e ...*discordgo.MessageEmbed) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: e},
	}
}

func ephemeral(data *discordgo.InteractionResponseData) *discordgo.InteractionResponse {
	data.Flags = discordgo.MessageFlagsEphemeral
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func formatTTL(ttl time.Duration) string {
	if ttl%time.Minute == 0 {
		minutes := int(ttl / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return ttl.String()
}

// InvokerID returns the ID of whoever sent the interaction, in a DM or a guild
func InvokerID(i *discordgo.Interaction) string {
	if i.User != nil {
		return i.User.ID
	}
	if i.Member != nil {
		return utils.Value(i.Member.User).ID
	}
	return ""
}
