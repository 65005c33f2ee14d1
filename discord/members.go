// Package discord grants the verified role and sends direct messages through
// the Discord REST API.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/jrsteele09/go-discord-auth/internal/config"
)

// Members is the subset of the Discord API the sign-in flow depends on
type Members interface {
	// GrantRole adds the configured role to userID in the configured guild. Granting twice is harmless.
	GrantRole(ctx context.Context, userID string) error
	// Notify opens (or reuses) a DM channel with userID and posts msg to it
	Notify(ctx context.Context, userID string, msg *discordgo.MessageSend) error
}

var _ Members = (*Client)(nil)

// Client implements Members with the bot token from configuration.
// Configuration is checked on every call, not at construction.
type Client struct {
	config config.DiscordConfig

	mu      sync.Mutex
	session *discordgo.Session
}

func NewClient(cfg config.DiscordConfig) *Client {
	return &Client{config: cfg}
}

func (c *Client) rest() (*discordgo.Session, error) {
	if err := config.RequireDiscord(c.config); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		s, err := discordgo.New("Bot " + c.config.GetDiscordToken())
		if err != nil {
			return nil, fmt.Errorf("[discord Client] create session: %w", err)
		}
		c.session = s
	}
	return c.session, nil
}

func (c *Client) GrantRole(ctx context.Context, userID string) error {
	s, err := c.rest()
	if err != nil {
		return err
	}
	guildID, roleID := c.config.GetDiscordGuildID(), c.config.GetDiscordRoleID()
	if err := s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("[discord GrantRole] guild %s role %s: %w", guildID, roleID, err)
	}
	return nil
}

func (c *Client) Notify(ctx context.Context, userID string, msg *discordgo.MessageSend) error {
	s, err := c.rest()
	if err != nil {
		return err
	}
	channel, err := s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("[discord Notify] open DM channel: %w", err)
	}
	if _, err := s.ChannelMessageSendComplex(channel.ID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("[discord Notify] send message: %w", err)
	}
	return nil
}
