// Command register installs the bot's slash commands with Discord, either
// globally or for a single guild.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-discord-auth/commands"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid arguments")
	}
	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("failed to register commands")
	}
}

type options struct {
	guild    string
	envGuild bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
	flags.StringVar(&opts.guild, "guild", "", "register the commands for this guild ID only")
	flags.BoolVar(&opts.envGuild, "env-guild", false, "register the commands for DISCORD_GUILD_ID only")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if flags.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	if opts.guild != "" && opts.envGuild {
		return options{}, errors.New("--guild and --env-guild are mutually exclusive")
	}
	return opts, nil
}

// targetGuild is the guild to register for; empty means global registration
func (o options) targetGuild(c config.DiscordConfig) (string, error) {
	if !o.envGuild {
		return o.guild, nil
	}
	if c.GetDiscordGuildID() == "" {
		return "", errors.New("--env-guild given but DISCORD_GUILD_ID is not set")
	}
	return c.GetDiscordGuildID(), nil
}

func run(opts options) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("godotenv.Load: %w", err)
	}
	c, err := config.New()
	if err != nil {
		return err
	}
	guild, err := opts.targetGuild(c)
	if err != nil {
		return err
	}

	appID := c.GetDiscordApplicationID()
	if c.GetDiscordToken() == "" || appID == "" {
		return errors.New("DISCORD_TOKEN and DISCORD_APPLICATION_ID must be set")
	}

	session, err := discordgo.New("Bot " + c.GetDiscordToken())
	if err != nil {
		return fmt.Errorf("discordgo.New: %w", err)
	}

	registered, err := session.ApplicationCommandBulkOverwrite(appID, guild, commands.Definitions())
	if err != nil {
		return fmt.Errorf("ApplicationCommandBulkOverwrite: %w", err)
	}
	for _, cmd := range registered {
		log.Info().Str("name", cmd.Name).Str("id", cmd.ID).Str("guild", guild).Msg("registered command")
	}
	return nil
}
