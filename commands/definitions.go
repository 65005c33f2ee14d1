package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jrsteele09/go-discord-auth/internal/utils"
)

const (
	CommandLogin  = "login"
	CommandSignIn = "signin"
	CommandStatus = "status"
	CommandPing   = "ping"
)

// Definitions are the slash commands registered with Discord
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: CommandLogin, Description: "Issue a sign-in link", DMPermission: utils.Ptr(true)},
		{Name: CommandSignIn, Description: "Issue a sign-in link (alias of /login)", DMPermission: utils.Ptr(true)},
		{Name: CommandStatus, Description: "Show your current sign-in status", DMPermission: utils.Ptr(true)},
		{Name: CommandPing, Description: "Check whether the bot is online", DMPermission: utils.Ptr(true)},
	}
}
