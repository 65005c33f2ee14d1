package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	colorRed   = 0xff0000
	colorGreen = 0x00ff00
	colorBlue  = 0x0000ff
)

func NotAuthorizedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Not verified",
		Description: "Run the `/login` command to verify your account.",
		Footer:      &discordgo.MessageEmbedFooter{Text: "It can take up to a minute for a completed sign-in to show up."},
		Color:       colorRed,
	}
}

func AlreadyAuthorizedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  "✅ Verified",
		Footer: &discordgo.MessageEmbedFooter{Text: "You are already verified."},
		Color:  colorGreen,
	}
}

func UnavailableHereEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ This command cannot be used in a server!",
		Description: "Please use it in a direct message.",
		Footer:      &discordgo.MessageEmbedFooter{Text: "You can open a DM from the bot's profile."},
		Color:       colorRed,
	}
}

// AvailableHereEmbed tells the user that command works in this DM
func AvailableHereEmbed(command string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("ℹ️ `%s` can be used here in DMs", command),
		Color: colorBlue,
	}
}

func AuthorizationSuccessEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Verification complete",
		Description: "Your sign-in succeeded. Check that the role has been granted on the server.",
		Color:       colorGreen,
	}
}

// RoleGrantFailedEmbed is shown when the user is verified but the role could not be granted
func RoleGrantFailedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Verified, role not granted",
		Description: "You are verified but the role could not be granted right now. Please contact a server admin.",
		Color:       colorRed,
	}
}

// LoginPageEmbed links to the sign-in page; the link lifetime is shown in the footer
func LoginPageEmbed(url string, validFor string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔗 Sign-in page",
		Description: fmt.Sprintf("[Click here](%s) to open the sign-in page", url),
		URL:         url,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("The link is valid for %s.", validFor)},
		Color:       colorBlue,
	}
}

func ErrorEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Something went wrong",
		Description: "Please try again in a moment.",
		Color:       colorRed,
	}
}
