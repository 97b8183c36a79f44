package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	successColor = 0x57f287
	errorColor   = 0xed4245
	infoColor    = 0x5865f2
)

func errorMessage(e *handler.CommandEvent, msg string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Something went wrong",
			Description: msg,
			Color:       errorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func successMessage(e *handler.CommandEvent, title, msg string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: msg,
			Color:       successColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
