// Package commands defines the slash command surface and its handlers.
package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Schedule,
	Settings,
	Attendance,
	Version,
}

func intPtr(v int) *int {
	return &v
}
