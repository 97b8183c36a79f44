package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	disgojson "github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

var Settings = discord.SlashCommandCreate{
	Name:                     "settings",
	Description:              "Configure posting times, channels and reminders",
	DefaultMemberPermissions: disgojson.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "show",
			Description: "Show the current settings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "posttime",
			Description: "Set when the daily event card is posted",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "time",
					Description: "24-hour wall clock time, e.g. 09:00",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "eventtime",
			Description: "Set when the event itself starts",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "time",
					Description: "24-hour wall clock time, e.g. 20:00",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "channels",
			Description: "Set the event and admin channels",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "event",
					Description: "Channel for event cards and reminders",
					Required:    true,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "admin",
					Description: "Channel for admin notices",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reminders",
			Description: "Turn reminders on or off",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "Master switch for all reminders",
					Required:    true,
				},
				discord.ApplicationCommandOptionBool{
					Name:        "afternoon",
					Description: "4 PM heads-up reminder",
				},
				discord.ApplicationCommandOptionBool{
					Name:        "hour_before",
					Description: "Reminder one hour before the event",
				},
				discord.ApplicationCommandOptionBool{
					Name:        "quarter_before",
					Description: "Reminder fifteen minutes before the event",
				},
			},
		},
	},
}

func SettingsShowHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		settings, err := loadOrDefault(ctx, b, *e.GuildID())
		if err != nil {
			return errorMessage(e, "Could not load settings. Please try again later.")
		}

		eventChannel := "*not set*"
		if settings.EventChannelID != 0 {
			eventChannel = fmt.Sprintf("<#%s>", settings.EventChannelID)
		}
		adminChannel := "*not set*"
		if settings.AdminChannelID != 0 {
			adminChannel = fmt.Sprintf("<#%s>", settings.AdminChannelID)
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("RollCall Settings").
			SetColor(infoColor).
			AddField("Post time", settings.PostTime.String(), true).
			AddField("Event time", settings.EventTime.String(), true).
			AddField("Reminders", onOff(settings.RemindersOn), true).
			AddField("Event channel", eventChannel, true).
			AddField("Admin channel", adminChannel, true).
			AddField("Reminder kinds", fmt.Sprintf("4 PM: %s\n1 hour before: %s\n15 minutes before: %s",
				onOff(settings.RemindAfternoon),
				onOff(settings.RemindHourBefore),
				onOff(settings.RemindQuarterBefore)), false)

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}

func SettingsPostTimeHandler(b *rollcall.Bot) handler.CommandHandler {
	return settingsTimeHandler(b, "posttime", func(s *scheduler.Settings, t scheduler.ClockTime) {
		s.PostTime = t
	})
}

func SettingsEventTimeHandler(b *rollcall.Bot) handler.CommandHandler {
	return settingsTimeHandler(b, "eventtime", func(s *scheduler.Settings, t scheduler.ClockTime) {
		s.EventTime = t
	})
}

func settingsTimeHandler(b *rollcall.Bot, name string, apply func(*scheduler.Settings, scheduler.ClockTime)) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		raw := e.SlashCommandInteractionData().String("time")
		t, err := scheduler.ParseClockTime(raw)
		if err != nil {
			if errors.Is(err, scheduler.ErrBadClockTime) {
				return errorMessage(e, fmt.Sprintf("`%s` is not a valid time. Use HH:MM in 24-hour format, e.g. `09:00`.", raw))
			}
			return errorMessage(e, "Could not read that time.")
		}

		settings, err := loadOrDefault(ctx, b, *e.GuildID())
		if err != nil {
			return errorMessage(e, "Could not load settings. Please try again later.")
		}
		apply(settings, t)

		if err := b.Schedules.SaveSettings(ctx, *settings); err != nil {
			slog.Error("Failed to save settings",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.String("setting", name),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not save settings. Please try again later.")
		}
		return successMessage(e, "Settings updated", fmt.Sprintf("Time set to **%s**.", t))
	}
}

func SettingsChannelsHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		eventChannel := data.Channel("event")

		settings, err := loadOrDefault(ctx, b, *e.GuildID())
		if err != nil {
			return errorMessage(e, "Could not load settings. Please try again later.")
		}
		settings.EventChannelID = eventChannel.ID
		if admin, ok := data.OptChannel("admin"); ok {
			settings.AdminChannelID = admin.ID
		}

		if !b.Poster.CanSend(settings.EventChannelID) || !b.Poster.CanEmbed(settings.EventChannelID) {
			return errorMessage(e, fmt.Sprintf("I can't post embeds in <#%s>. Grant me Send Messages and Embed Links there first.", settings.EventChannelID))
		}

		if err := b.Schedules.SaveSettings(ctx, *settings); err != nil {
			slog.Error("Failed to save settings",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.String("setting", "channels"),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not save settings. Please try again later.")
		}
		return successMessage(e, "Settings updated",
			fmt.Sprintf("Event cards will be posted in <#%s>.", settings.EventChannelID))
	}
}

func SettingsRemindersHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()

		settings, err := loadOrDefault(ctx, b, *e.GuildID())
		if err != nil {
			return errorMessage(e, "Could not load settings. Please try again later.")
		}
		settings.RemindersOn = data.Bool("enabled")
		if v, ok := data.OptBool("afternoon"); ok {
			settings.RemindAfternoon = v
		}
		if v, ok := data.OptBool("hour_before"); ok {
			settings.RemindHourBefore = v
		}
		if v, ok := data.OptBool("quarter_before"); ok {
			settings.RemindQuarterBefore = v
		}

		if err := b.Schedules.SaveSettings(ctx, *settings); err != nil {
			slog.Error("Failed to save settings",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.String("setting", "reminders"),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not save settings. Please try again later.")
		}
		return successMessage(e, "Settings updated", fmt.Sprintf("Reminders are now **%s**.", onOff(settings.RemindersOn)))
	}
}

func loadOrDefault(ctx context.Context, b *rollcall.Bot, guildID snowflake.ID) (*scheduler.Settings, error) {
	settings, err := b.Schedules.GetSettings(ctx, guildID)
	if err != nil {
		slog.Error("Failed to load settings",
			slog.String("type", "db"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	if settings == nil {
		defaults := scheduler.DefaultSettings(guildID)
		settings = &defaults
	}
	return settings, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
