package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	disgojson "github.com/disgoorg/json"
	"github.com/sahilm/fuzzy"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/clock"
	"github.com/duskriver/rollcall/rollcall/components"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

var Schedule = discord.SlashCommandCreate{
	Name:                     "schedule",
	Description:              "Manage this week's event schedule",
	DefaultMemberPermissions: disgojson.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "setup",
			Description: "Walk through the full week, one day at a time",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "edit",
			Description: "Change a single day's event",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "day",
					Description:  "Day of the week to edit",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "event",
					Description: "Event name",
					Required:    true,
					MaxLength:   intPtr(100),
				},
				discord.ApplicationCommandOptionString{
					Name:        "outfit",
					Description: "Outfit for the event",
					MaxLength:   intPtr(100),
				},
				discord.ApplicationCommandOptionString{
					Name:        "vehicle",
					Description: "Vehicle for the event",
					MaxLength:   intPtr(100),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show the current weekly schedule",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "post",
			Description: "Post today's event card now",
		},
	},
}

// ScheduleSetupHandler opens the Monday modal. Each submitted day offers a
// button for the next one; the flow lives in the components package.
func ScheduleSetupHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.Modal(components.SetupDayModal(clock.Weekdays[0]))
	}
}

func ScheduleEditHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		day := strings.ToLower(strings.TrimSpace(data.String("day")))
		if !validWeekday(day) {
			return errorMessage(e, fmt.Sprintf("`%s` is not a day of the week.", day))
		}

		event := scheduler.EventData{Name: data.String("event")}
		if outfit, ok := data.OptString("outfit"); ok {
			event.Outfit = outfit
		}
		if vehicle, ok := data.OptString("vehicle"); ok {
			event.Vehicle = vehicle
		}

		if err := b.Schedules.SaveDayTemplate(ctx, *e.GuildID(), day, event); err != nil {
			slog.Error("Failed to save day template",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.String("day", day),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not save the schedule. Please try again later.")
		}

		return successMessage(e, "Schedule updated",
			fmt.Sprintf("**%s** is now **%s**.", strings.Title(day), event.Name))
	}
}

func ScheduleViewHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		template, err := b.Schedules.GetWeeklyTemplate(ctx, *e.GuildID())
		if err != nil {
			slog.Error("Failed to load weekly template",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not load the schedule. Please try again later.")
		}
		if len(template) == 0 {
			return errorMessage(e, "No schedule is set up yet. Run `/schedule setup` first.")
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("Weekly Schedule").
			SetColor(infoColor)
		for _, day := range clock.Weekdays {
			event, ok := template[day]
			if !ok {
				embed.AddField(strings.Title(day), "*no event*", false)
				continue
			}
			value := event.Name
			if event.Outfit != "" {
				value += fmt.Sprintf("\nOutfit: %s", event.Outfit)
			}
			if event.Vehicle != "" {
				value += fmt.Sprintf("\nVehicle: %s", event.Vehicle)
			}
			embed.AddField(strings.Title(day), value, false)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
		})
	}
}

func SchedulePostHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(true); err != nil {
			return fmt.Errorf("failed to defer message: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		post, err := b.Engine.ForcePostToday(ctx, *e.GuildID())
		if err != nil {
			msg := "Could not post today's event. Please try again later."
			switch {
			case errors.Is(err, scheduler.ErrNoEventChannel):
				msg = "No event channel is configured. Set one with `/settings channels`."
			case errors.Is(err, scheduler.ErrNoEventToday):
				msg = "There is no event scheduled for today."
			default:
				slog.Error("Forced post failed",
					slog.String("type", "sched"),
					slog.String("guild_id", e.GuildID().String()),
					slog.Any("error", err),
				)
			}
			_, uerr := e.UpdateInteractionResponse(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{Title: "Something went wrong", Description: msg, Color: errorColor}},
			})
			return uerr
		}

		_, uerr := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "Event posted",
				Description: fmt.Sprintf("Today's card for **%s** is up in <#%s>.", post.Event.Name, post.ChannelID),
				Color:       successColor,
			}},
		})
		return uerr
	}
}

// ScheduleDayAutocomplete fuzzy-matches the typed prefix against weekday names.
func ScheduleDayAutocomplete(b *rollcall.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "day" {
			return nil
		}

		searchTerm := ""
		if focused.Value != nil {
			var s string
			if err := json.Unmarshal(focused.Value, &s); err != nil {
				return e.AutocompleteResult([]discord.AutocompleteChoice{})
			}
			searchTerm = strings.TrimSpace(s)
		}

		days := clock.Weekdays
		if searchTerm != "" {
			matches := fuzzy.Find(strings.ToLower(searchTerm), clock.Weekdays)
			days = make([]string, 0, len(matches))
			for _, m := range matches {
				days = append(days, m.Str)
			}
		}

		choices := make([]discord.AutocompleteChoice, 0, len(days))
		for _, day := range days {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  strings.Title(day),
				Value: day,
			})
		}
		return e.AutocompleteResult(choices)
	}
}

func validWeekday(day string) bool {
	for _, d := range clock.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
