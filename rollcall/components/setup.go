// Package components handles message component and modal interactions: the
// RSVP buttons on event cards and the week setup modal flow.
package components

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/clock"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

// SetupDayModal builds the input form for one day of the week.
func SetupDayModal(day string) discord.ModalCreate {
	title := strings.Title(day)
	return discord.ModalCreate{
		CustomID: "/setup/day/" + day,
		Title:    title + "'s event",
		Components: []discord.ContainerComponent{
			discord.NewActionRow(
				discord.NewShortTextInput("event_name", "Event name").
					WithRequired(true).
					WithPlaceholder("e.g. Cayo Perico Heist").
					WithMaxLength(100),
			),
			discord.NewActionRow(
				discord.NewShortTextInput("outfit", "Outfit").
					WithPlaceholder("optional").
					WithMaxLength(100),
			),
			discord.NewActionRow(
				discord.NewShortTextInput("vehicle", "Vehicle").
					WithPlaceholder("optional").
					WithMaxLength(100),
			),
		},
	}
}

// SetupDayModalHandler saves the submitted day and offers the next one.
func SetupDayModalHandler(b *rollcall.Bot) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		day := e.Vars["day"]
		if !isWeekday(day) {
			return e.CreateMessage(discord.MessageCreate{
				Content: "Unknown day in setup flow.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		event := scheduler.EventData{Name: e.Data.Text("event_name")}
		if outfit, ok := e.Data.OptText("outfit"); ok {
			event.Outfit = outfit
		}
		if vehicle, ok := e.Data.OptText("vehicle"); ok {
			event.Vehicle = vehicle
		}

		if err := b.Schedules.SaveDayTemplate(ctx, *e.GuildID(), day, event); err != nil {
			slog.Error("Failed to save day template",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.String("day", day),
				slog.Any("error", err),
			)
			return e.CreateMessage(discord.MessageCreate{
				Content: "Could not save that day. Please run `/schedule setup` again.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		next := nextWeekday(day)
		if next == "" {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "Week complete",
					Description: "All seven days are set. Check the result with `/schedule view`.",
					Color:       0x57f287,
				}},
				Flags: discord.MessageFlagEphemeral,
			})
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("**%s** saved: %s", strings.Title(day), event.Name),
			Components: []discord.ContainerComponent{
				discord.NewActionRow(
					discord.NewPrimaryButton("Continue with "+strings.Title(next), "/setup/next/"+next),
				),
			},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

// SetupNextHandler opens the modal for the day encoded in the button ID.
func SetupNextHandler(b *rollcall.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		day := e.Vars["day"]
		if !isWeekday(day) {
			return e.CreateMessage(discord.MessageCreate{
				Content: "Unknown day in setup flow.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}
		return e.Modal(SetupDayModal(day))
	}
}

func isWeekday(day string) bool {
	for _, d := range clock.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func nextWeekday(day string) string {
	for i, d := range clock.Weekdays {
		if d == day && i+1 < len(clock.Weekdays) {
			return clock.Weekdays[i+1]
		}
	}
	return ""
}
