package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/clock"
	rcdiscord "github.com/duskriver/rollcall/rollcall/discord"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

// RSVPHandler records a button press and refreshes the card's attendance
// field. Pressing a second button overwrites the earlier response.
func RSVPHandler(b *rollcall.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		kind := scheduler.RSVPKind(e.Vars["kind"])
		if !validRSVPKind(kind) {
			return e.CreateMessage(discord.MessageCreate{
				Content: "Unknown response type.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		guildID := *e.GuildID()
		today := clock.Today(b.Clock.Now())

		post, err := findPostByMessage(ctx, b, guildID, today, e.Message.ID)
		if err != nil {
			slog.Error("Failed to resolve event card",
				slog.String("type", "db"),
				slog.String("guild_id", guildID.String()),
				slog.Any("error", err),
			)
			return e.CreateMessage(discord.MessageCreate{
				Content: "Could not record your response. Please try again.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}
		if post == nil {
			return e.CreateMessage(discord.MessageCreate{
				Content: "This event card is no longer active.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		if err := b.Schedules.UpsertRSVP(ctx, post.ID, guildID, e.User().ID, kind); err != nil {
			slog.Error("Failed to record response",
				slog.String("type", "db"),
				slog.String("guild_id", guildID.String()),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err),
			)
			return e.CreateMessage(discord.MessageCreate{
				Content: "Could not record your response. Please try again.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		rsvps, err := b.Attendance.Aggregate(ctx, guildID, today)
		if err != nil {
			// The vote is already stored, only the counts refresh failed.
			slog.Error("Failed to refresh attendance counts",
				slog.String("type", "db"),
				slog.String("guild_id", guildID.String()),
				slog.Any("error", err),
			)
			return e.DeferUpdateMessage()
		}

		eventTime := scheduler.DefaultSettings(guildID).EventTime
		if settings, err := b.Schedules.GetSettings(ctx, guildID); err == nil && settings != nil {
			eventTime = settings.EventTime
		}

		embed := rcdiscord.EventCardEmbed(post.Date, post.Event, eventTime,
			b.Cfg.Schedule.DisplayName, scheduler.CountByKind(rsvps))
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds: &[]discord.Embed{embed},
		})
	}
}

func findPostByMessage(ctx context.Context, b *rollcall.Bot, guildID snowflake.ID, date time.Time, messageID snowflake.ID) (*scheduler.DailyPost, error) {
	posts, err := b.Schedules.GetAllDailyPosts(ctx, guildID, date)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].MessageID == messageID {
			return &posts[i], nil
		}
	}
	return nil, nil
}

func validRSVPKind(kind scheduler.RSVPKind) bool {
	for _, k := range scheduler.RSVPKinds {
		if k == kind {
			return true
		}
	}
	return false
}
