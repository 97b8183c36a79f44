package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/duskriver/rollcall/rollcall"
	"github.com/duskriver/rollcall/rollcall/clock"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

const respondersPerPage = 15

var Attendance = discord.SlashCommandCreate{
	Name:        "attendance",
	Description: "Show who has responded to an event card",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "date",
			Description: "Event date as YYYY-MM-DD, defaults to today",
		},
	},
}

func AttendanceHandler(b *rollcall.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		date := clock.Today(b.Clock.Now())
		if raw, ok := e.SlashCommandInteractionData().OptString("date"); ok {
			parsed, err := time.ParseInLocation("2006-01-02", raw, b.Clock.Location())
			if err != nil {
				return errorMessage(e, fmt.Sprintf("`%s` is not a valid date. Use YYYY-MM-DD.", raw))
			}
			date = parsed
		}

		rsvps, err := b.Attendance.Aggregate(ctx, *e.GuildID(), date)
		if err != nil {
			slog.Error("Failed to aggregate attendance",
				slog.String("type", "db"),
				slog.String("guild_id", e.GuildID().String()),
				slog.Any("error", err),
			)
			return errorMessage(e, "Could not load attendance. Please try again later.")
		}
		if len(rsvps) == 0 {
			return errorMessage(e, fmt.Sprintf("No responses recorded for %s.", date.Format("Monday, January 2")))
		}

		counts := scheduler.CountByKind(rsvps)
		totalPages := int(math.Ceil(float64(len(rsvps)) / float64(respondersPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * respondersPerPage
				endIdx := min(startIdx+respondersPerPage, len(rsvps))

				var description strings.Builder
				description.WriteString(fmt.Sprintf("**%d** yes, **%d** no, **%d** maybe, **%d** mobile\n\n",
					counts[scheduler.RSVPYes],
					counts[scheduler.RSVPNo],
					counts[scheduler.RSVPMaybe],
					counts[scheduler.RSVPMobile],
				))
				for _, r := range rsvps[startIdx:endIdx] {
					description.WriteString(fmt.Sprintf("%s <@%s>\n", rsvpIcon(r.Kind), r.UserID))
				}

				embed.SetTitle(fmt.Sprintf("Attendance for %s", date.Format("Monday, January 2"))).
					SetDescription(description.String()).
					SetColor(infoColor).
					SetFooterText(fmt.Sprintf("Page %d/%d • %d responses", page+1, totalPages, len(rsvps)))
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func rsvpIcon(kind scheduler.RSVPKind) string {
	switch kind {
	case scheduler.RSVPYes:
		return "✅"
	case scheduler.RSVPNo:
		return "❌"
	case scheduler.RSVPMaybe:
		return "❔"
	case scheduler.RSVPMobile:
		return "📱"
	default:
		return "•"
	}
}
