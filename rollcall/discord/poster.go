// Package discord implements the scheduler's ChannelPoster on a disgo
// client: event cards with RSVP buttons, reminders, admin notices and
// message deletion with outcome classification.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

const (
	cardColor     = 0x5865f2
	reminderColor = 0xfee75c
	noticeColor   = 0xed4245
)

type Poster struct {
	client      bot.Client
	displayZone string
}

// NewPoster wraps the client. displayZone is the human-readable timezone
// label appended to times on cards (e.g. "US East Coast").
func NewPoster(client bot.Client, displayZone string) *Poster {
	return &Poster{client: client, displayZone: displayZone}
}

func (p *Poster) SetClient(client bot.Client) {
	p.client = client
}

func (p *Poster) permissions(channelID snowflake.ID) (discord.Permissions, bool) {
	channel, ok := p.client.Caches().GuildMessageChannel(channelID)
	if !ok {
		return discord.PermissionsNone, false
	}
	member, ok := p.client.Caches().SelfMember(channel.GuildID())
	if !ok {
		return discord.PermissionsNone, false
	}
	return p.client.Caches().MemberPermissionsInChannel(channel, member), true
}

// has is optimistic when the cache cannot answer: the send itself will fail
// and be classified then.
func (p *Poster) has(channelID snowflake.ID, perm discord.Permissions) bool {
	perms, ok := p.permissions(channelID)
	if !ok {
		return true
	}
	return perms.Has(perm)
}

func (p *Poster) CanSend(channelID snowflake.ID) bool {
	return p.has(channelID, discord.PermissionSendMessages)
}

func (p *Poster) CanEmbed(channelID snowflake.ID) bool {
	return p.has(channelID, discord.PermissionEmbedLinks)
}

func (p *Poster) CanManageMessages(channelID snowflake.ID) bool {
	return p.has(channelID, discord.PermissionManageMessages)
}

func (p *Poster) PostEvent(ctx context.Context, channelID snowflake.ID, date time.Time, event scheduler.EventData, eventTime scheduler.ClockTime) (snowflake.ID, error) {
	embed := EventCardEmbed(date, event, eventTime, p.displayZone, nil)

	msg, err := p.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds:     []discord.Embed{embed},
		Components: RSVPComponents(),
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("create event card: %w", err)
	}
	return msg.ID, nil
}

func (p *Poster) PostReminder(ctx context.Context, channelID snowflake.ID, kind scheduler.ActionKind, event scheduler.EventData, eventTime scheduler.ClockTime) error {
	var lead string
	switch kind {
	case scheduler.ReminderAfternoon:
		lead = fmt.Sprintf("Tonight at %s %s", eventTime, p.displayZone)
	case scheduler.ReminderHourBefore:
		lead = "Starting in 1 hour"
	case scheduler.ReminderQuarterBefore:
		lead = "Starting in 15 minutes"
	default:
		lead = "Upcoming event"
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("⏰ Event Reminder").
		SetDescription(fmt.Sprintf("%s — **%s**\nOutfit: %s\nVehicle: %s\n\nRSVP on today's event card if you haven't yet!",
			lead, event.Name, event.Outfit, event.Vehicle)).
		SetColor(reminderColor).
		Build()

	_, err := p.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Content: "@here",
		Embeds:  []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (p *Poster) PostNotice(ctx context.Context, channelID snowflake.ID, title, message string) error {
	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(message).
		SetColor(noticeColor).
		Build()

	_, err := p.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

func (p *Poster) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) scheduler.DeleteResult {
	err := p.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx))
	if err == nil {
		return scheduler.DeleteOK
	}

	var restErr rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return scheduler.DeleteNotFound
		case http.StatusForbidden:
			return scheduler.DeleteForbidden
		}
	}

	slog.Error("Failed to delete message",
		slog.String("type", "discord"),
		slog.String("channel_id", channelID.String()),
		slog.String("message_id", messageID.String()),
		slog.Any("error", err))
	return scheduler.DeleteFailed
}

// EventCardEmbed builds the daily announcement embed. counts may be nil for
// a fresh card; the RSVP component handler passes current tallies so the
// card updates live as users respond.
func EventCardEmbed(date time.Time, event scheduler.EventData, eventTime scheduler.ClockTime, displayZone string, counts map[scheduler.RSVPKind]int) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📅 %s — %s", date.Format("Monday, January 2"), event.Name)).
		SetColor(cardColor).
		AddField("Outfit", event.Outfit, true).
		AddField("Vehicle", event.Vehicle, true).
		AddField("Event Time", fmt.Sprintf("%s %s", eventTime, displayZone), true)

	if counts != nil {
		builder.AddField("Attendance", fmt.Sprintf("✅ %d   ❌ %d   ❔ %d   📱 %d",
			counts[scheduler.RSVPYes],
			counts[scheduler.RSVPNo],
			counts[scheduler.RSVPMaybe],
			counts[scheduler.RSVPMobile]), false)
	}

	builder.SetFooterText("RSVP with the buttons below")
	return builder.Build()
}

// RSVPComponents returns the button row attached to every event card. The
// custom IDs are handler routes carrying the response kind.
func RSVPComponents() []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewSuccessButton("✅ Yes", "/rsvp/yes"),
			discord.NewDangerButton("❌ No", "/rsvp/no"),
			discord.NewSecondaryButton("❔ Maybe", "/rsvp/maybe"),
			discord.NewSecondaryButton("📱 Mobile", "/rsvp/mobile"),
		),
	}
}
