package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/duskriver/rollcall/rollcall/clock"
)

const (
	defaultTickTimeout     = 45 * time.Second
	defaultLedgerRetention = 10 * time.Minute
)

var (
	ErrNoSettings     = errors.New("guild has no settings")
	ErrNoEventChannel = errors.New("no event channel configured")
	ErrNoEventToday   = errors.New("no event scheduled for today")
)

// Engine evaluates every scheduled guild once per minute and dispatches at
// most one action per guild per category per minute. Ticks are strictly
// serial: Run never starts a tick before the previous one returned.
type Engine struct {
	store  ScheduleStore
	poster ChannelPoster
	clk    clock.Clock
	ledger *DedupeLedger

	tickTimeout     time.Duration
	ledgerRetention time.Duration
}

func NewEngine(store ScheduleStore, poster ChannelPoster, clk clock.Clock) *Engine {
	return &Engine{
		store:           store,
		poster:          poster,
		clk:             clk,
		ledger:          NewDedupeLedger(),
		tickTimeout:     defaultTickTimeout,
		ledgerRetention: defaultLedgerRetention,
	}
}

// Run drives minute-aligned ticks until ctx is cancelled. The tick in flight
// finishes before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("Scheduling engine started",
		slog.String("type", "sched"),
		slog.String("timezone", e.clk.Location().String()))

	for {
		now := e.clk.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Scheduling engine stopped", slog.String("type", "sched"))
			return nil
		case <-timer.C:
		}

		tickCtx, cancel := context.WithTimeout(context.Background(), e.tickTimeout)
		e.Tick(tickCtx, e.clk.Now())
		cancel()

		e.ledger.Sweep(e.ledgerRetention, e.clk.Now())
	}
}

// Tick processes every guild with a schedule for the given instant. It never
// returns an error and never panics out: one guild's failure is logged and
// the rest still run.
func (e *Engine) Tick(ctx context.Context, now time.Time) {
	guilds, err := e.store.ListGuildsWithSchedule(ctx)
	if err != nil {
		slog.Error("Failed to list scheduled guilds",
			slog.String("type", "sched"),
			slog.Any("error", err))
		return
	}

	for _, guildID := range guilds {
		e.processGuild(ctx, guildID, now)
	}
}

func (e *Engine) processGuild(ctx context.Context, guildID snowflake.ID, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing guild",
				slog.String("type", "sched"),
				slog.String("guild_id", guildID.String()),
				slog.Any("panic", r))
		}
	}()

	settings, err := e.loadSettings(ctx, guildID)
	if err != nil {
		slog.Error("Failed to load guild settings",
			slog.String("type", "sched"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
		return
	}
	if settings.EventChannelID == 0 {
		slog.Info("Guild has no event channel configured, skipping",
			slog.String("type", "sched"),
			slog.String("guild_id", guildID.String()))
		return
	}

	if settings.PostTime.Matches(now) {
		if err := e.postDaily(ctx, settings, now); err != nil {
			slog.Error("Daily post failed",
				slog.String("type", "sched"),
				slog.String("guild_id", guildID.String()),
				slog.Any("error", err))
		}
	}

	for _, kind := range DueReminders(now, *settings) {
		if err := e.sendReminder(ctx, settings, kind, now); err != nil {
			slog.Error("Reminder failed",
				slog.String("type", "sched"),
				slog.String("guild_id", guildID.String()),
				slog.String("kind", string(kind)),
				slog.Any("error", err))
		}
	}
}

// loadSettings falls back to defaults when a guild has a schedule but never
// saved settings. Absence of settings is a valid state, not an error.
func (e *Engine) loadSettings(ctx context.Context, guildID snowflake.ID) (*Settings, error) {
	settings, err := e.store.GetSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		def := DefaultSettings(guildID)
		return &def, nil
	}
	return settings, nil
}

// postDaily runs the posting check for one guild at its exact post minute.
func (e *Engine) postDaily(ctx context.Context, settings *Settings, now time.Time) error {
	guildID := settings.GuildID
	today := clock.Today(now)

	if !e.ledger.TryMark(guildID, ActionDailyPost, now) {
		return nil
	}

	// Durable guard: a post already made today, by this process or a
	// predecessor, is never repeated.
	existing, err := e.store.GetDailyPost(ctx, guildID, today)
	if err != nil {
		return fmt.Errorf("daily post lookup: %w", err)
	}
	if existing != nil {
		return nil
	}

	current, err := e.isCurrentWeekSetup(ctx, guildID, now)
	if err != nil {
		return fmt.Errorf("week setup check: %w", err)
	}
	if !current {
		e.notifyAdmins(ctx, settings, today, NoticeStaleWeek,
			"Weekly schedule not set up",
			"The weekly schedule has not been updated for the current week, so today's event was not posted. Run /schedule setup to refresh it.")
		return nil
	}

	template, err := e.store.GetWeeklyTemplate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("weekly template: %w", err)
	}
	event, ok := template[clock.WeekdayName(now)]
	if !ok {
		// No event scheduled today is a valid state.
		return nil
	}

	if !e.poster.CanSend(settings.EventChannelID) || !e.poster.CanEmbed(settings.EventChannelID) {
		e.notifyAdmins(ctx, settings, today, NoticeMissingPerms,
			"Missing channel permissions",
			"The bot lacks send or embed permissions in the event channel, so today's event was not posted.")
		return nil
	}

	// Defensive: a row may have appeared between the guard above and here.
	// Remove its delivered message so the channel never shows two cards.
	stale, err := e.store.GetAllDailyPosts(ctx, guildID, today)
	if err != nil {
		slog.Error("Stale event card lookup failed",
			slog.String("type", "sched"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
	}
	for _, p := range stale {
		res := e.poster.DeleteMessage(ctx, p.ChannelID, p.MessageID)
		if res != DeleteOK && res != DeleteNotFound {
			slog.Warn("Could not remove stale event card",
				slog.String("type", "sched"),
				slog.String("guild_id", guildID.String()),
				slog.String("result", res.String()))
		}
	}

	messageID, err := e.poster.PostEvent(ctx, settings.EventChannelID, today, event, settings.EventTime)
	if err != nil {
		return fmt.Errorf("post event card: %w", err)
	}

	post := &DailyPost{
		GuildID:   guildID,
		ChannelID: settings.EventChannelID,
		MessageID: messageID,
		Date:      today,
		Weekday:   clock.WeekdayName(now),
		Event:     event,
		CreatedAt: now,
	}
	if _, err := e.store.SaveDailyPost(ctx, post); err != nil {
		// The card is live but has no durable record. Favor the visible
		// post over losing the day; surface loudly for operators.
		slog.Error("Event card delivered but record not persisted",
			slog.String("type", "sched"),
			slog.String("guild_id", guildID.String()),
			slog.String("message_id", messageID.String()),
			slog.Any("error", err))
		return fmt.Errorf("persist daily post: %w", err)
	}

	slog.Info("Daily event card posted",
		slog.String("type", "sched"),
		slog.String("guild_id", guildID.String()),
		slog.String("event", event.Name))
	return nil
}

func (e *Engine) sendReminder(ctx context.Context, settings *Settings, kind ActionKind, now time.Time) error {
	guildID := settings.GuildID
	today := clock.Today(now)

	if !e.ledger.TryMark(guildID, kind, now) {
		return nil
	}

	// No post today means no event today, and nothing to remind about.
	post, err := e.store.GetDailyPost(ctx, guildID, today)
	if err != nil {
		return fmt.Errorf("daily post lookup: %w", err)
	}
	if post == nil {
		return nil
	}

	sent, err := e.store.ReminderSent(ctx, post.ID, kind)
	if err != nil {
		return fmt.Errorf("reminder lookup: %w", err)
	}
	if sent {
		return nil
	}

	if err := e.poster.PostReminder(ctx, settings.EventChannelID, kind, post.Event, settings.EventTime); err != nil {
		return fmt.Errorf("deliver reminder: %w", err)
	}
	if err := e.store.MarkReminderSent(ctx, post.ID, kind, today); err != nil {
		slog.Error("Reminder delivered but record not persisted",
			slog.String("type", "sched"),
			slog.String("guild_id", guildID.String()),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return fmt.Errorf("persist reminder record: %w", err)
	}

	slog.Info("Reminder sent",
		slog.String("type", "sched"),
		slog.String("guild_id", guildID.String()),
		slog.String("kind", string(kind)))
	return nil
}

// isCurrentWeekSetup reports whether the template was edited at or after
// Monday 00:00 of the current civil week.
func (e *Engine) isCurrentWeekSetup(ctx context.Context, guildID snowflake.ID, now time.Time) (bool, error) {
	mod, ok, err := e.store.TemplateLastModified(ctx, guildID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return !mod.Before(clock.StartOfWeek(now)), nil
}

// notifyAdmins sends a notice to the admin channel at most once per guild,
// date and kind. Failures are logged; the tick carries on.
func (e *Engine) notifyAdmins(ctx context.Context, settings *Settings, today time.Time, kind NoticeKind, title, message string) {
	if settings.AdminChannelID == 0 {
		return
	}

	sent, err := e.store.AdminNotificationSent(ctx, settings.GuildID, today, kind)
	if err != nil {
		slog.Error("Admin notification lookup failed",
			slog.String("type", "sched"),
			slog.String("guild_id", settings.GuildID.String()),
			slog.Any("error", err))
		return
	}
	if sent {
		return
	}

	if err := e.poster.PostNotice(ctx, settings.AdminChannelID, title, message); err != nil {
		slog.Error("Admin notification failed",
			slog.String("type", "sched"),
			slog.String("guild_id", settings.GuildID.String()),
			slog.Any("error", err))
		return
	}
	if err := e.store.MarkAdminNotificationSent(ctx, settings.GuildID, today, kind); err != nil {
		slog.Error("Admin notification record not persisted",
			slog.String("type", "sched"),
			slog.String("guild_id", settings.GuildID.String()),
			slog.Any("error", err))
	}
}

// ForcePostToday reposts today's event card on demand, replacing any prior
// post for the date. Unlike Tick it returns errors so the invoking command
// can render them to the caller.
func (e *Engine) ForcePostToday(ctx context.Context, guildID snowflake.ID) (*DailyPost, error) {
	now := e.clk.Now()
	today := clock.Today(now)

	settings, err := e.loadSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings.EventChannelID == 0 {
		return nil, ErrNoEventChannel
	}

	template, err := e.store.GetWeeklyTemplate(ctx, guildID)
	if err != nil {
		return nil, err
	}
	event, ok := template[clock.WeekdayName(now)]
	if !ok {
		return nil, ErrNoEventToday
	}

	// Replace, not duplicate: drop every prior post for today, message and
	// row both, before creating the new one.
	prior, err := e.store.GetAllDailyPosts(ctx, guildID, today)
	if err != nil {
		return nil, err
	}
	for _, p := range prior {
		if res := e.poster.DeleteMessage(ctx, p.ChannelID, p.MessageID); res == DeleteForbidden || res == DeleteFailed {
			slog.Warn("Could not delete replaced event card",
				slog.String("type", "sched"),
				slog.String("guild_id", guildID.String()),
				slog.String("result", res.String()))
		}
		if err := e.store.DeleteDailyPost(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("delete prior post: %w", err)
		}
	}

	messageID, err := e.poster.PostEvent(ctx, settings.EventChannelID, today, event, settings.EventTime)
	if err != nil {
		return nil, err
	}

	post := &DailyPost{
		GuildID:   guildID,
		ChannelID: settings.EventChannelID,
		MessageID: messageID,
		Date:      today,
		Weekday:   clock.WeekdayName(now),
		Event:     event,
		CreatedAt: now,
	}
	postID, err := e.store.SaveDailyPost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("persist daily post: %w", err)
	}
	post.ID = postID

	e.ledger.TryMark(guildID, ActionDailyPost, now)
	return post, nil
}
