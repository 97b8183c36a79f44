package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/duskriver/rollcall/rollcall/clock"
	"golang.org/x/time/rate"
)

// deleteRate paces message deletions so a large backlog does not trip the
// Discord rate limiter. Deletions are strictly serial.
var deleteRate = rate.Every(1200 * time.Millisecond)

// SweepStats counts the outcomes of one retention sweep.
type SweepStats struct {
	Deleted     int
	AlreadyGone int
	Forbidden   int
	Failed      int
}

// RetentionSweeper removes old delivered event cards from channels once per
// day. It only ever deletes messages: DailyPost rows, RSVPs and reminder
// records stay untouched so attendance history survives.
type RetentionSweeper struct {
	store   ScheduleStore
	poster  ChannelPoster
	clk     clock.Clock
	limiter *rate.Limiter

	// RunHour is the civil hour of day the daily sweep runs at.
	RunHour int
}

func NewRetentionSweeper(store ScheduleStore, poster ChannelPoster, clk clock.Clock) *RetentionSweeper {
	return &RetentionSweeper{
		store:   store,
		poster:  poster,
		clk:     clk,
		limiter: rate.NewLimiter(deleteRate, 1),
		RunHour: 3,
	}
}

// Run performs one sweep every day at RunHour until ctx is cancelled.
func (s *RetentionSweeper) Run(ctx context.Context) error {
	for {
		now := s.clk.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), s.RunHour, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		// Keep yesterday's and today's cards visible, remove older ones.
		cutoff := clock.Today(s.clk.Now()).AddDate(0, 0, -1)
		stats := s.Sweep(ctx, cutoff)
		slog.Info("Retention sweep finished",
			slog.String("type", "sched"),
			slog.Int("deleted", stats.Deleted),
			slog.Int("already_gone", stats.AlreadyGone),
			slog.Int("forbidden", stats.Forbidden),
			slog.Int("failed", stats.Failed))
	}
}

// Sweep deletes the delivered message of every daily post dated strictly
// before cutoff. Failures are counted, never fatal.
func (s *RetentionSweeper) Sweep(ctx context.Context, cutoff time.Time) SweepStats {
	var stats SweepStats

	posts, err := s.store.GetOldDailyPosts(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to list old daily posts",
			slog.String("type", "sched"),
			slog.Any("error", err))
		return stats
	}

	for _, post := range posts {
		if err := s.limiter.Wait(ctx); err != nil {
			return stats
		}

		switch s.poster.DeleteMessage(ctx, post.ChannelID, post.MessageID) {
		case DeleteOK:
			stats.Deleted++
		case DeleteNotFound:
			stats.AlreadyGone++
		case DeleteForbidden:
			stats.Forbidden++
			slog.Warn("No permission to delete old event card",
				slog.String("type", "sched"),
				slog.String("guild_id", post.GuildID.String()),
				slog.String("channel_id", post.ChannelID.String()))
		default:
			stats.Failed++
		}
	}
	return stats
}
