package scheduler

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// ScheduleStore is the durable side of the scheduler. Absence is not an
// error: lookups return (nil, nil) or (zero, false, nil) when nothing is
// stored, and a non-nil error only for a real storage failure.
type ScheduleStore interface {
	// ListGuildsWithSchedule returns every guild that has at least one
	// weekly template entry.
	ListGuildsWithSchedule(ctx context.Context) ([]snowflake.ID, error)

	// GetSettings returns nil when the guild has never saved settings.
	GetSettings(ctx context.Context, guildID snowflake.ID) (*Settings, error)

	// GetWeeklyTemplate maps lowercase weekday names to their event data.
	GetWeeklyTemplate(ctx context.Context, guildID snowflake.ID) (map[string]EventData, error)

	// TemplateLastModified reports when the guild's template was last
	// edited; ok is false when no template exists.
	TemplateLastModified(ctx context.Context, guildID snowflake.ID) (mod time.Time, ok bool, err error)

	// GetDailyPost returns the post for the civil date, nil when none.
	GetDailyPost(ctx context.Context, guildID snowflake.ID, date time.Time) (*DailyPost, error)

	// GetAllDailyPosts returns every post row for the date, oldest first.
	// Normally at most one exists; force-reposting under a race can leave
	// more and readers must tolerate that.
	GetAllDailyPosts(ctx context.Context, guildID snowflake.ID, date time.Time) ([]DailyPost, error)

	// SaveDailyPost persists the post and returns its row ID.
	SaveDailyPost(ctx context.Context, post *DailyPost) (int64, error)

	// DeleteDailyPost removes the row. RSVPs referencing it are kept.
	DeleteDailyPost(ctx context.Context, postID int64) error

	// GetOldDailyPosts returns posts dated strictly before cutoff.
	GetOldDailyPosts(ctx context.Context, cutoff time.Time) ([]DailyPost, error)

	// ReminderSent reports whether the reminder kind was already delivered
	// for the post. This is the durable idempotency guard.
	ReminderSent(ctx context.Context, postID int64, kind ActionKind) (bool, error)

	// MarkReminderSent records a delivered reminder.
	MarkReminderSent(ctx context.Context, postID int64, kind ActionKind, date time.Time) error

	// AdminNotificationSent reports whether a notice of the given kind was
	// already sent to the guild's admins on the date.
	AdminNotificationSent(ctx context.Context, guildID snowflake.ID, date time.Time, kind NoticeKind) (bool, error)

	// MarkAdminNotificationSent records a delivered admin notice.
	MarkAdminNotificationSent(ctx context.Context, guildID snowflake.ID, date time.Time, kind NoticeKind) error

	// GetRSVPs returns all responses recorded against the post.
	GetRSVPs(ctx context.Context, postID int64) ([]RSVP, error)

	// UpsertRSVP records a response, overwriting the user's previous
	// response to the same post and refreshing its timestamp.
	UpsertRSVP(ctx context.Context, postID int64, guildID, userID snowflake.ID, kind RSVPKind) error
}

// DeleteResult classifies a message deletion attempt.
type DeleteResult int

const (
	DeleteOK DeleteResult = iota
	DeleteNotFound
	DeleteForbidden
	DeleteFailed
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteOK:
		return "deleted"
	case DeleteNotFound:
		return "not_found"
	case DeleteForbidden:
		return "forbidden"
	default:
		return "error"
	}
}

// ChannelPoster is the Discord-facing side of the scheduler.
type ChannelPoster interface {
	CanSend(channelID snowflake.ID) bool
	CanEmbed(channelID snowflake.ID) bool
	CanManageMessages(channelID snowflake.ID) bool

	// PostEvent delivers the daily event card and returns the message ID.
	PostEvent(ctx context.Context, channelID snowflake.ID, date time.Time, event EventData, eventTime ClockTime) (snowflake.ID, error)

	// PostReminder delivers a reminder referencing an earlier card.
	PostReminder(ctx context.Context, channelID snowflake.ID, kind ActionKind, event EventData, eventTime ClockTime) error

	// PostNotice delivers a plain admin notice.
	PostNotice(ctx context.Context, channelID snowflake.ID, title, message string) error

	// DeleteMessage removes a delivered message, classifying the outcome.
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) DeleteResult
}
