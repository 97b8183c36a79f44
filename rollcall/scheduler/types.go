// Package scheduler decides, once per minute, which guilds need their daily
// event card posted or a reminder delivered, with at-most-once semantics that
// survive process restarts. Persistence and Discord delivery are reached only
// through the ScheduleStore and ChannelPoster interfaces defined here.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// EventData is the per-day template entry. Daily posts snapshot a copy of it
// so later template edits never rewrite an already-announced day.
type EventData struct {
	Name    string
	Outfit  string
	Vehicle string
}

// ClockTime is a wall-clock time of day in the bot's civil timezone.
type ClockTime struct {
	Hour   int
	Minute int
}

var ErrBadClockTime = errors.New("time must be HH:MM in 24-hour format")

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	var t ClockTime
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return ClockTime{}, ErrBadClockTime
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return ClockTime{}, ErrBadClockTime
	}
	return t, nil
}

// Matches reports whether now falls in this exact minute. Exact equality, not
// a range: a configured time fires in one of the 1440 minutes of a day.
func (t ClockTime) Matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the clock time onto the given civil date.
func (t ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// ActionKind keys dedupe ledger entries. Posting and each reminder kind are
// independent actions; a post and a reminder due the same minute both fire.
type ActionKind string

const (
	ActionDailyPost ActionKind = "daily_post"

	ReminderAfternoon     ActionKind = "reminder_4pm"
	ReminderHourBefore    ActionKind = "reminder_1h"
	ReminderQuarterBefore ActionKind = "reminder_15m"
)

// ReminderKinds lists every reminder action in delivery order.
var ReminderKinds = []ActionKind{ReminderAfternoon, ReminderHourBefore, ReminderQuarterBefore}

// RSVPKind is a user's response to an event card.
type RSVPKind string

const (
	RSVPYes    RSVPKind = "yes"
	RSVPNo     RSVPKind = "no"
	RSVPMaybe  RSVPKind = "maybe"
	RSVPMobile RSVPKind = "mobile"
)

// RSVPKinds lists the accepted responses in button order.
var RSVPKinds = []RSVPKind{RSVPYes, RSVPNo, RSVPMaybe, RSVPMobile}

// Settings is a guild's scheduling configuration. Times are wall-clock values
// in the bot's timezone, not instants.
type Settings struct {
	GuildID             snowflake.ID
	PostTime            ClockTime
	EventTime           ClockTime
	RemindersOn         bool
	RemindAfternoon     bool
	RemindHourBefore    bool
	RemindQuarterBefore bool
	EventChannelID      snowflake.ID
	AdminChannelID      snowflake.ID
}

// DefaultSettings are applied when a guild has a schedule but has never
// touched its settings: post at 09:00, event at 20:00, all reminders on.
func DefaultSettings(guildID snowflake.ID) Settings {
	return Settings{
		GuildID:             guildID,
		PostTime:            ClockTime{Hour: 9},
		EventTime:           ClockTime{Hour: 20},
		RemindersOn:         true,
		RemindAfternoon:     true,
		RemindHourBefore:    true,
		RemindQuarterBefore: true,
	}
}

// DailyPost is the durable record of one day's delivered announcement.
type DailyPost struct {
	ID        int64
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Date      time.Time // civil midnight
	Weekday   string
	Event     EventData
	CreatedAt time.Time
}

// RSVP is one user's response to one daily post.
type RSVP struct {
	PostID      int64
	GuildID     snowflake.ID
	UserID      snowflake.ID
	Kind        RSVPKind
	RespondedAt time.Time
}

// NoticeKind distinguishes the once-per-day admin notifications.
type NoticeKind string

const (
	NoticeStaleWeek    NoticeKind = "stale_week"
	NoticeMissingPerms NoticeKind = "missing_perms"
)
