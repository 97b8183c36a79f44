package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GuildSettings stores a guild's scheduling configuration. Post and event
// times are wall-clock "HH:MM" strings in the bot's timezone, not instants.
type GuildSettings struct {
	bun.BaseModel `bun:"table:guild_settings,alias:gs"`

	GuildID             int64     `bun:"guild_id,pk"`
	PostTime            string    `bun:"post_time,notnull,default:'09:00'"`
	EventTime           string    `bun:"event_time,notnull,default:'20:00'"`
	RemindersOn         bool      `bun:"reminders_on,notnull,default:true"`
	RemindAfternoon     bool      `bun:"remind_afternoon,notnull,default:true"`
	RemindHourBefore    bool      `bun:"remind_hour_before,notnull,default:true"`
	RemindQuarterBefore bool      `bun:"remind_quarter_before,notnull,default:true"`
	EventChannelID      int64     `bun:"event_channel_id,nullzero"`
	AdminChannelID      int64     `bun:"admin_channel_id,nullzero"`
	UpdatedAt           time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
