package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DailyPost records one delivered event announcement. Event fields are a
// snapshot of the template at post time. Rows are deleted only by the
// force-repost path; retention removes the Discord message, never the row,
// because RSVPs reference it.
type DailyPost struct {
	bun.BaseModel `bun:"table:daily_posts,alias:dp"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   int64     `bun:"guild_id,notnull"`
	ChannelID int64     `bun:"channel_id,notnull"`
	MessageID int64     `bun:"message_id,notnull"`
	EventDate time.Time `bun:"event_date,notnull"`
	Weekday   string    `bun:"weekday,notnull"`
	EventName string    `bun:"event_name,notnull"`
	Outfit    string    `bun:"outfit,notnull"`
	Vehicle   string    `bun:"vehicle,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
