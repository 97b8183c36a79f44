package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WeeklySchedule holds one weekday's template entry for a guild, one row per
// (guild, weekday).
type WeeklySchedule struct {
	bun.BaseModel `bun:"table:weekly_schedules,alias:ws"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GuildID   int64     `bun:"guild_id,notnull"`
	Weekday   string    `bun:"weekday,notnull"`
	EventName string    `bun:"event_name,notnull"`
	Outfit    string    `bun:"outfit,notnull"`
	Vehicle   string    `bun:"vehicle,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
