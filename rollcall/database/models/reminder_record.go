package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReminderRecord marks a reminder kind as delivered for a post. Presence of
// the row is the durable at-most-once fact; unique on (post_id, kind).
type ReminderRecord struct {
	bun.BaseModel `bun:"table:reminder_records,alias:rm"`

	ID           int64     `bun:"id,pk,autoincrement"`
	PostID       int64     `bun:"post_id,notnull"`
	Kind         string    `bun:"kind,notnull"`
	ReminderDate time.Time `bun:"reminder_date,notnull"`
	SentAt       time.Time `bun:"sent_at,notnull,default:current_timestamp"`
}
