package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AdminNotification marks an admin notice as sent so each kind goes out at
// most once per guild and day. Unique on (guild_id, notice_date, kind).
type AdminNotification struct {
	bun.BaseModel `bun:"table:admin_notifications,alias:an"`

	ID         int64     `bun:"id,pk,autoincrement"`
	GuildID    int64     `bun:"guild_id,notnull"`
	NoticeDate time.Time `bun:"notice_date,notnull"`
	Kind       string    `bun:"kind,notnull"`
	SentAt     time.Time `bun:"sent_at,notnull,default:current_timestamp"`
}
