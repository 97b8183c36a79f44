package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RSVPResponse is one user's response to one daily post. Unique on
// (post_id, user_id): a new response overwrites in place and refreshes
// responded_at.
type RSVPResponse struct {
	bun.BaseModel `bun:"table:rsvp_responses,alias:rr"`

	ID           int64     `bun:"id,pk,autoincrement"`
	PostID       int64     `bun:"post_id,notnull"`
	GuildID      int64     `bun:"guild_id,notnull"`
	UserID       int64     `bun:"user_id,notnull"`
	ResponseType string    `bun:"response_type,notnull"`
	RespondedAt  time.Time `bun:"responded_at,notnull"`
}
