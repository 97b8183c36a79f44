package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// AttendanceAggregator folds the raw RSVP rows of a calendar date into one
// response per user. Purely a read-time operation with no side effects.
type AttendanceAggregator struct {
	store ScheduleStore
}

func NewAttendanceAggregator(store ScheduleStore) *AttendanceAggregator {
	return &AttendanceAggregator{store: store}
}

// Aggregate returns each user's most recent response across every daily post
// for the date. Force-reposting can leave multiple posts for one date; their
// responses are merged and the latest respondedAt wins, regardless of which
// post it belongs to or the order rows arrive in.
func (a *AttendanceAggregator) Aggregate(ctx context.Context, guildID snowflake.ID, date time.Time) ([]RSVP, error) {
	posts, err := a.store.GetAllDailyPosts(ctx, guildID, date)
	if err != nil {
		return nil, err
	}

	latest := make(map[snowflake.ID]RSVP)
	for _, post := range posts {
		rsvps, err := a.store.GetRSVPs(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range rsvps {
			if prev, ok := latest[r.UserID]; !ok || r.RespondedAt.After(prev.RespondedAt) {
				latest[r.UserID] = r
			}
		}
	}

	out := make([]RSVP, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// CountByKind tallies an aggregated response list per RSVP kind.
func CountByKind(rsvps []RSVP) map[RSVPKind]int {
	counts := make(map[RSVPKind]int, len(RSVPKinds))
	for _, r := range rsvps {
		counts[r.Kind]++
	}
	return counts
}
