package scheduler

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// bucketLayout truncates an instant to its wall-clock minute.
const bucketLayout = "2006-01-02 15:04"

type ledgerKey struct {
	guildID snowflake.ID
	action  ActionKind
	bucket  string
}

// DedupeLedger is the process-local fast path of the idempotency guard: a
// record of actions already fired this minute, keyed by (guild, action,
// minute bucket). It is empty after a restart; the durable DailyPost and
// ReminderRecord checks remain the authoritative guard.
type DedupeLedger struct {
	mu      sync.Mutex
	entries map[ledgerKey]time.Time
}

func NewDedupeLedger() *DedupeLedger {
	return &DedupeLedger{entries: make(map[ledgerKey]time.Time)}
}

// TryMark atomically checks and sets the key for now's minute bucket. It
// returns true when this call is the first to mark the key, false when a
// previous call already did. Safe for concurrent use.
func (l *DedupeLedger) TryMark(guildID snowflake.ID, action ActionKind, now time.Time) bool {
	key := ledgerKey{guildID: guildID, action: action, bucket: now.Format(bucketLayout)}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, seen := l.entries[key]; seen {
		return false
	}
	l.entries[key] = now
	return true
}

// Sweep discards entries older than the retention window and returns how many
// were dropped. Memory hygiene only, not correctness: minute buckets stop
// matching after their minute regardless.
func (l *DedupeLedger) Sweep(retention time.Duration, now time.Time) int {
	cut := now.Add(-retention)

	l.mu.Lock()
	defer l.mu.Unlock()
	var dropped int
	for key, firedAt := range l.entries {
		if firedAt.Before(cut) {
			delete(l.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of live entries.
func (l *DedupeLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
