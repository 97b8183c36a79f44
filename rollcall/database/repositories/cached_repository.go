package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/duskriver/rollcall/rollcall/scheduler"
	lru "github.com/hashicorp/golang-lru"
)

const (
	cacheSize = 1024
	cacheTTL  = 30 * time.Second
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// cachedScheduleRepository caches the reads the engine makes on every tick
// for every guild (settings, template, last-modified). Writes through to the
// inner repository and invalidates the guild's entries. Everything else is
// delegated untouched: idempotency reads must always hit the database.
type cachedScheduleRepository struct {
	ScheduleRepository
	cache *lru.Cache
}

// NewCachedScheduleRepository wraps repo with a short-TTL read cache.
func NewCachedScheduleRepository(repo ScheduleRepository) ScheduleRepository {
	cache, _ := lru.New(cacheSize)
	return &cachedScheduleRepository{
		ScheduleRepository: repo,
		cache:              cache,
	}
}

func settingsKey(guildID snowflake.ID) string { return fmt.Sprintf("settings:%d", guildID) }
func templateKey(guildID snowflake.ID) string { return fmt.Sprintf("template:%d", guildID) }
func modifiedKey(guildID snowflake.ID) string { return fmt.Sprintf("modified:%d", guildID) }

func (r *cachedScheduleRepository) get(key string) (interface{}, bool) {
	v, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	if time.Now().After(entry.expiresAt) {
		r.cache.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (r *cachedScheduleRepository) put(key string, value interface{}) {
	r.cache.Add(key, cacheEntry{value: value, expiresAt: time.Now().Add(cacheTTL)})
}

func (r *cachedScheduleRepository) invalidate(guildID snowflake.ID) {
	r.cache.Remove(settingsKey(guildID))
	r.cache.Remove(templateKey(guildID))
	r.cache.Remove(modifiedKey(guildID))
}

func (r *cachedScheduleRepository) GetSettings(ctx context.Context, guildID snowflake.ID) (*scheduler.Settings, error) {
	if v, ok := r.get(settingsKey(guildID)); ok {
		if v == nil {
			return nil, nil
		}
		settings := *(v.(*scheduler.Settings))
		return &settings, nil
	}

	settings, err := r.ScheduleRepository.GetSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		r.put(settingsKey(guildID), nil)
		return nil, nil
	}
	copied := *settings
	r.put(settingsKey(guildID), &copied)
	return settings, nil
}

func (r *cachedScheduleRepository) GetWeeklyTemplate(ctx context.Context, guildID snowflake.ID) (map[string]scheduler.EventData, error) {
	if v, ok := r.get(templateKey(guildID)); ok {
		cached := v.(map[string]scheduler.EventData)
		out := make(map[string]scheduler.EventData, len(cached))
		for k, e := range cached {
			out[k] = e
		}
		return out, nil
	}

	template, err := r.ScheduleRepository.GetWeeklyTemplate(ctx, guildID)
	if err != nil {
		return nil, err
	}
	r.put(templateKey(guildID), template)
	return template, nil
}

type modifiedEntry struct {
	mod time.Time
	ok  bool
}

func (r *cachedScheduleRepository) TemplateLastModified(ctx context.Context, guildID snowflake.ID) (time.Time, bool, error) {
	if v, ok := r.get(modifiedKey(guildID)); ok {
		entry := v.(modifiedEntry)
		return entry.mod, entry.ok, nil
	}

	mod, ok, err := r.ScheduleRepository.TemplateLastModified(ctx, guildID)
	if err != nil {
		return time.Time{}, false, err
	}
	r.put(modifiedKey(guildID), modifiedEntry{mod: mod, ok: ok})
	return mod, ok, nil
}

func (r *cachedScheduleRepository) SaveSettings(ctx context.Context, settings scheduler.Settings) error {
	if err := r.ScheduleRepository.SaveSettings(ctx, settings); err != nil {
		return err
	}
	r.invalidate(settings.GuildID)
	return nil
}

func (r *cachedScheduleRepository) SaveDayTemplate(ctx context.Context, guildID snowflake.ID, weekday string, event scheduler.EventData) error {
	if err := r.ScheduleRepository.SaveDayTemplate(ctx, guildID, weekday, event); err != nil {
		return err
	}
	r.invalidate(guildID)
	return nil
}
