package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/duskriver/rollcall/rollcall/database/models"
	"github.com/duskriver/rollcall/rollcall/scheduler"
	"github.com/uptrace/bun"
)

// ScheduleRepository is the durable store behind the scheduling engine plus
// the write operations the command surface needs. It satisfies
// scheduler.ScheduleStore.
type ScheduleRepository interface {
	scheduler.ScheduleStore

	// SaveDayTemplate creates or overwrites one weekday's template entry.
	SaveDayTemplate(ctx context.Context, guildID snowflake.ID, weekday string, event scheduler.EventData) error

	// SaveSettings creates or overwrites the guild's settings row.
	SaveSettings(ctx context.Context, settings scheduler.Settings) error
}

type scheduleRepository struct {
	db *bun.DB
}

func NewScheduleRepository(db *bun.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ListGuildsWithSchedule(ctx context.Context) ([]snowflake.ID, error) {
	var ids []int64
	err := r.db.NewSelect().
		Model((*models.WeeklySchedule)(nil)).
		ColumnExpr("DISTINCT guild_id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	out := make([]snowflake.ID, len(ids))
	for i, id := range ids {
		out[i] = snowflake.ID(id)
	}
	return out, nil
}

func (r *scheduleRepository) GetSettings(ctx context.Context, guildID snowflake.ID) (*scheduler.Settings, error) {
	row := new(models.GuildSettings)
	err := r.db.NewSelect().
		Model(row).
		Where("guild_id = ?", int64(guildID)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings := settingsFromRow(row)
	return &settings, nil
}

func (r *scheduleRepository) SaveSettings(ctx context.Context, settings scheduler.Settings) error {
	row := &models.GuildSettings{
		GuildID:             int64(settings.GuildID),
		PostTime:            settings.PostTime.String(),
		EventTime:           settings.EventTime.String(),
		RemindersOn:         settings.RemindersOn,
		RemindAfternoon:     settings.RemindAfternoon,
		RemindHourBefore:    settings.RemindHourBefore,
		RemindQuarterBefore: settings.RemindQuarterBefore,
		EventChannelID:      int64(settings.EventChannelID),
		AdminChannelID:      int64(settings.AdminChannelID),
		UpdatedAt:           time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("post_time = EXCLUDED.post_time").
		Set("event_time = EXCLUDED.event_time").
		Set("reminders_on = EXCLUDED.reminders_on").
		Set("remind_afternoon = EXCLUDED.remind_afternoon").
		Set("remind_hour_before = EXCLUDED.remind_hour_before").
		Set("remind_quarter_before = EXCLUDED.remind_quarter_before").
		Set("event_channel_id = EXCLUDED.event_channel_id").
		Set("admin_channel_id = EXCLUDED.admin_channel_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *scheduleRepository) GetWeeklyTemplate(ctx context.Context, guildID snowflake.ID) (map[string]scheduler.EventData, error) {
	var rows []models.WeeklySchedule
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", int64(guildID)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	template := make(map[string]scheduler.EventData, len(rows))
	for _, row := range rows {
		template[row.Weekday] = scheduler.EventData{
			Name:    row.EventName,
			Outfit:  row.Outfit,
			Vehicle: row.Vehicle,
		}
	}
	return template, nil
}

func (r *scheduleRepository) TemplateLastModified(ctx context.Context, guildID snowflake.ID) (time.Time, bool, error) {
	var mod sql.NullTime
	err := r.db.NewSelect().
		Model((*models.WeeklySchedule)(nil)).
		ColumnExpr("MAX(updated_at)").
		Where("guild_id = ?", int64(guildID)).
		Scan(ctx, &mod)
	if err != nil {
		return time.Time{}, false, err
	}
	if !mod.Valid {
		return time.Time{}, false, nil
	}
	return mod.Time, true, nil
}

func (r *scheduleRepository) SaveDayTemplate(ctx context.Context, guildID snowflake.ID, weekday string, event scheduler.EventData) error {
	now := time.Now()
	row := &models.WeeklySchedule{
		GuildID:   int64(guildID),
		Weekday:   weekday,
		EventName: event.Name,
		Outfit:    event.Outfit,
		Vehicle:   event.Vehicle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (guild_id, weekday) DO UPDATE").
		Set("event_name = EXCLUDED.event_name").
		Set("outfit = EXCLUDED.outfit").
		Set("vehicle = EXCLUDED.vehicle").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *scheduleRepository) GetDailyPost(ctx context.Context, guildID snowflake.ID, date time.Time) (*scheduler.DailyPost, error) {
	row := new(models.DailyPost)
	err := r.db.NewSelect().
		Model(row).
		Where("guild_id = ?", int64(guildID)).
		Where("event_date = ?", date).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post := postFromRow(row)
	return &post, nil
}

func (r *scheduleRepository) GetAllDailyPosts(ctx context.Context, guildID snowflake.ID, date time.Time) ([]scheduler.DailyPost, error) {
	var rows []models.DailyPost
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", int64(guildID)).
		Where("event_date = ?", date).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]scheduler.DailyPost, len(rows))
	for i := range rows {
		posts[i] = postFromRow(&rows[i])
	}
	return posts, nil
}

func (r *scheduleRepository) SaveDailyPost(ctx context.Context, post *scheduler.DailyPost) (int64, error) {
	row := &models.DailyPost{
		GuildID:   int64(post.GuildID),
		ChannelID: int64(post.ChannelID),
		MessageID: int64(post.MessageID),
		EventDate: post.Date,
		Weekday:   post.Weekday,
		EventName: post.Event.Name,
		Outfit:    post.Event.Outfit,
		Vehicle:   post.Event.Vehicle,
		CreatedAt: post.CreatedAt,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	post.ID = row.ID
	return row.ID, nil
}

func (r *scheduleRepository) DeleteDailyPost(ctx context.Context, postID int64) error {
	_, err := r.db.NewDelete().
		Model((*models.DailyPost)(nil)).
		Where("id = ?", postID).
		Exec(ctx)
	return err
}

func (r *scheduleRepository) GetOldDailyPosts(ctx context.Context, cutoff time.Time) ([]scheduler.DailyPost, error) {
	var rows []models.DailyPost
	err := r.db.NewSelect().
		Model(&rows).
		Where("event_date < ?", cutoff).
		Order("event_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]scheduler.DailyPost, len(rows))
	for i := range rows {
		posts[i] = postFromRow(&rows[i])
	}
	return posts, nil
}

func (r *scheduleRepository) ReminderSent(ctx context.Context, postID int64, kind scheduler.ActionKind) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.ReminderRecord)(nil)).
		Where("post_id = ?", postID).
		Where("kind = ?", string(kind)).
		Exists(ctx)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *scheduleRepository) MarkReminderSent(ctx context.Context, postID int64, kind scheduler.ActionKind, date time.Time) error {
	row := &models.ReminderRecord{
		PostID:       postID,
		Kind:         string(kind),
		ReminderDate: date,
		SentAt:       time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (post_id, kind) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *scheduleRepository) AdminNotificationSent(ctx context.Context, guildID snowflake.ID, date time.Time, kind scheduler.NoticeKind) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.AdminNotification)(nil)).
		Where("guild_id = ?", int64(guildID)).
		Where("notice_date = ?", date).
		Where("kind = ?", string(kind)).
		Exists(ctx)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *scheduleRepository) MarkAdminNotificationSent(ctx context.Context, guildID snowflake.ID, date time.Time, kind scheduler.NoticeKind) error {
	row := &models.AdminNotification{
		GuildID:    int64(guildID),
		NoticeDate: date,
		Kind:       string(kind),
		SentAt:     time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (guild_id, notice_date, kind) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *scheduleRepository) GetRSVPs(ctx context.Context, postID int64) ([]scheduler.RSVP, error) {
	var rows []models.RSVPResponse
	err := r.db.NewSelect().
		Model(&rows).
		Where("post_id = ?", postID).
		Order("responded_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	rsvps := make([]scheduler.RSVP, len(rows))
	for i, row := range rows {
		rsvps[i] = scheduler.RSVP{
			PostID:      row.PostID,
			GuildID:     snowflake.ID(row.GuildID),
			UserID:      snowflake.ID(row.UserID),
			Kind:        scheduler.RSVPKind(row.ResponseType),
			RespondedAt: row.RespondedAt,
		}
	}
	return rsvps, nil
}

func (r *scheduleRepository) UpsertRSVP(ctx context.Context, postID int64, guildID, userID snowflake.ID, kind scheduler.RSVPKind) error {
	row := &models.RSVPResponse{
		PostID:       postID,
		GuildID:      int64(guildID),
		UserID:       int64(userID),
		ResponseType: string(kind),
		RespondedAt:  time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (post_id, user_id) DO UPDATE").
		Set("response_type = EXCLUDED.response_type").
		Set("responded_at = EXCLUDED.responded_at").
		Exec(ctx)
	return err
}

func settingsFromRow(row *models.GuildSettings) scheduler.Settings {
	settings := scheduler.DefaultSettings(snowflake.ID(row.GuildID))
	if t, err := scheduler.ParseClockTime(row.PostTime); err == nil {
		settings.PostTime = t
	}
	if t, err := scheduler.ParseClockTime(row.EventTime); err == nil {
		settings.EventTime = t
	}
	settings.RemindersOn = row.RemindersOn
	settings.RemindAfternoon = row.RemindAfternoon
	settings.RemindHourBefore = row.RemindHourBefore
	settings.RemindQuarterBefore = row.RemindQuarterBefore
	settings.EventChannelID = snowflake.ID(row.EventChannelID)
	settings.AdminChannelID = snowflake.ID(row.AdminChannelID)
	return settings
}

func postFromRow(row *models.DailyPost) scheduler.DailyPost {
	return scheduler.DailyPost{
		ID:        row.ID,
		GuildID:   snowflake.ID(row.GuildID),
		ChannelID: snowflake.ID(row.ChannelID),
		MessageID: snowflake.ID(row.MessageID),
		Date:      row.EventDate,
		Weekday:   row.Weekday,
		Event: scheduler.EventData{
			Name:    row.EventName,
			Outfit:  row.Outfit,
			Vehicle: row.Vehicle,
		},
		CreatedAt: row.CreatedAt,
	}
}
