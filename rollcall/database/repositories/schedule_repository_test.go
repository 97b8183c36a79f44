package repositories

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/duskriver/rollcall/rollcall/database/models"
	"github.com/duskriver/rollcall/rollcall/scheduler"
)

func TestSettingsFromRow(t *testing.T) {
	row := &models.GuildSettings{
		GuildID:             100,
		PostTime:            "08:30",
		EventTime:           "21:15",
		RemindersOn:         true,
		RemindAfternoon:     false,
		RemindHourBefore:    true,
		RemindQuarterBefore: true,
		EventChannelID:      1001,
		AdminChannelID:      1002,
	}

	got := settingsFromRow(row)

	if got.GuildID != snowflake.ID(100) {
		t.Errorf("GuildID = %s, want 100", got.GuildID)
	}
	if got.PostTime != (scheduler.ClockTime{Hour: 8, Minute: 30}) {
		t.Errorf("PostTime = %v, want 08:30", got.PostTime)
	}
	if got.EventTime != (scheduler.ClockTime{Hour: 21, Minute: 15}) {
		t.Errorf("EventTime = %v, want 21:15", got.EventTime)
	}
	if got.RemindAfternoon || !got.RemindHourBefore {
		t.Errorf("reminder flags not mapped: %+v", got)
	}
	if got.EventChannelID != 1001 || got.AdminChannelID != 1002 {
		t.Errorf("channel IDs not mapped: %+v", got)
	}
}

func TestSettingsFromRowBadTimesFallBackToDefaults(t *testing.T) {
	row := &models.GuildSettings{
		GuildID:   100,
		PostTime:  "not a time",
		EventTime: "25:99",
	}

	got := settingsFromRow(row)
	defaults := scheduler.DefaultSettings(snowflake.ID(100))

	if got.PostTime != defaults.PostTime {
		t.Errorf("PostTime = %v, want default %v", got.PostTime, defaults.PostTime)
	}
	if got.EventTime != defaults.EventTime {
		t.Errorf("EventTime = %v, want default %v", got.EventTime, defaults.EventTime)
	}
}

func TestPostFromRow(t *testing.T) {
	date := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	row := &models.DailyPost{
		ID:        7,
		GuildID:   100,
		ChannelID: 1001,
		MessageID: 555,
		EventDate: date,
		Weekday:   "wednesday",
		EventName: "Cayo Perico",
		Outfit:    "All black",
		Vehicle:   "Kosatka",
		CreatedAt: date.Add(9 * time.Hour),
	}

	got := postFromRow(row)
	want := scheduler.DailyPost{
		ID:        7,
		GuildID:   snowflake.ID(100),
		ChannelID: snowflake.ID(1001),
		MessageID: snowflake.ID(555),
		Date:      date,
		Weekday:   "wednesday",
		Event:     scheduler.EventData{Name: "Cayo Perico", Outfit: "All black", Vehicle: "Kosatka"},
		CreatedAt: date.Add(9 * time.Hour),
	}
	if got != want {
		t.Errorf("postFromRow() = %+v, want %+v", got, want)
	}
}
