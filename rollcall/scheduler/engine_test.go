package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"

	"github.com/duskriver/rollcall/rollcall/clock"
	"github.com/duskriver/rollcall/rollcall/scheduler"
	"github.com/duskriver/rollcall/rollcall/scheduler/mock"
)

// memStore is an in-memory ScheduleStore for engine tests. It behaves like
// the real repository: absence is (nil, nil), never an error.
type memStore struct {
	mu          sync.Mutex
	guilds      []snowflake.ID
	settings    map[snowflake.ID]scheduler.Settings
	settingsErr map[snowflake.ID]error
	templates   map[snowflake.ID]map[string]scheduler.EventData
	templateMod map[snowflake.ID]time.Time
	posts       map[int64]scheduler.DailyPost
	nextID      int64
	reminders   map[string]bool
	notices     map[string]bool
	rsvps       map[int64][]scheduler.RSVP
}

func newMemStore() *memStore {
	return &memStore{
		settings:    make(map[snowflake.ID]scheduler.Settings),
		settingsErr: make(map[snowflake.ID]error),
		templates:   make(map[snowflake.ID]map[string]scheduler.EventData),
		templateMod: make(map[snowflake.ID]time.Time),
		posts:       make(map[int64]scheduler.DailyPost),
		reminders:   make(map[string]bool),
		notices:     make(map[string]bool),
		rsvps:       make(map[int64][]scheduler.RSVP),
	}
}

func (s *memStore) ListGuildsWithSchedule(context.Context) ([]snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]snowflake.ID(nil), s.guilds...), nil
}

func (s *memStore) GetSettings(_ context.Context, guildID snowflake.ID) (*scheduler.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settingsErr[guildID]; err != nil {
		return nil, err
	}
	settings, ok := s.settings[guildID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (s *memStore) GetWeeklyTemplate(_ context.Context, guildID snowflake.ID) (map[string]scheduler.EventData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]scheduler.EventData, len(s.templates[guildID]))
	for day, event := range s.templates[guildID] {
		out[day] = event
	}
	return out, nil
}

func (s *memStore) TemplateLastModified(_ context.Context, guildID snowflake.ID) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mod, ok := s.templateMod[guildID]
	return mod, ok, nil
}

func (s *memStore) GetDailyPost(_ context.Context, guildID snowflake.ID, date time.Time) (*scheduler.DailyPost, error) {
	posts, _ := s.GetAllDailyPosts(context.Background(), guildID, date)
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (s *memStore) GetAllDailyPosts(_ context.Context, guildID snowflake.ID, date time.Time) ([]scheduler.DailyPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scheduler.DailyPost
	for _, p := range s.posts {
		if p.GuildID == guildID && p.Date.Equal(date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) SaveDailyPost(_ context.Context, post *scheduler.DailyPost) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	post.ID = s.nextID
	s.posts[post.ID] = *post
	return post.ID, nil
}

func (s *memStore) DeleteDailyPost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, postID)
	return nil
}

func (s *memStore) GetOldDailyPosts(_ context.Context, cutoff time.Time) ([]scheduler.DailyPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []scheduler.DailyPost
	for _, p := range s.posts {
		if p.Date.Before(cutoff) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) ReminderSent(_ context.Context, postID int64, kind scheduler.ActionKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders[fmt.Sprintf("%d/%s", postID, kind)], nil
}

func (s *memStore) MarkReminderSent(_ context.Context, postID int64, kind scheduler.ActionKind, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[fmt.Sprintf("%d/%s", postID, kind)] = true
	return nil
}

func (s *memStore) AdminNotificationSent(_ context.Context, guildID snowflake.ID, date time.Time, kind scheduler.NoticeKind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notices[fmt.Sprintf("%s/%s/%s", guildID, date.Format("2006-01-02"), kind)], nil
}

func (s *memStore) MarkAdminNotificationSent(_ context.Context, guildID snowflake.ID, date time.Time, kind scheduler.NoticeKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices[fmt.Sprintf("%s/%s/%s", guildID, date.Format("2006-01-02"), kind)] = true
	return nil
}

func (s *memStore) GetRSVPs(_ context.Context, postID int64) ([]scheduler.RSVP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduler.RSVP(nil), s.rsvps[postID]...), nil
}

func (s *memStore) UpsertRSVP(_ context.Context, postID int64, guildID, userID snowflake.ID, kind scheduler.RSVPKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rsvps := s.rsvps[postID]
	for i := range rsvps {
		if rsvps[i].UserID == userID {
			rsvps[i].Kind = kind
			return nil
		}
	}
	s.rsvps[postID] = append(rsvps, scheduler.RSVP{
		PostID:  postID,
		GuildID: guildID,
		UserID:  userID,
		Kind:    kind,
	})
	return nil
}

const (
	guildA = snowflake.ID(100)
	guildB = snowflake.ID(200)

	eventChan = snowflake.ID(1001)
	adminChan = snowflake.ID(1002)
)

// wednesday 09:00, with the template edited on monday of the same week.
var (
	tickNow    = time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	today      = clock.Today(tickNow)
	currentMod = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	staleMod   = time.Date(2025, 12, 29, 12, 0, 0, 0, time.UTC)

	wedEvent = scheduler.EventData{Name: "Cayo Perico", Outfit: "All black", Vehicle: "Kosatka"}
)

func addGuild(store *memStore, guildID snowflake.ID, mod time.Time) {
	store.guilds = append(store.guilds, guildID)
	store.settings[guildID] = scheduler.Settings{
		GuildID:             guildID,
		PostTime:            scheduler.ClockTime{Hour: 9},
		EventTime:           scheduler.ClockTime{Hour: 20},
		RemindersOn:         true,
		RemindAfternoon:     true,
		RemindHourBefore:    true,
		RemindQuarterBefore: true,
		EventChannelID:      eventChan,
		AdminChannelID:      adminChan,
	}
	store.templates[guildID] = map[string]scheduler.EventData{"wednesday": wedEvent}
	store.templateMod[guildID] = mod
}

func TestTickPostsDailyCard(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().CanSend(eventChan).Return(true)
	poster.EXPECT().CanEmbed(eventChan).Return(true)
	poster.EXPECT().
		PostEvent(gomock.Any(), eventChan, today, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(snowflake.ID(555), nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	post := posts[0]
	if post.MessageID != 555 || post.Weekday != "wednesday" || post.Event != wedEvent {
		t.Errorf("unexpected post record: %+v", post)
	}

	// Same minute again: the ledger blocks before any Discord call is made,
	// which the mock enforces by its call counts.
	engine.Tick(context.Background(), tickNow)
}

func TestTickDurableGuardSurvivesRestart(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	store.SaveDailyPost(context.Background(), &scheduler.DailyPost{
		GuildID: guildA, ChannelID: eventChan, MessageID: 555,
		Date: today, Weekday: "wednesday", Event: wedEvent,
	})

	// Fresh engine, empty ledger: restart in the post minute. The durable
	// record must prevent a second card; the mock expects nothing.
	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)
}

func TestTickSkipsGuildWithoutEventChannel(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	settings := store.settings[guildA]
	settings.EventChannelID = 0
	store.settings[guildA] = settings

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today); len(posts) != 0 {
		t.Fatalf("got %d posts, want 0", len(posts))
	}
}

func TestTickDefaultsSettingsWhenNoneSaved(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	delete(store.settings, guildA)

	// Defaults have no event channel, so the guild is skipped without error.
	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)
}

func TestTickStaleWeekNotifiesAdminsOncePerDay(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, staleMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().
		PostNotice(gomock.Any(), adminChan, gomock.Any(), gomock.Any()).
		Return(nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today); len(posts) != 0 {
		t.Fatal("stale week must not produce a post")
	}

	// A restarted process in the post minute passes the empty ledger but
	// hits the durable once-per-day record: no second notice.
	fresh := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	fresh.Tick(context.Background(), tickNow)
}

func TestTickNoTemplateEntryIsQuietSkip(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	store.templates[guildA] = map[string]scheduler.EventData{"friday": {Name: "Race night"}}

	// No post and no notice: a day without an event is a valid state.
	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today); len(posts) != 0 {
		t.Fatalf("got %d posts, want 0", len(posts))
	}
}

func TestTickMissingPermissionsNotifiesAdmins(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().CanSend(eventChan).Return(false)
	poster.EXPECT().
		PostNotice(gomock.Any(), adminChan, gomock.Any(), gomock.Any()).
		Return(nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today); len(posts) != 0 {
		t.Fatal("missing permissions must not produce a post")
	}
}

func TestTickSendsReminderOnce(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	store.SaveDailyPost(context.Background(), &scheduler.DailyPost{
		GuildID: guildA, ChannelID: eventChan, MessageID: 555,
		Date: today, Weekday: "wednesday", Event: wedEvent,
	})

	afternoon := time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().
		PostReminder(gomock.Any(), eventChan, scheduler.ReminderAfternoon, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(afternoon))
	engine.Tick(context.Background(), afternoon)

	if sent, _ := store.ReminderSent(context.Background(), 1, scheduler.ReminderAfternoon); !sent {
		t.Fatal("reminder record not persisted")
	}

	// A restarted process in the same minute finds the durable record.
	fresh := scheduler.NewEngine(store, poster, clock.Fixed(afternoon))
	fresh.Tick(context.Background(), afternoon)
}

// One guild, one simulated day with the default 09:00/20:00 settings: the
// card posts at 09:00, the three reminders fire at 16:00, 19:00 and 19:45,
// and every other minute is quiet.
func TestTickFullDaySequence(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().CanSend(eventChan).Return(true)
	poster.EXPECT().CanEmbed(eventChan).Return(true)
	poster.EXPECT().
		PostEvent(gomock.Any(), eventChan, today, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(snowflake.ID(555), nil)
	for _, kind := range []scheduler.ActionKind{
		scheduler.ReminderAfternoon,
		scheduler.ReminderHourBefore,
		scheduler.ReminderQuarterBefore,
	} {
		poster.EXPECT().
			PostReminder(gomock.Any(), eventChan, kind, wedEvent, scheduler.ClockTime{Hour: 20}).
			Return(nil)
	}

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	for _, hm := range [][2]int{
		{9, 0},   // daily card
		{9, 1},   // post minute passed, nothing more
		{12, 30}, // quiet midday
		{16, 0},  // afternoon reminder
		{19, 0},  // hour before
		{19, 45}, // quarter before, borrowed from the hour
		{20, 0},  // event start, nothing fires
	} {
		engine.Tick(context.Background(), time.Date(2026, 1, 7, hm[0], hm[1], 0, 0, time.UTC))
	}

	posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today)
	if len(posts) != 1 {
		t.Fatalf("got %d posts over the day, want 1", len(posts))
	}
	for _, kind := range scheduler.ReminderKinds {
		if sent, _ := store.ReminderSent(context.Background(), posts[0].ID, kind); !sent {
			t.Errorf("reminder %s not recorded", kind)
		}
	}
}

func TestTickReminderSkippedWithoutPost(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))

	afternoon := time.Date(2026, 1, 7, 16, 0, 0, 0, time.UTC)
	engine.Tick(context.Background(), afternoon)
}

func TestTickIsolatesFailingGuild(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	addGuild(store, guildB, currentMod)
	store.settingsErr[guildA] = errors.New("connection refused")

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().CanSend(eventChan).Return(true)
	poster.EXPECT().CanEmbed(eventChan).Return(true)
	poster.EXPECT().
		PostEvent(gomock.Any(), eventChan, today, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(snowflake.ID(777), nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildB, today); len(posts) != 1 {
		t.Fatalf("healthy guild got %d posts, want 1", len(posts))
	}
}

func TestTickRecoversFromPosterPanic(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	addGuild(store, guildB, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	gomock.InOrder(
		poster.EXPECT().CanSend(eventChan).DoAndReturn(func(snowflake.ID) bool {
			panic("gateway cache corrupted")
		}),
		poster.EXPECT().CanSend(eventChan).Return(true),
	)
	poster.EXPECT().CanEmbed(eventChan).Return(true)
	poster.EXPECT().
		PostEvent(gomock.Any(), eventChan, today, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(snowflake.ID(888), nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	engine.Tick(context.Background(), tickNow)

	if posts, _ := store.GetAllDailyPosts(context.Background(), guildB, today); len(posts) != 1 {
		t.Fatalf("guild after the panicking one got %d posts, want 1", len(posts))
	}
}

func TestForcePostTodayErrors(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))

	settings := store.settings[guildA]
	settings.EventChannelID = 0
	store.settings[guildA] = settings
	if _, err := engine.ForcePostToday(context.Background(), guildA); !errors.Is(err, scheduler.ErrNoEventChannel) {
		t.Fatalf("err = %v, want ErrNoEventChannel", err)
	}

	settings.EventChannelID = eventChan
	store.settings[guildA] = settings
	store.templates[guildA] = map[string]scheduler.EventData{"friday": {Name: "Race night"}}
	if _, err := engine.ForcePostToday(context.Background(), guildA); !errors.Is(err, scheduler.ErrNoEventToday) {
		t.Fatalf("err = %v, want ErrNoEventToday", err)
	}
}

func TestForcePostTodayReplacesPriorPost(t *testing.T) {
	store := newMemStore()
	addGuild(store, guildA, currentMod)
	store.SaveDailyPost(context.Background(), &scheduler.DailyPost{
		GuildID: guildA, ChannelID: eventChan, MessageID: 555,
		Date: today, Weekday: "wednesday", Event: wedEvent,
	})

	poster := mock.NewMockChannelPoster(gomock.NewController(t))
	poster.EXPECT().
		DeleteMessage(gomock.Any(), eventChan, snowflake.ID(555)).
		Return(scheduler.DeleteOK)
	poster.EXPECT().
		PostEvent(gomock.Any(), eventChan, today, wedEvent, scheduler.ClockTime{Hour: 20}).
		Return(snowflake.ID(556), nil)

	engine := scheduler.NewEngine(store, poster, clock.Fixed(tickNow))
	post, err := engine.ForcePostToday(context.Background(), guildA)
	if err != nil {
		t.Fatalf("ForcePostToday() error = %v", err)
	}
	if post.MessageID != 556 {
		t.Errorf("post.MessageID = %s, want 556", post.MessageID)
	}

	posts, _ := store.GetAllDailyPosts(context.Background(), guildA, today)
	if len(posts) != 1 {
		t.Fatalf("got %d posts after replace, want 1", len(posts))
	}
	if posts[0].MessageID != 556 {
		t.Errorf("surviving post has message %s, want 556", posts[0].MessageID)
	}
}
