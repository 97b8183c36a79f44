package scheduler

import (
	"reflect"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 7, hour, minute, 0, 0, time.UTC)
}

func TestDueReminders(t *testing.T) {
	base := Settings{
		RemindersOn:         true,
		RemindAfternoon:     true,
		RemindHourBefore:    true,
		RemindQuarterBefore: true,
		EventTime:           ClockTime{Hour: 20},
	}

	tests := []struct {
		name     string
		now      time.Time
		settings func(Settings) Settings
		want     []ActionKind
	}{
		{
			name:     "nothing due mid morning",
			now:      at(10, 30),
			settings: func(s Settings) Settings { return s },
			want:     nil,
		},
		{
			name:     "afternoon reminder at 16:00 exactly",
			now:      at(16, 0),
			settings: func(s Settings) Settings { return s },
			want:     []ActionKind{ReminderAfternoon},
		},
		{
			name:     "not at 16:01",
			now:      at(16, 1),
			settings: func(s Settings) Settings { return s },
			want:     nil,
		},
		{
			name:     "hour before a 20:00 event",
			now:      at(19, 0),
			settings: func(s Settings) Settings { return s },
			want:     []ActionKind{ReminderHourBefore},
		},
		{
			name: "hour before never fires for a midnight event",
			now:  at(23, 0),
			settings: func(s Settings) Settings {
				s.EventTime = ClockTime{Hour: 0, Minute: 30}
				return s
			},
			want: nil,
		},
		{
			name: "quarter before a 20:30 event",
			now:  at(20, 15),
			settings: func(s Settings) Settings {
				s.EventTime = ClockTime{Hour: 20, Minute: 30}
				return s
			},
			want: []ActionKind{ReminderQuarterBefore},
		},
		{
			name:     "quarter before a 20:00 event borrows from the hour",
			now:      at(19, 45),
			settings: func(s Settings) Settings { return s },
			want:     []ActionKind{ReminderQuarterBefore},
		},
		{
			name: "quarter before a 20:10 event fires at 19:55",
			now:  at(19, 55),
			settings: func(s Settings) Settings {
				s.EventTime = ClockTime{Hour: 20, Minute: 10}
				return s
			},
			want: []ActionKind{ReminderQuarterBefore},
		},
		{
			name: "quarter before never wraps past midnight",
			now:  at(23, 55),
			settings: func(s Settings) Settings {
				s.EventTime = ClockTime{Hour: 0, Minute: 10}
				return s
			},
			want: nil,
		},
		{
			name: "afternoon and quarter both due in the same minute",
			now:  at(16, 0),
			settings: func(s Settings) Settings {
				s.EventTime = ClockTime{Hour: 16, Minute: 15}
				return s
			},
			want: []ActionKind{ReminderAfternoon, ReminderQuarterBefore},
		},
		{
			name: "master switch off suppresses everything",
			now:  at(16, 0),
			settings: func(s Settings) Settings {
				s.RemindersOn = false
				return s
			},
			want: nil,
		},
		{
			name: "individual kind disabled",
			now:  at(19, 0),
			settings: func(s Settings) Settings {
				s.RemindHourBefore = false
				return s
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueReminders(tt.now, tt.settings(base))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DueReminders() = %v, want %v", got, tt.want)
			}
		})
	}
}
