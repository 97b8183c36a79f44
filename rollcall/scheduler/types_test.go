package scheduler

import (
	"testing"
	"time"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockTime
		wantErr bool
	}{
		{name: "morning", input: "09:00", want: ClockTime{Hour: 9}},
		{name: "evening", input: "20:30", want: ClockTime{Hour: 20, Minute: 30}},
		{name: "midnight", input: "0:0", want: ClockTime{}},
		{name: "last minute of the day", input: "23:59", want: ClockTime{Hour: 23, Minute: 59}},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "negative hour", input: "-1:00", wantErr: true},
		{name: "not a time", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClockTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseClockTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockTimeMatches(t *testing.T) {
	ct := ClockTime{Hour: 9, Minute: 30}

	if !ct.Matches(time.Date(2026, 1, 7, 9, 30, 45, 0, time.UTC)) {
		t.Error("seconds within the minute should still match")
	}
	if ct.Matches(time.Date(2026, 1, 7, 9, 31, 0, 0, time.UTC)) {
		t.Error("the next minute should not match")
	}
	if ct.Matches(time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)) {
		t.Error("a different hour should not match")
	}
}

func TestClockTimeString(t *testing.T) {
	if got := (ClockTime{Hour: 9, Minute: 5}).String(); got != "09:05" {
		t.Errorf("String() = %q, want %q", got, "09:05")
	}
}
