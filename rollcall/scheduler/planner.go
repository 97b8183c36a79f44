package scheduler

import "time"

// DueReminders computes which reminder kinds are due at this exact minute.
// Pure function, no I/O; the engine handles each returned kind independently.
//
// The afternoon reminder is a fixed 16:00 trigger regardless of event time.
// The one-hour reminder is never due when the event is at hour 0: there is no
// wraparound into the previous day. The fifteen-minute trigger borrows from
// the hour when the event starts before minute 15 (20:00 event fires at
// 19:45), except across midnight: an event before 00:15 has no reminder.
func DueReminders(now time.Time, s Settings) []ActionKind {
	if !s.RemindersOn {
		return nil
	}

	var due []ActionKind
	if s.RemindAfternoon && now.Hour() == 16 && now.Minute() == 0 {
		due = append(due, ReminderAfternoon)
	}
	if s.RemindHourBefore && s.EventTime.Hour > 0 &&
		now.Hour() == s.EventTime.Hour-1 && now.Minute() == 0 {
		due = append(due, ReminderHourBefore)
	}
	if s.RemindQuarterBefore {
		hour, minute := s.EventTime.Hour, s.EventTime.Minute-15
		if minute < 0 {
			hour, minute = hour-1, minute+60
		}
		if hour >= 0 && now.Hour() == hour && now.Minute() == minute {
			due = append(due, ReminderQuarterBefore)
		}
	}
	return due
}
