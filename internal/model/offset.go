package model

import "time"

// ReminderOffset describes when a reminder should fire relative to the moment it is created.
// SecondsFromNow is applied first, then HourOfDay/Minute pin the clock; AbsoluteMillis
// overrides everything.
type ReminderOffset struct {
	SecondsFromNow *int64 `json:"seconds,omitempty"`
	AbsoluteMillis *int64 `json:"absolute,omitempty"`
	HourOfDay      *int   `json:"hour,omitempty"`
	Minute         *int   `json:"minute,omitempty"`
}

// InSeconds returns a relative offset.
func InSeconds(s int64) ReminderOffset {
	return ReminderOffset{SecondsFromNow: &s}
}

// At returns an absolute offset.
func At(t time.Time) ReminderOffset {
	ms := t.UnixMilli()
	return ReminderOffset{AbsoluteMillis: &ms}
}

// DailyAt returns an offset pinned to a wall-clock time today.
func DailyAt(hour, minute int) ReminderOffset {
	return ReminderOffset{HourOfDay: &hour, Minute: &minute}
}

// Resolve turns the offset into an absolute due time.
func (o ReminderOffset) Resolve(now time.Time) time.Time {
	if o.AbsoluteMillis != nil {
		return time.UnixMilli(*o.AbsoluteMillis).In(now.Location())
	}

	t := now
	if o.SecondsFromNow != nil {
		t = t.Add(time.Duration(*o.SecondsFromNow) * time.Second)
	}
	if o.HourOfDay == nil && o.Minute == nil {
		return t
	}

	hour, minute := t.Hour(), t.Minute()
	if o.HourOfDay != nil {
		hour = *o.HourOfDay
	}
	if o.Minute != nil {
		minute = *o.Minute
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
