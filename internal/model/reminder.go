package model

import "time"

// Reminder is a due time attached to a note. Many reminders may point at one note.
type Reminder struct {
	ID      int64     `gorm:"primaryKey;autoIncrement"`
	NoteID  int64     `gorm:"index;not null"`
	DueAt   time.Time `gorm:"index;not null"`
	Enabled bool
}

// TableName binds Reminder to the reminders table.
func (Reminder) TableName() string {
	return "reminders"
}
