package model

import (
	"strings"
	"time"
)

// NoteType identifies which editor owns a note.
type NoteType string

const (
	NoteTypeText      NoteType = "TEXT"
	NoteTypeChecklist NoteType = "CHECKLIST"
	NoteTypeDrawing   NoteType = "DRAWING"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeText, NoteTypeChecklist, NoteTypeDrawing:
		return true
	default:
		return false
	}
}

// ChecklistItem is one line of a checklist note.
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Note is a stored note of any type.
type Note struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Title         string          `gorm:"type:text;not null"`
	Desc          string          `gorm:"type:text;not null"`
	Checklist     []ChecklistItem `gorm:"type:text;serializer:json"`
	TagIDs        []int64         `gorm:"column:tag_ids;type:text;serializer:json"`
	BgColor       *int32
	TxtColor      *int32
	AutoTextColor bool
	IsCompleted   bool     `gorm:"index"`
	Type          NoteType `gorm:"size:16;not null"`
	CreatedAt     time.Time
	LastEdit      time.Time `gorm:"index"`
	OrderIndex    int
}

// TableName binds Note to the notes table.
func (Note) TableName() string {
	return "notes"
}

// IsEmpty reports whether the note carries no user content at all.
func (n Note) IsEmpty() bool {
	if strings.TrimSpace(n.Title) != "" || strings.TrimSpace(n.Desc) != "" {
		return false
	}
	for _, item := range n.Checklist {
		if strings.TrimSpace(item.Text) != "" {
			return false
		}
	}
	return true
}

// NewNote returns a note with the defaults a fresh editor starts from.
func NewNote(noteType NoteType) Note {
	if !noteType.Valid() {
		noteType = NoteTypeText
	}
	return Note{
		Type:          noteType,
		AutoTextColor: true,
	}
}
