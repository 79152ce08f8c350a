package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type noteRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Desc        string `json:"desc"`
	CreatedAt   int64  `json:"createdAt"`
	IsCompleted bool   `json:"isCompleted"`
}

type reminderRecord struct {
	ID          int64 `json:"id"`
	NoteID      int64 `json:"noteId"`
	DueDateTime int64 `json:"dueDateTime"`
	Enabled     bool  `json:"enabled"`
}

type notesDocument struct {
	Notes     []noteRecord     `json:"notes"`
	Reminders []reminderRecord `json:"reminders"`
}

// Scheduling is the part of the reminder service a restore drives.
type Scheduling interface {
	CancelAll()
	Rearm(ctx context.Context) (int, error)
}

// NotesResult counts what a notes import stored.
type NotesResult struct {
	Notes     int
	Reminders int
	// Dropped counts reminders whose note was not in the document.
	Dropped int
}

// Notes exports and imports notes with their reminders.
type Notes struct {
	db         *gorm.DB
	notes      *database.NoteRepository
	reminders  *database.ReminderRepository
	scheduling Scheduling
	logger     zerolog.Logger
}

// NewNotes wires a notes backup. scheduling may be nil when no scheduler runs.
func NewNotes(db *gorm.DB, notes *database.NoteRepository, reminders *database.ReminderRepository, scheduling Scheduling, logger zerolog.Logger) *Notes {
	return &Notes{
		db:         db,
		notes:      notes,
		reminders:  reminders,
		scheduling: scheduling,
		logger:     logger.With().Str("component", "notes_backup").Logger(),
	}
}

// Export writes every note and reminder.
func (n *Notes) Export(ctx context.Context, w io.Writer) error {
	notes, err := n.notes.GetAll(ctx)
	if err != nil {
		return err
	}
	reminders, err := n.reminders.GetAll(ctx)
	if err != nil {
		return err
	}

	doc := notesDocument{
		Notes:     make([]noteRecord, 0, len(notes)),
		Reminders: make([]reminderRecord, 0, len(reminders)),
	}
	for _, note := range notes {
		doc.Notes = append(doc.Notes, noteRecord{
			ID:          note.ID,
			Title:       note.Title,
			Desc:        note.Desc,
			CreatedAt:   note.CreatedAt.UnixMilli(),
			IsCompleted: note.IsCompleted,
		})
	}
	for _, r := range reminders {
		doc.Reminders = append(doc.Reminders, reminderRecord{
			ID:          r.ID,
			NoteID:      r.NoteID,
			DueDateTime: r.DueAt.UnixMilli(),
			Enabled:     r.Enabled,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write notes backup: %w", err)
	}
	n.logger.Info().Int("notes", len(doc.Notes)).Int("reminders", len(doc.Reminders)).Msg("notes exported")
	return nil
}

// Import replaces every note and reminder with the document's content. Notes get fresh ids
// and reminders follow their note; reminders pointing at a note outside the document are dropped.
func (n *Notes) Import(ctx context.Context, r io.Reader) (NotesResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return NotesResult{}, fmt.Errorf("read notes backup: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return NotesResult{}, ErrEmptyDocument
	}
	var doc notesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return NotesResult{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var res NotesResult
	err = n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notes := n.notes.WithTx(tx)
		reminders := n.reminders.WithTx(tx)
		if err := reminders.ClearAll(ctx); err != nil {
			return err
		}
		if err := notes.ClearAll(ctx); err != nil {
			return err
		}

		ids := make(map[int64]int64, len(doc.Notes))
		for _, rec := range doc.Notes {
			created := time.UnixMilli(rec.CreatedAt)
			note := model.NewNote(model.NoteTypeText)
			note.Title = rec.Title
			note.Desc = rec.Desc
			note.IsCompleted = rec.IsCompleted
			note.CreatedAt = created
			note.LastEdit = created
			id, err := notes.Upsert(ctx, &note)
			if err != nil {
				return err
			}
			ids[rec.ID] = id
			res.Notes++
		}

		for _, rec := range doc.Reminders {
			noteID, ok := ids[rec.NoteID]
			if !ok {
				res.Dropped++
				continue
			}
			reminder := model.Reminder{
				NoteID:  noteID,
				DueAt:   time.UnixMilli(rec.DueDateTime),
				Enabled: rec.Enabled,
			}
			if _, err := reminders.Insert(ctx, &reminder); err != nil {
				return err
			}
			res.Reminders++
		}
		return nil
	})
	if err != nil {
		return NotesResult{}, fmt.Errorf("import notes: %w", err)
	}

	// Jobs of the replaced reminders are dropped only once the new set is committed.
	if n.scheduling != nil {
		n.scheduling.CancelAll()
		if _, err := n.scheduling.Rearm(ctx); err != nil {
			n.logger.Error().Err(err).Msg("rearm after import")
		}
	}
	n.logger.Info().Int("notes", res.Notes).Int("reminders", res.Reminders).Int("dropped", res.Dropped).Msg("notes imported")
	return res, nil
}
