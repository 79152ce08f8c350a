package reminders

import (
	"context"
	"errors"
	"strings"

	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/notify"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

// Summarizer produces a title for a note without one.
type Summarizer interface {
	SummarizeNote(ctx context.Context, body string) (string, error)
}

// Worker turns fired jobs into notifications.
type Worker struct {
	reminders     *database.ReminderRepository
	notes         *database.NoteRepository
	notifications *settings.Notifications
	summarizer    Summarizer
	notifier      notify.Notifier
	logger        zerolog.Logger
}

// NewWorker wires a worker. summarizer may be nil.
func NewWorker(reminders *database.ReminderRepository, notes *database.NoteRepository, notifications *settings.Notifications, summarizer Summarizer, notifier notify.Notifier, logger zerolog.Logger) *Worker {
	return &Worker{
		reminders:     reminders,
		notes:         notes,
		notifications: notifications,
		summarizer:    summarizer,
		notifier:      notifier,
		logger:        logger.With().Str("component", "reminder_worker").Logger(),
	}
}

// Run is a FireFunc that logs delivery failures.
func (w *Worker) Run(ctx context.Context, job Job) {
	if err := w.Fire(ctx, job); err != nil {
		w.logger.Error().Err(err).Str("key", JobKey(job.ReminderID)).Msg("deliver reminder")
	}
}

// Fire reloads the reminder and its note and delivers a notification. Jobs whose
// reminder was removed or disabled, or whose note is gone, are dropped silently.
func (w *Worker) Fire(ctx context.Context, job Job) error {
	r, err := w.reminders.GetByID(ctx, job.ReminderID)
	if errors.Is(err, database.ErrNotFound) {
		w.logger.Debug().Int64("reminder_id", job.ReminderID).Msg("reminder gone, job dropped")
		return nil
	}
	if err != nil {
		return err
	}
	if !r.Enabled {
		return nil
	}

	note, err := w.notes.GetByID(ctx, r.NoteID)
	if errors.Is(err, database.ErrNotFound) {
		w.logger.Debug().Int64("note_id", r.NoteID).Msg("note gone, job dropped")
		return nil
	}
	if err != nil {
		return err
	}

	actions, err := w.notifications.Actions(ctx)
	if err != nil {
		return err
	}
	enabled := make([]settings.ActionSetting, 0, len(actions))
	for _, a := range actions {
		if a.Enabled {
			enabled = append(enabled, a)
		}
	}

	body := noteBody(note)
	return w.notifier.Notify(ctx, notify.Notification{
		ReminderID: r.ID,
		NoteID:     note.ID,
		NoteType:   note.Type,
		Title:      w.title(ctx, note, body, job.Title),
		Body:       body,
		Actions:    enabled,
	})
}

func (w *Worker) title(ctx context.Context, note model.Note, body, fallback string) string {
	if t := strings.TrimSpace(note.Title); t != "" {
		return t
	}
	if body != "" && w.summarizer != nil {
		title, err := w.summarizer.SummarizeNote(ctx, body)
		if err != nil {
			w.logger.Warn().Err(err).Int64("note_id", note.ID).Msg("summarize note")
		}
		if title != "" {
			return title
		}
	}
	if t := strings.TrimSpace(fallback); t != "" {
		return t
	}
	return "Reminder"
}

func noteBody(note model.Note) string {
	if note.Type != model.NoteTypeChecklist {
		return strings.TrimSpace(note.Desc)
	}
	var lines []string
	for _, item := range note.Checklist {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		mark := "☐"
		if item.Checked {
			mark = "☑"
		}
		lines = append(lines, mark+" "+text)
	}
	return strings.Join(lines, "\n")
}
