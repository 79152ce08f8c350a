// Package actions applies the buttons of a delivered reminder notification.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/notes"
	"github.com/pathakanu/myNotes/internal/reminders"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

// Action is one tap on a notification button.
type Action struct {
	Type          settings.NotificationActionType
	ReminderID    int64
	SnoozeMinutes int
}

// Receiver applies notification actions to notes and reminders.
type Receiver struct {
	notes         *notes.Service
	reminders     *reminders.Service
	notifications *settings.Notifications
	logger        zerolog.Logger
}

// NewReceiver wires a Receiver. notifications may be nil.
func NewReceiver(notesSvc *notes.Service, remindersSvc *reminders.Service, notifications *settings.Notifications, logger zerolog.Logger) *Receiver {
	return &Receiver{
		notes:         notesSvc,
		reminders:     remindersSvc,
		notifications: notifications,
		logger:        logger.With().Str("component", "actions").Logger(),
	}
}

// Handle applies a and returns a short confirmation. When the reminder or its note no
// longer exists nothing changes and both results are empty.
func (r *Receiver) Handle(ctx context.Context, a Action) (string, error) {
	reminder, err := r.reminders.Get(ctx, a.ReminderID)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Debug().Int64("reminder_id", a.ReminderID).Str("action", string(a.Type)).Msg("reminder gone, action ignored")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	note, err := r.notes.Get(ctx, reminder.NoteID)
	if errors.Is(err, database.ErrNotFound) {
		r.logger.Debug().Int64("note_id", reminder.NoteID).Str("action", string(a.Type)).Msg("note gone, action ignored")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	switch a.Type {
	case settings.NotifyMarkCompleted:
		if err := r.notes.SetCompleted(ctx, note.ID, true); err != nil {
			return "", err
		}
		r.logger.Info().Int64("note_id", note.ID).Msg("note marked as completed")
		return "Note marked as completed!", nil

	case settings.NotifySnooze:
		minutes, err := r.snoozeMinutes(ctx, a.SnoozeMinutes)
		if err != nil {
			return "", err
		}
		if _, err := r.reminders.Snooze(ctx, reminder.ID, minutes); err != nil {
			return "", err
		}
		r.logger.Info().Int64("reminder_id", reminder.ID).Int("minutes", minutes).Msg("reminder snoozed")
		return fmt.Sprintf("Reminder snoozed for %d minutes", minutes), nil

	case settings.NotifyDelete:
		if err := r.notes.Delete(ctx, note.ID); err != nil {
			return "", err
		}
		if err := r.reminders.PurgeNote(ctx, note.ID); err != nil {
			return "", err
		}
		r.logger.Info().Int64("note_id", note.ID).Msg("note deleted from notification")
		return "Note deleted", nil

	default:
		r.logger.Warn().Str("action", string(a.Type)).Msg("unknown notification action")
		return "", nil
	}
}

func (r *Receiver) snoozeMinutes(ctx context.Context, requested int) (int, error) {
	if requested > 0 {
		return requested, nil
	}
	if r.notifications == nil {
		return settings.DefaultSnoozeMinutes, nil
	}
	return r.notifications.SnoozeMinutes(ctx)
}
