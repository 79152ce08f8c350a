// Package notify delivers reminder notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

// Notification is a fired reminder as shown to the user.
type Notification struct {
	ReminderID int64
	NoteID     int64
	NoteType   model.NoteType
	Title      string
	Body       string
	Actions    []settings.ActionSetting
}

// Key identifies the notification; a reminder has at most one visible notification.
func (n Notification) Key() string {
	return fmt.Sprintf("reminder_%d", n.ReminderID)
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Render formats n as plain text, with one reply hint per enabled action.
func Render(n Notification) string {
	var b strings.Builder
	b.WriteString("⏰ ")
	b.WriteString(n.Title)
	if body := strings.TrimSpace(n.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}

	var hints []string
	for _, a := range n.Actions {
		if !a.Enabled {
			continue
		}
		switch a.ActionType {
		case settings.NotifyMarkCompleted:
			hints = append(hints, fmt.Sprintf("done %d", n.ReminderID))
		case settings.NotifySnooze:
			hints = append(hints, fmt.Sprintf("snooze %d (%d min)", n.ReminderID, a.SnoozeMinutes))
		case settings.NotifyDelete:
			hints = append(hints, fmt.Sprintf("delete %d", n.ReminderID))
		}
	}
	if len(hints) > 0 {
		b.WriteString("\n\nReply: ")
		b.WriteString(strings.Join(hints, " · "))
	}
	return b.String()
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info().
		Str("key", n.Key()).
		Int64("note_id", n.NoteID).
		Str("title", n.Title).
		Int("actions", len(n.Actions)).
		Msg("reminder notification")
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
