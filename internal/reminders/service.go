package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

// RearmInterval is how often enabled reminders are re-queued.
const RearmInterval = "@every 15m"

// Service applies reminder mutations and keeps the scheduler in step with them.
type Service struct {
	reminders *database.ReminderRepository
	notes     *database.NoteRepository
	scheduler *Scheduler
	defaults  *settings.ReminderDefaults
	now       func() time.Time
	logger    zerolog.Logger
}

// NewService wires the reminder service. defaults may be nil.
func NewService(reminders *database.ReminderRepository, notes *database.NoteRepository, scheduler *Scheduler, defaults *settings.ReminderDefaults, logger zerolog.Logger) *Service {
	return &Service{
		reminders: reminders,
		notes:     notes,
		scheduler: scheduler,
		defaults:  defaults,
		now:       time.Now,
		logger:    logger.With().Str("component", "reminders").Logger(),
	}
}

// SetClock replaces time.Now for the service and its scheduler.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.scheduler.SetClock(now)
}

// Scheduler exposes the underlying scheduler.
func (s *Service) Scheduler() *Scheduler {
	return s.scheduler
}

// Get returns a reminder or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (model.Reminder, error) {
	return s.reminders.GetByID(ctx, id)
}

// Add resolves offset against the current time and attaches the reminder to a note.
func (s *Service) Add(ctx context.Context, noteID int64, offset model.ReminderOffset) (model.Reminder, error) {
	return s.AddAt(ctx, noteID, offset.Resolve(s.now()))
}

// AddAt attaches an enabled reminder due at due to a note and schedules it.
func (s *Service) AddAt(ctx context.Context, noteID int64, due time.Time) (model.Reminder, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return model.Reminder{}, err
	}
	r := model.Reminder{NoteID: noteID, DueAt: due, Enabled: true}
	if _, err := s.reminders.Insert(ctx, &r); err != nil {
		return model.Reminder{}, err
	}
	s.scheduler.Schedule(r, note)
	return r, nil
}

// SetEnabled toggles a reminder; disabling cancels its pending job.
func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.Enabled = enabled
	if err := s.reminders.Update(ctx, &r); err != nil {
		return err
	}
	if !enabled {
		s.scheduler.Cancel(id)
		return nil
	}
	return s.schedule(ctx, r)
}

// Snooze moves a reminder to now plus minutes and re-enables it.
func (s *Service) Snooze(ctx context.Context, id int64, minutes int) (model.Reminder, error) {
	if minutes <= 0 {
		minutes = settings.DefaultSnoozeMinutes
	}
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return model.Reminder{}, err
	}
	r.DueAt = s.now().Add(time.Duration(minutes) * time.Minute)
	r.Enabled = true
	if err := s.reminders.Update(ctx, &r); err != nil {
		return model.Reminder{}, err
	}
	if err := s.schedule(ctx, r); err != nil {
		return model.Reminder{}, err
	}
	return r, nil
}

// Delete removes a reminder and its pending job.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.scheduler.Cancel(id)
	return s.reminders.Delete(ctx, id)
}

// ForNote lists the reminders of a note by due time.
func (s *Service) ForNote(ctx context.Context, noteID int64) ([]model.Reminder, error) {
	return s.reminders.GetByNoteID(ctx, noteID)
}

// PurgeNote removes every reminder of a note and cancels their jobs.
func (s *Service) PurgeNote(ctx context.Context, noteID int64) error {
	list, err := s.reminders.GetByNoteID(ctx, noteID)
	if err != nil {
		return err
	}
	for _, r := range list {
		s.scheduler.Cancel(r.ID)
	}
	return s.reminders.DeleteByNoteID(ctx, noteID)
}

// CancelAll drops every pending job without touching stored reminders.
func (s *Service) CancelAll() {
	s.scheduler.Clear()
}

// Rearm schedules every enabled reminder still in the future and returns how many were queued.
// Reminders whose note no longer exists are skipped.
func (s *Service) Rearm(ctx context.Context) (int, error) {
	list, err := s.reminders.GetEnabledAfter(ctx, s.now())
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, r := range list {
		if err := s.schedule(ctx, r); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			return queued, err
		}
		queued++
	}
	s.logger.Debug().Int("queued", queued).Msg("reminders rearmed")
	return queued, nil
}

// ApplyDefaults attaches the configured default reminders to a new note.
func (s *Service) ApplyDefaults(ctx context.Context, note model.Note) error {
	if s.defaults == nil {
		return nil
	}
	offsets, err := s.defaults.Defaults(ctx)
	if err != nil {
		return fmt.Errorf("load default reminders: %w", err)
	}
	now := s.now()
	for _, o := range offsets {
		if _, err := s.AddAt(ctx, note.ID, o.Resolve(now)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) schedule(ctx context.Context, r model.Reminder) error {
	note, err := s.notes.GetByID(ctx, r.NoteID)
	if err != nil {
		return err
	}
	s.scheduler.Schedule(r, note)
	return nil
}
