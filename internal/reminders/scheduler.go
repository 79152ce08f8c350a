// Package reminders schedules reminder notifications and applies reminder mutations.
package reminders

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pathakanu/myNotes/internal/model"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is the payload of one scheduled reminder.
type Job struct {
	ReminderID int64
	NoteID     int64
	NoteType   model.NoteType
	Title      string
}

// JobKey is the unique key of the pending job for a reminder.
func JobKey(reminderID int64) string {
	return fmt.Sprintf("reminder_%d", reminderID)
}

// FireFunc runs a job once its due time is reached.
type FireFunc func(ctx context.Context, job Job)

// once is a cron schedule that activates a single time.
type once time.Time

func (o once) Next(t time.Time) time.Time {
	at := time.Time(o)
	if t.Before(at) {
		return at
	}
	return time.Time{}
}

type pending struct {
	entry cron.EntryID
	due   time.Time
}

// Scheduler keeps at most one pending job per reminder on top of a cron runner.
type Scheduler struct {
	cron   *cron.Cron
	fire   FireFunc
	now    func() time.Time
	logger zerolog.Logger

	mu   sync.Mutex
	jobs map[string]*pending
}

// NewScheduler creates a scheduler that evaluates due times in loc.
func NewScheduler(loc *time.Location, fire FireFunc, logger zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		fire:   fire,
		now:    time.Now,
		logger: logger.With().Str("component", "scheduler").Logger(),
		jobs:   map[string]*pending{},
	}
}

// SetClock replaces time.Now for delay computation.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Schedule enqueues a job for r, replacing any job already pending for it.
// A reminder that is already due is not enqueued, and a stale job for it is dropped.
func (s *Scheduler) Schedule(r model.Reminder, note model.Note) bool {
	key := JobKey(r.ID)
	delay := r.DueAt.Sub(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(key)
	if delay <= 0 {
		s.logger.Debug().Str("key", key).Dur("overdue", -delay).Msg("reminder already due, not scheduled")
		return false
	}

	job := Job{ReminderID: r.ID, NoteID: note.ID, NoteType: note.Type, Title: note.Title}
	p := &pending{due: r.DueAt}
	p.entry = s.cron.Schedule(once(r.DueAt), cron.FuncJob(func() {
		s.forget(key, p)
		s.fire(context.Background(), job)
	}))
	s.jobs[key] = p
	s.logger.Debug().Str("key", key).Time("due", r.DueAt).Msg("reminder scheduled")
	return true
}

// Cancel drops the pending job of a reminder. Unknown ids are ignored.
func (s *Scheduler) Cancel(reminderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(JobKey(reminderID))
}

func (s *Scheduler) cancelLocked(key string) {
	if p, ok := s.jobs[key]; ok {
		s.cron.Remove(p.entry)
		delete(s.jobs, key)
	}
}

// Clear drops every pending job.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.jobs {
		s.cancelLocked(key)
	}
}

// forget removes a fired entry unless it was replaced in the meantime.
func (s *Scheduler) forget(key string, p *pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobs[key] == p {
		delete(s.jobs, key)
	}
	s.cron.Remove(p.entry)
}

// Pending returns the keys of every queued job in sorted order.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.jobs))
	for k := range s.jobs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}

// Due returns when the job of a reminder fires.
func (s *Scheduler) Due(reminderID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.jobs[JobKey(reminderID)]
	if !ok {
		return time.Time{}, false
	}
	return p.due, true
}

// Every registers a recurring task, for example "@every 15m".
func (s *Scheduler) Every(spec string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("register %q: %w", spec, err)
	}
	return nil
}

// Start runs the cron loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
