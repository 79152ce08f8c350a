// Package notes is the note list view-model: commands that mutate notes and a stream of
// full snapshots for observers.
package notes

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

// ErrInvalidNote is returned for writes that cannot be applied to the given note.
var ErrInvalidNote = errors.New("invalid note")

// ReminderHook attaches the configured default reminders to a freshly created note.
type ReminderHook interface {
	ApplyDefaults(ctx context.Context, note model.Note) error
}

// Service owns note mutations and publishes a snapshot after each one.
type Service struct {
	repo   *database.NoteRepository
	sort   *settings.Sort
	hook   ReminderHook
	now    func() time.Time
	logger zerolog.Logger
	subs   *broker
}

// Option customises a Service.
type Option func(*Service)

// WithReminderHook sets the hook run after Create.
func WithReminderHook(h ReminderHook) Option {
	return func(s *Service) { s.hook = h }
}

// WithSort orders List by the user's sort settings.
func WithSort(sort *settings.Sort) Option {
	return func(s *Service) { s.sort = sort }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over repo.
func NewService(repo *database.NoteRepository, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("component", "notes").Logger(),
		subs:   newBroker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new note and applies the default reminders to it.
func (s *Service) Create(ctx context.Context, note model.Note) (model.Note, error) {
	if note.ID != 0 {
		return model.Note{}, fmt.Errorf("%w: create with id %d", ErrInvalidNote, note.ID)
	}
	if !note.Type.Valid() {
		note.Type = model.NoteTypeText
	}
	now := s.now()
	note.CreatedAt = now
	note.LastEdit = now

	if _, err := s.repo.Upsert(ctx, &note); err != nil {
		return model.Note{}, err
	}
	s.logger.Debug().Int64("note_id", note.ID).Str("type", string(note.Type)).Msg("note created")

	if s.hook != nil {
		if err := s.hook.ApplyDefaults(ctx, note); err != nil {
			s.logger.Error().Err(err).Int64("note_id", note.ID).Msg("apply default reminders")
		}
	}
	s.publish(ctx)
	return note, nil
}

// Get returns a note or database.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (model.Note, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every note in the configured order.
func (s *Service) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.sort == nil {
		return notes, nil
	}
	sortType, sortMode, err := s.sort.Order(ctx)
	if err != nil {
		return nil, err
	}
	SortNotes(notes, sortType, sortMode)
	return notes, nil
}

// Update saves an existing note and refreshes its last-edit time.
func (s *Service) Update(ctx context.Context, note model.Note) (model.Note, error) {
	existing, err := s.repo.GetByID(ctx, note.ID)
	if err != nil {
		return model.Note{}, err
	}
	note.CreatedAt = existing.CreatedAt
	note.LastEdit = s.now()
	if !note.Type.Valid() {
		note.Type = existing.Type
	}
	if _, err := s.repo.Upsert(ctx, &note); err != nil {
		return model.Note{}, err
	}
	s.publish(ctx)
	return note, nil
}

// Delete removes the note only. Its reminders are left to the caller.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// SetCompleted flips the completion flag.
func (s *Service) SetCompleted(ctx context.Context, id int64, completed bool) error {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note.IsCompleted == completed {
		return nil
	}
	note.IsCompleted = completed
	note.LastEdit = s.now()
	if _, err := s.repo.Upsert(ctx, &note); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Duplicate copies a note under a fresh id.
func (s *Service) Duplicate(ctx context.Context, id int64) (model.Note, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	note.ID = 0
	note.Checklist = slices.Clone(note.Checklist)
	note.TagIDs = slices.Clone(note.TagIDs)
	return s.Create(ctx, note)
}

// Search matches query against title and body, ignoring case. A blank query matches nothing.
func (s *Service) Search(ctx context.Context, query string) ([]model.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, query)
}

// DeleteEmpty removes every note without content and returns how many were removed.
func (s *Service) DeleteEmpty(ctx context.Context) (int64, error) {
	notes, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	var ids []int64
	for _, n := range notes {
		if n.IsEmpty() {
			ids = append(ids, n.ID)
		}
	}
	removed, err := s.repo.DeleteIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("empty notes deleted")
		s.publish(ctx)
	}
	return removed, nil
}

// Subscribe streams snapshots of the full note list until ctx ends. The current list
// is delivered first. A slow reader only ever sees the latest snapshot.
func (s *Service) Subscribe(ctx context.Context) (<-chan []model.Note, error) {
	ch, id := s.subs.add()
	go func() {
		<-ctx.Done()
		s.subs.remove(id)
	}()

	notes, err := s.List(ctx)
	if err != nil {
		s.subs.remove(id)
		return nil, err
	}
	s.subs.offer(ch, notes)
	return ch, nil
}

// Refresh republishes the current list, for writers that bypass the Service.
func (s *Service) Refresh(ctx context.Context) {
	s.publish(ctx)
}

func (s *Service) publish(ctx context.Context) {
	if s.subs.empty() {
		return
	}
	notes, err := s.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot notes")
		return
	}
	s.subs.broadcast(notes)
}

// SortNotes orders notes in place. Ties keep a stable order by id.
func SortNotes(notes []model.Note, sortType settings.SortType, mode settings.SortMode) {
	key := func(a, b model.Note) int {
		switch sortType {
		case settings.SortByTitle:
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case settings.SortByCompleted:
			return compareBool(a.IsCompleted, b.IsCompleted)
		case settings.SortCustom:
			return cmp.Compare(a.OrderIndex, b.OrderIndex)
		default:
			return a.LastEdit.Compare(b.LastEdit)
		}
	}
	slices.SortStableFunc(notes, func(a, b model.Note) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if mode == settings.Descending {
			return -c
		}
		return c
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
