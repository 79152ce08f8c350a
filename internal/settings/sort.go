package settings

import (
	"context"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// SortType is the field notes are ordered by.
type SortType string

const (
	SortByDate      SortType = "DATE"
	SortByTitle     SortType = "TITLE"
	SortByCompleted SortType = "COMPLETED"
	SortCustom      SortType = "CUSTOM"
)

// SortMode is the ordering direction.
type SortMode string

const (
	Ascending  SortMode = "ASC"
	Descending SortMode = "DESC"
)

const (
	keySortMode = "sort_mode"
	keySortType = "sort_type"
)

// Sort holds the note list ordering.
type Sort struct {
	store prefs.Store
}

// NewSort returns the Sort domain backed by store.
func NewSort(store prefs.Store) *Sort { return &Sort{store: store} }

// Name is the section key used in backups.
func (s *Sort) Name() string { return "sort" }

// Order returns the sort field and direction, DATE DESC when unset.
func (s *Sort) Order(ctx context.Context) (SortType, SortMode, error) {
	t, err := getString(ctx, s.store, keySortType, string(SortByDate))
	if err != nil {
		return SortByDate, Descending, err
	}
	m, err := getString(ctx, s.store, keySortMode, string(Descending))
	if err != nil {
		return SortByDate, Descending, err
	}

	st := SortType(t)
	switch st {
	case SortByDate, SortByTitle, SortByCompleted, SortCustom:
	default:
		st = SortByDate
	}
	sm := SortMode(m)
	if sm != Ascending {
		sm = Descending
	}
	return st, sm, nil
}

// SetOrder stores both fields in one edit.
func (s *Sort) SetOrder(ctx context.Context, t SortType, m SortMode) error {
	return s.store.Edit(ctx, func(e prefs.Editor) error {
		e.Set(keySortType, string(t))
		e.Set(keySortMode, string(m))
		return nil
	})
}

// GetAll returns the stored values keyed by preference name.
func (s *Sort) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, s.store, keySortMode, keySortType)
}

// SetAll writes the recognized keys of in.
func (s *Sort) SetAll(ctx context.Context, in Values) error {
	return importStrings(ctx, s.store, in, keySortMode, keySortType)
}

// Reset removes every key of the domain.
func (s *Sort) Reset(ctx context.Context) error {
	return s.store.Remove(ctx, keySortMode, keySortType)
}
