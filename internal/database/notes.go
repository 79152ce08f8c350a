package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pathakanu/myNotes/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// NoteRepository is the data-access object for notes.
type NoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository wraps db.
func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *NoteRepository) WithTx(tx *gorm.DB) *NoteRepository {
	return &NoteRepository{db: tx}
}

// GetAll returns every note, most recently edited first.
func (r *NoteRepository) GetAll(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).Order("last_edit DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// GetByID returns the note with id or ErrNotFound.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Note{}, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return note, nil
}

// Search returns notes whose title or body contains query, ignoring case, most recently
// edited first. Case folding happens in Go; SQLite's LOWER folds ASCII only.
func (r *NoteRepository) Search(ctx context.Context, query string) ([]model.Note, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	needle := strings.ToLower(query)
	var notes []model.Note
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title), needle) || strings.Contains(strings.ToLower(n.Desc), needle) {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// Upsert inserts a note with a zero id and returns the assigned id; otherwise it saves the note in place.
func (r *NoteRepository) Upsert(ctx context.Context, note *model.Note) (int64, error) {
	if note.ID == 0 {
		if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
			return 0, fmt.Errorf("insert note: %w", err)
		}
		return note.ID, nil
	}
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return 0, fmt.Errorf("update note %d: %w", note.ID, err)
	}
	return note.ID, nil
}

// Delete removes a note by id. Deleting a missing note is not an error.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Note{}, id).Error; err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

// DeleteIDs removes every note whose id is listed.
func (r *NoteRepository) DeleteIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Note{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete notes: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ClearAll removes every note.
func (r *NoteRepository) ClearAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	return nil
}
