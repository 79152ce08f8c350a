package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pathakanu/myNotes/internal/model"
	"gorm.io/gorm"
)

// ReminderRepository is the data-access object for reminders.
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository wraps db.
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ReminderRepository) WithTx(tx *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: tx}
}

// GetAll returns every reminder ordered by due time.
func (r *ReminderRepository) GetAll(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Order("due_at ASC, id ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// GetByID returns the reminder with id or ErrNotFound.
func (r *ReminderRepository) GetByID(ctx context.Context, id int64) (model.Reminder, error) {
	var reminder model.Reminder
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Reminder{}, fmt.Errorf("get reminder %d: %w", id, err)
	}
	return reminder, nil
}

// GetByNoteID returns the reminders attached to a note.
func (r *ReminderRepository) GetByNoteID(ctx context.Context, noteID int64) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Order("due_at ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders for note %d: %w", noteID, err)
	}
	return reminders, nil
}

// GetEnabledAfter returns enabled reminders due strictly after t.
// Due times are stored in UTC so that text-backed timestamps compare in order.
func (r *ReminderRepository) GetEnabledAfter(ctx context.Context, t time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Where("enabled = ? AND due_at > ?", true, t.UTC()).
		Order("due_at ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}
	return reminders, nil
}

// Insert stores a new reminder and returns its id.
func (r *ReminderRepository) Insert(ctx context.Context, reminder *model.Reminder) (int64, error) {
	reminder.ID = 0
	reminder.DueAt = reminder.DueAt.UTC()
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return 0, fmt.Errorf("insert reminder: %w", err)
	}
	return reminder.ID, nil
}

// Update saves every field of reminder.
func (r *ReminderRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	reminder.DueAt = reminder.DueAt.UTC()
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("update reminder %d: %w", reminder.ID, err)
	}
	return nil
}

// Delete removes a reminder by id.
func (r *ReminderRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Reminder{}, id).Error; err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return nil
}

// DeleteByNoteID removes every reminder of a note.
func (r *ReminderRepository) DeleteByNoteID(ctx context.Context, noteID int64) error {
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&model.Reminder{}).Error; err != nil {
		return fmt.Errorf("delete reminders for note %d: %w", noteID, err)
	}
	return nil
}

// ClearAll removes every reminder.
func (r *ReminderRepository) ClearAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Reminder{}).Error; err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	return nil
}
