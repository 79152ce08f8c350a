// Package prefs holds the shared key-value settings store and the synchronous flag file
// read by the provider boundary.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/pathakanu/myNotes/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a durable string-to-string mapping shared by every settings domain.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Edit(ctx context.Context, fn func(e Editor) error) error
	All(ctx context.Context) (map[string]string, error)
}

// Editor batches writes applied atomically by Store.Edit.
type Editor interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// GormStore keeps preferences in the preferences table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the value for key and whether it is set.
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var pref model.Preference
	err := s.db.WithContext(ctx).Where("pref_key = ?", key).Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return pref.Value, true, nil
}

// Set writes a single key.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	return upsert(s.db.WithContext(ctx), key, value)
}

// Remove deletes keys; absent keys are ignored.
func (s *GormStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("pref_key IN ?", keys).Delete(&model.Preference{}).Error; err != nil {
		return fmt.Errorf("remove preferences: %w", err)
	}
	return nil
}

// All returns a copy of every stored key.
func (s *GormStore) All(ctx context.Context) (map[string]string, error) {
	var prefs []model.Preference
	if err := s.db.WithContext(ctx).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

// Edit runs fn against a snapshot and commits its writes in one transaction.
// Nothing is written when fn returns an error.
func (s *GormStore) Edit(ctx context.Context, fn func(e Editor) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prefs []model.Preference
		if err := tx.Find(&prefs).Error; err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		ed := &editor{
			values:  make(map[string]string, len(prefs)),
			changed: map[string]bool{},
			removed: map[string]bool{},
		}
		for _, p := range prefs {
			ed.values[p.Key] = p.Value
		}

		if err := fn(ed); err != nil {
			return err
		}

		for key := range ed.removed {
			if err := tx.Where("pref_key = ?", key).Delete(&model.Preference{}).Error; err != nil {
				return fmt.Errorf("remove preference %q: %w", key, err)
			}
		}
		for key := range ed.changed {
			if err := upsert(tx, key, ed.values[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(db *gorm.DB, key, value string) error {
	pref := model.Preference{Key: key, Value: value}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

type editor struct {
	values  map[string]string
	changed map[string]bool
	removed map[string]bool
}

func (e *editor) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

func (e *editor) Set(key, value string) {
	e.values[key] = value
	e.changed[key] = true
	delete(e.removed, key)
}

func (e *editor) Remove(key string) {
	delete(e.values, key)
	delete(e.changed, key)
	e.removed[key] = true
}
