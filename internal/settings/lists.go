package settings

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/prefs"
)

const (
	keyAppOffsets       = "app_offsets"
	keyAppReminders     = "app_reminders"
	keyDefaultReminders = "default_reminders"
	keyAppTags          = "app_tags"
)

// importRawJSON stores each key's value as a JSON string. Values that are already
// structured JSON are re-encoded; anything that is not valid JSON is skipped.
func importRawJSON(ctx context.Context, store prefs.Store, in Values, keys ...string) error {
	return importWith(ctx, store, in, func(v any) (string, bool) {
		if s, ok := v.(string); ok {
			return s, json.Valid([]byte(s))
		}
		data, err := json.Marshal(v)
		if err != nil || v == nil {
			return "", false
		}
		return string(data), true
	}, keys...)
}

// Offsets is the user's list of quick reminder offsets.
type Offsets struct {
	store prefs.Store
}

// NewOffsets returns the Offsets domain backed by store.
func NewOffsets(store prefs.Store) *Offsets { return &Offsets{store: store} }

// Name returns the backup section name.
func (o *Offsets) Name() string { return "offsets" }

// List returns the saved offsets in insertion order.
func (o *Offsets) List(ctx context.Context) ([]model.OffsetItem, error) {
	return getJSON(ctx, o.store, keyAppOffsets, []model.OffsetItem{})
}

// Add appends item to the list.
func (o *Offsets) Add(ctx context.Context, item model.OffsetItem) error {
	items, err := o.List(ctx)
	if err != nil {
		return err
	}
	return setJSON(ctx, o.store, keyAppOffsets, append(items, item))
}

// Update replaces the item with the same id; unknown ids are ignored.
func (o *Offsets) Update(ctx context.Context, item model.OffsetItem) error {
	items, err := o.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(items, func(it model.OffsetItem) bool { return it.ID == item.ID })
	if i < 0 {
		return nil
	}
	items[i] = item
	return setJSON(ctx, o.store, keyAppOffsets, items)
}

// Delete removes the offset with id.
func (o *Offsets) Delete(ctx context.Context, id int64) error {
	items, err := o.List(ctx)
	if err != nil {
		return err
	}
	items = slices.DeleteFunc(items, func(it model.OffsetItem) bool { return it.ID == id })
	return setJSON(ctx, o.store, keyAppOffsets, items)
}

// GetAll returns the stored values keyed by preference name.
func (o *Offsets) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, o.store, keyAppOffsets)
}

// SetAll writes the recognized keys of in.
func (o *Offsets) SetAll(ctx context.Context, in Values) error {
	return importRawJSON(ctx, o.store, in, keyAppOffsets)
}

// Reset removes every key of the domain.
func (o *Offsets) Reset(ctx context.Context) error {
	return o.store.Remove(ctx, keyAppOffsets)
}

// ReminderDefaults holds the reminder picker presets and the reminders
// attached to every newly created note.
type ReminderDefaults struct {
	store prefs.Store
}

// NewReminderDefaults returns the ReminderDefaults domain backed by store.
func NewReminderDefaults(store prefs.Store) *ReminderDefaults {
	return &ReminderDefaults{store: store}
}

// Name returns the backup section name.
func (r *ReminderDefaults) Name() string { return "reminders" }

// Presets returns the reminder offsets offered by default.
func (r *ReminderDefaults) Presets(ctx context.Context) ([]model.ReminderOffset, error) {
	return getJSON(ctx, r.store, keyAppReminders, []model.ReminderOffset{})
}

// AddPreset appends o to the presets.
func (r *ReminderDefaults) AddPreset(ctx context.Context, o model.ReminderOffset) error {
	list, err := r.Presets(ctx)
	if err != nil {
		return err
	}
	return setJSON(ctx, r.store, keyAppReminders, append(list, o))
}

// DeletePreset removes the first preset equal to o.
func (r *ReminderDefaults) DeletePreset(ctx context.Context, o model.ReminderOffset) error {
	list, err := r.Presets(ctx)
	if err != nil {
		return err
	}
	want, _ := json.Marshal(o)
	for i, item := range list {
		got, _ := json.Marshal(item)
		if string(got) == string(want) {
			return setJSON(ctx, r.store, keyAppReminders, slices.Delete(list, i, i+1))
		}
	}
	return nil
}

// Defaults returns the offsets applied to new notes.
func (r *ReminderDefaults) Defaults(ctx context.Context) ([]model.ReminderOffset, error) {
	return getJSON(ctx, r.store, keyDefaultReminders, []model.ReminderOffset{})
}

// SetDefaults replaces the whole preset list.
func (r *ReminderDefaults) SetDefaults(ctx context.Context, list []model.ReminderOffset) error {
	return setJSON(ctx, r.store, keyDefaultReminders, list)
}

// GetAll exports the stored keys.
func (r *ReminderDefaults) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, r.store, keyAppReminders, keyDefaultReminders)
}

// SetAll imports in, skipping unknown keys.
func (r *ReminderDefaults) SetAll(ctx context.Context, in Values) error {
	return importRawJSON(ctx, r.store, in, keyAppReminders, keyDefaultReminders)
}

// Reset clears the stored values.
func (r *ReminderDefaults) Reset(ctx context.Context) error {
	return r.store.Remove(ctx, keyAppReminders, keyDefaultReminders)
}

// Tags is the tag list, stored as one JSON blob.
type Tags struct {
	store prefs.Store
}

// NewTags returns the Tags domain backed by store.
func NewTags(store prefs.Store) *Tags { return &Tags{store: store} }

// Name returns the backup section name.
func (t *Tags) Name() string { return "tags" }

// List returns every tag.
func (t *Tags) List(ctx context.Context) ([]model.Tag, error) {
	return getJSON(ctx, t.store, keyAppTags, []model.Tag{})
}

// Add appends tag, assigning the next free id when tag.ID is zero.
func (t *Tags) Add(ctx context.Context, tag model.Tag) (model.Tag, error) {
	var out model.Tag
	err := t.edit(ctx, func(tags []model.Tag) []model.Tag {
		if tag.ID == 0 {
			for _, existing := range tags {
				tag.ID = max(tag.ID, existing.ID)
			}
			tag.ID++
		}
		out = tag
		return append(tags, tag)
	})
	return out, err
}

// Update replaces the tag sharing tag.ID.
func (t *Tags) Update(ctx context.Context, tag model.Tag) error {
	return t.edit(ctx, func(tags []model.Tag) []model.Tag {
		for i := range tags {
			if tags[i].ID == tag.ID {
				tags[i] = tag
			}
		}
		return tags
	})
}

// Delete drops the tag with id.
func (t *Tags) Delete(ctx context.Context, id int64) error {
	return t.edit(ctx, func(tags []model.Tag) []model.Tag {
		return slices.DeleteFunc(tags, func(tag model.Tag) bool { return tag.ID == id })
	})
}

// SelectAll sets the filter flag of every tag.
func (t *Tags) SelectAll(ctx context.Context, selected bool) error {
	return t.edit(ctx, func(tags []model.Tag) []model.Tag {
		for i := range tags {
			tags[i].Selected = selected
		}
		return tags
	})
}

// edit rewrites the tag blob in a single store transaction.
func (t *Tags) edit(ctx context.Context, fn func([]model.Tag) []model.Tag) error {
	return t.store.Edit(ctx, func(e prefs.Editor) error {
		tags := []model.Tag{}
		if raw, ok := e.Get(keyAppTags); ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &tags); err != nil {
				tags = []model.Tag{}
			}
		}
		data, err := json.Marshal(fn(tags))
		if err != nil {
			return err
		}
		e.Set(keyAppTags, string(data))
		return nil
	})
}

// GetAll exports every set key.
func (t *Tags) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, t.store, keyAppTags)
}

// SetAll applies the known keys of in and ignores the rest.
func (t *Tags) SetAll(ctx context.Context, in Values) error {
	return importRawJSON(ctx, t.store, in, keyAppTags)
}

// Reset restores the defaults.
func (t *Tags) Reset(ctx context.Context) error {
	return t.store.Remove(ctx, keyAppTags)
}
