package settings

import (
	"context"
	"slices"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// UI bool keys.
const (
	ShowNotesNumber                 = "show_notes_number"
	Fullscreen                      = "fullscreen"
	ShowColorDropdownEditors        = "show_color_dropdown_editors"
	ShowReminderDropdownEditors     = "show_reminder_dropdown_editors"
	ShowQuickActionsDropdownEditors = "show_quick_actions_dropdown_editors"
	ShowTagsDropdownEditors         = "show_tags_dropdown_editors"
	ShowTagsInNotes                 = "show_tags_in_notes"
	ShowBottomDeleteButton          = "show_bottom_delete_button"
	HasShownWelcome                 = "has_shown_welcome"

	keyNoteViewType    = "note_view_type"
	keyLastSeenVersion = "last_seen_version"
)

var uiBoolDefaults = map[string]bool{
	ShowNotesNumber:                 true,
	Fullscreen:                      false,
	ShowColorDropdownEditors:        false,
	ShowReminderDropdownEditors:     false,
	ShowQuickActionsDropdownEditors: false,
	ShowTagsDropdownEditors:         false,
	ShowTagsInNotes:                 true,
	ShowBottomDeleteButton:          false,
	HasShownWelcome:                 false,
}

var uiBoolKeys = []string{
	ShowNotesNumber, Fullscreen,
	ShowColorDropdownEditors, ShowReminderDropdownEditors,
	ShowQuickActionsDropdownEditors, ShowTagsDropdownEditors,
	ShowTagsInNotes, ShowBottomDeleteButton, HasShownWelcome,
}

const defaultNoteViewType = "LIST"

// UI holds display toggles. Only values that differ from their default are exported.
type UI struct {
	store prefs.Store
}

// NewUI returns the UI domain backed by store.
func NewUI(store prefs.Store) *UI { return &UI{store: store} }

// Name is the section key used in backups.
func (u *UI) Name() string { return "ui" }

// Bool reads a UI flag, using its registered default when unset.
func (u *UI) Bool(ctx context.Context, key string) (bool, error) {
	return getBool(ctx, u.store, key, uiBoolDefaults[key])
}

// SetBool stores a UI flag.
func (u *UI) SetBool(ctx context.Context, key string, v bool) error {
	return setBool(ctx, u.store, key, v)
}

// NoteViewType is the layout of the note list.
func (u *UI) NoteViewType(ctx context.Context) (string, error) {
	return getString(ctx, u.store, keyNoteViewType, defaultNoteViewType)
}

// SetNoteViewType stores the list layout.
func (u *UI) SetNoteViewType(ctx context.Context, v string) error {
	return u.store.Set(ctx, keyNoteViewType, v)
}

// LastSeenVersion is the last release whose changelog was shown. Zero means none.
func (u *UI) LastSeenVersion(ctx context.Context) (int, error) {
	v, err := getInt(ctx, u.store, keyLastSeenVersion, 0)
	return int(v), err
}

// SetLastSeenVersion stores the last shown release.
func (u *UI) SetLastSeenVersion(ctx context.Context, v int) error {
	return setInt(ctx, u.store, keyLastSeenVersion, int64(v))
}

// GetAll exports every set key.
func (u *UI) GetAll(ctx context.Context) (Values, error) {
	out := Values{}
	for _, key := range uiBoolKeys {
		v, ok, err := u.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if b, valid := asBool(v); ok && valid && b != uiBoolDefaults[key] {
			out[key] = boolString(b)
		}
	}
	if v, ok, err := u.store.Get(ctx, keyNoteViewType); err != nil {
		return nil, err
	} else if ok && v != defaultNoteViewType {
		out[keyNoteViewType] = v
	}
	if v, ok, err := u.store.Get(ctx, keyLastSeenVersion); err != nil {
		return nil, err
	} else if n, valid := asInt(v); ok && valid && n != 0 {
		out[keyLastSeenVersion] = formatInt(n)
	}
	return out, nil
}

// SetAll applies the known keys of in and ignores the rest.
func (u *UI) SetAll(ctx context.Context, in Values) error {
	if err := importBools(ctx, u.store, in, uiBoolKeys...); err != nil {
		return err
	}
	if err := importStrings(ctx, u.store, in, keyNoteViewType); err != nil {
		return err
	}
	return importInts(ctx, u.store, in, keyLastSeenVersion)
}

// Reset restores the defaults.
func (u *UI) Reset(ctx context.Context) error {
	return u.store.Remove(ctx, slices.Concat(uiBoolKeys, []string{keyNoteViewType, keyLastSeenVersion})...)
}

// Confirmation prompt keys.
const (
	ConfirmDeleteNote         = "show_user_validation_delete_note"
	ConfirmMultipleDeleteNote = "show_user_validation_multiple_delete_note"
	ConfirmEnableDebug        = "show_enable_debug"
	ConfirmDeleteOffset       = "show_user_validation_delete_offset"
	ConfirmDeleteTag          = "show_user_validation_delete_tag"
)

var confirmKeys = []string{
	ConfirmDeleteNote, ConfirmMultipleDeleteNote, ConfirmEnableDebug, ConfirmDeleteOffset, ConfirmDeleteTag,
}

// UserConfirm holds the opt-outs of confirmation prompts. Every prompt defaults to shown.
type UserConfirm struct {
	store prefs.Store
}

// NewUserConfirm returns the UserConfirm domain backed by store.
func NewUserConfirm(store prefs.Store) *UserConfirm { return &UserConfirm{store: store} }

// Name returns the backup section name.
func (u *UserConfirm) Name() string { return "user_confirm" }

// Show reports whether the confirmation key should still be shown.
func (u *UserConfirm) Show(ctx context.Context, key string) (bool, error) {
	return getBool(ctx, u.store, key, true)
}

// SetShow records whether the prompt key is shown.
func (u *UserConfirm) SetShow(ctx context.Context, key string, show bool) error {
	return setBool(ctx, u.store, key, show)
}

// GetAll exports every prompt with its effective value.
func (u *UserConfirm) GetAll(ctx context.Context) (Values, error) {
	out := Values{}
	for _, key := range confirmKeys {
		v, err := u.Show(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// SetAll applies the known keys of in and ignores the rest.
func (u *UserConfirm) SetAll(ctx context.Context, in Values) error {
	return importBools(ctx, u.store, in, confirmKeys...)
}

// Reset restores the defaults.
func (u *UserConfirm) Reset(ctx context.Context) error {
	return u.store.Remove(ctx, confirmKeys...)
}
