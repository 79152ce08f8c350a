package settings

import (
	"context"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// NotesAction is what a gesture on a note triggers.
type NotesAction string

const (
	ActionDelete    NotesAction = "DELETE"
	ActionComplete  NotesAction = "COMPLETE"
	ActionEdit      NotesAction = "EDIT"
	ActionSelect    NotesAction = "SELECT"
	ActionDuplicate NotesAction = "DUPLICATE"
	ActionNone      NotesAction = "NONE"
)

// Valid reports whether a is a known action.
func (a NotesAction) Valid() bool {
	switch a {
	case ActionDelete, ActionComplete, ActionEdit, ActionSelect, ActionDuplicate, ActionNone:
		return true
	}
	return false
}

// Gesture keys bound to an action.
const (
	SwipeLeft   = "swipe_left_action"
	SwipeRight  = "swipe_right_action"
	Click       = "click_action"
	LongClick   = "long_click_action"
	LeftButton  = "left_button_action"
	RightButton = "right_button_action"
)

var actionDefaults = map[string]NotesAction{
	SwipeLeft:   ActionDelete,
	SwipeRight:  ActionEdit,
	Click:       ActionComplete,
	LongClick:   ActionSelect,
	LeftButton:  ActionEdit,
	RightButton: ActionDelete,
}

var actionKeys = []string{SwipeLeft, SwipeRight, Click, LongClick, LeftButton, RightButton}

// Actions binds note gestures to actions.
type Actions struct {
	store prefs.Store
}

// NewActions returns the Actions domain backed by store.
func NewActions(store prefs.Store) *Actions { return &Actions{store: store} }

// Name returns the backup section name.
func (a *Actions) Name() string { return "actions" }

// Binding returns the action for gesture, falling back to its default.
func (a *Actions) Binding(ctx context.Context, gesture string) (NotesAction, error) {
	def := actionDefaults[gesture]
	v, err := getString(ctx, a.store, gesture, string(def))
	if err != nil {
		return def, err
	}
	if act := NotesAction(v); act.Valid() {
		return act, nil
	}
	return def, nil
}

// SetBinding assigns action to a swipe gesture.
func (a *Actions) SetBinding(ctx context.Context, gesture string, action NotesAction) error {
	return a.store.Set(ctx, gesture, string(action))
}

// GetAll exports the stored keys.
func (a *Actions) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, a.store, actionKeys...)
}

// SetAll imports in, skipping unknown keys.
func (a *Actions) SetAll(ctx context.Context, in Values) error {
	return importStrings(ctx, a.store, in, actionKeys...)
}

// Reset clears the stored values.
func (a *Actions) Reset(ctx context.Context) error {
	return a.store.Remove(ctx, actionKeys...)
}
