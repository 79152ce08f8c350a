package settings

import (
	"context"

	"github.com/pathakanu/myNotes/internal/prefs"
)

const keyDebugMode = "debug_mode_enabled"

// Debug toggles verbose diagnostics.
type Debug struct {
	store prefs.Store
}

// NewDebug returns the Debug domain backed by store.
func NewDebug(store prefs.Store) *Debug { return &Debug{store: store} }

// Name returns the backup section name.
func (d *Debug) Name() string { return "debug" }

// Enabled reports whether debug mode is on. It is off by default.
func (d *Debug) Enabled(ctx context.Context) (bool, error) {
	return getBool(ctx, d.store, keyDebugMode, false)
}

// SetEnabled stores the debug toggle.
func (d *Debug) SetEnabled(ctx context.Context, v bool) error {
	return setBool(ctx, d.store, keyDebugMode, v)
}

// GetAll returns the stored values keyed by preference name.
func (d *Debug) GetAll(ctx context.Context) (Values, error) {
	return exportBools(ctx, d.store, keyDebugMode)
}

// SetAll writes the recognized keys of in.
func (d *Debug) SetAll(ctx context.Context, in Values) error {
	return importBools(ctx, d.store, in, keyDebugMode)
}

// Reset removes every key of the domain.
func (d *Debug) Reset(ctx context.Context) error {
	return d.store.Remove(ctx, keyDebugMode)
}
