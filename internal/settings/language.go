package settings

import (
	"context"

	"github.com/pathakanu/myNotes/internal/prefs"
)

const keyAppLanguage = "pref_app_language"

// Language holds the app locale tag. Empty means follow the system.
type Language struct {
	store prefs.Store
}

// NewLanguage returns the Language domain backed by store.
func NewLanguage(store prefs.Store) *Language { return &Language{store: store} }

// Name is the section key used in backups.
func (l *Language) Name() string { return "language" }

// Tag returns the BCP 47 tag, empty for the system default.
func (l *Language) Tag(ctx context.Context) (string, error) {
	return getString(ctx, l.store, keyAppLanguage, "")
}

// SetTag stores tag. An empty tag goes back to the system default.
func (l *Language) SetTag(ctx context.Context, tag string) error {
	if tag == "" {
		return l.store.Remove(ctx, keyAppLanguage)
	}
	return l.store.Set(ctx, keyAppLanguage, tag)
}

// GetAll exports every set key.
func (l *Language) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, l.store, keyAppLanguage)
}

// SetAll applies the known keys of in and ignores the rest.
func (l *Language) SetAll(ctx context.Context, in Values) error {
	return importStrings(ctx, l.store, in, keyAppLanguage)
}

// Reset restores the defaults.
func (l *Language) Reset(ctx context.Context) error {
	return l.store.Remove(ctx, keyAppLanguage)
}
