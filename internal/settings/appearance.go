package settings

import (
	"context"

	"github.com/pathakanu/myNotes/internal/prefs"
)

const (
	keyColorPickerMode        = "color_picker_mode"
	keyColorCustomisationMode = "color_customisation_mode"
	keyDefaultTheme           = "default_theme"
)

// ColorPickerMode selects the editor used to choose colors.
type ColorPickerMode string

const (
	PickerDefaults ColorPickerMode = "DEFAULTS"
	PickerSliders  ColorPickerMode = "SLIDERS"
	PickerGradient ColorPickerMode = "GRADIENT"
)

var colorModeKeys = []string{keyColorPickerMode, keyColorCustomisationMode, keyDefaultTheme}

// ColorModes holds how colors are picked and which base theme applies.
type ColorModes struct {
	store prefs.Store
}

// NewColorModes returns the ColorModes domain backed by store.
func NewColorModes(store prefs.Store) *ColorModes { return &ColorModes{store: store} }

// Name returns the backup section name.
func (c *ColorModes) Name() string { return "color_mode" }

// PickerMode falls back to PickerSliders for unknown values.
func (c *ColorModes) PickerMode(ctx context.Context) (ColorPickerMode, error) {
	v, err := getString(ctx, c.store, keyColorPickerMode, string(PickerSliders))
	switch ColorPickerMode(v) {
	case PickerDefaults, PickerSliders, PickerGradient:
		return ColorPickerMode(v), err
	}
	return PickerSliders, err
}

// SetPickerMode stores the picker mode.
func (c *ColorModes) SetPickerMode(ctx context.Context, m ColorPickerMode) error {
	return c.store.Set(ctx, keyColorPickerMode, string(m))
}

// CustomisationMode defaults to "DEFAULT".
func (c *ColorModes) CustomisationMode(ctx context.Context) (string, error) {
	return getString(ctx, c.store, keyColorCustomisationMode, "DEFAULT")
}

// SetCustomisationMode stores the customisation mode.
func (c *ColorModes) SetCustomisationMode(ctx context.Context, mode string) error {
	return c.store.Set(ctx, keyColorCustomisationMode, mode)
}

// DefaultTheme defaults to "AMOLED".
func (c *ColorModes) DefaultTheme(ctx context.Context) (string, error) {
	return getString(ctx, c.store, keyDefaultTheme, "AMOLED")
}

// SetDefaultTheme stores the default theme.
func (c *ColorModes) SetDefaultTheme(ctx context.Context, theme string) error {
	return c.store.Set(ctx, keyDefaultTheme, theme)
}

// GetAll exports every set key.
func (c *ColorModes) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, c.store, colorModeKeys...)
}

// SetAll applies the known keys of in and ignores the rest.
func (c *ColorModes) SetAll(ctx context.Context, in Values) error {
	return importStrings(ctx, c.store, in, colorModeKeys...)
}

// Reset restores the defaults.
func (c *ColorModes) Reset(ctx context.Context) error {
	return c.store.Remove(ctx, colorModeKeys...)
}

// ColorKeys lists every customizable ARGB color slot.
var ColorKeys = []string{
	"primary_color", "on_primary_color",
	"secondary_color", "on_secondary_color",
	"tertiary_color", "on_tertiary_color",
	"background_color", "on_background_color",
	"surface_color", "on_surface_color",
	"error_color", "on_error_color",
	"outline_color",
	"delete_color", "edit_color", "complete_color", "select_color",
	"note_type_text", "note_type_checklist", "note_type_drawing",
}

// Colors holds ARGB overrides. An unset slot means the theme default applies.
type Colors struct {
	store prefs.Store
}

// NewColors returns the Colors domain backed by store.
func NewColors(store prefs.Store) *Colors { return &Colors{store: store} }

// Name is the section key used in backups.
func (c *Colors) Name() string { return "color" }

// Color returns the override for key and whether one is set.
func (c *Colors) Color(ctx context.Context, key string) (int32, bool, error) {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, ok := asInt(v)
	return int32(n), ok, nil
}

// SetColor stores an ARGB value under key.
func (c *Colors) SetColor(ctx context.Context, key string, argb int32) error {
	return setInt(ctx, c.store, key, int64(argb))
}

// GetAll exports every set key.
func (c *Colors) GetAll(ctx context.Context) (Values, error) {
	return exportInts(ctx, c.store, ColorKeys...)
}

// SetAll applies the known keys of in and ignores the rest.
func (c *Colors) SetAll(ctx context.Context, in Values) error {
	return importWith(ctx, c.store, in, func(v any) (string, bool) {
		n, ok := asInt(v)
		return formatInt(int64(int32(n))), ok
	}, ColorKeys...)
}

// Reset restores the defaults.
func (c *Colors) Reset(ctx context.Context) error {
	return c.store.Remove(ctx, ColorKeys...)
}
