package settings

import (
	"context"
	"slices"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// Toolbar names a toolbar of the notes screen.
type Toolbar string

const (
	ToolbarSelect       Toolbar = "SELECT"
	ToolbarSeparator    Toolbar = "SEPARATOR"
	ToolbarTags         Toolbar = "TAGS"
	ToolbarQuickActions Toolbar = "QUICK_ACTIONS"
)

// AllToolbars is the default order.
var AllToolbars = []Toolbar{ToolbarSelect, ToolbarSeparator, ToolbarTags, ToolbarQuickActions}

const (
	keyToolbarsSettings = "toolbars_settings"
	keyToolbarsSpacing  = "toolbars_spacing"
	defaultSpacing      = 8
)

// ToolbarSetting is the appearance of one toolbar. Colors are ARGB; nil means theme default.
type ToolbarSetting struct {
	Toolbar      Toolbar `json:"toolbar"`
	Enabled      bool    `json:"enabled"`
	Color        *int32  `json:"color"`
	BorderColor  *int32  `json:"borderColor"`
	BorderRadius int     `json:"borderRadius"`
	BorderWidth  int     `json:"borderWidth"`
	Elevation    int     `json:"elevation"`
	LeftPadding  int     `json:"leftPadding"`
	RightPadding int     `json:"rightPadding"`
}

// DefaultToolbarSetting returns the factory appearance of tb.
func DefaultToolbarSetting(tb Toolbar) ToolbarSetting {
	return ToolbarSetting{
		Toolbar:      tb,
		Enabled:      true,
		BorderRadius: 50,
		BorderWidth:  2,
		Elevation:    3,
		LeftPadding:  16,
		RightPadding: 16,
	}
}

func defaultToolbars() []ToolbarSetting {
	out := make([]ToolbarSetting, 0, len(AllToolbars))
	for _, tb := range AllToolbars {
		out = append(out, DefaultToolbarSetting(tb))
	}
	return out
}

// Toolbars holds the order and appearance of the toolbars.
type Toolbars struct {
	store prefs.Store
}

// NewToolbars returns the Toolbars domain backed by store.
func NewToolbars(store prefs.Store) *Toolbars { return &Toolbars{store: store} }

// Name returns the backup section name.
func (t *Toolbars) Name() string { return "toolbars" }

// List returns the toolbar settings, or the factory set when none are stored.
func (t *Toolbars) List(ctx context.Context) ([]ToolbarSetting, error) {
	list, err := getJSON(ctx, t.store, keyToolbarsSettings, defaultToolbars())
	if len(list) == 0 {
		list = defaultToolbars()
	}
	return list, err
}

// SetList replaces the stored toolbar settings.
func (t *Toolbars) SetList(ctx context.Context, list []ToolbarSetting) error {
	return setJSON(ctx, t.store, keyToolbarsSettings, list)
}

// Update applies fn to the setting of tb.
func (t *Toolbars) Update(ctx context.Context, tb Toolbar, fn func(ToolbarSetting) ToolbarSetting) error {
	list, err := t.List(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].Toolbar == tb {
			list[i] = fn(list[i])
		}
	}
	return t.SetList(ctx, list)
}

// ResetToolbar restores the factory appearance of tb, keeping its position.
func (t *Toolbars) ResetToolbar(ctx context.Context, tb Toolbar) error {
	if !slices.Contains(AllToolbars, tb) {
		return nil
	}
	return t.Update(ctx, tb, func(ToolbarSetting) ToolbarSetting { return DefaultToolbarSetting(tb) })
}

// Spacing is the gap between toolbar items.
func (t *Toolbars) Spacing(ctx context.Context) (int, error) {
	v, err := getInt(ctx, t.store, keyToolbarsSpacing, defaultSpacing)
	return int(v), err
}

// SetSpacing stores the item spacing.
func (t *Toolbars) SetSpacing(ctx context.Context, spacing int) error {
	return setInt(ctx, t.store, keyToolbarsSpacing, int64(spacing))
}

// GetAll returns the stored values keyed by preference name.
func (t *Toolbars) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, t.store, keyToolbarsSettings, keyToolbarsSpacing)
}

// SetAll writes the recognized keys of in.
func (t *Toolbars) SetAll(ctx context.Context, in Values) error {
	if err := importRawJSON(ctx, t.store, in, keyToolbarsSettings); err != nil {
		return err
	}
	return importInts(ctx, t.store, in, keyToolbarsSpacing)
}

// Reset removes every key of the domain.
func (t *Toolbars) Reset(ctx context.Context) error {
	return t.store.Remove(ctx, keyToolbarsSettings, keyToolbarsSpacing)
}

// ToolbarAction is a button that can be placed on a toolbar.
type ToolbarAction string

const (
	ToolDeselectAll  ToolbarAction = "DESELECT_ALL"
	ToolSpacer       ToolbarAction = "SPACER"
	ToolEditNote     ToolbarAction = "EDIT_NOTE"
	ToolCompleteNote ToolbarAction = "COMPLETE_NOTE"
	ToolDeleteNote   ToolbarAction = "DELETE_NOTE"
	ToolSearch       ToolbarAction = "SEARCH"
	ToolAddNote      ToolbarAction = "ADD_NOTE"
	ToolSort         ToolbarAction = "SORT"
	ToolReorder      ToolbarAction = "REORDER"
	ToolSettings     ToolbarAction = "SETTINGS"
)

// ToolbarItem is one button slot.
type ToolbarItem struct {
	Action  ToolbarAction `json:"action"`
	Enabled bool          `json:"enabled"`
}

var defaultToolbarActions = map[Toolbar][]ToolbarAction{
	ToolbarSelect:       {ToolDeselectAll, ToolSpacer, ToolEditNote, ToolCompleteNote, ToolDeleteNote},
	ToolbarSeparator:    {},
	ToolbarTags:         {},
	ToolbarQuickActions: {ToolSearch, ToolSpacer, ToolAddNote, ToolSpacer, ToolSort, ToolReorder, ToolSettings},
}

// DefaultToolbarItems returns the factory buttons of tb, all enabled.
func DefaultToolbarItems(tb Toolbar) []ToolbarItem {
	actions := defaultToolbarActions[tb]
	out := make([]ToolbarItem, 0, len(actions))
	for _, a := range actions {
		out = append(out, ToolbarItem{Action: a, Enabled: true})
	}
	return out
}

func toolbarItemsKey(tb Toolbar) string { return "toolbar_items_" + string(tb) }

func toolbarItemsKeys() []string {
	keys := make([]string, 0, len(AllToolbars))
	for _, tb := range AllToolbars {
		keys = append(keys, toolbarItemsKey(tb))
	}
	return keys
}

// ToolbarItems holds the buttons of each toolbar.
type ToolbarItems struct {
	store prefs.Store
}

// NewToolbarItems returns the ToolbarItems domain backed by store.
func NewToolbarItems(store prefs.Store) *ToolbarItems { return &ToolbarItems{store: store} }

// Name is the section key used in backups.
func (t *ToolbarItems) Name() string { return "toolbar_items" }

// Items returns the items of tb.
func (t *ToolbarItems) Items(ctx context.Context, tb Toolbar) ([]ToolbarItem, error) {
	return getJSON(ctx, t.store, toolbarItemsKey(tb), DefaultToolbarItems(tb))
}

// SetItems replaces the items of tb.
func (t *ToolbarItems) SetItems(ctx context.Context, tb Toolbar, items []ToolbarItem) error {
	return setJSON(ctx, t.store, toolbarItemsKey(tb), items)
}

// ResetToolbar restores the factory items of tb.
func (t *ToolbarItems) ResetToolbar(ctx context.Context, tb Toolbar) error {
	return t.store.Remove(ctx, toolbarItemsKey(tb))
}

// GetAll exports the stored keys.
func (t *ToolbarItems) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, t.store, toolbarItemsKeys()...)
}

// SetAll imports in, skipping unknown keys.
func (t *ToolbarItems) SetAll(ctx context.Context, in Values) error {
	return importRawJSON(ctx, t.store, in, toolbarItemsKeys()...)
}

// Reset clears the stored values.
func (t *ToolbarItems) Reset(ctx context.Context) error {
	return t.store.Remove(ctx, toolbarItemsKeys()...)
}
