package settings_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/pathakanu/myNotes/internal/database/dbtest"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/prefs"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*settings.Registry, prefs.Store, *prefs.Flags) {
	t.Helper()
	store := prefs.NewGormStore(dbtest.Open(t))
	flags, err := prefs.OpenFlags(filepath.Join(t.TempDir(), "notes_prefs.json"))
	require.NoError(t, err)
	return settings.NewRegistry(store, flags), store, flags
}

func TestDefaultsWhenUnset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	act, err := reg.Actions.Binding(ctx, settings.SwipeLeft)
	require.NoError(t, err)
	assert.Equal(t, settings.ActionDelete, act)
	act, err = reg.Actions.Binding(ctx, settings.Click)
	require.NoError(t, err)
	assert.Equal(t, settings.ActionComplete, act)

	mode, err := reg.ColorModes.PickerMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.PickerSliders, mode)

	sortType, sortMode, err := reg.Sort.Order(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.SortByDate, sortType)
	assert.Equal(t, settings.Descending, sortMode)

	policy, err := reg.Lock.Policy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, policy.Timeout)

	spacing, err := reg.Toolbars.Spacing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, spacing)

	bars, err := reg.Toolbars.List(ctx)
	require.NoError(t, err)
	require.Len(t, bars, 4)
	assert.Equal(t, settings.ToolbarSelect, bars[0].Toolbar)
	assert.Equal(t, 50, bars[0].BorderRadius)

	items, err := reg.ToolbarItems.Items(ctx, settings.ToolbarQuickActions)
	require.NoError(t, err)
	assert.Len(t, items, 7)
	assert.Equal(t, settings.ToolSearch, items[0].Action)

	show, err := reg.UI.Bool(ctx, settings.ShowTagsInNotes)
	require.NoError(t, err)
	assert.True(t, show)

	snooze, err := reg.Notifications.SnoozeMinutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, snooze)

	for _, d := range reg.Domains() {
		if d.Name() == "notifications" || d.Name() == "user_confirm" {
			continue
		}
		got, err := d.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got, d.Name())
	}
}

func TestTagsCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	work, err := reg.Tags.Add(ctx, model.Tag{Name: "work", Color: -16711936})
	require.NoError(t, err)
	home, err := reg.Tags.Add(ctx, model.Tag{Name: "home"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), work.ID)
	assert.Equal(t, int64(2), home.ID)

	home.Name = "house"
	require.NoError(t, reg.Tags.Update(ctx, home))
	require.NoError(t, reg.Tags.SelectAll(ctx, true))
	require.NoError(t, reg.Tags.Delete(ctx, work.ID))

	tags, err := reg.Tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "house", tags[0].Name)
	assert.True(t, tags[0].Selected)
}

func TestOffsetsAndReminderDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	require.NoError(t, reg.Offsets.Add(ctx, model.OffsetItem{ID: 1, Offset: 600}))
	require.NoError(t, reg.Offsets.Add(ctx, model.OffsetItem{ID: 2, Offset: 3600}))
	require.NoError(t, reg.Offsets.Update(ctx, model.OffsetItem{ID: 2, Offset: 7200}))
	require.NoError(t, reg.Offsets.Delete(ctx, 1))
	offsets, err := reg.Offsets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.OffsetItem{{ID: 2, Offset: 7200}}, offsets)

	tenMin := model.InSeconds(600)
	require.NoError(t, reg.ReminderDefaults.SetDefaults(ctx, []model.ReminderOffset{tenMin}))
	require.NoError(t, reg.ReminderDefaults.AddPreset(ctx, tenMin))
	require.NoError(t, reg.ReminderDefaults.AddPreset(ctx, model.InSeconds(60)))
	require.NoError(t, reg.ReminderDefaults.DeletePreset(ctx, tenMin))

	defaults, err := reg.ReminderDefaults.Defaults(ctx)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, int64(600), *defaults[0].SecondsFromNow)

	presets, err := reg.ReminderDefaults.Presets(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, int64(60), *presets[0].SecondsFromNow)
}

func TestNotificationsExportNestsActionList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	require.NoError(t, reg.Notifications.SetEnabled(ctx, settings.NotifyDelete, false))
	require.NoError(t, reg.Notifications.SetSnoozeDuration(ctx, 25))

	out, err := reg.Notifications.GetAll(ctx)
	require.NoError(t, err)
	raw, ok := out[settings.NotificationActionsKey].(json.RawMessage)
	require.True(t, ok)

	var actions []settings.ActionSetting
	require.NoError(t, json.Unmarshal(raw, &actions))
	require.Len(t, actions, 3)
	assert.Equal(t, settings.ActionSetting{Enabled: false, ActionType: settings.NotifyDelete, SnoozeMinutes: 10}, actions[2])
	assert.Equal(t, 25, actions[1].SnoozeMinutes)

	other, _, _ := newRegistry(t)
	var decoded []any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NoError(t, other.Notifications.SetAll(ctx, settings.Values{settings.NotificationActionsKey: decoded}))

	got, err := other.Notifications.Actions(ctx)
	require.NoError(t, err)
	assert.Equal(t, actions, got)
}

func TestUIExportsOnlyNonDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	require.NoError(t, reg.UI.SetBool(ctx, settings.ShowNotesNumber, true))
	require.NoError(t, reg.UI.SetBool(ctx, settings.Fullscreen, true))
	require.NoError(t, reg.UI.SetNoteViewType(ctx, "GRID"))

	out, err := reg.UI.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Values{settings.Fullscreen: "true", "note_view_type": "GRID"}, out)
}

func TestUserConfirmExportsEveryEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	require.NoError(t, reg.UserConfirm.SetShow(ctx, settings.ConfirmDeleteTag, false))
	out, err := reg.UserConfirm.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 5)
	assert.Equal(t, false, out[settings.ConfirmDeleteTag])
	assert.Equal(t, true, out[settings.ConfirmDeleteNote])
}

func TestSetAllToleratesLooseTypes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)

	require.NoError(t, reg.Colors.SetAll(ctx, settings.Values{
		"primary_color": float64(-65536),
		"edit_color":    "-16776961",
		"unknown_key":   float64(1),
		"error_color":   map[string]any{"nope": true},
	}))
	out, err := reg.Colors.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Values{"primary_color": int64(-65536), "edit_color": int64(-16776961)}, out)

	require.NoError(t, reg.Debug.SetAll(ctx, settings.Values{"debug_mode_enabled": "true"}))
	on, err := reg.Debug.Enabled(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, reg.Tags.SetAll(ctx, settings.Values{"app_tags": "not json"}))
	tags, err := reg.Tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, reg.Tags.SetAll(ctx, settings.Values{"app_tags": []any{map[string]any{"id": float64(3), "name": "x"}}}))
	tags, err = reg.Tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, int64(3), tags[0].ID)
}

func TestPluginsMirrorFlags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, flags := newRegistry(t)

	assert.False(t, flags.Bool(settings.AllowAccessKey, false))
	require.NoError(t, reg.Plugins.SetAll(ctx, settings.Values{settings.AllowAccessKey: true}))
	assert.True(t, flags.Bool(settings.AllowAccessKey, false))

	allow, err := reg.Plugins.AllowAccess(ctx)
	require.NoError(t, err)
	assert.True(t, allow)

	require.NoError(t, reg.Plugins.Reset(ctx))
	assert.False(t, flags.Bool(settings.AllowAccessKey, true))
}

func TestLockShouldLock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, _, _ := newRegistry(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	locked, err := reg.Lock.ShouldLock(ctx, now)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, reg.Lock.SetPolicy(ctx, settings.LockPolicy{
		UseBiometrics: true,
		Timeout:       time.Minute,
		LastUnlock:    now.Add(-30 * time.Second),
	}))
	locked, err = reg.Lock.ShouldLock(ctx, now)
	require.NoError(t, err)
	assert.False(t, locked)

	locked, err = reg.Lock.ShouldLock(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, locked)

	out, err := reg.Lock.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "60", out["lock_timeout_seconds"])
	assert.Equal(t, "true", out["use_biometrics"])
}

func TestResetAllClearsStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg, store, _ := newRegistry(t)

	require.NoError(t, reg.Actions.SetBinding(ctx, settings.SwipeLeft, settings.ActionNone))
	require.NoError(t, reg.Toolbars.SetSpacing(ctx, 12))
	_, err := reg.Tags.Add(ctx, model.Tag{Name: "x"})
	require.NoError(t, err)
	require.NoError(t, reg.Language.SetTag(ctx, "fr"))

	require.NoError(t, reg.ResetAll(ctx))
	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
