package backup_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pathakanu/myNotes/internal/backup"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/database/dbtest"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/prefs"
	"github.com/pathakanu/myNotes/internal/reminders"
	"github.com/pathakanu/myNotes/internal/security"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newRegistry(t *testing.T) (*settings.Registry, *prefs.Flags) {
	t.Helper()
	flags, err := prefs.OpenFlags(filepath.Join(t.TempDir(), "notes_prefs.json"))
	require.NoError(t, err)
	return settings.NewRegistry(prefs.NewGormStore(dbtest.Open(t)), flags), flags
}

func populate(t *testing.T, reg *settings.Registry) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, reg.Actions.SetBinding(ctx, settings.SwipeLeft, settings.ActionEdit))
	require.NoError(t, reg.ColorModes.SetPickerMode(ctx, settings.PickerGradient))
	require.NoError(t, reg.Colors.SetColor(ctx, settings.ColorKeys[0], -16777216))
	require.NoError(t, reg.Debug.SetEnabled(ctx, true))
	require.NoError(t, reg.Language.SetTag(ctx, "fr"))
	require.NoError(t, reg.Lock.SetPolicy(ctx, settings.LockPolicy{UseBiometrics: true, Timeout: 10 * time.Minute}))
	require.NoError(t, reg.Notifications.SetEnabled(ctx, settings.NotifyDelete, false))
	require.NoError(t, reg.Notifications.SetSnoozeDuration(ctx, 25))
	require.NoError(t, reg.Offsets.Add(ctx, model.OffsetItem{ID: 1, Offset: 3600}))
	require.NoError(t, reg.Plugins.SetAllowAccess(ctx, true))
	require.NoError(t, reg.ReminderDefaults.SetDefaults(ctx, []model.ReminderOffset{model.InSeconds(900)}))
	require.NoError(t, reg.Sort.SetOrder(ctx, settings.SortByTitle, settings.Ascending))
	_, err := reg.Tags.Add(ctx, model.Tag{Name: "work", Color: 255})
	require.NoError(t, err)
	require.NoError(t, reg.ToolbarItems.SetItems(ctx, settings.ToolbarQuickActions, []settings.ToolbarItem{{Action: settings.ToolSearch, Enabled: true}}))
	require.NoError(t, reg.Toolbars.SetSpacing(ctx, 12))
	require.NoError(t, reg.UI.SetBool(ctx, settings.Fullscreen, true))
	require.NoError(t, reg.UserConfirm.SetShow(ctx, settings.ConfirmDeleteTag, false))
}

func export(t *testing.T, b *backup.Settings) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, b.Export(context.Background(), &buf))
	return buf.String()
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hash, err := security.HashPIN("0000")
	require.NoError(t, err)
	verifier := security.NewPINVerifier(hash)

	src, _ := newRegistry(t)
	populate(t, src)
	doc := export(t, backup.NewSettings(src, verifier, zerolog.Nop()))

	for _, d := range src.Domains() {
		assert.True(t, gjson.Get(doc, d.Name()).IsObject(), d.Name())
	}
	assert.Equal(t, "[", gjson.Get(doc, "notifications.notification_actions").Raw[:1])

	dst, flags := newRegistry(t)
	restore := backup.NewSettings(dst, verifier, zerolog.Nop())
	res, err := restore.Import(ctx, strings.NewReader(doc), backup.ImportOptions{PIN: "0000"})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Len(t, res.Applied, len(dst.Domains()))

	assert.JSONEq(t, doc, export(t, restore))
	assert.True(t, flags.Bool(settings.AllowAccessKey, false))

	tag, err := dst.Language.Tag(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fr", tag)
	snooze, err := dst.Notifications.SnoozeMinutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, snooze)
}

func TestSettingsImportGuardsSensitiveDomains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hash, err := security.HashPIN("0000")
	require.NoError(t, err)

	src, _ := newRegistry(t)
	populate(t, src)
	doc := export(t, backup.NewSettings(src, nil, zerolog.Nop()))

	dst, flags := newRegistry(t)
	res, err := backup.NewSettings(dst, security.NewPINVerifier(hash), zerolog.Nop()).
		Import(ctx, strings.NewReader(doc), backup.ImportOptions{PIN: "9999"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lock", "plugins"}, res.Skipped)

	policy, err := dst.Lock.Policy(ctx)
	require.NoError(t, err)
	assert.False(t, policy.UseBiometrics)
	allow, err := dst.Plugins.AllowAccess(ctx)
	require.NoError(t, err)
	assert.False(t, allow)
	assert.False(t, flags.Bool(settings.AllowAccessKey, false))

	lang, err := dst.Language.Tag(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}

func TestSettingsImportDisablingAccessNeedsNoPIN(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hash, err := security.HashPIN("0000")
	require.NoError(t, err)

	dst, _ := newRegistry(t)
	require.NoError(t, dst.Plugins.SetAllowAccess(ctx, true))

	res, err := backup.NewSettings(dst, security.NewPINVerifier(hash), zerolog.Nop()).
		Import(ctx, strings.NewReader(`{"plugins":{"allow_alphallm_access":false}}`), backup.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"plugins"}, res.Applied)

	allow, err := dst.Plugins.AllowAccess(ctx)
	require.NoError(t, err)
	assert.False(t, allow)
}

func TestSettingsImportIsTolerant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dst, _ := newRegistry(t)
	b := backup.NewSettings(dst, nil, zerolog.Nop())

	_, err := b.Import(ctx, strings.NewReader("  "), backup.ImportOptions{})
	assert.ErrorIs(t, err, backup.ErrEmptyDocument)
	_, err = b.Import(ctx, strings.NewReader("{not json"), backup.ImportOptions{})
	assert.ErrorIs(t, err, backup.ErrInvalidDocument)
	_, err = b.Import(ctx, strings.NewReader(`[1,2]`), backup.ImportOptions{})
	assert.ErrorIs(t, err, backup.ErrInvalidDocument)

	res, err := b.Import(ctx, strings.NewReader(`{
		"future_domain": {"x": 1},
		"debug": "oops",
		"language": {"pref_app_language": "de", "unknown": true},
		"color": {"primary_color": "-1"}
	}`), backup.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "language"}, res.Applied)
	assert.Equal(t, []string{"debug"}, res.Skipped)

	lang, err := dst.Language.Tag(ctx)
	require.NoError(t, err)
	assert.Equal(t, "de", lang)
	c, ok, err := dst.Colors.Color(ctx, "primary_color")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(-1), c)
}

type notesFixture struct {
	notes     *database.NoteRepository
	reminders *database.ReminderRepository
	svc       *reminders.Service
	backup    *backup.Notes
}

func newNotesFixture(t *testing.T, now time.Time) *notesFixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &notesFixture{
		notes:     database.NewNoteRepository(db),
		reminders: database.NewReminderRepository(db),
	}
	sched := reminders.NewScheduler(time.UTC, func(context.Context, reminders.Job) {}, zerolog.Nop())
	f.svc = reminders.NewService(f.reminders, f.notes, sched, nil, zerolog.Nop())
	f.svc.SetClock(func() time.Time { return now })
	f.backup = backup.NewNotes(db, f.notes, f.reminders, f.svc, zerolog.Nop())
	return f
}

func TestNotesRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	src := newNotesFixture(t, now)
	milk := model.Note{Title: "Milk", Desc: "2 litres", Type: model.NoteTypeText, CreatedAt: now.Add(-time.Hour), LastEdit: now}
	done := model.Note{Title: "Taxes", IsCompleted: true, Type: model.NoteTypeText, CreatedAt: now.Add(-48 * time.Hour), LastEdit: now}
	_, err := src.notes.Upsert(ctx, &milk)
	require.NoError(t, err)
	_, err = src.notes.Upsert(ctx, &done)
	require.NoError(t, err)
	_, err = src.svc.AddAt(ctx, milk.ID, now.Add(30*time.Minute))
	require.NoError(t, err)
	off, err := src.svc.AddAt(ctx, done.ID, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, src.svc.SetEnabled(ctx, off.ID, false))

	var buf bytes.Buffer
	require.NoError(t, src.backup.Export(ctx, &buf))

	dst := newNotesFixture(t, now)
	stale := model.Note{Title: "stale", Type: model.NoteTypeText}
	_, err = dst.notes.Upsert(ctx, &stale)
	require.NoError(t, err)
	_, err = dst.svc.AddAt(ctx, stale.ID, now.Add(time.Hour))
	require.NoError(t, err)

	res, err := dst.backup.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, backup.NotesResult{Notes: 2, Reminders: 2}, res)

	got, err := dst.notes.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	byTitle := map[string]model.Note{}
	for _, n := range got {
		byTitle[n.Title] = n
	}
	assert.Equal(t, "2 litres", byTitle["Milk"].Desc)
	assert.True(t, byTitle["Milk"].CreatedAt.Equal(milk.CreatedAt))
	assert.True(t, byTitle["Taxes"].IsCompleted)

	milkReminders, err := dst.reminders.GetByNoteID(ctx, byTitle["Milk"].ID)
	require.NoError(t, err)
	require.Len(t, milkReminders, 1)
	assert.True(t, milkReminders[0].Enabled)
	assert.Equal(t, 30*time.Minute, milkReminders[0].DueAt.Sub(now))

	taxReminders, err := dst.reminders.GetByNoteID(ctx, byTitle["Taxes"].ID)
	require.NoError(t, err)
	require.Len(t, taxReminders, 1)
	assert.False(t, taxReminders[0].Enabled)

	assert.Equal(t, []string{reminders.JobKey(milkReminders[0].ID)}, dst.svc.Scheduler().Pending())
}

func TestNotesImportDropsDanglingReminders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	f := newNotesFixture(t, now)

	doc := `{
		"notes": [{"id": 7, "title": "kept", "desc": "", "createdAt": 1700000000000, "isCompleted": false}],
		"reminders": [
			{"id": 1, "noteId": 7, "dueDateTime": 1700000600000, "enabled": true},
			{"id": 2, "noteId": 99, "dueDateTime": 1700000600000, "enabled": true}
		]
	}`
	res, err := f.backup.Import(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, backup.NotesResult{Notes: 1, Reminders: 1, Dropped: 1}, res)
	assert.Empty(t, f.svc.Scheduler().Pending())

	_, err = f.backup.Import(ctx, strings.NewReader(""))
	assert.ErrorIs(t, err, backup.ErrEmptyDocument)
	_, err = f.backup.Import(ctx, strings.NewReader(`{"notes": "nope"}`))
	assert.ErrorIs(t, err, backup.ErrInvalidDocument)

	all, err := f.notes.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNotesImportFailureKeepsScheduledJobs(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	f := newNotesFixture(t, now)

	keep := model.Note{Title: "keep", Type: model.NoteTypeText}
	_, err := f.notes.Upsert(context.Background(), &keep)
	require.NoError(t, err)
	r, err := f.svc.AddAt(context.Background(), keep.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, []string{reminders.JobKey(r.ID)}, f.svc.Scheduler().Pending())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := `{"notes": [{"id": 1, "title": "new", "desc": "", "createdAt": 1700000000000, "isCompleted": false}], "reminders": []}`
	_, err = f.backup.Import(ctx, strings.NewReader(doc))
	require.Error(t, err)

	stored, err := f.reminders.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{reminders.JobKey(r.ID)}, f.svc.Scheduler().Pending())
}
