package actions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pathakanu/myNotes/internal/actions"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/database/dbtest"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/notes"
	myopenai "github.com/pathakanu/myNotes/internal/openai"
	"github.com/pathakanu/myNotes/internal/prefs"
	"github.com/pathakanu/myNotes/internal/reminders"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	receiver  *actions.Receiver
	notes     *notes.Service
	reminders *reminders.Service
	registry  *settings.Registry
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{
		registry: settings.NewRegistry(prefs.NewGormStore(db), nil),
		now:      time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	noteRepo := database.NewNoteRepository(db)
	sched := reminders.NewScheduler(time.UTC, func(context.Context, reminders.Job) {}, zerolog.Nop())
	f.reminders = reminders.NewService(database.NewReminderRepository(db), noteRepo, sched, nil, zerolog.Nop())
	f.reminders.SetClock(clock)
	f.notes = notes.NewService(noteRepo, zerolog.Nop(), notes.WithClock(clock))
	f.receiver = actions.NewReceiver(f.notes, f.reminders, f.registry.Notifications, zerolog.Nop())
	return f
}

func (f *fixture) noteWithReminder(t *testing.T, title string) (model.Note, model.Reminder) {
	t.Helper()
	ctx := context.Background()
	n, err := f.notes.Create(ctx, model.Note{Title: title})
	require.NoError(t, err)
	r, err := f.reminders.AddAt(ctx, n.ID, f.now.Add(time.Minute))
	require.NoError(t, err)
	return n, r
}

func TestMarkCompleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "Groceries")

	msg, err := f.receiver.Handle(ctx, actions.Action{Type: settings.NotifyMarkCompleted, ReminderID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, "Note marked as completed!", msg)

	got, err := f.notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	_, err = f.receiver.Handle(ctx, actions.Action{Type: settings.NotifyMarkCompleted, ReminderID: r.ID})
	require.NoError(t, err)
	got, err = f.notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestSnoozeUsesActionThenSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, r := f.noteWithReminder(t, "call")

	msg, err := f.receiver.Handle(ctx, actions.Action{Type: settings.NotifySnooze, ReminderID: r.ID, SnoozeMinutes: 5})
	require.NoError(t, err)
	assert.Equal(t, "Reminder snoozed for 5 minutes", msg)
	got, err := f.reminders.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.DueAt.Equal(f.now.Add(5*time.Minute)))

	require.NoError(t, f.registry.Notifications.SetSnoozeDuration(ctx, 45))
	_, err = f.receiver.Handle(ctx, actions.Action{Type: settings.NotifySnooze, ReminderID: r.ID})
	require.NoError(t, err)
	due, ok := f.reminders.Scheduler().Due(r.ID)
	require.True(t, ok)
	assert.True(t, due.Equal(f.now.Add(45*time.Minute)))
}

func TestDeleteRemovesNoteAndReminders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "old")

	msg, err := f.receiver.Handle(ctx, actions.Action{Type: settings.NotifyDelete, ReminderID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, "Note deleted", msg)

	_, err = f.notes.Get(ctx, n.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	left, err := f.reminders.ForNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Empty(t, f.reminders.Scheduler().Pending())
}

func TestMissingReminderChangesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "keep me")

	for _, typ := range []settings.NotificationActionType{settings.NotifyMarkCompleted, settings.NotifySnooze, settings.NotifyDelete} {
		msg, err := f.receiver.Handle(ctx, actions.Action{Type: typ, ReminderID: r.ID + 100})
		require.NoError(t, err)
		assert.Empty(t, msg)
	}

	got, err := f.notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	stored, err := f.reminders.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueAt.Equal(r.DueAt))
}

func TestMissingNoteChangesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "gone")
	require.NoError(t, f.notes.Delete(ctx, n.ID))

	msg, err := f.receiver.Handle(ctx, actions.Action{Type: settings.NotifySnooze, ReminderID: r.ID})
	require.NoError(t, err)
	assert.Empty(t, msg)
	stored, err := f.reminders.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueAt.Equal(r.DueAt))

	msg, err = f.receiver.Handle(ctx, actions.Action{Type: "BOGUS", ReminderID: r.ID})
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestHTTPHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, r := f.noteWithReminder(t, "http")
	h := f.receiver.Handler("")
	local := func(req *http.Request) *http.Request {
		req.RemoteAddr = "127.0.0.1:51000"
		return req
	}

	form := url.Values{"action_type": {"snooze"}, "reminder_id": {formatID(r.ID)}, "snooze_minutes": {"15"}}
	req := local(httptest.NewRequest(http.MethodPost, "/notifications/action", strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"handled":true,"message":"Reminder snoozed for 15 minutes"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h(rec, local(httptest.NewRequest(http.MethodPost, "/notifications/action?action_type=DELETE&reminder_id=999", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"handled":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h(rec, local(httptest.NewRequest(http.MethodPost, "/notifications/action?action_type=DELETE&reminder_id=x", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, local(httptest.NewRequest(http.MethodGet, "/notifications/action", nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPHandlerRejectsUnknownCallers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "guarded")
	target := "/notifications/action?action_type=DELETE&reminder_id=" + formatID(r.ID)

	// httptest requests come from 192.0.2.1, which is not loopback.
	rec := httptest.NewRecorder()
	f.receiver.Handler("")(rec, httptest.NewRequest(http.MethodPost, target, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h := f.receiver.Handler("s3cret")
	for _, tok := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		if tok != "" {
			req.Header.Set(actions.TokenHeader, tok)
		}
		rec = httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tok)
	}
	_, err := f.notes.Get(ctx, n.ID)
	require.NoError(t, err, "rejected calls must not touch the note")

	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set(actions.TokenHeader, "s3cret")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"handled":true,"message":"Note deleted"}`, rec.Body.String())
}

type stubClassifier myopenai.ReplyIntent

func (s stubClassifier) ClassifyReply(context.Context, string) (myopenai.ReplyIntent, error) {
	return myopenai.ReplyIntent(s), nil
}

func TestTwilioHandler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	n, r := f.noteWithReminder(t, "twilio")
	h := f.receiver.TwilioHandler(actions.TwilioOptions{
		AllowedSender: "whatsapp:+15551234567",
		Classifier:    stubClassifier(myopenai.ReplyComplete),
	})

	post := func(from, body string) string {
		form := url.Values{"From": {from}, "Body": {body}}
		req := httptest.NewRequest(http.MethodPost, "/twilio/webhook", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
		return rec.Body.String()
	}

	out := post("whatsapp:+15551234567", "I finished #"+formatID(r.ID))
	assert.Contains(t, out, "<Response><Message>Note marked as completed!</Message></Response>")
	got, err := f.notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	out = post("whatsapp:+15550000000", "delete "+formatID(r.ID))
	assert.Contains(t, out, "not linked")

	out = post("whatsapp:+15551234567", "hello")
	assert.Contains(t, out, "snooze &lt;id&gt;")

	out = post("whatsapp:+15551234567", "delete 9999")
	assert.Contains(t, out, "no longer exists")
}

func TestParseReply(t *testing.T) {
	t.Parallel()
	cases := map[string]actions.Action{
		"done 4":           {Type: settings.NotifyMarkCompleted, ReminderID: 4},
		"Complete 4":       {Type: settings.NotifyMarkCompleted, ReminderID: 4},
		"snooze 7":         {Type: settings.NotifySnooze, ReminderID: 7},
		"snooze 7 30":      {Type: settings.NotifySnooze, ReminderID: 7, SnoozeMinutes: 30},
		"snooze 7 (15":     {Type: settings.NotifySnooze, ReminderID: 7, SnoozeMinutes: 15},
		"DELETE 12":        {Type: settings.NotifyDelete, ReminderID: 12},
		"remove 12 please": {Type: settings.NotifyDelete, ReminderID: 12},
	}
	for in, want := range cases {
		got, ok := actions.ParseReply(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "done", "done x", "snooze -1", "nap 3"} {
		_, ok := actions.ParseReply(in)
		assert.False(t, ok, in)
	}
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
