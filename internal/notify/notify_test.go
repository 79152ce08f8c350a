package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	sent []*openapi.CreateMessageParams
	err  error
}

func (f *fakeAPI) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func sample() Notification {
	return Notification{
		ReminderID: 7,
		NoteID:     3,
		Title:      "Groceries",
		Body:       "milk",
		Actions: []settings.ActionSetting{
			{Enabled: true, ActionType: settings.NotifyMarkCompleted, SnoozeMinutes: 10},
			{Enabled: true, ActionType: settings.NotifySnooze, SnoozeMinutes: 15},
			{Enabled: false, ActionType: settings.NotifyDelete, SnoozeMinutes: 10},
		},
	}
}

func TestRenderListsEnabledActions(t *testing.T) {
	t.Parallel()
	out := Render(sample())
	assert.Contains(t, out, "Groceries\nmilk")
	assert.Contains(t, out, "done 7")
	assert.Contains(t, out, "snooze 7 (15 min)")
	assert.NotContains(t, out, "delete 7")
	assert.Equal(t, "reminder_7", sample().Key())
}

func TestWhatsAppSend(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{}
	w := NewWhatsAppWithAPI(api, "14155238886", "+15551234567", zerolog.Nop())

	require.NoError(t, w.Notify(context.Background(), sample()))
	require.Len(t, api.sent, 1)
	assert.Equal(t, "whatsapp:+15551234567", *api.sent[0].To)
	assert.Equal(t, "whatsapp:+14155238886", *api.sent[0].From)

	assert.Error(t, NewWhatsAppWithAPI(api, "", "+1", zerolog.Nop()).Send("+1", "x"))
	assert.Error(t, w.Send("  ", "x"))
}

func TestMultiJoinsErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	failing := NewWhatsAppWithAPI(&fakeAPI{err: boom}, "1", "2", zerolog.Nop())
	m := Multi{NewLogNotifier(zerolog.Nop()), failing}

	err := m.Notify(context.Background(), sample())
	assert.ErrorIs(t, err, boom)
}

func TestNormalizeWhatsAppAddress(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "whatsapp:+1555", NormalizeWhatsAppAddress(" 1555 "))
	assert.Equal(t, "whatsapp:+1555", NormalizeWhatsAppAddress("+1555"))
	assert.Equal(t, "whatsapp:+1555", NormalizeWhatsAppAddress("whatsapp:+1555"))
	assert.Empty(t, NormalizeWhatsAppAddress(""))
}
