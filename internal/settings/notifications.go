package settings

import (
	"context"
	"encoding/json"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// NotificationActionType is a button offered on a delivered reminder.
type NotificationActionType string

const (
	NotifyMarkCompleted NotificationActionType = "MARK_COMPLETED"
	NotifySnooze        NotificationActionType = "SNOOZE"
	NotifyDelete        NotificationActionType = "DELETE"
)

// DefaultSnoozeMinutes applies when no snooze duration is configured.
const DefaultSnoozeMinutes = 10

const (
	keyMarkCompletedEnabled = "mark_completed_enabled"
	keySnoozeEnabled        = "snooze_enabled"
	keyDeleteEnabled        = "delete_enabled"
	keySnoozeDuration       = "snooze_duration"

	// NotificationActionsKey is the single export key of the notifications domain.
	NotificationActionsKey = "notification_actions"
)

var notificationKeys = []string{keyMarkCompletedEnabled, keySnoozeEnabled, keyDeleteEnabled, keySnoozeDuration}

// ActionSetting configures one notification button.
type ActionSetting struct {
	Enabled       bool                   `json:"enabled"`
	ActionType    NotificationActionType `json:"action_type"`
	SnoozeMinutes int                    `json:"snooze_minutes"`
}

// Notifications holds the per-action toggles and the snooze length.
type Notifications struct {
	store prefs.Store
}

// NewNotifications returns the Notifications domain backed by store.
func NewNotifications(store prefs.Store) *Notifications { return &Notifications{store: store} }

// Name is the section key used in backups.
func (n *Notifications) Name() string { return "notifications" }

func enabledKey(t NotificationActionType) string {
	switch t {
	case NotifyMarkCompleted:
		return keyMarkCompletedEnabled
	case NotifySnooze:
		return keySnoozeEnabled
	case NotifyDelete:
		return keyDeleteEnabled
	}
	return ""
}

// Actions returns the three notification buttons in display order.
func (n *Notifications) Actions(ctx context.Context) ([]ActionSetting, error) {
	snooze, err := n.SnoozeMinutes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ActionSetting, 0, 3)
	for _, t := range []NotificationActionType{NotifyMarkCompleted, NotifySnooze, NotifyDelete} {
		enabled, err := getBool(ctx, n.store, enabledKey(t), true)
		if err != nil {
			return nil, err
		}
		s := ActionSetting{Enabled: enabled, ActionType: t, SnoozeMinutes: DefaultSnoozeMinutes}
		if t == NotifySnooze {
			s.SnoozeMinutes = snooze
		}
		out = append(out, s)
	}
	return out, nil
}

// SetEnabled toggles the notification action t.
func (n *Notifications) SetEnabled(ctx context.Context, t NotificationActionType, enabled bool) error {
	key := enabledKey(t)
	if key == "" {
		return nil
	}
	return setBool(ctx, n.store, key, enabled)
}

// SnoozeMinutes returns the snooze length in minutes.
func (n *Notifications) SnoozeMinutes(ctx context.Context) (int, error) {
	v, err := getInt(ctx, n.store, keySnoozeDuration, DefaultSnoozeMinutes)
	if v <= 0 {
		v = DefaultSnoozeMinutes
	}
	return int(v), err
}

// SetSnoozeDuration sets the snooze length in minutes.
func (n *Notifications) SetSnoozeDuration(ctx context.Context, minutes int) error {
	return setInt(ctx, n.store, keySnoozeDuration, int64(minutes))
}

// GetAll always exports the full action list as a nested JSON array.
func (n *Notifications) GetAll(ctx context.Context) (Values, error) {
	actions, err := n.Actions(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}
	return Values{NotificationActionsKey: json.RawMessage(data)}, nil
}

// SetAll accepts the action list either as a JSON array or as a string holding one.
func (n *Notifications) SetAll(ctx context.Context, in Values) error {
	raw, ok := in[NotificationActionsKey]
	if !ok {
		return nil
	}
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil
		}
	}

	var actions []ActionSetting
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil
	}
	return n.store.Edit(ctx, func(e prefs.Editor) error {
		for _, a := range actions {
			key := enabledKey(a.ActionType)
			if key == "" {
				continue
			}
			e.Set(key, boolString(a.Enabled))
			if a.ActionType == NotifySnooze && a.SnoozeMinutes > 0 {
				e.Set(keySnoozeDuration, formatInt(int64(a.SnoozeMinutes)))
			}
		}
		return nil
	})
}

// Reset restores the defaults.
func (n *Notifications) Reset(ctx context.Context) error {
	return n.store.Remove(ctx, notificationKeys...)
}
