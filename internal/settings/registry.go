package settings

import (
	"context"
	"fmt"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// Registry owns one instance of every settings domain.
type Registry struct {
	Actions          *Actions
	ColorModes       *ColorModes
	Colors           *Colors
	Debug            *Debug
	Language         *Language
	Lock             *Lock
	Notifications    *Notifications
	Offsets          *Offsets
	Plugins          *Plugins
	ReminderDefaults *ReminderDefaults
	Sort             *Sort
	Tags             *Tags
	ToolbarItems     *ToolbarItems
	Toolbars         *Toolbars
	UI               *UI
	UserConfirm      *UserConfirm
}

// NewRegistry builds every domain over store. flags receives the provider access mirror.
func NewRegistry(store prefs.Store, flags *prefs.Flags) *Registry {
	return &Registry{
		Actions:          NewActions(store),
		ColorModes:       NewColorModes(store),
		Colors:           NewColors(store),
		Debug:            NewDebug(store),
		Language:         NewLanguage(store),
		Lock:             NewLock(store),
		Notifications:    NewNotifications(store),
		Offsets:          NewOffsets(store),
		Plugins:          NewPlugins(store, flags),
		ReminderDefaults: NewReminderDefaults(store),
		Sort:             NewSort(store),
		Tags:             NewTags(store),
		ToolbarItems:     NewToolbarItems(store),
		Toolbars:         NewToolbars(store),
		UI:               NewUI(store),
		UserConfirm:      NewUserConfirm(store),
	}
}

// Domains returns every domain in backup order.
func (r *Registry) Domains() []Domain {
	return []Domain{
		r.Actions, r.ColorModes, r.Colors, r.Debug, r.Language, r.Lock,
		r.Notifications, r.Offsets, r.Plugins, r.ReminderDefaults, r.Sort,
		r.Tags, r.ToolbarItems, r.Toolbars, r.UI, r.UserConfirm,
	}
}

// Domain looks a domain up by its backup name.
func (r *Registry) Domain(name string) (Domain, bool) {
	for _, d := range r.Domains() {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// ResetAll restores every domain to its defaults, stopping at the first failure.
func (r *Registry) ResetAll(ctx context.Context) error {
	for _, d := range r.Domains() {
		if err := d.Reset(ctx); err != nil {
			return fmt.Errorf("reset %s: %w", d.Name(), err)
		}
	}
	return nil
}
