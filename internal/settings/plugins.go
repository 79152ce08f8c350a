package settings

import (
	"context"
	"fmt"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// AllowAccessKey gates the provider boundary. It is mirrored into the synchronous flag file.
const AllowAccessKey = "allow_alphallm_access"

// Plugins holds the provider access toggle.
type Plugins struct {
	store prefs.Store
	flags *prefs.Flags
}

// NewPlugins returns the Plugins domain. flags may be nil, which skips the mirror.
func NewPlugins(store prefs.Store, flags *prefs.Flags) *Plugins {
	return &Plugins{store: store, flags: flags}
}

// Name returns the backup section name.
func (p *Plugins) Name() string { return "plugins" }

// AllowAccess reports whether the provider may be called. It defaults to false.
func (p *Plugins) AllowAccess(ctx context.Context) (bool, error) {
	return getBool(ctx, p.store, AllowAccessKey, false)
}

// SetAllowAccess writes the toggle to the store and to the flag file.
func (p *Plugins) SetAllowAccess(ctx context.Context, allow bool) error {
	if err := setBool(ctx, p.store, AllowAccessKey, allow); err != nil {
		return err
	}
	return p.mirror(allow)
}

func (p *Plugins) mirror(allow bool) error {
	if p.flags == nil {
		return nil
	}
	if err := p.flags.SetBool(AllowAccessKey, allow); err != nil {
		return fmt.Errorf("mirror %s: %w", AllowAccessKey, err)
	}
	return nil
}

// GetAll exports the stored keys.
func (p *Plugins) GetAll(ctx context.Context) (Values, error) {
	return exportBools(ctx, p.store, AllowAccessKey)
}

// SetAll imports in, skipping unknown keys.
func (p *Plugins) SetAll(ctx context.Context, in Values) error {
	allow, ok := asBool(in[AllowAccessKey])
	if !ok {
		return nil
	}
	return p.SetAllowAccess(ctx, allow)
}

// Reset clears the stored values.
func (p *Plugins) Reset(ctx context.Context) error {
	if err := p.store.Remove(ctx, AllowAccessKey); err != nil {
		return err
	}
	return p.mirror(false)
}
