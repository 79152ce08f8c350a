package settings

import (
	"context"
	"time"

	"github.com/pathakanu/myNotes/internal/prefs"
)

const (
	keyUseBiometrics       = "use_biometrics"
	keyUseDeviceCredential = "use_device_credential"
	keyLockTimeout         = "lock_timeout_seconds"
	keyLastUnlock          = "last_unlock_timestamp"
	keyTimeoutUnit         = "selected_unit"
)

var lockKeys = []string{keyUseBiometrics, keyUseDeviceCredential, keyLockTimeout, keyLastUnlock, keyTimeoutUnit}

// LockPolicy is the app lock configuration.
type LockPolicy struct {
	UseBiometrics       bool
	UseDeviceCredential bool
	Timeout             time.Duration
	LastUnlock          time.Time
}

// Lock holds the app lock policy. Its import is guarded.
type Lock struct {
	store prefs.Store
}

// NewLock returns the Lock domain backed by store.
func NewLock(store prefs.Store) *Lock { return &Lock{store: store} }

// Name returns the backup section name.
func (l *Lock) Name() string { return "lock" }

// Policy reads the lock policy, filling in defaults.
func (l *Lock) Policy(ctx context.Context) (LockPolicy, error) {
	var p LockPolicy
	var err error
	if p.UseBiometrics, err = getBool(ctx, l.store, keyUseBiometrics, false); err != nil {
		return p, err
	}
	if p.UseDeviceCredential, err = getBool(ctx, l.store, keyUseDeviceCredential, false); err != nil {
		return p, err
	}
	secs, err := getInt(ctx, l.store, keyLockTimeout, 300)
	if err != nil {
		return p, err
	}
	p.Timeout = time.Duration(secs) * time.Second
	last, err := getInt(ctx, l.store, keyLastUnlock, 0)
	if err != nil {
		return p, err
	}
	if last > 0 {
		p.LastUnlock = time.UnixMilli(last)
	}
	return p, nil
}

// SetPolicy writes every policy field in one edit.
func (l *Lock) SetPolicy(ctx context.Context, p LockPolicy) error {
	return l.store.Edit(ctx, func(e prefs.Editor) error {
		e.Set(keyUseBiometrics, boolString(p.UseBiometrics))
		e.Set(keyUseDeviceCredential, boolString(p.UseDeviceCredential))
		e.Set(keyLockTimeout, formatInt(int64(p.Timeout/time.Second)))
		if p.LastUnlock.IsZero() {
			e.Set(keyLastUnlock, "0")
		} else {
			e.Set(keyLastUnlock, formatInt(p.LastUnlock.UnixMilli()))
		}
		return nil
	})
}

// MarkUnlocked records a successful unlock at now.
func (l *Lock) MarkUnlocked(ctx context.Context, now time.Time) error {
	return setInt(ctx, l.store, keyLastUnlock, now.UnixMilli())
}

// ShouldLock reports whether a lock is configured and the timeout since the last unlock has passed.
func (l *Lock) ShouldLock(ctx context.Context, now time.Time) (bool, error) {
	p, err := l.Policy(ctx)
	if err != nil {
		return false, err
	}
	if !p.UseBiometrics && !p.UseDeviceCredential {
		return false, nil
	}
	return now.Sub(p.LastUnlock) > p.Timeout, nil
}

// TimeoutUnit is the unit the timeout picker shows.
func (l *Lock) TimeoutUnit(ctx context.Context) (string, error) {
	return getString(ctx, l.store, keyTimeoutUnit, "MINUTES")
}

// SetTimeoutUnit stores the timeout unit.
func (l *Lock) SetTimeoutUnit(ctx context.Context, unit string) error {
	return l.store.Set(ctx, keyTimeoutUnit, unit)
}

// GetAll exports every set key as a string.
func (l *Lock) GetAll(ctx context.Context) (Values, error) {
	return exportStrings(ctx, l.store, lockKeys...)
}

// SetAll writes the recognized keys of in.
func (l *Lock) SetAll(ctx context.Context, in Values) error {
	return l.store.Edit(ctx, func(e prefs.Editor) error {
		for _, key := range []string{keyUseBiometrics, keyUseDeviceCredential} {
			if b, ok := asBool(in[key]); ok {
				e.Set(key, boolString(b))
			}
		}
		if raw, ok := in[keyLockTimeout]; ok {
			n, ok := asInt(raw)
			if !ok {
				n = 300
			}
			e.Set(keyLockTimeout, formatInt(n))
		}
		if raw, ok := in[keyLastUnlock]; ok {
			n, _ := asInt(raw)
			e.Set(keyLastUnlock, formatInt(n))
		}
		if v, ok := asString(in[keyTimeoutUnit]); ok {
			e.Set(keyTimeoutUnit, v)
		}
		return nil
	})
}

// Reset removes every key of the domain.
func (l *Lock) Reset(ctx context.Context) error {
	return l.store.Remove(ctx, lockKeys...)
}
