// Package settings holds one type per settings domain. Every domain reads and writes the
// shared prefs.Store under its own keys and can export or import itself as a flat map.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pathakanu/myNotes/internal/prefs"
)

// Values is the flat export form of a domain.
type Values map[string]any

// Domain is implemented by every settings domain.
type Domain interface {
	// Name is the top-level key of the domain in a settings backup.
	Name() string
	// GetAll returns the keys this domain exports. Unset keys are omitted.
	GetAll(ctx context.Context) (Values, error)
	// SetAll merges recognized keys back in; unknown keys are ignored.
	SetAll(ctx context.Context, in Values) error
	// Reset removes every key owned by the domain.
	Reset(ctx context.Context) error
}

func getString(ctx context.Context, store prefs.Store, key, def string) (string, error) {
	v, ok, err := store.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func getBool(ctx context.Context, store prefs.Store, key string, def bool) (bool, error) {
	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, nil
	}
	return b, nil
}

func getInt(ctx context.Context, store prefs.Store, key string, def int64) (int64, error) {
	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, nil
	}
	return n, nil
}

func setBool(ctx context.Context, store prefs.Store, key string, v bool) error {
	return store.Set(ctx, key, strconv.FormatBool(v))
}

func setInt(ctx context.Context, store prefs.Store, key string, v int64) error {
	return store.Set(ctx, key, formatInt(v))
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func boolString(v bool) string { return strconv.FormatBool(v) }

// getJSON decodes the list stored at key. Missing or undecodable values yield def.
func getJSON[T any](ctx context.Context, store prefs.Store, key string, def T) (T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok || raw == "" {
		return def, err
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return def, nil
	}
	return out, nil
}

func setJSON(ctx context.Context, store prefs.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(data))
}

// exportStrings returns the raw stored value of every set key.
func exportStrings(ctx context.Context, store prefs.Store, keys ...string) (Values, error) {
	out := Values{}
	for _, key := range keys {
		v, ok, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = v
		}
	}
	return out, nil
}

// exportBools returns every set key that parses as a bool.
func exportBools(ctx context.Context, store prefs.Store, keys ...string) (Values, error) {
	out := Values{}
	for _, key := range keys {
		v, ok, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			out[key] = b
		}
	}
	return out, nil
}

// exportInts returns every set key that parses as an integer.
func exportInts(ctx context.Context, store prefs.Store, keys ...string) (Values, error) {
	out := Values{}
	for _, key := range keys {
		v, ok, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out[key] = n
		}
	}
	return out, nil
}

// importWith writes every recognized key of in, converting each value with conv.
// Values conv rejects are skipped.
func importWith(ctx context.Context, store prefs.Store, in Values, conv func(any) (string, bool), keys ...string) error {
	return store.Edit(ctx, func(e prefs.Editor) error {
		for _, key := range keys {
			raw, ok := in[key]
			if !ok {
				continue
			}
			if v, ok := conv(raw); ok {
				e.Set(key, v)
			}
		}
		return nil
	})
}

func importStrings(ctx context.Context, store prefs.Store, in Values, keys ...string) error {
	return importWith(ctx, store, in, asString, keys...)
}

func importBools(ctx context.Context, store prefs.Store, in Values, keys ...string) error {
	return importWith(ctx, store, in, func(v any) (string, bool) {
		b, ok := asBool(v)
		return strconv.FormatBool(b), ok
	}, keys...)
}

func importInts(ctx context.Context, store prefs.Store, in Values, keys ...string) error {
	return importWith(ctx, store, in, func(v any) (string, bool) {
		n, ok := asInt(v)
		return strconv.FormatInt(n, 10), ok
	}, keys...)
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	case nil:
		return "", false
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	case float64:
		return t != 0, true
	case int64:
		return t != 0, true
	case int:
		return t != 0, true
	default:
		return false, false
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
