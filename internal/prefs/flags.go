package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Flags is a small synchronous boolean store persisted as a JSON file.
// It exists for callers that must answer without touching the database.
// Writes made through another Flags on the same path, including from another
// process, are picked up on the next read.
type Flags struct {
	path   string
	mu     sync.RWMutex
	values map[string]bool
	// loaded describes the file values was read from; nil when none was read.
	loaded os.FileInfo
}

// OpenFlags loads path, starting empty when the file is missing or unreadable as JSON.
func OpenFlags(path string) (*Flags, error) {
	f := &Flags{path: path, values: map[string]bool{}}
	if path == "" {
		return f, nil
	}
	if err := f.reloadLocked(); err != nil {
		return nil, err
	}
	return f, nil
}

// Bool returns the flag or def when unset.
func (f *Flags) Bool(key string, def bool) bool {
	if f.stale() {
		f.mu.Lock()
		if err := f.reloadLocked(); err != nil {
			f.mu.Unlock()
			return def
		}
		f.mu.Unlock()
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	if !ok {
		return def
	}
	return v
}

// SetBool stores the flag and flushes the file before returning.
func (f *Flags) SetBool(key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.path != "" {
		if err := f.reloadLocked(); err != nil {
			return err
		}
	}
	f.values[key] = value
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}
	if f.path == "" {
		return nil
	}
	if err := writeFileAtomic(f.path, data, 0o600); err != nil {
		return err
	}
	if info, err := os.Stat(f.path); err == nil {
		f.loaded = info
	}
	return nil
}

// stale reports whether the file on disk is not the one values came from.
// Every write replaces the file by rename, so a new write is a different file.
func (f *Flags) stale() bool {
	if f.path == "" {
		return false
	}
	info, err := os.Stat(f.path)
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err != nil {
		return f.loaded != nil
	}
	return !sameFile(f.loaded, info)
}

func sameFile(a, b os.FileInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	return os.SameFile(a, b) && a.ModTime().Equal(b.ModTime()) && a.Size() == b.Size()
}

// reloadLocked rereads the file when it changed. The caller holds mu for writing.
func (f *Flags) reloadLocked() error {
	info, err := os.Stat(f.path)
	if os.IsNotExist(err) {
		if f.loaded != nil {
			f.values = map[string]bool{}
			f.loaded = nil
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat flags: %w", err)
	}
	if sameFile(f.loaded, info) {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	values := map[string]bool{}
	if err := json.Unmarshal(data, &values); err != nil {
		values = map[string]bool{}
	}
	f.values = values
	f.loaded = info
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create flags dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp flags: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp flags: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp flags: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp flags: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod flags: %w", err)
	}
	return os.Rename(tmpName, path)
}
