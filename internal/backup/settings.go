// Package backup reads and writes the settings and notes backup documents.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pathakanu/myNotes/internal/security"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrEmptyDocument is returned when the input holds nothing to import.
	ErrEmptyDocument = errors.New("backup document is empty")
	// ErrInvalidDocument is returned when the input is not a JSON object.
	ErrInvalidDocument = errors.New("backup document is not a valid JSON object")
)

// ImportOptions carries what a restore needs beyond the document.
type ImportOptions struct {
	// PIN unlocks the lock domain and enabling provider access.
	PIN string
}

// ImportResult lists what an import did per domain.
type ImportResult struct {
	Applied []string
	Skipped []string
}

// Settings exports and imports the union of every settings domain.
type Settings struct {
	registry *settings.Registry
	verifier security.Verifier
	logger   zerolog.Logger
}

// NewSettings wires a settings backup. A nil verifier accepts every PIN.
func NewSettings(registry *settings.Registry, verifier security.Verifier, logger zerolog.Logger) *Settings {
	if verifier == nil {
		verifier = security.PINVerifier{}
	}
	return &Settings{
		registry: registry,
		verifier: verifier,
		logger:   logger.With().Str("component", "settings_backup").Logger(),
	}
}

// Export writes one JSON object keyed by domain name. Domains with nothing set are left out.
func (s *Settings) Export(ctx context.Context, w io.Writer) error {
	doc := []byte(`{}`)
	for _, d := range s.registry.Domains() {
		values, err := d.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("export %s: %w", d.Name(), err)
		}
		if len(values) == 0 {
			continue
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.Name(), err)
		}
		if doc, err = sjson.SetRawBytes(doc, d.Name(), raw); err != nil {
			return fmt.Errorf("add %s: %w", d.Name(), err)
		}
	}

	if _, err := w.Write(pretty.Pretty(doc)); err != nil {
		return fmt.Errorf("write settings backup: %w", err)
	}
	s.logger.Info().Int("bytes", len(doc)).Msg("settings exported")
	return nil
}

// Import merges a settings document back in. Unknown keys and domains that fail are skipped;
// the remaining domains are still applied.
func (s *Settings) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read settings backup: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ImportResult{}, ErrEmptyDocument
	}
	if !gjson.ValidBytes(data) {
		return ImportResult{}, ErrInvalidDocument
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return ImportResult{}, ErrInvalidDocument
	}

	var res ImportResult
	for _, d := range s.registry.Domains() {
		name := d.Name()
		section := root.Get(name)
		if !section.Exists() {
			continue
		}
		log := s.logger.With().Str("domain", name).Logger()

		if !section.IsObject() {
			log.Warn().Msg("domain is not an object, skipped")
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if s.guarded(name, section) {
			if err := s.verifier.Verify(opts.PIN); err != nil {
				log.Warn().Err(err).Msg("pin check failed, domain skipped")
				res.Skipped = append(res.Skipped, name)
				continue
			}
		}
		if err := d.SetAll(ctx, toValues(section)); err != nil {
			log.Error().Err(err).Msg("import domain")
			res.Skipped = append(res.Skipped, name)
			continue
		}
		res.Applied = append(res.Applied, name)
	}

	s.logger.Info().Strs("applied", res.Applied).Strs("skipped", res.Skipped).Msg("settings imported")
	return res, nil
}

// guarded reports whether importing section needs the PIN.
func (s *Settings) guarded(name string, section gjson.Result) bool {
	switch name {
	case s.registry.Lock.Name():
		return true
	case s.registry.Plugins.Name():
		return section.Get(settings.AllowAccessKey).Bool()
	default:
		return false
	}
}

func toValues(section gjson.Result) settings.Values {
	values := settings.Values{}
	section.ForEach(func(key, value gjson.Result) bool {
		values[key.String()] = value.Value()
		return true
	})
	return values
}
