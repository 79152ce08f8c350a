// Package provider answers note queries from the one external application allowed to ask.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/model"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
)

const (
	Authority     = "org.elnix.notes.provider"
	AllowedCaller = "tech.alphallm.lucky"
	Version       = "1.0.0"

	MethodCheckApp    = "checkAppAvailable"
	MethodSearchNotes = "searchNotes"
	MethodGetNote     = "getNote"
	MethodGetAllNotes = "getAllNotes"
	MethodCreateNote  = "createNote"
)

// Bundle is a flat reply. It carries either an "error" key or data keys, never both.
type Bundle map[string]any

// Error returns the error message of b, if any.
func (b Bundle) Error() (string, bool) {
	msg, ok := b["error"].(string)
	return msg, ok
}

func errorBundle(msg string) Bundle {
	return Bundle{"error": msg}
}

// NoteStore is the persistent note storage the provider reads and writes directly.
type NoteStore interface {
	Search(ctx context.Context, query string) ([]model.Note, error)
	GetAll(ctx context.Context) ([]model.Note, error)
	GetByID(ctx context.Context, id int64) (model.Note, error)
	Upsert(ctx context.Context, note *model.Note) (int64, error)
}

// AccessFlags answers the access toggle without blocking on the settings store.
type AccessFlags interface {
	Bool(key string, def bool) bool
}

// Provider dispatches provider calls after checking the caller and the access toggle.
type Provider struct {
	store   NoteStore
	flags   AccessFlags
	timeout time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// New returns a Provider. timeout bounds every store round-trip; zero means no bound.
func New(store NoteStore, flags AccessFlags, timeout time.Duration, logger zerolog.Logger) *Provider {
	return &Provider{
		store:   store,
		flags:   flags,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.With().Str("component", "provider").Logger(),
	}
}

// SetClock replaces time.Now for created notes.
func (p *Provider) SetClock(now func() time.Time) {
	p.now = now
}

// Call runs method for caller. It never panics and always returns a bundle.
func (p *Provider) Call(ctx context.Context, caller, method string, extras map[string]string) (reply Bundle) {
	log := p.logger.With().Str("call_id", uuid.NewString()).Str("method", method).Str("caller", caller).Logger()
	log.Debug().Msg("call start")
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("call failed")
			reply = errorBundle(fmt.Sprintf("Internal error: %v", r))
		}
		if msg, failed := reply.Error(); failed {
			log.Debug().Str("error", msg).Msg("call end")
			return
		}
		log.Debug().Msg("call end")
	}()

	if method != MethodCheckApp {
		if caller != AllowedCaller {
			log.Warn().Msg("unauthorized caller")
			return errorBundle("Unauthorized caller")
		}
		if !p.accessAllowed() {
			log.Warn().Msg("access disabled in settings")
			return errorBundle("Access denied by user")
		}
	}

	switch method {
	case MethodCheckApp:
		return Bundle{"available": true, "version": Version}
	case MethodSearchNotes:
		return p.searchNotes(ctx, extras["query"])
	case MethodGetNote:
		return p.getNote(ctx, extras["noteId"])
	case MethodGetAllNotes:
		return p.getAllNotes(ctx)
	case MethodCreateNote:
		return p.createNote(ctx, extras["title"], extras["content"])
	default:
		log.Warn().Msg("unknown method")
		return errorBundle("Unknown method: " + method)
	}
}

func (p *Provider) accessAllowed() bool {
	if p.flags == nil {
		return false
	}
	return p.flags.Bool(settings.AllowAccessKey, false)
}

func (p *Provider) searchNotes(ctx context.Context, query string) Bundle {
	if strings.TrimSpace(query) == "" {
		return errorBundle("Empty search query")
	}
	var notes []model.Note
	err := blocking(ctx, p.timeout, func(ctx context.Context) (err error) {
		notes, err = p.store.Search(ctx, query)
		return err
	})
	if err != nil {
		return failure("Search failed", err)
	}
	return listBundle(notes)
}

func (p *Provider) getAllNotes(ctx context.Context) Bundle {
	var notes []model.Note
	err := blocking(ctx, p.timeout, func(ctx context.Context) (err error) {
		notes, err = p.store.GetAll(ctx)
		return err
	})
	if err != nil {
		return failure("Get all notes failed", err)
	}
	return listBundle(notes)
}

func (p *Provider) getNote(ctx context.Context, rawID string) Bundle {
	if strings.TrimSpace(rawID) == "" {
		return errorBundle("Empty note ID")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return errorBundle("Invalid note ID format")
	}

	var note model.Note
	err = blocking(ctx, p.timeout, func(ctx context.Context) (err error) {
		note, err = p.store.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, database.ErrNotFound) {
		return errorBundle("Note not found")
	}
	if err != nil {
		return failure("Retrieval failed", err)
	}
	return noteBundle(note)
}

func (p *Provider) createNote(ctx context.Context, title, content string) Bundle {
	if strings.TrimSpace(title) == "" {
		return errorBundle("Empty title")
	}
	now := p.now()
	note := model.NewNote(model.NoteTypeText)
	note.Title = title
	note.Desc = content
	note.CreatedAt = now
	note.LastEdit = now

	var id int64
	err := blocking(ctx, p.timeout, func(ctx context.Context) (err error) {
		id, err = p.store.Upsert(ctx, &note)
		return err
	})
	if err != nil {
		return failure("Create note failed", err)
	}
	return Bundle{
		"noteId":    id,
		"title":     title,
		"content":   content,
		"createdAt": now.UnixMilli(),
	}
}

func listBundle(notes []model.Note) Bundle {
	out := make([]Bundle, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteBundle(n))
	}
	return Bundle{"notes": out, "count": len(out)}
}

func noteBundle(n model.Note) Bundle {
	tags := make([]string, 0, len(n.TagIDs))
	for _, id := range n.TagIDs {
		tags = append(tags, strconv.FormatInt(id, 10))
	}
	return Bundle{
		"id":         n.ID,
		"title":      n.Title,
		"content":    n.Desc,
		"created_at": n.CreatedAt.UnixMilli(),
		"updated_at": n.LastEdit.UnixMilli(),
		"tags":       strings.Join(tags, ","),
	}
}

func failure(prefix string, err error) Bundle {
	var pe *panicError
	if errors.As(err, &pe) {
		return errorBundle("Internal error: " + pe.Error())
	}
	return errorBundle(prefix + ": " + err.Error())
}
