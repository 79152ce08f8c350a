package actions

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	myopenai "github.com/pathakanu/myNotes/internal/openai"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go/client"
)

// ReplyClassifier interprets replies that are not one of the fixed commands.
type ReplyClassifier interface {
	ClassifyReply(ctx context.Context, content string) (myopenai.ReplyIntent, error)
}

// TwilioOptions configures the WhatsApp reply webhook.
type TwilioOptions struct {
	// AuthToken and WebhookURL enable X-Twilio-Signature validation when both are set.
	AuthToken  string
	WebhookURL string
	// AllowedSender restricts replies to one WhatsApp number when set.
	AllowedSender string
	Classifier    ReplyClassifier
}

// TwilioHandler serves the Twilio WhatsApp webhook. Replies look like
// "done 12", "snooze 12 30" or "delete 12".
func (r *Receiver) TwilioHandler(opts TwilioOptions) http.HandlerFunc {
	var validator *client.RequestValidator
	if opts.AuthToken != "" && opts.WebhookURL != "" {
		v := client.NewRequestValidator(opts.AuthToken)
		validator = &v
	}
	allowed := strings.TrimPrefix(strings.TrimSpace(opts.AllowedSender), "whatsapp:")
	logger := r.logger.With().Str("transport", "twilio").Logger()

	return func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			logger.Warn().Err(err).Msg("webhook: parse error")
			writeTwilioResponse(w, logger, "Sorry, I couldn't understand that request.")
			return
		}

		if validator != nil {
			sig := req.Header.Get("X-Twilio-Signature")
			if !validator.Validate(opts.WebhookURL, DecodeTwilioForm(req.PostForm), sig) {
				logger.Warn().Msg("webhook: invalid signature")
				http.Error(w, "invalid signature", http.StatusForbidden)
				return
			}
		}

		from := sanitizeWhatsAppNumber(req.FormValue("From"))
		body := strings.TrimSpace(req.FormValue("Body"))
		if from == "" || body == "" {
			writeTwilioResponse(w, logger, "I need a message to work with. Please try again.")
			return
		}
		if allowed != "" && from != allowed {
			logger.Warn().Str("from", from).Msg("webhook: sender not allowed")
			writeTwilioResponse(w, logger, "This number is not linked to any notes.")
			return
		}

		action, ok := ParseReply(body)
		if !ok {
			action, ok = r.classify(req.Context(), opts.Classifier, body, logger)
		}
		if !ok {
			writeTwilioResponse(w, logger, helpResponse())
			return
		}

		msg, err := r.Handle(req.Context(), action)
		if err != nil {
			logger.Error().Err(err).Int64("reminder_id", action.ReminderID).Msg("webhook: apply action")
			writeTwilioResponse(w, logger, "Hmm, I couldn't do that. Please try again later.")
			return
		}
		if msg == "" {
			msg = "That reminder no longer exists."
		}
		writeTwilioResponse(w, logger, msg)
	}
}

// classify falls back to the language model for replies that carry a reminder id
// but no recognised command.
func (r *Receiver) classify(ctx context.Context, c ReplyClassifier, body string, logger zerolog.Logger) (Action, bool) {
	if c == nil {
		return Action{}, false
	}
	id, ok := firstNumber(body)
	if !ok {
		return Action{}, false
	}
	intent, err := c.ClassifyReply(ctx, body)
	if err != nil {
		if !errors.Is(err, myopenai.ErrClientNotInitialised) {
			logger.Warn().Err(err).Msg("reply classification")
		}
		return Action{}, false
	}
	switch intent {
	case myopenai.ReplyComplete:
		return Action{Type: settings.NotifyMarkCompleted, ReminderID: id}, true
	case myopenai.ReplySnooze:
		return Action{Type: settings.NotifySnooze, ReminderID: id}, true
	case myopenai.ReplyDelete:
		return Action{Type: settings.NotifyDelete, ReminderID: id}, true
	default:
		return Action{}, false
	}
}

// ParseReply reads "<command> <reminder id> [minutes]".
func ParseReply(body string) (Action, bool) {
	fields := strings.Fields(strings.ToLower(body))
	if len(fields) < 2 {
		return Action{}, false
	}

	var a Action
	switch fields[0] {
	case "done", "complete", "completed":
		a.Type = settings.NotifyMarkCompleted
	case "snooze":
		a.Type = settings.NotifySnooze
	case "delete", "remove":
		a.Type = settings.NotifyDelete
	default:
		return Action{}, false
	}

	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id <= 0 {
		return Action{}, false
	}
	a.ReminderID = id

	if a.Type == settings.NotifySnooze && len(fields) > 2 {
		if n, err := strconv.Atoi(strings.Trim(fields[2], "()")); err == nil && n > 0 {
			a.SnoozeMinutes = n
		}
	}
	return a, true
}

func firstNumber(body string) (int64, bool) {
	for _, f := range strings.Fields(body) {
		if n, err := strconv.ParseInt(strings.Trim(f, "#.,!?()"), 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func writeTwilioResponse(w http.ResponseWriter, logger zerolog.Logger, message string) {
	twiml := struct {
		XMLName xml.Name `xml:"Response"`
		Message string   `xml:"Message"`
	}{
		Message: message,
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := xml.NewEncoder(w).Encode(twiml); err != nil {
		logger.Error().Err(err).Msg("twilio response encode")
	}
}

func sanitizeWhatsAppNumber(from string) string {
	// Twilio prepends whatsapp: to the number.
	return strings.TrimPrefix(strings.TrimSpace(from), "whatsapp:")
}

func helpResponse() string {
	return "Reply with 'done <id>', 'snooze <id> [minutes]' or 'delete <id>' to act on a reminder."
}

// DecodeTwilioForm extracts the POST form data into a map for signature validation.
func DecodeTwilioForm(values url.Values) map[string]string {
	result := make(map[string]string, len(values))
	for key, value := range values {
		if len(value) > 0 {
			result[key] = value[0]
		}
	}
	return result
}
