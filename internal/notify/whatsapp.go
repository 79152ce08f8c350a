package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio REST API used to send messages.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsApp sends notifications as WhatsApp messages through Twilio.
type WhatsApp struct {
	api    MessageCreator
	from   string
	to     string
	logger zerolog.Logger
}

// NewWhatsApp creates a sender bound to the configured Twilio account and numbers.
func NewWhatsApp(accountSID, authToken, from, to string, logger zerolog.Logger) *WhatsApp {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken})
	return NewWhatsAppWithAPI(client.Api, from, to, logger)
}

// NewWhatsAppWithAPI uses api for delivery.
func NewWhatsAppWithAPI(api MessageCreator, from, to string, logger zerolog.Logger) *WhatsApp {
	return &WhatsApp{
		api:    api,
		from:   from,
		to:     to,
		logger: logger.With().Str("component", "whatsapp").Logger(),
	}
}

func (w *WhatsApp) Notify(_ context.Context, n Notification) error {
	return w.Send(w.to, Render(n))
}

// Send delivers body to a single recipient.
func (w *WhatsApp) Send(to, body string) error {
	if w.api == nil {
		return fmt.Errorf("twilio client not initialised")
	}

	sender := NormalizeWhatsAppAddress(w.from)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}
	recipient := NormalizeWhatsAppAddress(to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := w.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message error: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		w.logger.Debug().Str("sid", *resp.Sid).Str("to", recipient).Msg("whatsapp message sent")
	}
	return nil
}

// NormalizeWhatsAppAddress returns number in Twilio's whatsapp:+E164 form.
func NormalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
