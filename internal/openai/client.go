// Package openai turns note text into short notification titles and classifies
// free-form notification replies.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client wraps the OpenAI SDK. A zero-key client falls back to local heuristics.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
}

// ErrClientNotInitialised is returned when attempting to call the API without a configured client.
var ErrClientNotInitialised = errors.New("openai client not initialised")

// TitleLimit caps generated and truncated titles, in runes.
const TitleLimit = 48

// ReplyIntent is the action a notification reply asks for.
type ReplyIntent string

const (
	ReplyUnknown  ReplyIntent = "unknown"
	ReplyComplete ReplyIntent = "complete"
	ReplySnooze   ReplyIntent = "snooze"
	ReplyDelete   ReplyIntent = "delete"
)

// New returns a client calling the API when apiKey is set.
func New(apiKey string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// Enabled reports whether API calls are made.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// SummarizeNote returns a short title for an untitled note body.
// Without an API key, or when the call fails, the body is truncated instead.
func (c *Client) SummarizeNote(ctx context.Context, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("content cannot be empty")
	}
	if !c.Enabled() {
		return Truncate(body, TitleLimit), nil
	}

	title, err := c.complete(ctx, 15*time.Second, 0.3, 24,
		"You write a title of at most six words for a personal note. Reply with the title only.",
		body)
	if err != nil {
		return Truncate(body, TitleLimit), err
	}
	title = strings.Trim(title, "\"' ")
	if title == "" {
		return Truncate(body, TitleLimit), nil
	}
	return Truncate(title, TitleLimit), nil
}

// ClassifyReply maps a free-form reply to a notification onto an action.
func (c *Client) ClassifyReply(ctx context.Context, content string) (ReplyIntent, error) {
	if strings.TrimSpace(content) == "" {
		return ReplyUnknown, fmt.Errorf("content cannot be empty")
	}
	if !c.Enabled() {
		return ReplyUnknown, ErrClientNotInitialised
	}

	label, err := c.complete(ctx, 10*time.Second, 0, 8,
		"Classify a reply to a note reminder. Reply with exactly one label: complete, snooze, delete, or unknown.",
		content)
	if err != nil {
		return ReplyUnknown, err
	}

	switch ReplyIntent(strings.ToLower(label)) {
	case ReplyComplete:
		return ReplyComplete, nil
	case ReplySnooze:
		return ReplySnooze, nil
	case ReplyDelete:
		return ReplyDelete, nil
	default:
		return ReplyUnknown, nil
	}
}

func (c *Client) complete(ctx context.Context, timeout time.Duration, temperature float64, maxTokens int64, system, user string) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(system),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(user),
					},
				},
			},
		},
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion received")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
