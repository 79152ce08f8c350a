package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNoteWithoutKeyTruncates(t *testing.T) {
	t.Parallel()
	c := New("")
	assert.False(t, c.Enabled())

	title, err := c.SummarizeNote(context.Background(), "  buy milk\nand eggs  ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk and eggs", title)

	_, err = c.SummarizeNote(context.Background(), "   ")
	assert.Error(t, err)
}

func TestClassifyReplyWithoutKey(t *testing.T) {
	t.Parallel()
	intent, err := New("").ClassifyReply(context.Background(), "I did it")
	assert.ErrorIs(t, err, ErrClientNotInitialised)
	assert.Equal(t, ReplyUnknown, intent)
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "héllo wo…", Truncate("héllo world", 9))
	assert.Equal(t, 9, len([]rune(Truncate("héllo world", 9))))
}
