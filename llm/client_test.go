package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testClient(complete func(ctx context.Context, prompt string) (string, error)) (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := &Client{
		model:    defaultModel,
		complete: complete,
		wait: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return ctx.Err()
		},
	}
	return c, &slept
}

func TestGenerateSuccess(t *testing.T) {
	c, slept := testClient(func(_ context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, "photosynthesis notes")
		return "Front: A\nBack: B", nil
	})

	text, err := c.Generate(context.Background(), "photosynthesis notes", 2)
	require.NoError(t, err)
	assert.Equal(t, "Front: A\nBack: B", text)
	assert.Empty(t, *slept)
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	calls := 0
	c, slept := testClient(func(context.Context, string) (string, error) {
		calls++
		if calls < 3 {
			return "", genai.APIError{Code: 429, Message: "quota exceeded"}
		}
		return "ok", nil
	})

	text, err := c.Generate(context.Background(), "notes", 1)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, calls)
	// Doubling delays seeded at the base unit.
	assert.Equal(t, []time.Duration{baseDelay, 2 * baseDelay}, *slept)
}

func TestGenerateRateLimitExhausted(t *testing.T) {
	calls := 0
	c, _ := testClient(func(context.Context, string) (string, error) {
		calls++
		return "", genai.APIError{Code: 429, Message: "quota exceeded"}
	})

	_, err := c.Generate(context.Background(), "notes", 1)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, maxAttempts, calls)
}

func TestGenerateFailsFastOnOtherErrors(t *testing.T) {
	calls := 0
	c, slept := testClient(func(context.Context, string) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	_, err := c.Generate(context.Background(), "notes", 1)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestGenerateStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c, _ := testClient(func(context.Context, string) (string, error) {
		calls++
		cancel()
		return "", genai.APIError{Code: 429, Message: "quota exceeded"}
	})

	// Cancellation interrupts the backoff instead of a second attempt.
	_, err := c.Generate(ctx, "notes", 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWaitReturnsEarlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)

	require.NoError(t, wait(context.Background(), time.Millisecond))
}

func TestNextDelayDoubles(t *testing.T) {
	assert.Equal(t, 2*time.Second, NextDelay(time.Second))
	assert.Equal(t, 8*time.Second, NextDelay(4*time.Second))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("my notes", 3)
	assert.Contains(t, p, "Front: <prompt>")
	assert.Contains(t, p, "Back: <text the student will type>")
	// Worked example anchors the format.
	assert.Contains(t, p, "Front: Which organelle produces ATP?")
	assert.Contains(t, p, "my notes")
	assert.Contains(t, p, "Be thorough")

	// Out-of-range detail levels fall back to the moderate wording.
	assert.Contains(t, BuildPrompt("x", 99), "moderate level of detail")
}
