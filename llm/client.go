// Package llm turns user notes into flashcard text via the Gemini API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Retry policy for rate-limited completion calls. Delays double starting
// from baseDelay; any other error fails fast.
const (
	maxAttempts = 4
	baseDelay   = time.Second
)

// ErrRateLimited is returned after the retry budget for a rate-limited
// completion call is exhausted.
var ErrRateLimited = errors.New("llm: rate limited, retries exhausted")

// Generator produces a flashcard text blob from note content.
type Generator interface {
	Generate(ctx context.Context, content string, detailLevel int) (string, error)
}

// Client calls the Gemini completion API.
type Client struct {
	model string

	complete func(ctx context.Context, prompt string) (string, error)
	wait     func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Gemini-backed generator.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create client: %w", err)
	}

	c := &Client{
		model: defaultModel,
		wait:  wait,
	}
	c.complete = func(ctx context.Context, prompt string) (string, error) {
		contents := []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		}
		result, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
		if err != nil {
			return "", err
		}
		return result.Text(), nil
	}
	return c, nil
}

// Generate sends the notes to the model and returns the raw completion
// text. Rate-limit responses are retried with doubling delays up to
// maxAttempts; all other errors surface immediately.
func (c *Client) Generate(ctx context.Context, content string, detailLevel int) (string, error) {
	prompt := BuildPrompt(content, detailLevel)

	delay := baseDelay
	for attempt := 1; ; attempt++ {
		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}

		if !isRateLimited(err) {
			return "", fmt.Errorf("llm: completion failed: %w", err)
		}
		if attempt >= maxAttempts {
			return "", ErrRateLimited
		}

		log.Printf("Generate: rate limited, retrying in %v (attempt %d/%d)", delay, attempt, maxAttempts)
		if err := c.wait(ctx, delay); err != nil {
			return "", err
		}
		delay = NextDelay(delay)
	}
}

// wait blocks for d or until ctx is cancelled, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NextDelay doubles the backoff delay.
func NextDelay(d time.Duration) time.Duration {
	return d * 2
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return false
}

// detailInstructions maps the 1-3 detail level knob to prompt wording.
var detailInstructions = map[int]string{
	1: "Keep each card short: a single term on the front and a one-line answer on the back.",
	2: "Use a moderate level of detail: a question or term on the front and one or two sentences on the back.",
	3: "Be thorough: cover every important concept in the notes, with detailed multi-sentence answers on the back.",
}

// BuildPrompt renders the fixed prompt template. It includes one worked
// example pair so the model anchors on the Front:/Back: output format.
func BuildPrompt(content string, detailLevel int) string {
	instruction, ok := detailInstructions[detailLevel]
	if !ok {
		instruction = detailInstructions[2]
	}

	var b strings.Builder
	b.WriteString("You are a study assistant that converts notes into typing-practice flashcards.\n")
	b.WriteString("Create flashcards from the notes below. ")
	b.WriteString(instruction)
	b.WriteString("\n\n")
	b.WriteString("Format every card exactly like this, with a blank line between cards:\n\n")
	b.WriteString("Front: <prompt>\nBack: <text the student will type>\n\n")
	b.WriteString("Example notes:\n")
	b.WriteString("The mitochondria is the organelle responsible for producing ATP, the cell's main energy currency.\n\n")
	b.WriteString("Example output:\n")
	b.WriteString("Front: Which organelle produces ATP?\nBack: The mitochondria\n\n")
	b.WriteString("Notes:\n")
	b.WriteString(content)
	return b.String()
}
