// Package typing implements the character-level typing exercise and the
// deck-level practice session that drives it.
package typing

import (
	"math"
	"time"
)

// CharState classifies one character of the target string against the
// current input.
type CharState int

const (
	StateRemaining CharState = iota
	StateCorrect
	StateError
	// StatePending is reserved for typed-ahead input that has not been
	// validated yet (IME composition). Nothing produces it today.
	StatePending
)

// Token returns the render token for a state, used by clients to pick a
// per-character style.
func (s CharState) Token() string {
	switch s {
	case StateCorrect:
		return "correct"
	case StateError:
		return "error"
	case StatePending:
		return "pending"
	default:
		return "remaining"
	}
}

// CardStat holds the metrics computed when a card is completed.
type CardStat struct {
	WPM      int `json:"wpm"`
	Accuracy int `json:"accuracy"`
}

// CompletionDelay is how long the engine waits after the final character
// before firing the completion callback, so the last character's state can
// render first.
const CompletionDelay = 250 * time.Millisecond

// Speaker reads the target string aloud. Implementations run independently
// of the typing state machine.
type Speaker interface {
	Speak(text string)
	Stop()
}

type noopSpeaker struct{}

func (noopSpeaker) Speak(string) {}
func (noopSpeaker) Stop()        {}

// Engine tracks keystroke-by-keystroke progress against one card. Input is
// a flat append-only string compared positionally against the target; the
// only way to fix a wrong character is Reset, which clears the whole
// attempt.
//
// The engine is not safe for concurrent use. Keystrokes arrive from a
// single input loop.
type Engine struct {
	front  string
	back   string
	input  []rune
	target []rune

	flipped   bool
	startTime time.Time
	speaking  bool

	onComplete func(CardStat)
	speaker    Speaker

	now   func() time.Time
	after func(time.Duration, func())
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTimer replaces the completion-delay timer, for tests.
func WithTimer(after func(time.Duration, func())) Option {
	return func(e *Engine) { e.after = after }
}

// WithSpeaker sets the text-to-speech backend.
func WithSpeaker(s Speaker) Option {
	return func(e *Engine) { e.speaker = s }
}

// NewEngine creates an engine for one card. The card starts face-up:
// keystrokes are ignored until Flip is called. onComplete fires once the
// input reaches the target length, after CompletionDelay.
func NewEngine(front, back string, onComplete func(CardStat), opts ...Option) *Engine {
	e := &Engine{
		front:      front,
		back:       back,
		target:     []rune(back),
		onComplete: onComplete,
		speaker:    noopSpeaker{},
		now:        time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Front returns the prompt side of the card.
func (e *Engine) Front() string { return e.front }

// Back returns the target string to be typed.
func (e *Engine) Back() string { return e.back }

// Flipped reports whether the typing side is visible.
func (e *Engine) Flipped() bool { return e.flipped }

// Flip toggles the card between its front-showing and back-showing sides.
func (e *Engine) Flip() {
	e.flipped = !e.flipped
}

// Type processes one input character. Keystrokes are ignored while the
// card is face-up or after the attempt is already complete. The metrics
// clock starts on the first accepted character.
func (e *Engine) Type(r rune) {
	if !e.flipped || e.Complete() {
		return
	}
	if len(e.input) == 0 {
		e.startTime = e.now()
	}
	e.input = append(e.input, r)

	if e.Complete() {
		stat := e.stat()
		e.after(CompletionDelay, func() {
			if e.onComplete != nil {
				e.onComplete(stat)
			}
		})
	}
}

// Complete reports whether the input has reached the target length.
func (e *Engine) Complete() bool {
	return len(e.input) >= len(e.target) && len(e.target) > 0
}

// States recomputes the classification of every target character from the
// full input string.
func (e *Engine) States() []CharState {
	states := make([]CharState, len(e.target))
	for i := range e.target {
		switch {
		case i >= len(e.input):
			states[i] = StateRemaining
		case e.input[i] == e.target[i]:
			states[i] = StateCorrect
		default:
			states[i] = StateError
		}
	}
	return states
}

// Input returns what has been typed so far.
func (e *Engine) Input() string { return string(e.input) }

// Reset clears the attempt: empty input, no timing origin, every
// character back to remaining. It is a no-op while the card is face-up.
func (e *Engine) Reset() {
	if !e.flipped {
		return
	}
	e.input = nil
	e.startTime = time.Time{}
}

// Speak toggles text-to-speech of the target string.
func (e *Engine) Speak() {
	if e.speaking {
		e.speaker.Stop()
		e.speaking = false
		return
	}
	e.speaker.Speak(e.back)
	e.speaking = true
}

func (e *Engine) stat() CardStat {
	elapsed := e.now().Sub(e.startTime)
	minutes := elapsed.Minutes()

	correct := 0
	for _, s := range e.States() {
		if s == StateCorrect {
			correct++
		}
	}

	words := float64(len(e.target)) / 5
	wpm := 0
	if minutes > 0 {
		wpm = int(math.Round(words / minutes))
	}
	accuracy := int(math.Round(100 * float64(correct) / float64(len(e.target))))

	return CardStat{WPM: wpm, Accuracy: accuracy}
}
