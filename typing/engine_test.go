package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock advances a fixed amount per reading so elapsed time is
// deterministic.
type testClock struct {
	now  time.Time
	step time.Duration
}

func (c *testClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// immediateTimer fires completion callbacks synchronously.
func immediateTimer(_ time.Duration, f func()) { f() }

func typeString(e *Engine, s string) {
	for _, r := range s {
		e.Type(r)
	}
}

func TestEngineIgnoresInputWhileFaceUp(t *testing.T) {
	e := NewEngine("prompt", "cat", nil, WithTimer(immediateTimer))

	typeString(e, "ca")
	assert.Equal(t, "", e.Input())
	assert.Equal(t, []CharState{StateRemaining, StateRemaining, StateRemaining}, e.States())

	e.Flip()
	typeString(e, "ca")
	assert.Equal(t, "ca", e.Input())
}

func TestEngineAllCorrect(t *testing.T) {
	var got *CardStat
	clock := &testClock{now: time.Unix(0, 0), step: 12 * time.Second}
	e := NewEngine("prompt", "hello", func(s CardStat) { got = &s },
		WithClock(clock.Now), WithTimer(immediateTimer))

	e.Flip()
	typeString(e, "hello")

	for _, s := range e.States() {
		assert.Equal(t, StateCorrect, s)
	}
	require.NotNil(t, got)
	assert.Equal(t, 100, got.Accuracy)
}

func TestEngineSingleError(t *testing.T) {
	e := NewEngine("prompt", "hello", nil, WithTimer(immediateTimer))
	e.Flip()
	typeString(e, "hexl")

	assert.Equal(t, []CharState{
		StateCorrect, StateCorrect, StateError, StateCorrect, StateRemaining,
	}, e.States())
}

func TestEngineCatScenario(t *testing.T) {
	// Target "cat", typed "c","b","t": states [correct, error, correct],
	// completion fires, accuracy = round(100 * 2/3) = 67.
	var got *CardStat
	clock := &testClock{now: time.Unix(0, 0), step: time.Second}
	e := NewEngine("animal", "cat", func(s CardStat) { got = &s },
		WithClock(clock.Now), WithTimer(immediateTimer))

	e.Flip()
	typeString(e, "cbt")

	assert.Equal(t, []CharState{StateCorrect, StateError, StateCorrect}, e.States())
	require.NotNil(t, got)
	assert.Equal(t, 67, got.Accuracy)
}

func TestEngineWPM(t *testing.T) {
	// 10 characters = 2 words, 30 seconds elapsed -> 4 WPM. The clock is
	// read once at the first keystroke and once at completion.
	var got *CardStat
	clock := &testClock{now: time.Unix(0, 0), step: 30 * time.Second}
	e := NewEngine("prompt", "aaaaaaaaaa", func(s CardStat) { got = &s },
		WithClock(clock.Now), WithTimer(immediateTimer))

	e.Flip()
	typeString(e, "aaaaaaaaaa")

	require.NotNil(t, got)
	assert.Equal(t, 4, got.WPM)
}

func TestEngineCompletionDelay(t *testing.T) {
	var delay time.Duration
	fired := false
	e := NewEngine("prompt", "ab", func(CardStat) { fired = true },
		WithTimer(func(d time.Duration, f func()) {
			delay = d
			f()
		}))

	e.Flip()
	typeString(e, "ab")

	assert.True(t, fired)
	assert.Equal(t, CompletionDelay, delay)
}

func TestEngineReset(t *testing.T) {
	e := NewEngine("prompt", "cat", nil, WithTimer(immediateTimer))
	e.Flip()
	typeString(e, "cb")

	e.Reset()
	assert.Equal(t, "", e.Input())
	assert.True(t, e.startTime.IsZero())
	assert.Equal(t, []CharState{StateRemaining, StateRemaining, StateRemaining}, e.States())
}

func TestEngineResetNoopFaceUp(t *testing.T) {
	e := NewEngine("prompt", "cat", nil, WithTimer(immediateTimer))
	e.Flip()
	typeString(e, "ca")
	e.Flip() // back to face-up

	e.Reset()
	assert.Equal(t, "ca", e.Input())
}

type recordingSpeaker struct {
	spoke   []string
	stopped int
}

func (r *recordingSpeaker) Speak(text string) { r.spoke = append(r.spoke, text) }
func (r *recordingSpeaker) Stop()             { r.stopped++ }

func TestEngineSpeakToggle(t *testing.T) {
	sp := &recordingSpeaker{}
	e := NewEngine("prompt", "cat", nil, WithSpeaker(sp))

	e.Speak()
	assert.Equal(t, []string{"cat"}, sp.spoke)

	e.Speak()
	assert.Equal(t, 1, sp.stopped)
}

func TestCharStateToken(t *testing.T) {
	assert.Equal(t, "correct", StateCorrect.Token())
	assert.Equal(t, "error", StateError.Token())
	assert.Equal(t, "pending", StatePending.Token())
	assert.Equal(t, "remaining", StateRemaining.Token())
}
