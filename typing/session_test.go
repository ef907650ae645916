package typing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krammy-app/krammy-api/parser"
)

func testDeck() []parser.Card {
	return []parser.Card{
		{Front: "A", Back: "alpha"},
		{Front: "B", Back: "beta"},
		{Front: "C", Back: "gamma"},
	}
}

func TestSessionPersistRestore(t *testing.T) {
	store := NewMemoryStore()

	s := NewSession("deck1", testDeck(), store)
	s.Record(CardStat{WPM: 40, Accuracy: 90})
	s.Next()

	// A fresh session over the same store resumes at the same card with
	// the same recorded stats.
	restored := NewSession("deck1", testDeck(), store)
	assert.Equal(t, 1, restored.Index())
	assert.Equal(t, s.Stats(), restored.Stats())
}

func TestSessionRestoreClampsIndex(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(indexKey("deck1"), "99"))

	s := NewSession("deck1", testDeck(), store)
	assert.Equal(t, 0, s.Index())
}

func TestSessionRestoreIgnoresGarbage(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(indexKey("deck1"), "not-a-number"))
	require.NoError(t, store.Set(statsKey("deck1"), "{broken"))

	s := NewSession("deck1", testDeck(), store)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, SessionStats{}, s.Stats())
}

func TestSessionNextCompletesAtEnd(t *testing.T) {
	s := NewSession("deck1", testDeck(), NewMemoryStore())

	s.Next()
	s.Next()
	assert.Equal(t, 2, s.Index())
	assert.False(t, s.Completed())

	s.Next()
	assert.True(t, s.Completed())
	// Terminal: further navigation does nothing.
	s.Next()
	s.Previous()
	assert.Equal(t, 2, s.Index())
	assert.True(t, s.Completed())
}

func TestSessionPreviousWraps(t *testing.T) {
	s := NewSession("deck1", testDeck(), NewMemoryStore())

	s.Previous()
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, DirPrevious, s.Direction())

	s.Previous()
	assert.Equal(t, 1, s.Index())
}

func TestSessionRestart(t *testing.T) {
	store := NewMemoryStore()
	s := NewSession("deck1", testDeck(), store)

	s.Record(CardStat{WPM: 50, Accuracy: 80})
	s.Next()
	s.Next()
	s.Next()
	require.True(t, s.Completed())

	s.Restart()
	assert.False(t, s.Completed())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, SessionStats{}, s.Stats())

	_, ok := store.Get(statsKey("deck1"))
	assert.False(t, ok)
}

func TestSessionAggregateStats(t *testing.T) {
	s := NewSession("deck1", testDeck(), NewMemoryStore())

	s.Record(CardStat{WPM: 40, Accuracy: 90})
	s.Next()
	s.Record(CardStat{WPM: 60, Accuracy: 80})
	// Third card never completed: contributes nothing, not zero.

	stats := s.Stats()
	assert.Equal(t, 50, stats.AvgWPM)
	assert.Equal(t, 85, stats.AvgAccuracy)
	assert.Equal(t, 2, stats.CardsStudied)
}

func TestSessionEmptyDeck(t *testing.T) {
	s := NewSession("empty", nil, NewMemoryStore())

	// Navigation and recording are no-ops; nothing panics.
	s.Next()
	s.Previous()
	s.Record(CardStat{WPM: 40, Accuracy: 90})

	assert.Equal(t, parser.Card{}, s.Current())
	assert.Equal(t, 0, s.Index())
	assert.False(t, s.Completed())
	assert.Equal(t, SessionStats{}, s.Stats())
}

func TestSessionsKeyedByDeck(t *testing.T) {
	store := NewMemoryStore()

	a := NewSession("deckA", testDeck(), store)
	a.Next()

	b := NewSession("deckB", testDeck(), store)
	assert.Equal(t, 0, b.Index())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ThemeKey, "dark"))
	require.NoError(t, store.Set(indexKey("deck1"), "2"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	v, ok := reopened.Get(ThemeKey)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, reopened.Delete(ThemeKey))
	third, err := NewFileStore(path)
	require.NoError(t, err)
	_, ok = third.Get(ThemeKey)
	assert.False(t, ok)
}
