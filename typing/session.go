package typing

import (
	"encoding/json"
	"log"
	"math"
	"strconv"

	"github.com/krammy-app/krammy-api/parser"
)

// Direction records which way the last navigation moved. It only drives
// the card transition animation.
type Direction int

const (
	DirNone Direction = iota
	DirNext
	DirPrevious
)

// SessionStats aggregates results across the cards that have a recorded
// stat entry. Cards never completed contribute nothing.
type SessionStats struct {
	AvgWPM       int `json:"avgWpm"`
	AvgAccuracy  int `json:"avgAccuracy"`
	CardsStudied int `json:"cardsStudied"`
}

// Session walks an ordered deck of cards, tracking the current card and
// per-card stats. Progress is written through to the Store on every change
// so a reload resumes at the same card.
type Session struct {
	deckID string
	cards  []parser.Card
	store  Store

	current   int
	direction Direction
	stats     []*CardStat
	completed bool
}

// NewSession initializes a session for a deck, restoring any persisted
// index and stats. A restored index outside the deck bounds is discarded.
func NewSession(deckID string, cards []parser.Card, store Store) *Session {
	s := &Session{
		deckID: deckID,
		cards:  cards,
		store:  store,
		stats:  make([]*CardStat, len(cards)),
	}
	s.restore()
	return s
}

func (s *Session) restore() {
	if raw, ok := s.store.Get(indexKey(s.deckID)); ok {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(s.cards) {
			s.current = idx
		}
	}
	if raw, ok := s.store.Get(statsKey(s.deckID)); ok {
		var stored []*CardStat
		if err := json.Unmarshal([]byte(raw), &stored); err == nil && len(stored) == len(s.cards) {
			s.stats = stored
		}
	}
}

func (s *Session) persist() {
	if err := s.store.Set(indexKey(s.deckID), strconv.Itoa(s.current)); err != nil {
		log.Printf("Session: failed to persist index for deck %s: %v", s.deckID, err)
	}
	data, err := json.Marshal(s.stats)
	if err != nil {
		log.Printf("Session: failed to encode stats for deck %s: %v", s.deckID, err)
		return
	}
	if err := s.store.Set(statsKey(s.deckID), string(data)); err != nil {
		log.Printf("Session: failed to persist stats for deck %s: %v", s.deckID, err)
	}
}

// Current returns the card being studied, or a zero card for an empty
// deck.
func (s *Session) Current() parser.Card {
	if len(s.cards) == 0 {
		return parser.Card{}
	}
	return s.cards[s.current]
}

// Index returns the position of the current card.
func (s *Session) Index() int { return s.current }

// Direction returns which way the last navigation moved.
func (s *Session) Direction() Direction { return s.direction }

// Completed reports whether the session reached the end of the deck.
func (s *Session) Completed() bool { return s.completed }

// Record stores the stat for the current card and persists it.
func (s *Session) Record(stat CardStat) {
	if len(s.cards) == 0 {
		return
	}
	s.stats[s.current] = &stat
	s.persist()
}

// Next advances to the following card. From the last card the session
// becomes Completed instead of wrapping. Navigating an empty deck is a
// no-op.
func (s *Session) Next() {
	if s.completed || len(s.cards) == 0 {
		return
	}
	s.direction = DirNext
	if s.current == len(s.cards)-1 {
		s.completed = true
		return
	}
	s.current++
	s.persist()
}

// Previous moves back one card, wrapping to the last card from index 0.
func (s *Session) Previous() {
	if s.completed || len(s.cards) == 0 {
		return
	}
	s.direction = DirPrevious
	if s.current == 0 {
		s.current = len(s.cards) - 1
	} else {
		s.current--
	}
	s.persist()
}

// Restart clears all recorded stats and persisted progress and returns to
// the first card. It is the only exit from the Completed state.
func (s *Session) Restart() {
	s.current = 0
	s.direction = DirNone
	s.completed = false
	s.stats = make([]*CardStat, len(s.cards))
	if err := s.store.Delete(statsKey(s.deckID)); err != nil {
		log.Printf("Session: failed to clear stats for deck %s: %v", s.deckID, err)
	}
	if err := s.store.Set(indexKey(s.deckID), "0"); err != nil {
		log.Printf("Session: failed to reset index for deck %s: %v", s.deckID, err)
	}
}

// Stats averages WPM and accuracy over the cards with a recorded entry.
func (s *Session) Stats() SessionStats {
	var wpm, acc, n int
	for _, st := range s.stats {
		if st == nil {
			continue
		}
		wpm += st.WPM
		acc += st.Accuracy
		n++
	}
	if n == 0 {
		return SessionStats{}
	}
	return SessionStats{
		AvgWPM:       int(math.Round(float64(wpm) / float64(n))),
		AvgAccuracy:  int(math.Round(float64(acc) / float64(n))),
		CardsStudied: n,
	}
}
