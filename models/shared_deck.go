package models

import (
	"time"

	"gorm.io/gorm"
)

// Share access types
const (
	AccessRead  = "READ"
	AccessWrite = "WRITE"
)

// SharedDeck maps an opaque share token to a deck with an access type
// and an expiry. Expired tokens are rejected at lookup time.
type SharedDeck struct {
	gorm.Model
	ShareToken string    `gorm:"not null;size:100;uniqueIndex"`
	DeckID     uint      `gorm:"not null;index"`
	AccessType string    `gorm:"not null;size:10"`
	ExpiryDate time.Time `gorm:"not null"`

	Deck Deck `gorm:"foreignKey:DeckID" json:"-"`
}

// Expired reports whether the share token is past its expiry.
func (s *SharedDeck) Expired(now time.Time) bool {
	return now.After(s.ExpiryDate)
}

// SharedDeckUser grants a non-owner write access to a deck. Rows are
// created when a WRITE share link is imported.
type SharedDeckUser struct {
	gorm.Model
	DeckID uint `gorm:"not null;index:idx_shared_deck_user,unique"`
	UserID uint `gorm:"not null;index:idx_shared_deck_user,unique"`

	Deck Deck `gorm:"foreignKey:DeckID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
