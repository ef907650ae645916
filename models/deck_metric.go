package models

import (
	"time"

	"gorm.io/gorm"
)

// DeckMetric records one typing result for a card in a deck.
type DeckMetric struct {
	gorm.Model
	UserID   uint      `gorm:"not null;index"`
	DeckID   uint      `gorm:"not null;index"`
	CardID   uint      `gorm:"not null"`
	WPM      int       `gorm:"not null"`
	Accuracy int       `gorm:"not null"`
	PlayedAt time.Time `gorm:"autoCreateTime"`

	User User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Deck Deck      `gorm:"foreignKey:DeckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Card Flashcard `gorm:"foreignKey:CardID" json:"-"`
}
