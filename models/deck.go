package models

import (
	"time"

	"gorm.io/gorm"
)

// Deck represents a named, ordered collection of flashcards
type Deck struct {
	gorm.Model
	Name     string `gorm:"not null;size:100"`
	UserID   uint   `gorm:"not null"`
	PublicID string `gorm:"size:100;uniqueIndex"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`

	IsPublic    bool       `gorm:"default:false"`
	LastStudied *time.Time `gorm:"default:null"`
}

// CardToDeck links a flashcard into a deck at an integer position.
// Positions are unique per deck and determine the study order.
type CardToDeck struct {
	gorm.Model
	CardID  uint `gorm:"not null;index"`
	DeckID  uint `gorm:"not null;index"`
	OwnerID uint `gorm:"not null"`

	Position int `gorm:"not null"`

	Card Flashcard `gorm:"foreignKey:CardID" json:"-"`
	Deck Deck      `gorm:"foreignKey:DeckID" json:"-"`
}

func (CardToDeck) TableName() string { return "cards_to_decks" }
