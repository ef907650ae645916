package models

import "gorm.io/gorm"

// Flashcard is an individual front/back card. Back is the string the
// user types during practice.
type Flashcard struct {
	gorm.Model
	PublicID string `gorm:"size:100;uniqueIndex"`
	Front    string `gorm:"not null;size:1000"`
	Back     string `gorm:"not null;size:2000"`

	UserID uint `gorm:"not null"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}
