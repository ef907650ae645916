package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/models"
)

// POST /api/decks/{deckID}/cards
func (db *DBHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if !db.canEdit(user, deck) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	type CardRequest struct {
		Front string `json:"front" validate:"required"`
		Back  string `json:"back" validate:"required"`
	}
	var req CardRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Front and back are required", http.StatusBadRequest)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		http.Error(w, "Failed to generate ID", http.StatusInternalServerError)
		return
	}

	card := models.Flashcard{
		Front:    req.Front,
		Back:     req.Back,
		PublicID: publicID,
		UserID:   user.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		// New cards go at the end of the deck
		var maxPos struct{ Max int }
		if err := tx.Model(&models.CardToDeck{}).
			Select("COALESCE(MAX(position), -1) as max").
			Where("deck_id = ?", deck.ID).
			Scan(&maxPos).Error; err != nil {
			return err
		}
		return tx.Create(&models.CardToDeck{
			CardID:   card.ID,
			DeckID:   deck.ID,
			OwnerID:  deck.UserID,
			Position: maxPos.Max + 1,
		}).Error
	})
	if err != nil {
		log.Printf("CreateFlashcard: Failed to create card for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to create flashcard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
}

// PUT /api/decks/{deckID}/cards/{cardID}
func (db *DBHandler) UpdateFlashcardByID(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	cardID := r.PathValue("cardID")

	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if !db.canEdit(user, deck) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	card, ok := db.loadDeckCard(w, deck.ID, cardID)
	if !ok {
		return
	}

	type CardUpdateRequest struct {
		Front *string `json:"front,omitempty"`
		Back  *string `json:"back,omitempty"`
	}
	var req CardUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Front != nil {
		card.Front = *req.Front
	}
	if req.Back != nil {
		card.Back = *req.Back
	}

	if err := db.Save(card).Error; err != nil {
		log.Printf("UpdateFlashcardByID: Failed to update cardID=%s: %v", cardID, err)
		http.Error(w, "Failed to update flashcard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(card)
}

// DELETE /api/decks/{deckID}/cards/{cardID}
func (db *DBHandler) DeleteFlashcardByID(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	cardID := r.PathValue("cardID")

	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if !db.canEdit(user, deck) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	card, ok := db.loadDeckCard(w, deck.ID, cardID)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ? AND card_id = ?", deck.ID, card.ID).
			Delete(&models.CardToDeck{}).Error; err != nil {
			return err
		}
		return tx.Delete(card).Error
	})
	if err != nil {
		log.Printf("DeleteFlashcardByID: Failed to delete cardID=%s: %v", cardID, err)
		http.Error(w, "Failed to delete flashcard", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadDeckCard fetches a card by public ID and checks it belongs to the deck.
func (db *DBHandler) loadDeckCard(w http.ResponseWriter, deckID uint, cardPublicID string) (*models.Flashcard, bool) {
	var card models.Flashcard
	if err := db.Where("public_id = ?", cardPublicID).First(&card).Error; err != nil {
		http.Error(w, "Flashcard not found", http.StatusNotFound)
		return nil, false
	}
	var join models.CardToDeck
	if err := db.Where("deck_id = ? AND card_id = ?", deckID, card.ID).First(&join).Error; err != nil {
		http.Error(w, "Flashcard not found in deck", http.StatusNotFound)
		return nil, false
	}
	return &card, true
}
