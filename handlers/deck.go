package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/models"
	"github.com/krammy-app/krammy-api/utils"
)

// GET /api/decks
func (db *DBHandler) GetDecksForUser(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	var decks []models.Deck
	if err := db.Model(&models.Deck{}).
		Select("decks.*").
		Joins("LEFT JOIN shared_deck_users sdu ON sdu.deck_id = decks.id AND sdu.user_id = ? AND sdu.deleted_at IS NULL", user.ID).
		Where("decks.user_id = ? OR sdu.id IS NOT NULL", user.ID).
		Find(&decks).Error; err != nil {
		log.Printf("GetDecksForUser: Failed to fetch decks for userID=%d: %v", user.ID, err)
		http.Error(w, "Failed to fetch decks", http.StatusInternalServerError)
		return
	}

	// Card counts for all decks in one grouped query
	type deckCount struct {
		DeckID uint
		Count  int
	}
	deckIDs := make([]uint, len(decks))
	for i := range decks {
		deckIDs[i] = decks[i].ID
	}
	counts := map[uint]int{}
	if len(deckIDs) > 0 {
		var rows []deckCount
		if err := db.Model(&models.CardToDeck{}).
			Select("deck_id, count(*) as count").
			Where("deck_id IN ?", deckIDs).
			Group("deck_id").
			Scan(&rows).Error; err != nil {
			log.Printf("GetDecksForUser: Failed to count cards: %v", err)
			http.Error(w, "Failed to fetch decks", http.StatusInternalServerError)
			return
		}
		for _, row := range rows {
			counts[row.DeckID] = row.Count
		}
	}

	type DeckResponse struct {
		models.Deck
		CardCount int  `json:"cardCount"`
		IsOwner   bool `json:"isOwner"`
	}
	response := make([]DeckResponse, 0, len(decks))
	for _, deck := range decks {
		response = append(response, DeckResponse{
			Deck:      deck,
			CardCount: counts[deck.ID],
			IsOwner:   deck.UserID == user.ID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GET /api/decks/{deckID}
func (db *DBHandler) GetDeckByID(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}

	user, _ := utils.CurrentUser(r)
	if user == nil {
		if auth0ID, found := utils.GetAuth0ID(r); found {
			var u models.User
			if err := db.Where("auth0_id = ?", auth0ID).First(&u).Error; err == nil {
				user = &u
			}
		}
	}

	// Permission failures surface the same way as missing decks so the
	// client redirects to the deck list either way.
	if !db.canView(user, deck) {
		log.Printf("GetDeckByID: hiding deck %s from unauthorized caller", deckID)
		http.Error(w, "Deck not found", http.StatusNotFound)
		return
	}

	cards, err := db.orderedCards(deck.ID)
	if err != nil {
		log.Printf("GetDeckByID: Failed to fetch cards for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to fetch cards", http.StatusInternalServerError)
		return
	}

	type DeckResponse struct {
		models.Deck
		Cards   []CardWithPosition `json:"cards"`
		IsOwner bool               `json:"isOwner"`
		CanEdit bool               `json:"canEdit"`
	}
	response := DeckResponse{
		Deck:    *deck,
		Cards:   cards,
		IsOwner: user != nil && deck.UserID == user.ID,
		CanEdit: user != nil && db.canEdit(user, deck),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CardWithPosition is a card joined with its position in one deck.
type CardWithPosition struct {
	models.Flashcard
	Position int `json:"position"`
}

// orderedCards returns the deck's cards sorted by join-table position.
func (db *DBHandler) orderedCards(deckID uint) ([]CardWithPosition, error) {
	var cards []CardWithPosition
	err := db.Model(&models.Flashcard{}).
		Select("flashcards.*, cards_to_decks.position").
		Joins("JOIN cards_to_decks ON cards_to_decks.card_id = flashcards.id AND cards_to_decks.deleted_at IS NULL").
		Where("cards_to_decks.deck_id = ?", deckID).
		Order("cards_to_decks.position asc").
		Scan(&cards).Error
	return cards, err
}

// POST /api/decks
func (db *DBHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	type CreateDeckRequest struct {
		Name     string `json:"name" validate:"required,max=100"`
		IsPublic bool   `json:"isPublic"`
	}
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("CreateDeck: Invalid request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Deck name is required", http.StatusBadRequest)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Printf("CreateDeck: Failed to generate publicID: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	deck := models.Deck{
		Name:     req.Name,
		UserID:   user.ID,
		IsPublic: req.IsPublic,
		PublicID: publicID,
	}

	if err := db.Create(&deck).Error; err != nil {
		log.Printf("CreateDeck: Failed to create deck: %v", err)
		http.Error(w, "Failed to create deck", http.StatusInternalServerError)
		return
	}

	log.Printf("CreateDeck: Successfully created deck with publicID=%s for userID=%d", publicID, user.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(deck)
}

// PUT /api/decks/{deckID}
func (db *DBHandler) UpdateDeckByID(w http.ResponseWriter, r *http.Request) {
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

	type UpdateDeckRequest struct {
		Name     *string `json:"name,omitempty"`
		IsPublic *bool   `json:"isPublic,omitempty"`
	}
	var req UpdateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated := false
	if req.Name != nil && *req.Name != "" && deck.Name != *req.Name {
		deck.Name = *req.Name
		updated = true
	}
	if req.IsPublic != nil && deck.IsPublic != *req.IsPublic {
		deck.IsPublic = *req.IsPublic
		updated = true
	}

	if updated {
		if err := db.Save(deck).Error; err != nil {
			log.Printf("UpdateDeckByID: Failed to update deckID=%s: %v", deckID, err)
			http.Error(w, fmt.Sprintf("Failed to update deck with ID %s", deckID), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deck)
}

// DELETE /api/decks/{deckID}
func (db *DBHandler) DeleteDeckByID(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if deck.UserID != user.ID {
		log.Printf("DeleteDeckByID: Unauthorized delete attempt by userID=%d for deckID=%s", user.ID, deckID)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.CardToDeck{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.SharedDeck{}).Error; err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.SharedDeckUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(deck).Error
	})
	if err != nil {
		log.Printf("DeleteDeckByID: Failed to delete deckID=%s: %v", deckID, err)
		http.Error(w, fmt.Sprintf("Failed to delete deck with ID %s", deckID), http.StatusInternalServerError)
		return
	}

	log.Printf("DeleteDeckByID: Successfully deleted deckID=%s", deckID)
	w.WriteHeader(http.StatusNoContent)
}
