package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/models"
)

// Move removes the element at src and reinserts it at dst, the standard
// drag-and-drop array move. Out-of-range indices return the input
// unchanged.
func Move[T any](items []T, src, dst int) []T {
	if src < 0 || src >= len(items) || dst < 0 || dst >= len(items) {
		return items
	}
	result := make([]T, 0, len(items))
	result = append(result, items[:src]...)
	result = append(result, items[src+1:]...)
	result = append(result[:dst], append([]T{items[src]}, result[dst:]...)...)
	return result
}

// PUT /api/decks/{deckID}/positions
//
// Persists a full new card ordering in one transaction scoped to the deck
// and its owner. The request carries every card's public ID in the desired
// order; positions are rewritten 0..n-1.
func (db *DBHandler) UpdateCardPositions(w http.ResponseWriter, r *http.Request) {
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

	type ReorderRequest struct {
		CardIDs []string `json:"cardIds" validate:"required,min=1"`
	}
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Card IDs are required", http.StatusBadRequest)
		return
	}

	var joins []models.CardToDeck
	if err := db.Preload("Card").Where("deck_id = ?", deck.ID).Find(&joins).Error; err != nil {
		log.Printf("UpdateCardPositions: Failed to fetch join rows for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to fetch deck cards", http.StatusInternalServerError)
		return
	}
	byPublicID := make(map[string]*models.CardToDeck, len(joins))
	for i := range joins {
		byPublicID[joins[i].Card.PublicID] = &joins[i]
	}

	// The submitted IDs must be an exact permutation of the deck's cards.
	// A duplicate would leave two cards sharing one position.
	seen := make(map[string]bool, len(req.CardIDs))
	for _, cardID := range req.CardIDs {
		if _, found := byPublicID[cardID]; !found || seen[cardID] {
			http.Error(w, "Ordering must include every card in the deck exactly once", http.StatusBadRequest)
			return
		}
		seen[cardID] = true
	}
	if len(joins) != len(req.CardIDs) {
		http.Error(w, "Ordering must include every card in the deck exactly once", http.StatusBadRequest)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for position, cardID := range req.CardIDs {
			join := byPublicID[cardID]
			if err := tx.Model(&models.CardToDeck{}).
				Where("id = ? AND owner_id = ?", join.ID, deck.UserID).
				Update("position", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("UpdateCardPositions: Failed to reorder deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to update card positions", http.StatusInternalServerError)
		return
	}

	// Return the persisted order so clients can reconcile their
	// optimistic state against what was actually saved.
	cards, err := db.orderedCards(deck.ID)
	if err != nil {
		log.Printf("UpdateCardPositions: Failed to fetch reordered cards for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to fetch cards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}
