package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/models"
)

// Share tokens are longer than regular public IDs since they are
// capability URLs.
const shareTokenLength = 32

// POST /api/decks/{deckID}/shares
func (db *DBHandler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	type ShareRequest struct {
		AccessType  string `json:"accessType" validate:"required,oneof=READ WRITE"`
		ExpiryHours int    `json:"expiryHours" validate:"omitempty,min=1,max=720"`
	}
	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Access type must be READ or WRITE", http.StatusBadRequest)
		return
	}
	if req.ExpiryHours == 0 {
		req.ExpiryHours = 168 // one week
	}

	token, err := gonanoid.New(shareTokenLength)
	if err != nil {
		http.Error(w, "Failed to generate share token", http.StatusInternalServerError)
		return
	}

	share := models.SharedDeck{
		ShareToken: token,
		DeckID:     deck.ID,
		AccessType: req.AccessType,
		ExpiryDate: time.Now().Add(time.Duration(req.ExpiryHours) * time.Hour),
	}
	if err := db.Create(&share).Error; err != nil {
		log.Printf("CreateShareLink: Failed to create share for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to create share link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(share)
}

// loadShare resolves a token, rejecting expired links.
func (db *DBHandler) loadShare(w http.ResponseWriter, token string) (*models.SharedDeck, bool) {
	var share models.SharedDeck
	if err := db.Preload("Deck").Where("share_token = ?", token).First(&share).Error; err != nil {
		http.Error(w, "Share link not found", http.StatusNotFound)
		return nil, false
	}
	if share.Expired(time.Now()) {
		http.Error(w, "Share link has expired", http.StatusGone)
		return nil, false
	}
	return &share, true
}

// GET /api/shares/{token}
func (db *DBHandler) GetShareByToken(w http.ResponseWriter, r *http.Request) {
	share, ok := db.loadShare(w, r.PathValue("token"))
	if !ok {
		return
	}

	type ShareResponse struct {
		DeckName   string `json:"deckName"`
		AccessType string `json:"accessType"`
		ExpiryDate string `json:"expiryDate"`
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ShareResponse{
		DeckName:   share.Deck.Name,
		AccessType: share.AccessType,
		ExpiryDate: share.ExpiryDate.Format(time.RFC3339),
	})
}

// POST /api/shares/{token}/import
//
// READ shares materialize a copy of the deck owned by the importer. WRITE
// shares grant the importer edit access to the original deck.
func (db *DBHandler) ImportShare(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	share, ok := db.loadShare(w, r.PathValue("token"))
	if !ok {
		return
	}

	if share.AccessType == models.AccessWrite {
		if share.Deck.UserID == user.ID {
			http.Error(w, "Cannot import your own deck", http.StatusBadRequest)
			return
		}
		grant := models.SharedDeckUser{DeckID: share.DeckID, UserID: user.ID}
		if err := db.Where("deck_id = ? AND user_id = ?", share.DeckID, user.ID).
			FirstOrCreate(&grant).Error; err != nil {
			log.Printf("ImportShare: Failed to create write grant: %v", err)
			http.Error(w, "Failed to import deck", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"deckId":     share.Deck.PublicID,
			"accessType": models.AccessWrite,
		})
		return
	}

	// READ: copy the deck and its cards to the importer.
	copied, err := db.copyDeck(&share.Deck, user)
	if err != nil {
		log.Printf("ImportShare: Failed to copy deckID=%d: %v", share.DeckID, err)
		http.Error(w, "Failed to import deck", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"deckId":     copied.PublicID,
		"accessType": models.AccessRead,
	})
}

// copyDeck clones a deck and its cards, preserving positions, under a new
// owner.
func (db *DBHandler) copyDeck(src *models.Deck, owner *models.User) (*models.Deck, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	copied := models.Deck{
		Name:     src.Name,
		UserID:   owner.ID,
		PublicID: publicID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&copied).Error; err != nil {
			return err
		}

		var joins []models.CardToDeck
		if err := tx.Preload("Card").Where("deck_id = ?", src.ID).
			Order("position asc").Find(&joins).Error; err != nil {
			return err
		}

		for _, join := range joins {
			cardID, err := gonanoid.New()
			if err != nil {
				return err
			}
			card := models.Flashcard{
				Front:    join.Card.Front,
				Back:     join.Card.Back,
				PublicID: cardID,
				UserID:   owner.ID,
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.CardToDeck{
				CardID:   card.ID,
				DeckID:   copied.ID,
				OwnerID:  owner.ID,
				Position: join.Position,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &copied, nil
}
