package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/llm"
	"github.com/krammy-app/krammy-api/models"
	"github.com/krammy-app/krammy-api/parser"
)

// ProcessResponse is the payload for POST /api/process.
type ProcessResponse struct {
	Success      bool   `json:"success"`
	ResponseText string `json:"responseText,omitempty"`
	QuizID       string `json:"quizId,omitempty"`
	Message      string `json:"message,omitempty"`
}

// POST /api/process
//
// Runs the generation pipeline: notes -> LLM -> parser -> persisted deck.
func (db *DBHandler) ProcessNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	type ProcessRequest struct {
		Content     string `json:"content" validate:"required"`
		DetailLevel int    `json:"detailLevel" validate:"required,min=1,max=3"`
		DeckName    string `json:"deckName"`
	}
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Content and a detail level between 1 and 3 are required", http.StatusBadRequest)
		return
	}
	if req.DeckName == "" {
		req.DeckName = "Generated deck"
	}

	blob, err := db.Generator.Generate(r.Context(), req.Content, req.DetailLevel)
	if err != nil {
		log.Printf("ProcessNotes: Generation failed for userID=%d: %v", user.ID, err)
		status := http.StatusBadGateway
		if errors.Is(err, llm.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		http.Error(w, "Flashcard generation failed, please try again", status)
		return
	}

	cards := parser.Parse(blob)
	if len(cards) == 0 {
		// Not fatal: the model produced nothing usable.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ProcessResponse{
			Success: false,
			Message: "No flashcards could be generated from the provided notes",
		})
		return
	}

	deck, err := db.createDeckWithCards(user, req.DeckName, cards)
	if err != nil {
		log.Printf("ProcessNotes: Failed to persist generated deck for userID=%d: %v", user.ID, err)
		http.Error(w, "Failed to save generated flashcards", http.StatusInternalServerError)
		return
	}

	log.Printf("ProcessNotes: Created deck %s with %d cards for userID=%d", deck.PublicID, len(cards), user.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ProcessResponse{
		Success:      true,
		ResponseText: blob,
		QuizID:       deck.PublicID,
	})
}

// createDeckWithCards persists a deck and its parsed cards in one
// transaction, entry order becoming deck position order.
func (db *DBHandler) createDeckWithCards(user *models.User, name string, cards []parser.Card) (*models.Deck, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	deck := models.Deck{
		Name:     name,
		UserID:   user.ID,
		PublicID: publicID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&deck).Error; err != nil {
			return err
		}
		for position, parsed := range cards {
			cardID, err := gonanoid.New()
			if err != nil {
				return err
			}
			card := models.Flashcard{
				Front:    parsed.Front,
				Back:     parsed.Back,
				PublicID: cardID,
				UserID:   user.ID,
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.CardToDeck{
				CardID:   card.ID,
				DeckID:   deck.ID,
				OwnerID:  user.ID,
				Position: position,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deck, nil
}
