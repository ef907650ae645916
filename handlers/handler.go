package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/krammy-app/krammy-api/extract"
	"github.com/krammy-app/krammy-api/llm"
	"github.com/krammy-app/krammy-api/models"
	"github.com/krammy-app/krammy-api/utils"
)

// DBHandler carries the shared dependencies for all request handlers.
type DBHandler struct {
	*gorm.DB
	Generator llm.Generator
	PDF       *extract.PDFClient
	Validate  *validator.Validate
}

func NewDBHandler(db *gorm.DB, gen llm.Generator, pdf *extract.PDFClient) *DBHandler {
	return &DBHandler{
		DB:        db,
		Generator: gen,
		PDF:       pdf,
		Validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// requireUser resolves the authenticated user or writes a 401.
func (db *DBHandler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := utils.CurrentUser(r)
	if !ok {
		auth0ID, found := utils.GetAuth0ID(r)
		if !found {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return nil, false
		}
		var u models.User
		if err := db.Where("auth0_id = ?", auth0ID).First(&u).Error; err != nil {
			http.Error(w, "User not found", http.StatusNotFound)
			return nil, false
		}
		user = &u
	}
	return user, true
}

// loadDeck fetches a deck by public ID. Not-found is a 404; callers decide
// access separately.
func (db *DBHandler) loadDeck(w http.ResponseWriter, publicID string) (*models.Deck, bool) {
	var deck models.Deck
	if err := db.Preload("User").Where("public_id = ?", publicID).First(&deck).Error; err != nil {
		http.Error(w, "Deck not found", http.StatusNotFound)
		return nil, false
	}
	return &deck, true
}

// canEdit reports whether the user owns the deck or holds a write grant
// from an imported WRITE share link.
func (db *DBHandler) canEdit(user *models.User, deck *models.Deck) bool {
	if deck.UserID == user.ID {
		return true
	}
	var grant models.SharedDeckUser
	err := db.Where("deck_id = ? AND user_id = ?", deck.ID, user.ID).First(&grant).Error
	return err == nil
}

// canView reports whether the user may read the deck. Public decks are
// readable by anyone, including anonymous callers.
func (db *DBHandler) canView(user *models.User, deck *models.Deck) bool {
	if deck.IsPublic {
		return true
	}
	if user == nil {
		return false
	}
	return db.canEdit(user, deck)
}
