package handlers

import (
	"encoding/json"
	"log"
	"math"
	"net/http"

	"github.com/krammy-app/krammy-api/models"
)

// POST /api/decks/{deckID}/metrics
func (db *DBHandler) CreateDeckMetric(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if !db.canView(user, deck) {
		http.Error(w, "Deck not found", http.StatusNotFound)
		return
	}

	type MetricRequest struct {
		CardID   string `json:"cardId" validate:"required"`
		WPM      int    `json:"wpm" validate:"min=0"`
		Accuracy int    `json:"accuracy" validate:"min=0,max=100"`
	}
	var req MetricRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := db.Validate.Struct(req); err != nil {
		http.Error(w, "Invalid metric values", http.StatusBadRequest)
		return
	}

	card, ok := db.loadDeckCard(w, deck.ID, req.CardID)
	if !ok {
		return
	}

	metric := models.DeckMetric{
		UserID:   user.ID,
		DeckID:   deck.ID,
		CardID:   card.ID,
		WPM:      req.WPM,
		Accuracy: req.Accuracy,
	}
	if err := db.Create(&metric).Error; err != nil {
		log.Printf("CreateDeckMetric: Failed to record metric for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to record metric", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(metric)
}

// GET /api/decks/{deckID}/metrics
func (db *DBHandler) GetDeckMetrics(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deckID")
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}
	deck, ok := db.loadDeck(w, deckID)
	if !ok {
		return
	}
	if !db.canView(user, deck) {
		http.Error(w, "Deck not found", http.StatusNotFound)
		return
	}

	var metrics []models.DeckMetric
	if err := db.Where("deck_id = ? AND user_id = ?", deck.ID, user.ID).
		Order("played_at asc").Find(&metrics).Error; err != nil {
		log.Printf("GetDeckMetrics: Failed to fetch metrics for deckID=%s: %v", deckID, err)
		http.Error(w, "Failed to fetch metrics", http.StatusInternalServerError)
		return
	}

	// Averages over the latest metric per card; cards never practiced
	// contribute nothing.
	latest := map[uint]models.DeckMetric{}
	for _, m := range metrics {
		latest[m.CardID] = m
	}
	var wpm, acc int
	for _, m := range latest {
		wpm += m.WPM
		acc += m.Accuracy
	}

	type MetricsResponse struct {
		Metrics     []models.DeckMetric `json:"metrics"`
		AvgWPM      int                 `json:"avgWpm"`
		AvgAccuracy int                 `json:"avgAccuracy"`
	}
	// Rounded, matching how session aggregates are computed client-side.
	response := MetricsResponse{Metrics: metrics}
	if len(latest) > 0 {
		n := float64(len(latest))
		response.AvgWPM = int(math.Round(float64(wpm) / n))
		response.AvgAccuracy = int(math.Round(float64(acc) / n))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
