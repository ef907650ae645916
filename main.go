package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/krammy-app/krammy-api/config"
	"github.com/krammy-app/krammy-api/extract"
	"github.com/krammy-app/krammy-api/handlers"
	"github.com/krammy-app/krammy-api/llm"
	"github.com/krammy-app/krammy-api/middleware"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection
	config.Connect()
	authMiddleware := middleware.EnsureValidToken()

	generator, err := llm.NewClient(context.Background(), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	pdfClient := extract.NewPDFClient(config.Env.PDFServiceURL)

	DBHandler := handlers.NewDBHandler(config.Database, generator, pdfClient)
	mux := http.NewServeMux()

	// Session
	mux.HandleFunc("GET /api/me", DBHandler.GetCurrentUser)
	mux.HandleFunc("POST /api/session", middleware.SyncUserMiddleware(DBHandler.SignIn))
	mux.HandleFunc("POST /api/signout", DBHandler.SignOut)

	// Decks
	mux.HandleFunc("GET /api/decks", middleware.SyncUserMiddleware(DBHandler.GetDecksForUser))
	mux.HandleFunc("POST /api/decks", middleware.SyncUserMiddleware(DBHandler.CreateDeck))
	mux.HandleFunc("GET /api/decks/{deckID}", DBHandler.GetDeckByID)
	mux.HandleFunc("PUT /api/decks/{deckID}", middleware.SyncUserMiddleware(DBHandler.UpdateDeckByID))
	mux.HandleFunc("DELETE /api/decks/{deckID}", middleware.SyncUserMiddleware(DBHandler.DeleteDeckByID))

	// Cards
	mux.HandleFunc("POST /api/decks/{deckID}/cards", middleware.SyncUserMiddleware(DBHandler.CreateFlashcard))
	mux.HandleFunc("PUT /api/decks/{deckID}/cards/{cardID}", middleware.SyncUserMiddleware(DBHandler.UpdateFlashcardByID))
	mux.HandleFunc("DELETE /api/decks/{deckID}/cards/{cardID}", middleware.SyncUserMiddleware(DBHandler.DeleteFlashcardByID))
	mux.HandleFunc("PUT /api/decks/{deckID}/positions", middleware.SyncUserMiddleware(DBHandler.UpdateCardPositions))

	// Sharing
	mux.HandleFunc("POST /api/decks/{deckID}/shares", middleware.SyncUserMiddleware(DBHandler.CreateShareLink))
	mux.HandleFunc("GET /api/shares/{token}", DBHandler.GetShareByToken)
	mux.HandleFunc("POST /api/shares/{token}/import", middleware.SyncUserMiddleware(DBHandler.ImportShare))

	// Metrics
	mux.HandleFunc("POST /api/decks/{deckID}/metrics", middleware.SyncUserMiddleware(DBHandler.CreateDeckMetric))
	mux.HandleFunc("GET /api/decks/{deckID}/metrics", middleware.SyncUserMiddleware(DBHandler.GetDeckMetrics))

	// Generation pipeline
	mux.HandleFunc("POST /api/process", middleware.SyncUserMiddleware(DBHandler.ProcessNotes))
	mux.HandleFunc("POST /api/upload", middleware.SyncUserMiddleware(DBHandler.UploadNotes))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://krammy.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	log.Printf("Listening on %s", serverAddr)
	http.ListenAndServe(serverAddr, corsHandler)
}
