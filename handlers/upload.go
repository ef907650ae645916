package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/krammy-app/krammy-api/extract"
)

const maxUploadBytes = 10 << 20 // 10 MB

// POST /api/upload
//
// Accepts a multipart upload. Plain text files pass through directly; PDFs
// are forwarded to the extraction service. Both paths return {"text": ...}
// or {"error": ...}.
func (db *DBHandler) UploadNotes(w http.ResponseWriter, r *http.Request) {
	if _, ok := db.requireUser(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeExtractError(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeExtractError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".txt", ".md", ".text":
		text, err := extract.FromText(file)
		if err != nil {
			log.Printf("UploadNotes: Failed to read text upload %s: %v", header.Filename, err)
			writeExtractError(w, http.StatusInternalServerError, "Could not read file")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(extract.Result{Text: text})

	case ".pdf":
		text, err := db.PDF.FromPDF(r.Context(), header.Filename, file)
		if err != nil {
			log.Printf("UploadNotes: PDF extraction failed for %s: %v", header.Filename, err)
			writeExtractError(w, http.StatusBadGateway, "PDF extraction failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(extract.Result{Text: text})

	default:
		writeExtractError(w, http.StatusUnsupportedMediaType, "Only text and PDF files are supported")
	}
}

func writeExtractError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(extract.Result{Error: message})
}
