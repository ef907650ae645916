// Package extract pulls plain text out of uploaded notes. Text files are
// read directly; PDFs are forwarded to the local extraction service.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Result is the shape both extraction endpoints return.
type Result struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// FromText is the plain-text passthrough.
func FromText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("extract: reading upload: %w", err)
	}
	return string(data), nil
}

// PDFClient talks to the PDF-to-text service running on its fixed port.
type PDFClient struct {
	baseURL string
	client  *http.Client
}

func NewPDFClient(baseURL string) *PDFClient {
	return &PDFClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// FromPDF uploads the PDF to the extraction service and returns its text.
// Service failures fail fast; there is no retry.
func (p *PDFClient) FromPDF(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("extract: building upload: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", fmt.Errorf("extract: copying pdf: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("extract: finalizing upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/extract", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract: pdf service unreachable: %w", err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("extract: invalid response from pdf service: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("extract: pdf service: %s", result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extract: pdf service returned %d", resp.StatusCode)
	}
	return result.Text, nil
}
