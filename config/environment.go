package config

import "os"

type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool
	PDFServiceURL string
}

var Env Environment

func init() {
	// Get domain from environment variable
	domain := os.Getenv("COOKIE_DOMAIN")

	// If no domain is set, we're in development
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	pdfURL := os.Getenv("PDF_SERVICE_URL")
	if pdfURL == "" {
		pdfURL = "http://localhost:5001"
	}

	Env = Environment{
		IsDevelopment: isDev,
		Domain:        domain,
		CookieSecure:  !isDev,
		PDFServiceURL: pdfURL,
	}
}
