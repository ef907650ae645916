package utils

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/krammy-app/krammy-api/middleware"
	"github.com/krammy-app/krammy-api/models"
)

func GetAuth0ID(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// CurrentUser returns the user attached by SyncUserMiddleware.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user, ok
}
