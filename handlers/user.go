package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/krammy-app/krammy-api/auth"
	"github.com/krammy-app/krammy-api/config"
	"github.com/krammy-app/krammy-api/models"
	"github.com/krammy-app/krammy-api/utils"
)

// CurrentUserResponse mirrors the auth service's getCurrentUser shape.
type CurrentUserResponse struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// GET /api/me
//
// Returns the signed-in user, or null for anonymous callers.
func (db *DBHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, ok := utils.CurrentUser(r)
	if !ok {
		auth0ID, found := utils.GetAuth0ID(r)
		if !found {
			json.NewEncoder(w).Encode(nil)
			return
		}
		u, err := db.findUserByAuth0ID(auth0ID)
		if err != nil {
			json.NewEncoder(w).Encode(nil)
			return
		}
		user = u
	}

	json.NewEncoder(w).Encode(CurrentUserResponse{
		ID:        user.Auth0ID,
		Nickname:  user.Nickname,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	})
}

// POST /api/session
//
// Issues the session cookie after an Auth0 login so browser navigation
// requests carry credentials without the bearer token.
func (db *DBHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	user, ok := db.requireUser(w, r)
	if !ok {
		return
	}

	tokenString, err := auth.CreateToken(user.Nickname)
	if err != nil {
		log.Println("SignIn: Token generation error:", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    tokenString,
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CurrentUserResponse{
		ID:        user.Auth0ID,
		Nickname:  user.Nickname,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	})
}

// POST /api/signout
//
// Clears the session cookie. Auth0 token revocation happens on the client.
func (db *DBHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	log.Println("SignOut: cleared session cookie")
	w.WriteHeader(http.StatusNoContent)
}

func (db *DBHandler) findUserByAuth0ID(auth0ID string) (*models.User, error) {
	var u models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
