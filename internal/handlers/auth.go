package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"crewbase-backend/internal/mailer"
	"crewbase-backend/internal/models"
	"crewbase-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthHandler struct {
	tokenRepo *repository.LoginTokenRepo
	userRepo  *repository.UserRepo
	mailer    mailer.Mailer
	jwtSecret string
	appURL    string
}

func NewAuthHandler(tokenRepo *repository.LoginTokenRepo, userRepo *repository.UserRepo, m mailer.Mailer, jwtSecret, appURL string) *AuthHandler {
	return &AuthHandler{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		mailer:    m,
		jwtSecret: jwtSecret,
		appURL:    appURL,
	}
}

// --- Request / Response types ---

type RequestLoginRequest struct {
	Email string `json:"email"`
}

type VerifyResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// --- POST /auth/request ---

func (h *AuthHandler) RequestLogin(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	// Rate limiting: max 5 requests per email in 10 minutes
	count, err := h.tokenRepo.CountRecentByEmail(r.Context(), req.Email, 10*time.Minute)
	if err != nil {
		log.Printf("Error checking rate limit: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if count >= 5 {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many login requests, please try again later"})
		return
	}

	// Single-use token with 15-minute expiry
	loginToken := &models.LoginToken{
		Email:     req.Email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(15 * time.Minute),
		IsUsed:    false,
	}
	if err := h.tokenRepo.Create(r.Context(), loginToken); err != nil {
		log.Printf("Error creating login token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create login token"})
		return
	}

	// Email clients strip anything that isn't plain HTTPS, so the link goes
	// through our redirect endpoint rather than straight into the web app.
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	emailLink := fmt.Sprintf("%s/auth/redirect?token=%s", baseURL, loginToken.Token)

	if err := h.mailer.SendLoginLink(r.Context(), req.Email, emailLink); err != nil {
		log.Printf("Error sending email: %v", err)
		// Don't fail the request — token is created, email sending is best-effort
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "login link generated (email delivery may be delayed)",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "login link sent to your email",
	})
}

// --- GET /auth/verify ---

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	tokenValue := r.URL.Query().Get("token")
	if tokenValue == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}

	loginToken, err := h.tokenRepo.FindByToken(r.Context(), tokenValue)
	if err != nil {
		log.Printf("Error finding token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if loginToken == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}

	if loginToken.IsExpired() {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token has expired"})
		return
	}

	if loginToken.IsUsed {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token has already been used"})
		return
	}

	if err := h.tokenRepo.MarkUsed(r.Context(), tokenValue); err != nil {
		log.Printf("Error marking token as used: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	user, err := h.userRepo.FindOrCreate(r.Context(), loginToken.Email)
	if err != nil {
		log.Printf("Error finding/creating user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Session JWT with 30-day expiry
	sessionToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
		"exp":     time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := sessionToken.SignedString([]byte(h.jwtSecret))
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Token: tokenString,
		User:  user,
	})
}

// --- GET /auth/redirect ---
// Clicked from the email; hands the single-use token to the web app, which
// calls /auth/verify to exchange it for a session.

func (h *AuthHandler) RedirectToApp(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s/login?token=%s", h.appURL, token), http.StatusFound)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
