package handlers

import (
	"log"
	"net/http"

	"crewbase-backend/internal/middleware"
	"crewbase-backend/internal/onboarding"
	"crewbase-backend/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserHandler struct {
	userRepo     *repository.UserRepo
	progressRepo *repository.ProgressRepo
}

func NewUserHandler(userRepo *repository.UserRepo, progressRepo *repository.ProgressRepo) *UserHandler {
	return &UserHandler{
		userRepo:     userRepo,
		progressRepo: progressRepo,
	}
}

// --- GET /user/status ---
// The client's router uses this to send completed users straight to the
// product home without entering onboarding.

func (h *UserHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("Error finding user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	currentStep := string(onboarding.StepOrganization)
	progress, err := h.progressRepo.Load(r.Context(), userID)
	if err != nil {
		log.Printf("Error loading progress: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if progress != nil {
		currentStep = progress.CurrentStep
	}
	if user.OnboardingCompleted {
		currentStep = string(onboarding.StepCompleted)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"onboarding_completed": user.OnboardingCompleted,
		"membership_confirmed": user.MembershipConfirmed,
		"current_step":         currentStep,
	})
}
