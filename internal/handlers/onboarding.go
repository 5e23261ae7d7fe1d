package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"crewbase-backend/internal/middleware"
	"crewbase-backend/internal/onboarding"
	"crewbase-backend/internal/slack"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OnboardingHandler struct {
	orch     *onboarding.Orchestrator
	notifier slack.Notifier
}

func NewOnboardingHandler(orch *onboarding.Orchestrator, notifier slack.Notifier) *OnboardingHandler {
	return &OnboardingHandler{
		orch:     orch,
		notifier: notifier,
	}
}

// --- Request types ---

type SubmitOrganizationRequest struct {
	Name         string `json:"name"`
	LogoData     string `json:"logo_data,omitempty"`
	LogoFilename string `json:"logo_filename,omitempty"`
}

type SubmitProfileRequest struct {
	FullName       string `json:"full_name"`
	JobTitle       string `json:"job_title,omitempty"`
	AvatarData     string `json:"avatar_data,omitempty"`
	AvatarFilename string `json:"avatar_filename,omitempty"`
}

type SubmitInvitesRequest struct {
	Emails   []string `json:"emails"`
	AutoJoin bool     `json:"auto_join"`
}

// --- GET /onboarding ---

func (h *OnboardingHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	state, err := h.orch.Enter(r.Context(), id, paramsFromRequest(r))
	if err != nil {
		writeStepError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_step":    state.CurrentStep,
		"completed_steps": completedOrEmpty(state.CompletedSteps),
		"invitation":      state.Invitation.IsInvitation,
	})
}

// --- POST /onboarding/organization ---

func (h *OnboardingHandler) SubmitOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	logo, ok := decodeAsset(w, req.LogoData, "logo_data")
	if !ok {
		return
	}

	params := paramsFromRequest(r)
	state, err := h.orch.Enter(r.Context(), id, params)
	if err != nil {
		writeStepError(w, err)
		return
	}

	result, err := h.orch.SubmitOrganization(r.Context(), id, state.Invitation, onboarding.OrganizationInput{
		Name:         req.Name,
		Logo:         logo,
		LogoFilename: req.LogoFilename,
	})
	if err != nil {
		writeStepError(w, err)
		return
	}

	if result.Created {
		// Fire ops notification in a background goroutine (non-blocking)
		go func() {
			message := formatOrgCreatedMessage(result.Organization.Name, result.Organization.Domain, id.Email)
			if err := h.notifier.Publish(context.Background(), message); err != nil {
				log.Printf("Error publishing to Slack: %v", err)
			}
		}()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "organization saved",
		"current_step":    result.CurrentStep,
		"completed_steps": completedOrEmpty(result.CompletedSteps),
		"organization":    result.Organization,
	})
}

// --- POST /onboarding/profile ---

func (h *OnboardingHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	avatar, ok := decodeAsset(w, req.AvatarData, "avatar_data")
	if !ok {
		return
	}

	params := paramsFromRequest(r)
	state, err := h.orch.Enter(r.Context(), id, params)
	if err != nil {
		writeStepError(w, err)
		return
	}

	result, err := h.orch.SubmitProfile(r.Context(), id, state.Invitation, params, onboarding.ProfileInput{
		FullName:       req.FullName,
		JobTitle:       req.JobTitle,
		Avatar:         avatar,
		AvatarFilename: req.AvatarFilename,
	})
	if err != nil {
		writeStepError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "profile saved",
		"current_step":    result.CurrentStep,
		"completed_steps": completedOrEmpty(result.CompletedSteps),
		"profile":         result.Profile,
	})
}

// --- POST /onboarding/invites ---

func (h *OnboardingHandler) SubmitInvites(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitInvitesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params := paramsFromRequest(r)
	state, err := h.orch.Enter(r.Context(), id, params)
	if err != nil {
		writeStepError(w, err)
		return
	}

	result, err := h.orch.SubmitInvites(r.Context(), id, state.Invitation, params, onboarding.InviteInput{
		Emails:   req.Emails,
		AutoJoin: req.AutoJoin,
	})
	if err != nil {
		writeStepError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "onboarding completed",
		"current_step":    result.CurrentStep,
		"completed_steps": completedOrEmpty(result.CompletedSteps),
		"invited":         result.Invited,
		"failed":          result.Failed,
	})
}

// --- Helpers ---

func identityFromRequest(w http.ResponseWriter, r *http.Request) (onboarding.Identity, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	email := middleware.GetUserEmail(r.Context())
	if userIDHex == "" || email == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return onboarding.Identity{}, false
	}

	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return onboarding.Identity{}, false
	}

	return onboarding.Identity{ID: userID, Email: email}, true
}

func paramsFromRequest(r *http.Request) onboarding.Params {
	q := r.URL.Query()
	return onboarding.Params{
		Invitation:      q.Get("invitation") == "true",
		InvitationOrgID: q.Get("organization"),
		OrgID:           q.Get("org"),
		Token:           q.Get("token"),
	}
}

func decodeAsset(w http.ResponseWriter, data, field string) ([]byte, bool) {
	if data == "" {
		return nil, true
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": field + " must be base64 encoded"})
		return nil, false
	}
	return decoded, true
}

func completedOrEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}

func writeStepError(w http.ResponseWriter, err error) {
	var validationErr *onboarding.ValidationError
	var domainErr *onboarding.DomainExtractionError
	var missingOrgErr *onboarding.MissingOrganizationError
	var integrityErr *onboarding.IntegrityError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &domainErr), errors.As(err, &missingOrgErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &integrityErr):
		log.Printf("Integrity error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "the step could not be completed, please try again"})
	default:
		log.Printf("Onboarding error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func formatOrgCreatedMessage(name, domain, ownerEmail string) string {
	return "🏢 *New Organization Created*\n" +
		"Name: " + name + "\n" +
		"Domain: `" + domain + "`\n" +
		"Owner: " + ownerEmail
}
