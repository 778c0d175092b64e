package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/models"
	"interviewai/interview/internal/utils"
)

// CandidateFinder locates the interview a candidate credential belongs to.
type CandidateFinder interface {
	FindByCandidate(ctx context.Context, email, sessionCode string) (*models.Interview, error)
}

// SessionHandler exchanges an email + session code pair for a signed
// candidate credential.
type SessionHandler struct {
	interviews CandidateFinder
	jwtSecret  string
}

func NewSessionHandler(interviews CandidateFinder, jwtSecret string) *SessionHandler {
	return &SessionHandler{interviews: interviews, jwtSecret: jwtSecret}
}

type candidateSignInRequest struct {
	Email       string `json:"email"`
	SessionCode string `json:"sessionCode"`
}

type candidateSignInResponse struct {
	Token       string `json:"token"`
	InterviewID string `json:"interviewId"`
}

// candidate credentials outlive a single sitting but not the hiring round
const candidateTokenTTL = 7 * 24 * time.Hour

func (h *SessionHandler) CandidateSignInHandler(w http.ResponseWriter, r *http.Request) {
	var req candidateSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	// codes are issued uppercase; be forgiving about what candidates type
	code := strings.ToUpper(strings.TrimSpace(req.SessionCode))
	if email == "" || code == "" {
		utils.JSONError(w, http.StatusBadRequest, "missing_fields", "email and sessionCode are required")
		return
	}

	interview, err := h.interviews.FindByCandidate(r.Context(), email, code)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "invalid_session", "Invalid email or session code")
		return
	}
	if _, ok := access.MatchRoster(interview, email, code); !ok {
		utils.JSONError(w, http.StatusUnauthorized, "invalid_session", "Invalid email or session code")
		return
	}

	session := models.CandidateSession{
		Email:       email,
		SessionCode: code,
		InterviewID: interview.ID,
	}
	signed, err := utils.SignCandidateToken(session, h.jwtSecret, candidateTokenTTL)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to sign credential")
		return
	}
	utils.JSON(w, http.StatusOK, candidateSignInResponse{Token: signed, InterviewID: interview.ID})
}
