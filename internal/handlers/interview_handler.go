package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/invite"
	"interviewai/interview/internal/metrics"
	"interviewai/interview/internal/models"
	"interviewai/interview/internal/questiongen"
	"interviewai/interview/internal/repositories"
	"interviewai/interview/internal/roster"
	"interviewai/interview/internal/utils"
)

// InterviewStore is the slice of the record store the interview endpoints
// use. Completion never goes through here directly; the gate owns it.
type InterviewStore interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Interview, error)
	Delete(ctx context.Context, id string) error
}

// FeedbackPurger removes feedback when an interview is deleted.
type FeedbackPurger interface {
	DeleteByInterview(ctx context.Context, interviewID string) error
}

type InterviewHandler struct {
	store      InterviewStore
	feedback   FeedbackPurger
	generator  questiongen.Generator
	dispatcher *invite.Dispatcher
	resolver   *access.Resolver
	gate       *access.Gate
	jwtSecret  string
	logger     *zap.Logger
}

func NewInterviewHandler(
	store InterviewStore,
	feedback FeedbackPurger,
	generator questiongen.Generator,
	dispatcher *invite.Dispatcher,
	resolver *access.Resolver,
	gate *access.Gate,
	jwtSecret string,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		store:      store,
		feedback:   feedback,
		generator:  generator,
		dispatcher: dispatcher,
		resolver:   resolver,
		gate:       gate,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

type createInterviewRequest struct {
	Role      string `json:"role"`
	Level     string `json:"level"`
	Type      string `json:"type"`
	TechStack string `json:"techstack"`
	Amount    int    `json:"amount"`
	Emails    string `json:"emails"`
}

type createInterviewResponse struct {
	Interview models.Interview `json:"interview"`
	Invites   invite.Summary   `json:"invites"`
}

// CreateInterviewHandler implements interview issuance: generate questions,
// build the roster, persist everything in one write, then fan the invites
// out. The invite counts in the response are informational; the issuance is
// successful once the roster is persisted.
func (h *InterviewHandler) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireAccount(w, r, h.jwtSecret)
	if !ok {
		return
	}

	var req createInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if req.Role == "" {
		utils.JSONError(w, http.StatusBadRequest, "missing_fields", "role is required")
		return
	}
	if req.Amount <= 0 {
		req.Amount = 5
	}

	// validate recipients before doing anything costly; no interview is
	// created when nobody can be invited
	candidates, err := roster.Build(req.Emails)
	if errors.Is(err, roster.ErrNoValidRecipients) {
		utils.JSONError(w, http.StatusBadRequest, "no_valid_recipients", "No valid recipient addresses provided")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to build roster")
		return
	}

	questions, err := h.generator.GenerateQuestions(r.Context(), questiongen.Params{
		Role:      req.Role,
		Level:     req.Level,
		Type:      req.Type,
		TechStack: req.TechStack,
		Amount:    req.Amount,
	})
	if err != nil {
		h.logger.Error("question generation failed", zap.String("role", req.Role), zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, "generation_failed", "Failed to generate interview questions")
		return
	}

	interview := &models.Interview{
		OwnerID:    ownerID,
		Role:       req.Role,
		Level:      req.Level,
		Type:       req.Type,
		TechStack:  splitTechStack(req.TechStack),
		Questions:  questions,
		Candidates: candidates,
		Finalized:  true,
		CreatedAt:  time.Now().UTC(),
		// legacy mirror kept for records read by older clients
		Email:       candidates[0].Email,
		SessionCode: candidates[0].SessionCode,
	}
	if err := h.store.Create(r.Context(), interview); err != nil {
		h.logger.Error("failed to persist interview", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to create interview")
		return
	}

	summary := h.dispatcher.Dispatch(candidates, invite.Metadata{
		InterviewID: interview.ID,
		Role:        interview.Role,
	})
	metrics.ObserveInvites(summary.Sent, summary.Failed)

	utils.JSON(w, http.StatusCreated, createInterviewResponse{Interview: *interview, Invites: summary})
}

// candidateViewResponse hides the roster, and with it every other
// candidate's session code, from candidate eyes.
type candidateViewResponse struct {
	ID             string   `json:"id"`
	Role           string   `json:"role"`
	Level          string   `json:"level"`
	Type           string   `json:"type"`
	TechStack      []string `json:"techStack"`
	Questions      []string `json:"questions"`
	CandidateEmail string   `json:"candidateEmail"`
}

func (h *InterviewHandler) GetInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := identityFromRequest(r, h.jwtSecret)

	auth := h.resolver.Resolve(r.Context(), identity, id)
	switch auth.Kind {
	case access.OwnerView:
		interview, err := h.store.GetByID(r.Context(), id)
		if err != nil {
			utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
			return
		}
		utils.JSON(w, http.StatusOK, interview)

	case access.CandidateView:
		interview, err := h.store.GetByID(r.Context(), id)
		if err != nil {
			utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
			return
		}
		utils.JSON(w, http.StatusOK, candidateViewResponse{
			ID:             interview.ID,
			Role:           interview.Role,
			Level:          interview.Level,
			Type:           interview.Type,
			TechStack:      interview.TechStack,
			Questions:      interview.Questions,
			CandidateEmail: auth.CandidateEmail,
		})

	case access.AlreadyCompleted:
		// terminal view, not an error page
		utils.JSON(w, http.StatusOK, map[string]string{
			"status":         "completed",
			"candidateEmail": auth.CandidateEmail,
		})

	default:
		writeDenial(w, auth)
	}
}

func (h *InterviewHandler) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireAccount(w, r, h.jwtSecret)
	if !ok {
		return
	}

	interviews, err := h.store.GetByOwner(r.Context(), ownerID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch interviews")
		return
	}
	utils.JSON(w, http.StatusOK, models.InterviewsResponse{Total: len(interviews), Items: interviews})
}

func (h *InterviewHandler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireAccount(w, r, h.jwtSecret)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	interview, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
		return
	}
	if interview.OwnerID != ownerID {
		utils.JSONError(w, http.StatusForbidden, "forbidden", "Only the interview owner may list candidates")
		return
	}

	candidates := access.Roster(interview)
	utils.JSON(w, http.StatusOK, models.CandidatesResponse{
		InterviewID: interview.ID,
		Total:       len(candidates),
		Items:       candidates,
	})
}

func (h *InterviewHandler) DeleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireAccount(w, r, h.jwtSecret)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	interview, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
		return
	}
	if interview.OwnerID != ownerID {
		utils.JSONError(w, http.StatusForbidden, "forbidden", "Only the interview owner may delete it")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to delete interview")
		return
	}
	if err := h.feedback.DeleteByInterview(r.Context(), id); err != nil {
		// interview is already gone; orphaned feedback is logged, not fatal
		h.logger.Warn("failed to purge feedback", zap.String("interviewId", id), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteInterviewHandler runs the completion gate for the calling
// candidate.
func (h *InterviewHandler) CompleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := identityFromRequest(r, h.jwtSecret)
	if identity.Session == nil {
		utils.JSONError(w, http.StatusUnauthorized, "unauthenticated", "Candidate session required")
		return
	}

	auth := h.resolver.Resolve(r.Context(), identity, id)
	switch auth.Kind {
	case access.CandidateView:
		err := h.gate.MarkCompleted(r.Context(), id, auth.CandidateEmail)
		switch {
		case err == nil:
			metrics.ObserveCompletion("ok")
			utils.JSON(w, http.StatusOK, map[string]string{"status": "completed"})
		case errors.Is(err, repositories.ErrAlreadyCompleted):
			// race loser: the other attempt won, nothing was overwritten
			metrics.ObserveCompletion("replay")
			utils.JSONError(w, http.StatusConflict, "already_completed", "This interview has already been completed")
		case errors.Is(err, repositories.ErrInterviewNotFound), errors.Is(err, repositories.ErrCandidateNotFound):
			metrics.ObserveCompletion("not_found")
			utils.JSONError(w, http.StatusNotFound, "not_found", "Interview or candidate not found")
		default:
			utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to record completion")
		}

	case access.AlreadyCompleted:
		metrics.ObserveCompletion("replay")
		utils.JSONError(w, http.StatusConflict, "already_completed", "This interview has already been completed")

	default:
		writeDenial(w, auth)
	}
}

// writeDenial maps denial reasons onto HTTP so the caller can redirect
// appropriately; reasons are never collapsed into a generic failure.
func writeDenial(w http.ResponseWriter, auth access.Authorization) {
	switch auth.Reason {
	case access.ReasonNotFound:
		utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
	case access.ReasonWrongInterview:
		utils.JSON(w, http.StatusForbidden, map[string]string{
			"code":        "wrong_interview",
			"message":     "Your session belongs to a different interview",
			"interviewId": auth.SessionInterviewID,
		})
	case access.ReasonInvalidSession:
		utils.JSONError(w, http.StatusUnauthorized, "invalid_session", "Invalid candidate session")
	default:
		utils.JSONError(w, http.StatusUnauthorized, "unauthenticated", "Sign in required")
	}
}

func splitTechStack(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
