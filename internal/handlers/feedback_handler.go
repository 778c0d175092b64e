package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/assessment"
	"interviewai/interview/internal/metrics"
	"interviewai/interview/internal/models"
	"interviewai/interview/internal/repositories"
	"interviewai/interview/internal/utils"
)

// FeedbackStore is the feedback slice of the record store.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByInterviewAndEmail(ctx context.Context, interviewID, email string) (*models.Feedback, error)
	ListByInterview(ctx context.Context, interviewID string) ([]models.Feedback, error)
}

type FeedbackHandler struct {
	store      FeedbackStore
	interviews InterviewStore
	assessor   assessment.Assessor
	resolver   *access.Resolver
	gate       *access.Gate
	jwtSecret  string
	logger     *zap.Logger
}

func NewFeedbackHandler(
	store FeedbackStore,
	interviews InterviewStore,
	assessor assessment.Assessor,
	resolver *access.Resolver,
	gate *access.Gate,
	jwtSecret string,
	logger *zap.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		store:      store,
		interviews: interviews,
		assessor:   assessor,
		resolver:   resolver,
		gate:       gate,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

type submitFeedbackRequest struct {
	Transcript []models.Turn `json:"transcript"`
}

// SubmitFeedbackHandler closes out a candidate's interview: the completion
// gate fires first so a replayed submission can never overwrite the stored
// report, then the transcript is scored and persisted. Scoring failures
// degrade to a zeroed report; the candidate's completion always sticks.
func (h *FeedbackHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := identityFromRequest(r, h.jwtSecret)
	if identity.Session == nil {
		utils.JSONError(w, http.StatusUnauthorized, "unauthenticated", "Candidate session required")
		return
	}

	auth := h.resolver.Resolve(r.Context(), identity, id)
	switch auth.Kind {
	case access.CandidateView:
	case access.AlreadyCompleted:
		utils.JSONError(w, http.StatusConflict, "already_completed", "Feedback has already been submitted for this interview")
		return
	default:
		writeDenial(w, auth)
		return
	}

	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if err := assessment.ValidateTranscript(req.Transcript); err != nil {
		utils.JSONError(w, http.StatusUnprocessableEntity, "transcript_too_short", "Transcript has too few candidate responses to evaluate")
		return
	}

	interview, err := h.interviews.GetByID(r.Context(), id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "interview_not_found", "Interview not found")
		return
	}

	if err := h.gate.MarkCompleted(r.Context(), id, auth.CandidateEmail); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyCompleted):
			metrics.ObserveCompletion("replay")
			utils.JSONError(w, http.StatusConflict, "already_completed", "Feedback has already been submitted for this interview")
		case errors.Is(err, repositories.ErrInterviewNotFound), errors.Is(err, repositories.ErrCandidateNotFound):
			utils.JSONError(w, http.StatusNotFound, "not_found", "Interview or candidate not found")
		default:
			utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to record completion")
		}
		return
	}
	metrics.ObserveCompletion("ok")

	report, err := h.assessor.Assess(r.Context(), interview.Role, req.Transcript)
	if err != nil {
		h.logger.Error("assessment failed, storing fallback report",
			zap.String("interviewId", id),
			zap.String("candidate", auth.CandidateEmail),
			zap.Error(err))
		report = assessment.Fallback()
	}

	feedback := &models.Feedback{
		ID:              uuid.NewString(),
		InterviewID:     id,
		CandidateEmail:  auth.CandidateEmail,
		TotalScore:      report.TotalScore,
		CategoryScores:  report.CategoryScores,
		Strengths:       report.Strengths,
		AreasToImprove:  report.AreasToImprove,
		FinalAssessment: report.FinalAssessment,
		Transcript:      req.Transcript,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.store.Create(r.Context(), feedback); err != nil {
		// completion already committed; report the storage failure honestly
		h.logger.Error("failed to persist feedback", zap.String("interviewId", id), zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Interview completed but feedback could not be stored")
		return
	}

	utils.JSON(w, http.StatusCreated, feedback)
}

// GetFeedbackHandler returns all reports to the owner and only the caller's
// own report to a candidate.
func (h *FeedbackHandler) GetFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := identityFromRequest(r, h.jwtSecret)

	auth := h.resolver.Resolve(r.Context(), identity, id)
	switch auth.Kind {
	case access.OwnerView:
		reports, err := h.store.ListByInterview(r.Context(), id)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch feedback")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"total": len(reports), "items": reports})

	case access.CandidateView, access.AlreadyCompleted:
		report, err := h.store.GetByInterviewAndEmail(r.Context(), id, auth.CandidateEmail)
		if errors.Is(err, repositories.ErrFeedbackNotFound) {
			utils.JSONError(w, http.StatusNotFound, "feedback_not_found", "No feedback recorded for this interview yet")
			return
		}
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch feedback")
			return
		}
		utils.JSON(w, http.StatusOK, report)

	default:
		writeDenial(w, auth)
	}
}
