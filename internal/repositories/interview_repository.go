package repositories

import (
	"context"
	"errors"
	"time"

	"interviewai/interview/internal/models"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrAlreadyCompleted  = errors.New("candidate already completed")
	ErrUserNotFound      = errors.New("user not found")
	ErrFeedbackNotFound  = errors.New("feedback not found")
)

// InterviewRepository is the durable record store for interviews. Interviews
// are written whole once at creation; the only mutation afterwards is the
// per-candidate completion flip, which must be conditional.
type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Interview, error)
	// FindByCandidate locates the finalized interview whose roster (or
	// legacy fields) matches both the email and the session code.
	FindByCandidate(ctx context.Context, email, sessionCode string) (*models.Interview, error)
	// CompleteCandidate flips the candidate's completed flag, conditioned
	// on it still being false at write time. Returns ErrAlreadyCompleted
	// when the condition fails and ErrCandidateNotFound /
	// ErrInterviewNotFound when nothing matches at all.
	CompleteCandidate(ctx context.Context, interviewID, email string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// UserRepository stores HR accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// FeedbackRepository stores per-candidate assessment reports.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByInterviewAndEmail(ctx context.Context, interviewID, email string) (*models.Feedback, error)
	ListByInterview(ctx context.Context, interviewID string) ([]models.Feedback, error)
	DeleteByInterview(ctx context.Context, interviewID string) error
}
