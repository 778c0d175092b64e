package access

import (
	"context"
	"time"

	"go.uber.org/zap"

	"interviewai/interview/internal/events"
	"interviewai/interview/internal/models"
	"interviewai/interview/internal/repositories"
)

// CompletionStore is the slice of the record store the gate writes through.
// The underlying write must be conditional on completed == false so that of
// two racing completion attempts exactly one wins.
type CompletionStore interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	CompleteCandidate(ctx context.Context, interviewID, email string, at time.Time) error
}

// CompletionPublisher announces completions downstream. May be nil.
type CompletionPublisher interface {
	PublishCompleted(ctx context.Context, event events.CompletedEvent) error
}

// Gate is the only code path allowed to flip a candidate's completed flag.
type Gate struct {
	store     CompletionStore
	publisher CompletionPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewGate(store CompletionStore, publisher CompletionPublisher, logger *zap.Logger) *Gate {
	return &Gate{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// MarkCompleted transitions the candidate to completed exactly once.
// A replay or race loser gets repositories.ErrAlreadyCompleted and the
// original completedAt is preserved untouched.
func (g *Gate) MarkCompleted(ctx context.Context, interviewID, candidateEmail string) error {
	interview, err := g.store.GetByID(ctx, interviewID)
	if err != nil {
		return repositories.ErrInterviewNotFound
	}

	if err := g.store.CompleteCandidate(ctx, interviewID, candidateEmail, g.now().UTC()); err != nil {
		return err
	}

	g.logger.Info("candidate completed interview",
		zap.String("interviewId", interviewID),
		zap.String("candidateEmail", candidateEmail))

	if g.publisher != nil {
		event := events.CompletedEvent{
			InterviewID:    interviewID,
			OwnerID:        interview.OwnerID,
			Role:           interview.Role,
			CandidateEmail: candidateEmail,
			CompletedAt:    g.now().UTC().Format(time.RFC3339),
		}
		if err := g.publisher.PublishCompleted(ctx, event); err != nil {
			// the completion itself already persisted; losing the
			// notification is acceptable
			g.logger.Warn("failed to publish completion event",
				zap.String("interviewId", interviewID), zap.Error(err))
		}
	}
	return nil
}
