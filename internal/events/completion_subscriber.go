package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interviewai/interview/internal/invite"
	"interviewai/interview/internal/repositories"
)

// CompletionSubscriber listens for completion events and emails the interview
// owner. Delivery here is best-effort, same as invite dispatch.
type CompletionSubscriber struct {
	rdb        *redis.Client
	users      repositories.UserRepository
	notifier   invite.Notifier
	logger     *zap.Logger
	instanceID string
}

func NewCompletionSubscriber(rdb *redis.Client, users repositories.UserRepository, notifier invite.Notifier, logger *zap.Logger) *CompletionSubscriber {
	return &CompletionSubscriber{
		rdb:        rdb,
		users:      users,
		notifier:   notifier,
		logger:     logger,
		instanceID: uuid.New().String()[:8],
	}
}

// Subscribe blocks consuming completion events until ctx is cancelled.
func (s *CompletionSubscriber) Subscribe(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	subscriber := s.rdb.Subscribe(ctx, CompletedChannel)
	defer subscriber.Close()
	ch := subscriber.Channel()

	s.logger.Info("completion subscriber started", zap.String("instance", s.instanceID))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handleCompletedEvent(ctx, msg.Payload)
		}
	}
}

func (s *CompletionSubscriber) handleCompletedEvent(ctx context.Context, payload string) {
	var event CompletedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("failed to unmarshal completion event", zap.Error(err))
		return
	}

	owner, err := s.users.GetByID(ctx, event.OwnerID)
	if err != nil {
		s.logger.Warn("failed to fetch interview owner",
			zap.String("ownerId", event.OwnerID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Candidate completed your %s interview", event.Role)
	body := fmt.Sprintf(`Hi %s,

%s has completed the %s interview (%s) at %s.

You can review their feedback from your dashboard.

---
InterviewAI
`, owner.Name, event.CandidateEmail, event.Role, event.InterviewID, event.CompletedAt)

	if err := s.notifier.Send(owner.Email, subject, body); err != nil {
		s.logger.Warn("failed to notify interview owner",
			zap.String("ownerId", event.OwnerID), zap.Error(err))
		return
	}

	s.logger.Info("owner notified of completion",
		zap.String("instance", s.instanceID),
		zap.String("interviewId", event.InterviewID),
		zap.String("candidateEmail", event.CandidateEmail))
}
