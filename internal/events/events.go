// Package events carries interview lifecycle notifications over redis
// pub/sub so completion side effects stay out of the request path.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// CompletedChannel is the pub/sub channel for candidate completions.
const CompletedChannel = "interview_completed"

// CompletedEvent is published exactly once per candidate completion; the
// conditional completion write upstream is what guarantees the "once".
type CompletedEvent struct {
	InterviewID    string `json:"interviewId"`
	OwnerID        string `json:"ownerId"`
	Role           string `json:"role"`
	CandidateEmail string `json:"candidateEmail"`
	CompletedAt    string `json:"completedAt"`
}

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) PublishCompleted(ctx context.Context, event CompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, CompletedChannel, payload).Err()
}
