package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"interviewai/interview/internal/models"
	"interviewai/interview/internal/repositories"
)

// FeedbackRepo wraps the feedback collection.
type FeedbackRepo struct{ col *mongo.Collection }

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{col: db.Collection("feedback")}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, feedback)
	return err
}

func (r *FeedbackRepo) GetByInterviewAndEmail(ctx context.Context, interviewID, email string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "candidateEmail": email}).Decode(&feedback)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *FeedbackRepo) ListByInterview(ctx context.Context, interviewID string) ([]models.Feedback, error) {
	cur, err := r.col.Find(ctx, bson.M{"interviewId": interviewID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Feedback
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FeedbackRepo) DeleteByInterview(ctx context.Context, interviewID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"interviewId": interviewID})
	return err
}
