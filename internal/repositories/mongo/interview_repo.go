package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewai/interview/internal/models"
	"interviewai/interview/internal/repositories"
)

// InterviewRepo wraps the interviews collection.
type InterviewRepo struct{ col *mongo.Collection }

func NewInterviewRepo(db *mongo.Database) *InterviewRepo {
	return &InterviewRepo{col: db.Collection("interviews")}
}

// Create persists the interview and its full roster in one write.
func (r *InterviewRepo) Create(ctx context.Context, interview *models.Interview) error {
	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, interview)
	return err
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&interview)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepo) GetByOwner(ctx context.Context, ownerID string) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := r.col.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByCandidate locates the interview whose roster, or legacy fields,
// matches both the email and the session code.
func (r *InterviewRepo) FindByCandidate(ctx context.Context, email, sessionCode string) (*models.Interview, error) {
	filter := bson.M{
		"finalized": true,
		"$or": []bson.M{
			{"candidates": bson.M{"$elemMatch": bson.M{"email": email, "sessionCode": sessionCode}}},
			{"email": email, "sessionCode": sessionCode, "candidates": bson.M{"$exists": false}},
		},
	}
	var interview models.Interview
	err := r.col.FindOne(ctx, filter).Decode(&interview)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrInterviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// CompleteCandidate flips one candidate's completed flag. The filter carries
// the completed == false condition, so under a race only one writer matches;
// the write is scoped to the single roster entry via the positional operator
// and never rewrites sibling candidates.
func (r *InterviewRepo) CompleteCandidate(ctx context.Context, interviewID, email string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":        interviewID,
			"candidates": bson.M{"$elemMatch": bson.M{"email": email, "completed": false}},
		},
		bson.M{"$set": bson.M{
			"candidates.$.completed":   true,
			"candidates.$.completedAt": at,
		}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	// legacy single-candidate records have no roster array
	res, err = r.col.UpdateOne(ctx,
		bson.M{
			"_id":        interviewID,
			"candidates": bson.M{"$exists": false},
			"email":      email,
			"completed":  false,
		},
		bson.M{"$set": bson.M{"completed": true, "completedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	return r.classifyCompletionMiss(ctx, interviewID, email)
}

// classifyCompletionMiss distinguishes why a conditional completion write
// matched nothing.
func (r *InterviewRepo) classifyCompletionMiss(ctx context.Context, interviewID, email string) error {
	interview, err := r.GetByID(ctx, interviewID)
	if err != nil {
		return err
	}
	if len(interview.Candidates) > 0 {
		for _, c := range interview.Candidates {
			if c.Email == email {
				return repositories.ErrAlreadyCompleted
			}
		}
		return repositories.ErrCandidateNotFound
	}
	if interview.Email == email {
		return repositories.ErrAlreadyCompleted
	}
	return repositories.ErrCandidateNotFound
}

func (r *InterviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrInterviewNotFound
	}
	return nil
}
