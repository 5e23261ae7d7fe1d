package repository

import (
	"context"
	"time"

	"crewbase-backend/internal/database"
	"crewbase-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProgressRepo struct {
	collection *mongo.Collection
}

func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{
		collection: database.GetCollection("onboarding_progress"),
	}
}

func (r *ProgressRepo) Load(ctx context.Context, userID bson.ObjectID) (*models.OnboardingProgress, error) {
	var p models.OnboardingProgress
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Save upserts the user's progress as a whole-document replace. Concurrent
// tabs race at record granularity only: last write wins, no mixed records.
func (r *ProgressRepo) Save(ctx context.Context, userID bson.ObjectID, step string, completedSteps []string) error {
	record := &models.OnboardingProgress{
		UserID:         userID,
		CurrentStep:    step,
		CompletedSteps: completedSteps,
		UpdatedAt:      time.Now(),
	}
	filter := bson.M{"user_id": userID}
	_, err := r.collection.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	return err
}

// EnsureIndexes creates necessary indexes for the onboarding_progress collection
func (r *ProgressRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
