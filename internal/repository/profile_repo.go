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

type ProfileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{
		collection: database.GetCollection("profiles"),
	}
}

func (r *ProfileRepo) FindByUserAndOrg(ctx context.Context, userID, orgID bson.ObjectID) (*models.Profile, error) {
	var p models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "organization_id": orgID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert replaces the whole profile document keyed by (user_id,
// organization_id), inserting on first submission. Whole-document replace
// keeps concurrent resubmissions from interleaving field-level patches.
func (r *ProfileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()

	filter := bson.M{"user_id": p.UserID, "organization_id": p.OrganizationID}
	result, err := r.collection.ReplaceOne(ctx, filter, p, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.UpsertedID != nil {
		p.ID = result.UpsertedID.(bson.ObjectID)
	}
	return nil
}

// EnsureIndexes creates necessary indexes for the profiles collection
func (r *ProfileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "organization_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
