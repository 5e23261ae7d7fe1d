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

type MembershipRepo struct {
	collection *mongo.Collection
}

func NewMembershipRepo() *MembershipRepo {
	return &MembershipRepo{
		collection: database.GetCollection("memberships"),
	}
}

// Create inserts the membership. The unique (user_id, organization_id) index
// rejects duplicates; that outcome is surfaced as models.ErrDuplicate so
// callers can treat a lost race as "already a member".
func (r *MembershipRepo) Create(ctx context.Context, m *models.Membership) error {
	m.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicate
		}
		return err
	}
	m.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *MembershipRepo) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Membership, error) {
	var m models.Membership
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// EnsureIndexes creates necessary indexes for the memberships collection
func (r *MembershipRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "organization_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
