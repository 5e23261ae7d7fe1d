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

type InvitationRepo struct {
	collection *mongo.Collection
}

func NewInvitationRepo() *InvitationRepo {
	return &InvitationRepo{
		collection: database.GetCollection("invitations"),
	}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	inv.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicate
		}
		return err
	}
	inv.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindPendingByEmail returns the newest unaccepted, unexpired invitation for
// the email, or nil. Older pending invitations are left untouched.
func (r *InvitationRepo) FindPendingByEmail(ctx context.Context, email string) (*models.Invitation, error) {
	var inv models.Invitation
	filter := bson.M{
		"email":      email,
		"accepted":   false,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepo) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepo) MarkAccepted(ctx context.Context, id bson.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"accepted": true},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the invitations collection
func (r *InvitationRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// TTL reaps expired pending invitations; accepted rows are kept
			// for the audit trail.
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetPartialFilterExpression(bson.D{{Key: "accepted", Value: false}}),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
