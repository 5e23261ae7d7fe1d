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

type OrganizationRepo struct {
	collection *mongo.Collection
}

func NewOrganizationRepo() *OrganizationRepo {
	return &OrganizationRepo{
		collection: database.GetCollection("organizations"),
	}
}

func (r *OrganizationRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Organization, error) {
	var org models.Organization
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepo) FindByDomain(ctx context.Context, domain string) (*models.Organization, error) {
	var org models.Organization
	err := r.collection.FindOne(ctx, bson.M{"domain": domain}).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// Upsert creates the organization keyed by domain, or updates the existing
// row's name/logo. Returns whether a new row was created. A duplicate-key
// race on insert falls back to updating the row the other writer created.
func (r *OrganizationRepo) Upsert(ctx context.Context, org *models.Organization) (bool, error) {
	existing, err := r.FindByDomain(ctx, org.Domain)
	if err != nil {
		return false, err
	}

	if existing == nil {
		org.CreatedAt = time.Now()
		org.UpdatedAt = time.Now()
		result, err := r.collection.InsertOne(ctx, org)
		if err == nil {
			org.ID = result.InsertedID.(bson.ObjectID)
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, err
		}
		// Lost the race — another session just created this domain's org.
		existing, err = r.FindByDomain(ctx, org.Domain)
		if err != nil {
			return false, err
		}
		if existing == nil {
			return false, models.ErrDuplicate
		}
	}

	set := bson.M{
		"name":       org.Name,
		"updated_at": time.Now(),
	}
	if org.LogoURL != "" {
		set["logo_url"] = org.LogoURL
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
		return false, err
	}
	org.ID = existing.ID
	org.CreatedAt = existing.CreatedAt
	if org.LogoURL == "" {
		org.LogoURL = existing.LogoURL
	}
	return false, nil
}

// EnsureIndexes creates necessary indexes for the organizations collection
func (r *OrganizationRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "domain", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
