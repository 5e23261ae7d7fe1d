package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Membership is the join between a user and an organization. Exactly one
// document per (user_id, organization_id), enforced by a unique index.
type Membership struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         bson.ObjectID `bson:"user_id" json:"user_id"`
	OrganizationID bson.ObjectID `bson:"organization_id" json:"organization_id"`
	Role           string        `bson:"role" json:"role"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
}

func NewMembership(userID, orgID bson.ObjectID, role string) (*Membership, error) {
	if userID.IsZero() || orgID.IsZero() {
		return nil, errors.New("membership requires a user and an organization")
	}
	if role != RoleOwner && role != RoleMember {
		return nil, errors.New("membership role must be owner or member")
	}
	return &Membership{UserID: userID, OrganizationID: orgID, Role: role}, nil
}
