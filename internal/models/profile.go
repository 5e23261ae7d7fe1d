package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultJobTitle = "Member"

// Profile is the member-facing record for one user inside one organization.
// One document per (user_id, organization_id); resubmissions replace it.
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         bson.ObjectID `bson:"user_id" json:"user_id"`
	OrganizationID bson.ObjectID `bson:"organization_id" json:"organization_id"`
	FirstName      string        `bson:"first_name" json:"first_name"`
	LastName       string        `bson:"last_name" json:"last_name"`
	JobTitle       string        `bson:"job_title" json:"job_title"`
	Role           string        `bson:"role" json:"role"`
	AvatarURL      string        `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

func NewProfile(userID, orgID bson.ObjectID, firstName string) (*Profile, error) {
	if userID.IsZero() || orgID.IsZero() {
		return nil, errors.New("profile requires a user and an organization")
	}
	if firstName == "" {
		return nil, errors.New("profile requires a name")
	}
	return &Profile{
		UserID:         userID,
		OrganizationID: orgID,
		FirstName:      firstName,
		JobTitle:       DefaultJobTitle,
		Role:           RoleMember,
	}, nil
}
