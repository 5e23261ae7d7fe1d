package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Invitation is keyed by email, not user id — the invite predates signup.
type Invitation struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID bson.ObjectID `bson:"organization_id" json:"organization_id"`
	Email          string        `bson:"email" json:"email"`
	InviterID      bson.ObjectID `bson:"inviter_id" json:"inviter_id"`
	Token          string        `bson:"token" json:"token"`
	AutoJoin       bool          `bson:"auto_join" json:"auto_join"`
	Accepted       bool          `bson:"accepted" json:"accepted"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	ExpiresAt      time.Time     `bson:"expires_at" json:"expires_at"`
}

func NewInvitation(orgID, inviterID bson.ObjectID, email, token string, autoJoin bool, ttl time.Duration) (*Invitation, error) {
	if orgID.IsZero() {
		return nil, errors.New("invitation requires an organization")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || strings.Count(email, "@") != 1 {
		return nil, errors.New("invitation requires a valid email address")
	}
	if token == "" {
		return nil, errors.New("invitation requires a token")
	}
	return &Invitation{
		OrganizationID: orgID,
		Email:          email,
		InviterID:      inviterID,
		Token:          token,
		AutoJoin:       autoJoin,
		ExpiresAt:      time.Now().Add(ttl),
	}, nil
}

func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
