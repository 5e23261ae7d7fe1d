package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrDuplicate is returned by repositories when a unique index rejects an
// insert. Callers decide whether that is a conflict or a benign no-op.
var ErrDuplicate = errors.New("duplicate record")

type Organization struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Domain    string        `bson:"domain" json:"domain"`
	LogoURL   string        `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// NewOrganization validates the fields an organization row must carry before
// it reaches the store. Domain is the org's natural key (email domain).
func NewOrganization(name, domain string) (*Organization, error) {
	if name == "" {
		return nil, errors.New("organization name is required")
	}
	if domain == "" {
		return nil, errors.New("organization domain is required")
	}
	return &Organization{Name: name, Domain: domain}, nil
}
