package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OnboardingProgress is the persisted cursor for one user's onboarding run.
// It is the sole source of truth for resuming after an interrupted session:
// the record is always read before any step renders, and writes replace the
// whole document so two tabs cannot interleave a mixed record.
type OnboardingProgress struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         bson.ObjectID `bson:"user_id" json:"user_id"`
	CurrentStep    string        `bson:"current_step" json:"current_step"`
	CompletedSteps []string      `bson:"completed_steps" json:"completed_steps"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

// HasCompleted reports whether the named step is in the completed set.
func (p *OnboardingProgress) HasCompleted(step string) bool {
	for _, s := range p.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}
