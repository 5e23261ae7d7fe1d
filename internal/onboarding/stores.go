package onboarding

import (
	"context"

	"crewbase-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// The orchestrator depends on these narrow store interfaces rather than the
// mongo repositories directly, so the state machine tests run against
// in-memory fakes. The repository package satisfies all of them.

type UserStore interface {
	CompleteOnboarding(ctx context.Context, id bson.ObjectID, membershipConfirmed bool) error
}

type OrganizationStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Organization, error)
	// Upsert creates or updates the organization keyed by domain and reports
	// whether a new row was created.
	Upsert(ctx context.Context, org *models.Organization) (bool, error)
}

type MembershipStore interface {
	FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Membership, error)
	// Create returns models.ErrDuplicate when the (user, organization) pair
	// already exists.
	Create(ctx context.Context, m *models.Membership) error
}

type ProfileStore interface {
	FindByUserAndOrg(ctx context.Context, userID, orgID bson.ObjectID) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}

type InvitationStore interface {
	FindPendingByEmail(ctx context.Context, email string) (*models.Invitation, error)
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkAccepted(ctx context.Context, id bson.ObjectID) error
	Create(ctx context.Context, inv *models.Invitation) error
}

type ProgressStore interface {
	Load(ctx context.Context, userID bson.ObjectID) (*models.OnboardingProgress, error)
	Save(ctx context.Context, userID bson.ObjectID, step string, completedSteps []string) error
}

// Uploader mirrors the object-storage collaborator.
type Uploader interface {
	Upload(ctx context.Context, data []byte, destinationHint string) (string, error)
}

// InviteMailer delivers teammate invitations. Failures are reported, never
// block completion.
type InviteMailer interface {
	SendInvitation(ctx context.Context, to, inviterEmail, orgName, link string) error
}
