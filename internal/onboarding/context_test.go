package onboarding

import (
	"context"
	"testing"
	"time"

	"crewbase-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func pendingInvitation(email string, orgID bson.ObjectID, createdAt time.Time) *models.Invitation {
	return &models.Invitation{
		ID:             bson.NewObjectID(),
		OrganizationID: orgID,
		Email:          email,
		Token:          "tok-" + createdAt.Format("150405.000"),
		CreatedAt:      createdAt,
		ExpiresAt:      createdAt.Add(7 * 24 * time.Hour),
	}
}

func TestResolveURLParamsWinOverPendingRow(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")

	urlOrg := bson.NewObjectID()
	rowOrg := bson.NewObjectID()
	f.invitations.rows = append(f.invitations.rows, pendingInvitation(id.Email, rowOrg, time.Now()))

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{
		Invitation:      true,
		InvitationOrgID: urlOrg.Hex(),
	})
	require.NoError(t, err)

	assert.True(t, ictx.IsInvitation)
	assert.Equal(t, urlOrg, ictx.InvitationOrgID)
	assert.False(t, ictx.AlreadyMember)
}

func TestResolveNewestPendingInvitationWins(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")

	oldOrg := bson.NewObjectID()
	newOrg := bson.NewObjectID()
	older := pendingInvitation(id.Email, oldOrg, time.Now().Add(-48*time.Hour))
	newer := pendingInvitation(id.Email, newOrg, time.Now().Add(-time.Hour))
	f.invitations.rows = append(f.invitations.rows, older, newer)

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{})
	require.NoError(t, err)

	assert.True(t, ictx.IsInvitation)
	assert.Equal(t, newOrg, ictx.InvitationOrgID)
	// The losing invitation is left pending, not auto-rejected.
	assert.False(t, older.Accepted)
}

func TestResolveSkipsAcceptedAndExpiredInvitations(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")

	accepted := pendingInvitation(id.Email, bson.NewObjectID(), time.Now())
	accepted.Accepted = true
	expired := pendingInvitation(id.Email, bson.NewObjectID(), time.Now().Add(-30*24*time.Hour))
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	f.invitations.rows = append(f.invitations.rows, accepted, expired)

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{})
	require.NoError(t, err)

	assert.False(t, ictx.IsInvitation)
}

func TestResolveExistingMembershipAcceptsPendingInvitation(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")
	orgID := bson.NewObjectID()

	f.memberships.rows = append(f.memberships.rows, &models.Membership{
		ID: bson.NewObjectID(), UserID: id.ID, OrganizationID: orgID, Role: models.RoleMember,
	})
	pending := pendingInvitation(id.Email, orgID, time.Now())
	f.invitations.rows = append(f.invitations.rows, pending)

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{})
	require.NoError(t, err)

	// Membership decides the routing, but the invitation is consumed.
	assert.True(t, ictx.AlreadyMember)
	assert.True(t, pending.Accepted)
}

func TestResolveTokenPinsInvitationRow(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")
	orgID := bson.NewObjectID()

	older := pendingInvitation(id.Email, orgID, time.Now().Add(-48*time.Hour))
	newer := pendingInvitation(id.Email, orgID, time.Now().Add(-time.Hour))
	f.invitations.rows = append(f.invitations.rows, older, newer)

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{
		Invitation:      true,
		InvitationOrgID: orgID.Hex(),
		Token:           older.Token,
	})
	require.NoError(t, err)

	assert.True(t, ictx.IsInvitation)
	assert.Equal(t, older.ID, ictx.InvitationID)
}

func TestResolveUnknownTokenStillHonorsURLParams(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")
	orgID := bson.NewObjectID()

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{
		Invitation:      true,
		InvitationOrgID: orgID.Hex(),
		Token:           "no-such-token",
	})
	require.NoError(t, err)

	// URL parameters decide the routing even when the token matches nothing;
	// there is just no specific row to consume.
	assert.True(t, ictx.IsInvitation)
	assert.Equal(t, orgID, ictx.InvitationOrgID)
	assert.True(t, ictx.InvitationID.IsZero())
}

func TestResolveInvalidURLOrgIDFallsThrough(t *testing.T) {
	f := newFixture()
	id := testIdentity("jane@acme.com")
	rowOrg := bson.NewObjectID()
	f.invitations.rows = append(f.invitations.rows, pendingInvitation(id.Email, rowOrg, time.Now()))

	ictx, err := f.orch.resolver.Resolve(context.Background(), id, Params{
		Invitation:      true,
		InvitationOrgID: "not-a-hex-id",
	})
	require.NoError(t, err)

	assert.True(t, ictx.IsInvitation)
	assert.Equal(t, rowOrg, ictx.InvitationOrgID)
}
