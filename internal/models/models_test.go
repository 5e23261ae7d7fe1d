package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNewMembershipValidation(t *testing.T) {
	userID := bson.NewObjectID()
	orgID := bson.NewObjectID()

	m, err := NewMembership(userID, orgID, RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, m.Role)

	_, err = NewMembership(bson.ObjectID{}, orgID, RoleOwner)
	assert.Error(t, err)

	_, err = NewMembership(userID, orgID, "admin")
	assert.Error(t, err)
}

func TestNewInvitationNormalizesEmail(t *testing.T) {
	orgID := bson.NewObjectID()

	inv, err := NewInvitation(orgID, bson.NewObjectID(), "  Jane@Acme.COM ", "tok", true, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", inv.Email)
	assert.True(t, inv.AutoJoin)
	assert.False(t, inv.Accepted)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)

	_, err = NewInvitation(orgID, bson.NewObjectID(), "not-an-email", "tok", false, time.Hour)
	assert.Error(t, err)
}

func TestNewProfileDefaults(t *testing.T) {
	p, err := NewProfile(bson.NewObjectID(), bson.NewObjectID(), "Jane")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, p.Role)
	assert.Equal(t, DefaultJobTitle, p.JobTitle)
}

func TestProgressHasCompleted(t *testing.T) {
	p := &OnboardingProgress{CompletedSteps: []string{"organization", "profile"}}
	assert.True(t, p.HasCompleted("organization"))
	assert.False(t, p.HasCompleted("invite"))
}
