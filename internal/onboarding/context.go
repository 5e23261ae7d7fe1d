package onboarding

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Identity is the authenticated user as the orchestrator sees it. Immutable
// for the duration of one session.
type Identity struct {
	ID    bson.ObjectID
	Email string
}

// Params is the query-string contract: ?invitation=true&organization=<id>
// marks an invitation-originated session, ?org=<id> a direct organization
// link (lower precedence). Token, when present, is the invitation token from
// the emailed join link and pins acceptance to that exact row.
type Params struct {
	Invitation      bool
	InvitationOrgID string
	OrgID           string
	Token           string
}

// InvitationContext is the fact sheet every step receives. It is computed
// once per orchestrator entry and never recomputed mid-flow. InvitationID
// names the pending row to consume on acceptance, when one matched.
type InvitationContext struct {
	IsInvitation    bool
	InvitationOrgID bson.ObjectID
	AlreadyMember   bool
	InvitationID    bson.ObjectID
}

// Resolver reconciles the three independent membership signals: explicit URL
// parameters, pending invitation rows, and existing membership.
type Resolver struct {
	memberships MembershipStore
	invitations InvitationStore
}

func NewResolver(memberships MembershipStore, invitations InvitationStore) *Resolver {
	return &Resolver{memberships: memberships, invitations: invitations}
}

// Resolve produces the InvitationContext. URL parameters win over a pending
// invitation row; existing membership is checked independently of both. When
// a returning member also has a pending invitation, membership decides the
// routing but the invitation is still marked accepted to close the loop.
func (r *Resolver) Resolve(ctx context.Context, id Identity, params Params) (InvitationContext, error) {
	var ictx InvitationContext

	if params.Invitation && params.InvitationOrgID != "" {
		if orgID, err := bson.ObjectIDFromHex(params.InvitationOrgID); err == nil {
			ictx.IsInvitation = true
			ictx.InvitationOrgID = orgID
			// The emailed join link carries the row's token; resolve it so
			// acceptance consumes that exact invitation. The URL parameters
			// still decide the routing even if the token matches nothing.
			if params.Token != "" {
				row, err := r.invitations.FindByToken(ctx, params.Token)
				if err != nil {
					return ictx, &DependencyError{Op: "looking up invitation token", Err: err}
				}
				if row != nil && !row.Accepted && !row.IsExpired() {
					ictx.InvitationID = row.ID
				}
			}
		}
	}

	if !ictx.IsInvitation {
		pending, err := r.invitations.FindPendingByEmail(ctx, id.Email)
		if err != nil {
			return ictx, &DependencyError{Op: "looking up pending invitations", Err: err}
		}
		if pending != nil {
			ictx.IsInvitation = true
			ictx.InvitationOrgID = pending.OrganizationID
			ictx.InvitationID = pending.ID
		}
	}

	membership, err := r.memberships.FindByUser(ctx, id.ID)
	if err != nil {
		return ictx, &DependencyError{Op: "looking up membership", Err: err}
	}
	if membership != nil {
		ictx.AlreadyMember = true
		// Returning member with an unaccepted invitation: consume it so it
		// stops matching future sessions. Routing still follows membership.
		if !ictx.InvitationID.IsZero() {
			if err := r.invitations.MarkAccepted(ctx, ictx.InvitationID); err != nil {
				return ictx, &DependencyError{Op: fmt.Sprintf("accepting invitation %s", ictx.InvitationID.Hex()), Err: err}
			}
		}
	}

	return ictx, nil
}
