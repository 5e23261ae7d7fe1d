package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"crewbase-backend/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Step names the onboarding states. The sequence is fixed: organization →
// profile → invite → completed, with invitation-driven sessions jumping from
// profile straight to completed.
type Step string

const (
	StepOrganization Step = "organization"
	StepProfile      Step = "profile"
	StepInvite       Step = "invite"
	StepCompleted    Step = "completed"
)

const DefaultInvitationTTL = 7 * 24 * time.Hour

// State is what the presentation layer renders: the effective current step,
// the completed set, and the session's invitation facts.
type State struct {
	CurrentStep    Step              `json:"current_step"`
	CompletedSteps []string          `json:"completed_steps"`
	Invitation     InvitationContext `json:"-"`
}

type OrganizationInput struct {
	Name         string
	Logo         []byte
	LogoFilename string
}

type OrganizationResult struct {
	State
	Organization *models.Organization
	Created      bool
}

type ProfileInput struct {
	FullName       string
	JobTitle       string
	Avatar         []byte
	AvatarFilename string
}

type ProfileResult struct {
	State
	Profile *models.Profile
}

type InviteInput struct {
	Emails   []string
	AutoJoin bool
}

type InviteResult struct {
	State
	Invited []string
	Failed  map[string]string
}

// Deps carries the collaborators the orchestrator composes. InviteTTL and
// Now are optional.
type Deps struct {
	Users         UserStore
	Organizations OrganizationStore
	Memberships   MembershipStore
	Profiles      ProfileStore
	Invitations   InvitationStore
	Progress      ProgressStore
	Uploader      Uploader
	Mailer        InviteMailer

	// AppURL is the web app base used for invitation join links.
	AppURL    string
	InviteTTL time.Duration
}

// Orchestrator is the onboarding state machine: the only component with
// cross-step knowledge. One instance serves all identities; per-session
// facts travel in the InvitationContext, never in orchestrator fields.
type Orchestrator struct {
	resolver    *Resolver
	users       UserStore
	orgs        OrganizationStore
	memberships MembershipStore
	profiles    ProfileStore
	invitations InvitationStore
	progress    ProgressStore
	uploader    Uploader
	mailer      InviteMailer
	appURL      string
	inviteTTL   time.Duration
}

func New(d Deps) *Orchestrator {
	ttl := d.InviteTTL
	if ttl == 0 {
		ttl = DefaultInvitationTTL
	}
	return &Orchestrator{
		resolver:    NewResolver(d.Memberships, d.Invitations),
		users:       d.Users,
		orgs:        d.Organizations,
		memberships: d.Memberships,
		profiles:    d.Profiles,
		invitations: d.Invitations,
		progress:    d.Progress,
		uploader:    d.Uploader,
		mailer:      d.Mailer,
		appURL:      strings.TrimSuffix(d.AppURL, "/"),
		inviteTTL:   ttl,
	}
}

// Enter resolves the session's InvitationContext, loads persisted progress,
// and computes the effective current step. Progress is read before anything
// renders; a missing record means a brand-new run starting at organization.
// Identities already belonging to an organization (or arriving via an
// invitation) skip the organization step without a duplicate submission.
func (o *Orchestrator) Enter(ctx context.Context, id Identity, params Params) (*State, error) {
	ictx, err := o.resolver.Resolve(ctx, id, params)
	if err != nil {
		return nil, err
	}

	prog, err := o.progress.Load(ctx, id.ID)
	if err != nil {
		return nil, &DependencyError{Op: "loading onboarding progress", Err: err}
	}

	current := StepOrganization
	var completed []string
	if prog != nil {
		current = Step(prog.CurrentStep)
		completed = prog.CompletedSteps
	}

	if current == StepCompleted {
		return &State{CurrentStep: StepCompleted, CompletedSteps: completed, Invitation: ictx}, nil
	}

	if current == StepOrganization && (ictx.AlreadyMember || ictx.IsInvitation) {
		completed = appendStep(completed, StepOrganization)
		current = StepProfile

		if ictx.AlreadyMember {
			orgID, err := o.memberOrgID(ctx, id, ictx)
			if err != nil {
				return nil, err
			}
			if !orgID.IsZero() {
				profile, err := o.profiles.FindByUserAndOrg(ctx, id.ID, orgID)
				if err != nil {
					return nil, &DependencyError{Op: "loading profile", Err: err}
				}
				if profile != nil {
					completed = appendStep(completed, StepProfile)
					current = StepCompleted
				}
			}
		}

		if err := o.progress.Save(ctx, id.ID, string(current), completed); err != nil {
			return nil, &DependencyError{Op: "saving onboarding progress", Err: err}
		}
	}

	return &State{CurrentStep: current, CompletedSteps: completed, Invitation: ictx}, nil
}

// SubmitOrganization runs the organization step: derive the domain, upload
// the logo, create or update the organization, and on create make the
// submitting identity its owner.
func (o *Orchestrator) SubmitOrganization(ctx context.Context, id Identity, ictx InvitationContext, in OrganizationInput) (*OrganizationResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "organization name is required"}
	}

	domain := DomainFromEmail(id.Email)
	if domain == "" {
		return nil, &DomainExtractionError{Email: id.Email}
	}

	org, err := models.NewOrganization(name, domain)
	if err != nil {
		return nil, &ValidationError{Field: "name", Reason: err.Error()}
	}

	if len(in.Logo) > 0 {
		ref, err := o.uploader.Upload(ctx, in.Logo, assetHint("logos", in.LogoFilename))
		if err != nil {
			return nil, &DependencyError{Op: "uploading logo", Err: err}
		}
		org.LogoURL = ref
	}

	created, err := o.orgs.Upsert(ctx, org)
	if err != nil {
		return nil, &DependencyError{Op: "saving organization", Err: err}
	}

	if created {
		membership, err := models.NewMembership(id.ID, org.ID, models.RoleOwner)
		if err != nil {
			return nil, &IntegrityError{Step: StepOrganization, Orphan: "organization " + org.ID.Hex(), Err: err}
		}
		if err := o.memberships.Create(ctx, membership); err != nil && !errors.Is(err, models.ErrDuplicate) {
			// The organization row stays in place for manual reconciliation.
			return nil, &IntegrityError{Step: StepOrganization, Orphan: "organization " + org.ID.Hex(), Err: err}
		}
	}

	current, completed, err := o.advance(ctx, id.ID, StepOrganization, false)
	if err != nil {
		return nil, err
	}

	return &OrganizationResult{
		State:        State{CurrentStep: current, CompletedSteps: completed, Invitation: ictx},
		Organization: org,
		Created:      created,
	}, nil
}

// SubmitProfile runs the profile step. The target organization resolves by
// precedence: invitation org > URL org > the organization this identity
// already belongs to. Invitation-driven sessions complete onboarding here
// and never see the invite-teammates step.
func (o *Orchestrator) SubmitProfile(ctx context.Context, id Identity, ictx InvitationContext, params Params, in ProfileInput) (*ProfileResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "name is required"}
	}

	orgID, err := o.resolveTargetOrg(ctx, id, ictx, params)
	if err != nil {
		return nil, err
	}

	first, last := SplitFullName(fullName)

	avatarURL := ""
	if len(in.Avatar) > 0 {
		ref, err := o.uploader.Upload(ctx, in.Avatar, assetHint("avatars", in.AvatarFilename))
		if err != nil {
			return nil, &DependencyError{Op: "uploading avatar", Err: err}
		}
		avatarURL = ref
	}

	profile, err := o.profiles.FindByUserAndOrg(ctx, id.ID, orgID)
	if err != nil {
		return nil, &DependencyError{Op: "loading profile", Err: err}
	}
	if profile == nil {
		profile, err = models.NewProfile(id.ID, orgID, first)
		if err != nil {
			return nil, &ValidationError{Field: "full_name", Reason: err.Error()}
		}
	}
	profile.FirstName = first
	profile.LastName = last
	if in.JobTitle != "" {
		profile.JobTitle = in.JobTitle
	}
	if avatarURL != "" {
		profile.AvatarURL = avatarURL
	}

	if err := o.profiles.Upsert(ctx, profile); err != nil {
		return nil, &DependencyError{Op: "saving profile", Err: err}
	}

	if !ictx.IsInvitation {
		current, completed, err := o.advance(ctx, id.ID, StepProfile, false)
		if err != nil {
			return nil, err
		}
		return &ProfileResult{
			State:   State{CurrentStep: current, CompletedSteps: completed, Invitation: ictx},
			Profile: profile,
		}, nil
	}

	// Invitation acceptance: join the organization as a member, consume the
	// pending invitation, and finish onboarding right here.
	membership, err := models.NewMembership(id.ID, orgID, models.RoleMember)
	if err != nil {
		return nil, &IntegrityError{Step: StepProfile, Orphan: "profile " + profile.ID.Hex(), Err: err}
	}
	if err := o.memberships.Create(ctx, membership); err != nil && !errors.Is(err, models.ErrDuplicate) {
		return nil, &IntegrityError{Step: StepProfile, Orphan: "profile " + profile.ID.Hex(), Err: err}
	}

	invitationID := ictx.InvitationID
	if invitationID.IsZero() {
		if pending, err := o.invitations.FindPendingByEmail(ctx, id.Email); err == nil && pending != nil {
			invitationID = pending.ID
		}
	}
	if !invitationID.IsZero() {
		if err := o.invitations.MarkAccepted(ctx, invitationID); err != nil {
			log.Printf("⚠️  Failed to mark invitation %s accepted: %v", invitationID.Hex(), err)
		}
	}

	if err := o.users.CompleteOnboarding(ctx, id.ID, true); err != nil {
		return nil, &DependencyError{Op: "confirming membership", Err: err}
	}

	_, completed, err := o.advance(ctx, id.ID, StepProfile, true)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{
		State:   State{CurrentStep: StepCompleted, CompletedSteps: completed, Invitation: ictx},
		Profile: profile,
	}, nil
}

// SubmitInvites runs the invite-teammates step. Always terminal: onboarding
// reaches completed whether or not any invitation could be created or sent;
// per-address failures are reported back, never fatal.
func (o *Orchestrator) SubmitInvites(ctx context.Context, id Identity, ictx InvitationContext, params Params, in InviteInput) (*InviteResult, error) {
	result := &InviteResult{Failed: map[string]string{}}

	orgID, err := o.resolveTargetOrg(ctx, id, ictx, params)
	if err != nil {
		for _, email := range in.Emails {
			result.Failed[email] = "no organization resolved for this session"
		}
	} else {
		orgName := "your team"
		if org, err := o.orgs.FindByID(ctx, orgID); err == nil && org != nil {
			orgName = org.Name
		}

		for _, raw := range in.Emails {
			email := strings.TrimSpace(strings.ToLower(raw))
			if email == "" {
				continue
			}
			inv, err := models.NewInvitation(orgID, id.ID, email, uuid.New().String(), in.AutoJoin, o.inviteTTL)
			if err != nil {
				result.Failed[email] = err.Error()
				continue
			}
			if err := o.invitations.Create(ctx, inv); err != nil {
				log.Printf("⚠️  Failed to create invitation for %s: %v", email, err)
				result.Failed[email] = "could not create invitation"
				continue
			}
			result.Invited = append(result.Invited, email)

			link := fmt.Sprintf("%s/onboarding?invitation=true&organization=%s&token=%s", o.appURL, orgID.Hex(), inv.Token)
			if err := o.mailer.SendInvitation(ctx, email, id.Email, orgName, link); err != nil {
				log.Printf("⚠️  Failed to email invitation to %s: %v", email, err)
				result.Failed[email] = "invitation created but email delivery failed"
			}
		}
	}

	if err := o.users.CompleteOnboarding(ctx, id.ID, false); err != nil {
		log.Printf("⚠️  Failed to flag onboarding completion for %s: %v", id.ID.Hex(), err)
	}

	_, completed, err := o.advance(ctx, id.ID, StepInvite, true)
	if err != nil {
		return nil, err
	}
	result.State = State{CurrentStep: StepCompleted, CompletedSteps: completed, Invitation: ictx}
	return result, nil
}

// resolveTargetOrg applies the organization precedence: invitation org id,
// then the URL's org parameter, then the organization the identity already
// belongs to in this session.
func (o *Orchestrator) resolveTargetOrg(ctx context.Context, id Identity, ictx InvitationContext, params Params) (bson.ObjectID, error) {
	if !ictx.InvitationOrgID.IsZero() {
		return ictx.InvitationOrgID, nil
	}
	if params.OrgID != "" {
		orgID, err := bson.ObjectIDFromHex(params.OrgID)
		if err != nil {
			return bson.ObjectID{}, &ValidationError{Field: "org", Reason: "not a valid organization id"}
		}
		return orgID, nil
	}
	membership, err := o.memberships.FindByUser(ctx, id.ID)
	if err != nil {
		return bson.ObjectID{}, &DependencyError{Op: "looking up membership", Err: err}
	}
	if membership == nil {
		return bson.ObjectID{}, &MissingOrganizationError{}
	}
	return membership.OrganizationID, nil
}

// memberOrgID returns the organization the identity belongs to, preferring
// the invitation's org when it names one.
func (o *Orchestrator) memberOrgID(ctx context.Context, id Identity, ictx InvitationContext) (bson.ObjectID, error) {
	if !ictx.InvitationOrgID.IsZero() {
		return ictx.InvitationOrgID, nil
	}
	membership, err := o.memberships.FindByUser(ctx, id.ID)
	if err != nil {
		return bson.ObjectID{}, &DependencyError{Op: "looking up membership", Err: err}
	}
	if membership == nil {
		return bson.ObjectID{}, nil
	}
	return membership.OrganizationID, nil
}

var stepSequence = []Step{StepOrganization, StepProfile, StepInvite}

// advance merges the just-finished step into the completed set and persists
// the new cursor. The completed set only ever grows, and the cursor is
// derived from it — the first step of the sequence not yet completed — so a
// duplicate submission of an earlier step can never move it backwards.
// terminal forces the completed marker (the invitation short-circuit skips
// the invite step without marking it complete), and once reached the marker
// sticks.
func (o *Orchestrator) advance(ctx context.Context, userID bson.ObjectID, finished Step, terminal bool) (Step, []string, error) {
	prog, err := o.progress.Load(ctx, userID)
	if err != nil {
		return "", nil, &DependencyError{Op: "loading onboarding progress", Err: err}
	}
	var completed []string
	if prog != nil {
		completed = prog.CompletedSteps
		if prog.CurrentStep == string(StepCompleted) {
			terminal = true
		}
	}
	completed = appendStep(completed, finished)

	current := StepCompleted
	if !terminal {
		current = nextStep(completed)
	}
	if err := o.progress.Save(ctx, userID, string(current), completed); err != nil {
		return "", nil, &DependencyError{Op: "saving onboarding progress", Err: err}
	}
	return current, completed, nil
}

// nextStep returns the first step of the sequence not in the completed set,
// or the completed marker when none remain.
func nextStep(completed []string) Step {
	for _, s := range stepSequence {
		if !stepDone(completed, s) {
			return s
		}
	}
	return StepCompleted
}

func stepDone(steps []string, step Step) bool {
	for _, s := range steps {
		if s == string(step) {
			return true
		}
	}
	return false
}

func appendStep(steps []string, step Step) []string {
	if stepDone(steps, step) {
		return steps
	}
	return append(steps, string(step))
}

func assetHint(dir, filename string) string {
	if filename == "" {
		filename = "upload"
	}
	return dir + "/" + filename
}
