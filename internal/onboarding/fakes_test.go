package onboarding

import (
	"context"
	"fmt"
	"time"

	"crewbase-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stand-ins for the mongo repositories. Each mirrors the matching
// repository's contract, including models.ErrDuplicate on unique-index
// violations, so the orchestrator under test cannot tell the difference.

type fakeUsers struct {
	completed map[bson.ObjectID]bool
	confirmed map[bson.ObjectID]bool
	err       error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		completed: map[bson.ObjectID]bool{},
		confirmed: map[bson.ObjectID]bool{},
	}
}

func (f *fakeUsers) CompleteOnboarding(ctx context.Context, id bson.ObjectID, membershipConfirmed bool) error {
	if f.err != nil {
		return f.err
	}
	f.completed[id] = true
	if membershipConfirmed {
		f.confirmed[id] = true
	}
	return nil
}

type fakeOrgs struct {
	rows      map[string]*models.Organization // keyed by domain
	upsertErr error
}

func newFakeOrgs() *fakeOrgs {
	return &fakeOrgs{rows: map[string]*models.Organization{}}
}

func (f *fakeOrgs) FindByID(ctx context.Context, id bson.ObjectID) (*models.Organization, error) {
	for _, org := range f.rows {
		if org.ID == id {
			return org, nil
		}
	}
	return nil, nil
}

func (f *fakeOrgs) Upsert(ctx context.Context, org *models.Organization) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	if existing, ok := f.rows[org.Domain]; ok {
		existing.Name = org.Name
		if org.LogoURL != "" {
			existing.LogoURL = org.LogoURL
		}
		existing.UpdatedAt = time.Now()
		*org = *existing
		return false, nil
	}
	org.ID = bson.NewObjectID()
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	f.rows[org.Domain] = org
	return true, nil
}

type fakeMemberships struct {
	rows      []*models.Membership
	createErr error
}

func (f *fakeMemberships) Create(ctx context.Context, m *models.Membership) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, row := range f.rows {
		if row.UserID == m.UserID && row.OrganizationID == m.OrganizationID {
			return models.ErrDuplicate
		}
	}
	m.ID = bson.NewObjectID()
	m.CreatedAt = time.Now()
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeMemberships) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Membership, error) {
	for _, row := range f.rows {
		if row.UserID == userID {
			return row, nil
		}
	}
	return nil, nil
}

type fakeProfiles struct {
	rows []*models.Profile
}

func (f *fakeProfiles) FindByUserAndOrg(ctx context.Context, userID, orgID bson.ObjectID) (*models.Profile, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.OrganizationID == orgID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, p *models.Profile) error {
	for i, row := range f.rows {
		if row.UserID == p.UserID && row.OrganizationID == p.OrganizationID {
			p.ID = row.ID
			f.rows[i] = p
			return nil
		}
	}
	p.ID = bson.NewObjectID()
	f.rows = append(f.rows, p)
	return nil
}

type fakeInvitations struct {
	rows       []*models.Invitation
	createErrs map[string]error // keyed by email
}

func (f *fakeInvitations) FindPendingByEmail(ctx context.Context, email string) (*models.Invitation, error) {
	var newest *models.Invitation
	for _, row := range f.rows {
		if row.Email != email || row.Accepted || row.IsExpired() {
			continue
		}
		if newest == nil || row.CreatedAt.After(newest.CreatedAt) {
			newest = row
		}
	}
	return newest, nil
}

func (f *fakeInvitations) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	for _, row := range f.rows {
		if row.Token == token {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitations) MarkAccepted(ctx context.Context, id bson.ObjectID) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Accepted = true
			return nil
		}
	}
	return fmt.Errorf("invitation %s not found", id.Hex())
}

func (f *fakeInvitations) Create(ctx context.Context, inv *models.Invitation) error {
	if err := f.createErrs[inv.Email]; err != nil {
		return err
	}
	inv.ID = bson.NewObjectID()
	inv.CreatedAt = time.Now()
	f.rows = append(f.rows, inv)
	return nil
}

type fakeProgress struct {
	recs    map[bson.ObjectID]*models.OnboardingProgress
	saveErr error
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{recs: map[bson.ObjectID]*models.OnboardingProgress{}}
}

func (f *fakeProgress) Load(ctx context.Context, userID bson.ObjectID) (*models.OnboardingProgress, error) {
	rec, ok := f.recs[userID]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeProgress) Save(ctx context.Context, userID bson.ObjectID, step string, completedSteps []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	// Whole-record replace, same as the mongo adapter.
	f.recs[userID] = &models.OnboardingProgress{
		UserID:         userID,
		CurrentStep:    step,
		CompletedSteps: append([]string(nil), completedSteps...),
		UpdatedAt:      time.Now(),
	}
	return nil
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, hint string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, hint)
	return "https://assets.test/" + hint, nil
}

type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMailer) SendInvitation(ctx context.Context, to, inviterEmail, orgName, link string) error {
	if f.failFor[to] {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fixture struct {
	orch        *Orchestrator
	users       *fakeUsers
	orgs        *fakeOrgs
	memberships *fakeMemberships
	profiles    *fakeProfiles
	invitations *fakeInvitations
	progress    *fakeProgress
	uploader    *fakeUploader
	mailer      *fakeMailer
}

func newFixture() *fixture {
	f := &fixture{
		users:       newFakeUsers(),
		orgs:        newFakeOrgs(),
		memberships: &fakeMemberships{},
		profiles:    &fakeProfiles{},
		invitations: &fakeInvitations{},
		progress:    newFakeProgress(),
		uploader:    &fakeUploader{},
		mailer:      &fakeMailer{failFor: map[string]bool{}},
	}
	f.orch = New(Deps{
		Users:         f.users,
		Organizations: f.orgs,
		Memberships:   f.memberships,
		Profiles:      f.profiles,
		Invitations:   f.invitations,
		Progress:      f.progress,
		Uploader:      f.uploader,
		Mailer:        f.mailer,
		AppURL:        "https://app.test",
	})
	return f
}

func testIdentity(email string) Identity {
	return Identity{ID: bson.NewObjectID(), Email: email}
}
