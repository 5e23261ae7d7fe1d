package mailer

import "context"

// Mailer sends the product's transactional email. Both operations are
// best-effort from the caller's perspective: a send failure never rolls back
// the write that triggered it.
type Mailer interface {
	// SendLoginLink emails a single-use magic sign-in link.
	SendLoginLink(ctx context.Context, to, link string) error
	// SendInvitation emails a join link for an organization.
	SendInvitation(ctx context.Context, to, inviterEmail, orgName, link string) error
}
