package mailer

import (
	"context"
	"log"
)

// MockMailer logs instead of sending. Used when RESEND_API_KEY is unset so
// local development never needs real email credentials.
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendLoginLink(ctx context.Context, to, link string) error {
	log.Printf("📧 [Dev Mode] Login link for %s: %s", to, link)
	return nil
}

func (m *MockMailer) SendInvitation(ctx context.Context, to, inviterEmail, orgName, link string) error {
	log.Printf("📧 [Dev Mode] Invitation to %s from %s (%s): %s", to, inviterEmail, orgName, link)
	return nil
}
