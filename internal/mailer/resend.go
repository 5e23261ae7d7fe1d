package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *ResendMailer) SendLoginLink(ctx context.Context, to, link string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Your Crewbase sign-in link",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Sign in to Crewbase</h2>
				<p>Click the button below to sign in to your account:</p>
				<a href="%s" style="display: inline-block; background: #6366f1; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
					Sign in
				</a>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					This link expires in 15 minutes and can only be used once.
				</p>
				<p style="color: #aaa; font-size: 12px;">
					If you didn't request this, you can safely ignore this email.
				</p>
			</div>
		`, link),
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send login email: %w", err)
	}
	log.Printf("📧 Login email sent to %s (ID: %s)", to, sent.Id)
	return nil
}

func (m *ResendMailer) SendInvitation(ctx context.Context, to, inviterEmail, orgName, link string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: fmt.Sprintf("%s invited you to join %s on Crewbase", inviterEmail, orgName),
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">You've been invited to %s</h2>
				<p>%s invited you to join their team on Crewbase.</p>
				<a href="%s" style="display: inline-block; background: #6366f1; color: white; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: 600;">
					Join %s
				</a>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					This invitation expires in 7 days.
				</p>
			</div>
		`, orgName, inviterEmail, link, orgName),
	}

	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("📧 Invitation email sent to %s (ID: %s)", to, sent.Id)
	return nil
}
