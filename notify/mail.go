// Package notify delivers one-time passwords and order notices by email
// and SMS.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	SendMail(ctx context.Context, to, subject, html string) error
}

// PostmarkMailer sends through the Postmark API.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{client: postmark.NewClient(serverToken, ""), from: from}
}

func (m *PostmarkMailer) SendMail(ctx context.Context, to, subject, html string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

// SendgridMailer sends through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   string
}

func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendgridMailer) SendMail(ctx context.Context, to, subject, html string) error {
	message := mail.NewSingleEmail(mail.NewEmail("", m.from), subject, mail.NewEmail("", to), "", html)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs. Used when no provider is configured.
type LogMailer struct{}

func (LogMailer) SendMail(ctx context.Context, to, subject, html string) error {
	log.Printf("[MAIL] to=%s subject=%q (no provider configured)", to, subject)
	return nil
}

// NewMailer picks a provider by name, falling back to LogMailer.
func NewMailer(provider, postmarkToken, sendgridKey, from string) Mailer {
	switch provider {
	case "postmark":
		if postmarkToken != "" {
			return NewPostmarkMailer(postmarkToken, from)
		}
	case "sendgrid":
		if sendgridKey != "" {
			return NewSendgridMailer(sendgridKey, from)
		}
	}
	return LogMailer{}
}

func OTPEmail(otp string) (subject, html string) {
	return "Verify your email.", fmt.Sprintf(`<div>
   <h1>Verify your email</h1>
   <p>Your OTP is: <strong>%s</strong></p>
   <p>Use this code to verify your email address.</p>
</div>`, otp)
}

func OrderConfirmationEmail(orderID, payable string) (subject, html string) {
	return "Order Confirmation", fmt.Sprintf(
		"<strong>Thank you for your purchase!</strong><br><br>Your order <strong>%s</strong> has been placed.<br>Amount paid: <strong>%s</strong>",
		orderID, payable,
	)
}
