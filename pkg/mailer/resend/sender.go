package resend

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailout/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.Receipt, error) {
	if err := mailer.Validate(email); err != nil {
		return nil, err
	}

	req := &resend.SendEmailRequest{
		From:    mailer.FormatAddress(email.FromName, email.FromEmail),
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}
	if email.ReplyTo != "" {
		req.ReplyTo = email.ReplyTo
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Join(mailer.ErrSendFailed, err)
	}

	return &mailer.Receipt{MessageID: resp.Id}, nil
}
