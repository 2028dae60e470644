package mailer

import "context"

// Sender is the minimal contract an email provider must implement.
// It accepts one fully-prepared Email and performs the actual delivery.
type Sender interface {
	// Send delivers a single message and returns the provider receipt.
	// The Email must have To, Subject, FromEmail and at least one body set.
	Send(ctx context.Context, email *Email) (*Receipt, error)
}

// Validate checks the minimal invariants every provider relies on.
// Providers call it before talking to their API so misconfiguration fails
// with a sentinel instead of an opaque upstream rejection.
func Validate(email *Email) error {
	switch {
	case email == nil || email.To == "":
		return ErrNoRecipient
	case email.Subject == "":
		return ErrNoSubject
	case email.HTML == "" && email.Text == "":
		return ErrNoContent
	case email.FromEmail == "":
		return ErrNoSender
	}
	return nil
}
