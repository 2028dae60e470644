package mailer

import "fmt"

// Email represents one fully-prepared transactional message: a single
// recipient, a subject, and parallel HTML/text bodies.
type Email struct {
	To        string // Recipient address (required)
	Subject   string // Subject line (required)
	HTML      string // HTML body
	Text      string // Plain-text alternative
	FromEmail string // Sender address (required)
	FromName  string // Display name for the sender, optional
	ReplyTo   string // Reply-to address, optional
}

// Receipt is the provider's acknowledgement of an accepted message.
type Receipt struct {
	// MessageID is the provider-assigned identifier, recorded in the run
	// report for cross-referencing delivery feedback.
	MessageID string
}

// FormatAddress renders a name and email into RFC 5322 address format.
// Returns "Name <email>" when a name is provided, otherwise just the email.
func FormatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
