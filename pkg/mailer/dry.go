package mailer

import (
	"context"

	"github.com/google/uuid"
)

// DrySender is a Sender that performs no delivery. It validates the message
// exactly like a real provider and synthesizes a deterministic receipt, so a
// dry run exercises every pipeline step except the outbound call.
type DrySender struct{}

// NewDry creates a dry-run sender.
func NewDry() *DrySender {
	return &DrySender{}
}

// Send implements Sender. The fake message id is a name-based UUID derived
// from the recipient address, stable across runs for easy diffing of reports.
func (*DrySender) Send(_ context.Context, email *Email) (*Receipt, error) {
	if err := Validate(email); err != nil {
		return nil, err
	}

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email.To))
	return &Receipt{MessageID: "simulated-" + id.String()}, nil
}
