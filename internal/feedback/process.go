package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/mailout/internal/subscriber"
)

// Event kinds inside a Notification envelope.
const (
	kindBounce    = "Bounce"
	kindComplaint = "Complaint"
	kindDelivery  = "Delivery"
)

// Store is the slice of the subscriber store the processor mutates.
type Store interface {
	UpsertStatus(ctx context.Context, email string, update subscriber.StatusUpdate) error
}

// Result reports what processing an envelope did.
type Result struct {
	Confirmed bool
	Updated   int
}

// Processor validates feedback envelopes and applies suppression
// transitions.
type Processor struct {
	verifier      *Verifier
	store         Store
	log           *slog.Logger
	allowedTopics []string
}

// NewProcessor wires a Processor. allowedTopics gates which topic ARNs may
// deliver events and whether subscriptions are auto-confirmed.
func NewProcessor(verifier *Verifier, store Store, allowedTopics []string, log *slog.Logger) *Processor {
	return &Processor{
		verifier:      verifier,
		store:         store,
		log:           log,
		allowedTopics: allowedTopics,
	}
}

// Process verifies and applies one envelope.
func (p *Processor) Process(ctx context.Context, env *Envelope) (*Result, error) {
	if err := p.verifier.Verify(ctx, env); err != nil {
		return nil, err
	}

	if len(p.allowedTopics) > 0 && !slices.Contains(p.allowedTopics, env.TopicArn) {
		return nil, ErrTopicNotAllowed
	}

	switch env.Type {
	case TypeSubscriptionConfirmation:
		// Auto-confirmation without an allowlist would subscribe this
		// endpoint to any topic that can reach it.
		if len(p.allowedTopics) == 0 {
			return nil, ErrAllowlistRequired
		}
		if err := p.verifier.ConfirmSubscription(ctx, env); err != nil {
			return nil, err
		}
		p.log.InfoContext(ctx, "subscription confirmed", slog.String("topic_arn", env.TopicArn))
		return &Result{Confirmed: true}, nil
	case TypeNotification:
		return p.processNotification(ctx, env)
	default:
		return &Result{}, nil
	}
}

func (p *Processor) processNotification(ctx context.Context, env *Envelope) (*Result, error) {
	var ev event
	if err := json.Unmarshal([]byte(env.Message), &ev); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}

	var (
		emails []string
		update subscriber.StatusUpdate
	)

	switch ev.kind() {
	case kindBounce:
		emails = ev.bouncedEmails()
		update = subscriber.StatusUpdate{Status: subscriber.StatusBounced}
		if ev.Bounce != nil {
			update.BounceType = ev.Bounce.BounceType
			update.BounceSubtype = ev.Bounce.BounceSubType
		}
	case kindComplaint:
		emails = ev.complainedEmails()
		update = subscriber.StatusUpdate{Status: subscriber.StatusUnsubscribed}
	case kindDelivery:
		// Metrics only, no state change.
		return &Result{}, nil
	default:
		p.log.DebugContext(ctx, "ignoring feedback event", slog.String("kind", ev.kind()))
		return &Result{}, nil
	}

	result := &Result{}
	for _, email := range emails {
		normalized := subscriber.NormalizeEmail(email)
		if normalized == "" {
			continue
		}
		if err := p.store.UpsertStatus(ctx, normalized, update); err != nil {
			return result, errors.Join(ErrStoreFailed, err)
		}
		result.Updated++
		p.log.InfoContext(ctx, "subscriber status updated",
			slog.String("email", normalized),
			slog.String("status", update.Status),
		)
	}

	return result, nil
}
