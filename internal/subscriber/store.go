package subscriber

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Subscriber statuses. Only active addresses are resolved into send lists.
const (
	StatusActive       = "active"
	StatusBounced      = "bounced"
	StatusUnsubscribed = "unsubscribed"
)

// Recipient is one send target.
type Recipient struct {
	Email    string
	FromName string
}

// StatusUpdate describes a suppression transition.
type StatusUpdate struct {
	Status        string
	BounceType    string
	BounceSubtype string
}

// Store reads and mutates the subscribers table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a pgx pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// FetchActive returns all active subscribers ordered by email.
func (s *Store) FetchActive(ctx context.Context) ([]Recipient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT email, COALESCE(from_name, '')
		FROM subscribers
		WHERE status = $1
		ORDER BY email ASC`, StatusActive)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.Email, &r.FromName); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		recipients = append(recipients, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	return recipients, nil
}

// UpsertStatus records a status transition for email, creating a suppression
// row when the address is not yet present. Empty bounce fields never clobber
// previously recorded ones.
func (s *Store) UpsertStatus(ctx context.Context, email string, update StatusUpdate) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmptyEmail
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscribers (email, status, bounce_type, bounce_subtype, status_updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (email) DO UPDATE SET
			status            = EXCLUDED.status,
			bounce_type       = COALESCE(EXCLUDED.bounce_type, subscribers.bounce_type),
			bounce_subtype    = COALESCE(EXCLUDED.bounce_subtype, subscribers.bounce_subtype),
			status_updated_at = EXCLUDED.status_updated_at`,
		email, update.Status, update.BounceType, update.BounceSubtype, time.Now().UTC())
	if err != nil {
		return errors.Join(ErrUpsertFailed, err)
	}

	return nil
}

// Unsubscribe marks an address unsubscribed.
func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	return s.UpsertStatus(ctx, email, StatusUpdate{Status: StatusUnsubscribed})
}
