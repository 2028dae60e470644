package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have a recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mailer: email must have a subject")

	// ErrNoContent indicates neither an HTML nor a text body was provided.
	ErrNoContent = errors.New("mailer: email must have a body")

	// ErrNoSender indicates no sender address was configured.
	ErrNoSender = errors.New("mailer: email must have a sender address")

	// ErrSendFailed indicates the provider rejected or failed the delivery.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
