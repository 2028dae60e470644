package pipeline

import "errors"

// Configuration errors, surfaced at call time so the process stays up and
// diagnosable even when a collaborator is missing.
var (
	ErrDocStoreNotConfigured    = errors.New("pipeline: document store is not configured")
	ErrSubscribersNotConfigured = errors.New("pipeline: subscriber store is not configured")
	ErrProviderNotConfigured    = errors.New("pipeline: email provider is not configured")
	ErrFooterNotConfigured      = errors.New("pipeline: compliance footer settings are missing")
	ErrFromEmailMissing         = errors.New("pipeline: sender address is not configured")
)

// Validation and conflict errors.
var (
	ErrSubjectRequired = errors.New("pipeline: mailout subject is required")
	ErrAlreadySent     = errors.New("pipeline: mailout was already sent")
	ErrSendInProgress  = errors.New("pipeline: send already in progress")
	ErrEmptyBody       = errors.New("pipeline: rendered email body is empty")
	ErrTestEmailsEmpty = errors.New("pipeline: test recipient list is empty")
)
