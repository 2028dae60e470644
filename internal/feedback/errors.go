package feedback

import "errors"

var (
	ErrInvalidSignature  = errors.New("feedback: invalid envelope signature")
	ErrUntrustedURL      = errors.New("feedback: URL outside the trusted notification-service origin")
	ErrUnsupportedType   = errors.New("feedback: unsupported envelope type")
	ErrCertFetchFailed   = errors.New("feedback: failed to fetch signing certificate")
	ErrTopicNotAllowed   = errors.New("feedback: topic not in allowlist")
	ErrAllowlistRequired = errors.New("feedback: topic allowlist required for subscription confirmation")
	ErrConfirmFailed     = errors.New("feedback: subscription confirmation failed")
	ErrInvalidMessage    = errors.New("feedback: invalid notification message")
	ErrStoreFailed       = errors.New("feedback: subscriber update failed")
)
