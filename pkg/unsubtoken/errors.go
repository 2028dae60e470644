package unsubtoken

import "errors"

var (
	// ErrEmptyEmail indicates an empty email on create, or a token whose
	// payload decodes to nothing.
	ErrEmptyEmail = errors.New("unsubtoken: empty email")

	// ErrEmptySecret indicates the signing secret is not configured.
	ErrEmptySecret = errors.New("unsubtoken: empty secret")

	// ErrMalformedToken indicates the token is not payload.signature shaped
	// or the payload is not valid base64url.
	ErrMalformedToken = errors.New("unsubtoken: malformed token")

	// ErrBadSignature indicates the signature does not match the payload.
	ErrBadSignature = errors.New("unsubtoken: signature mismatch")
)
