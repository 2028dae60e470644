package notion

import "errors"

var (
	ErrMissingToken   = errors.New("notion: API token is required")
	ErrRequestFailed  = errors.New("notion: request failed")
	ErrNotFound       = errors.New("notion: object not found")
	ErrUnauthorized   = errors.New("notion: unauthorized")
	ErrRateLimited    = errors.New("notion: rate limited")
	ErrDecodeResponse = errors.New("notion: failed to decode response")
)
