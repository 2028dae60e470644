package subscriber

import "errors"

var (
	ErrEmptyEmail   = errors.New("subscriber: email is required")
	ErrQueryFailed  = errors.New("subscriber: query failed")
	ErrUpsertFailed = errors.New("subscriber: upsert failed")
)
