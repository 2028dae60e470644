package poller

import "errors"

var (
	ErrNotConfigured = errors.New("poller: schedule or mailout database id is not configured")
	ErrBadSchedule   = errors.New("poller: invalid schedule expression")
	ErrTriggerFailed = errors.New("poller: local trigger call failed")
)
