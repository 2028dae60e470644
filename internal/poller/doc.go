// Package poller periodically scans the mailout database for rows flipped
// into the trigger status and starts a send for each by calling the local
// /send-mailout surface, so operators drive the executor purely from the
// document store.
//
// Every picked row is transitioned to the in-progress status before the
// trigger call, which keeps the next tick from processing it twice. Rows the
// poller refuses (non-test mailouts without the explicit allow flag) or fails
// to hand off are reverted to the not-started status for a conscious retry.
package poller
