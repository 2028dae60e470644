// Package errlog is the operator-facing error sink. Pipeline and poller
// failures become rows in a document-store errors database so operators see
// them next to the mailouts themselves, with a structured log fallback when
// that database is not configured.
//
// Sink writes are best effort by design. An error report must never take
// down the operation it reports on.
package errlog
