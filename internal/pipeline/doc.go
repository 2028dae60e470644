// Package pipeline is the send orchestrator: one Run turns a mailout page
// into outbound email, end to end. It validates preconditions, takes the
// per-mailout lock, renders content, resolves recipients, paces sends under
// the rate limit, records every outcome in the run report, and reconciles
// final counts back to the document store.
//
// A per-recipient send failure never aborts the loop, and a reconciliation
// failure never turns a completed send into a request error. The send
// happened; the pipeline reports it as having happened.
package pipeline
