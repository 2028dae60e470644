// Package report writes the per-run send report: one CSV row per attempted
// recipient, appended as the send loop progresses so a crash mid-run still
// leaves a usable partial artifact. A finished artifact can be pushed to
// object storage for a durable, shareable download link.
package report
