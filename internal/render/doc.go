// Package render converts a mailout page's content blocks into parallel
// HTML and plain-text email bodies.
//
// Both variants are produced in one pass so they always describe the same
// content. Unsupported block types are reported as diagnostics instead of
// failing the render, and their text payload, when present, is kept as a
// fallback paragraph so content never silently disappears from the email.
package render
