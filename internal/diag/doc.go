// Package diag defines the diagnostic model of the binding generator.
//
// # Purpose
//
//   - Capture the advisory findings of a generation run: declarations that
//     were skipped, layouts that had to be approximated, configuration that
//     was ignored.
//   - Offer light-weight utilities (Reporter, Bag) that let the emitters
//     report without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short, actionable text.
//   - Subject: the declaration the finding is about (item id + display name).
//   - Notes: optional secondary subjects with context.
//
// Generation never aborts on a diagnostic. Skipped declarations are simply
// absent from the output; the diagnostic is the only trace of them. Errors
// are reserved for the outer shell (unreadable input, invalid configuration).
//
// # Ordering
//
// Bag.Sort orders by subject item id, then severity (desc), then code, so
// the rendered output is stable across runs over the same graph.
package diag
