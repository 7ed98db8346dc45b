// Package services defines the shared error taxonomy for winnow components.
//
// Errors are tagged with sentinel markers so callers can classify failures
// (environment vs per-item vs external tool) without string matching, and
// operator-facing remediation hints ride along with environment errors so the
// CLI can print actionable guidance instead of a raw failure.
package services
