// Package photos answers one question about the user's Photos library —
// "does a file with this name and exact byte size already live there?" —
// and drives imports through the Photos application itself.
//
// The index reads the library's SQLite database directly, read-only. That
// is a heuristic, not a content check: Photos does not store attachment
// digests, so a name plus exact-size hit is the strongest signal available
// without exporting originals. Imports go through osascript so Photos owns
// every write to its own library.
package photos
