// Package scanner discovers candidate attachment files and computes their
// content digests.
//
// Discovery walks the attachments root recursively, keeping regular files
// whose extension is on the configured allow-list and whose size meets the
// threshold. Individual unreadable entries are skipped with a warning; only
// environment failures (missing root, permission denial) abort a scan, and
// those carry operator remediation hints.
package scanner
