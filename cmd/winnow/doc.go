// Command winnow reclaims disk space from the iMessage attachments
// directory. It scans for large files, checks them against the Photos
// library, records keep/remove/import decisions through an interactive
// review, and relocates removable files into a quarantine directory instead
// of deleting them.
package main
