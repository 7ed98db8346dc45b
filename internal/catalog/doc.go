// Package catalog persists the attachment inventory and review decisions in
// SQLite.
//
// The Store manages the database connection, schema initialization, the
// single-process lock, and the per-record upsert/decision writes that make
// review sessions resumable: every decision is durable before the review
// cursor advances. Records for paths that disappear from a later scan are
// preserved so partial review history is never silently dropped.
//
// Treat this package as the single source of truth for record semantics;
// when you add fields, update schema.sql and bump schemaVersion.
package catalog
