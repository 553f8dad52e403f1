// Package types defines the assistant's domain model: validated field values,
// contacts and the contact book, notes and the note book, and the error kinds
// those operations report.
//
// Every operation is a plain synchronous call on process-local data. Nothing in
// this package performs I/O; persistence and the command loop live in
// internal/store and internal/repl.
package types
