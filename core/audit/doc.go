// Package audit keeps the decision trail of the coordinator. Every assignment,
// reassignment, release and rejected attempt is appended as a LogRecord to a
// LogStore backed by a JSONL file, a rotating JSONL file or SQLite.
package audit
