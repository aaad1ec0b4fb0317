// Package recorder writes per-tick telemetry and reads it back.
//
// A [Recorder] appends one CSV row per tick to
// <dir>/<prefix>_<YYYY-mm-dd_HH-MM-SS>.csv. The header is
// "ts,interval,<fields>"; every row starts with the wall-clock epoch time in
// seconds and the tick interval. Booleans are written as True/False.
//
// [SQLiteSink] stores the same rows in a SQLite database instead.
// [ExportJSON] writes the kept history of a headless run as one JSON document.
//
// Both sinks are closed exactly once; a second Close is a no-op and an
// Insert after Close returns [dynamo.ErrRecorderClosed].
package recorder
