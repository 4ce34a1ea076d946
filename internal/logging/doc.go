// Package logging builds the slog loggers used by Seasonwatch.
//
// A logger writes to up to two sinks: human-readable lines on the terminal,
// optionally coloured, and the log file in the data directory as lines or
// JSON. Context helpers tag lines with the run, series and artist they
// concern, and the warn/error helpers make every problem report carry an
// event type, a hint and an impact.
package logging
