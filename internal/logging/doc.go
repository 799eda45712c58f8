// Package logging builds the zerolog loggers used across postfeed.
//
// Loggers are configured from a Config (level, format, output, file) and
// carry a per-invocation trace ID on the context so that every line written
// during a command or a TUI session can be correlated. When the interactive
// TUI owns the terminal, output is redirected to a file.
package logging
