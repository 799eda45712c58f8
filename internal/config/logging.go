package config

import (
	"github.com/rshade/postfeed/internal/logging"
)

// ToLoggingConfig converts LoggingConfig to logging.Config.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// ForTerminalUI returns a copy of lc that never writes to the terminal: when
// no file is configured the default log file is used.
func (lc LoggingConfig) ForTerminalUI() LoggingConfig {
	if lc.File == "" {
		lc.File = DefaultLogFile()
	}
	return lc
}
