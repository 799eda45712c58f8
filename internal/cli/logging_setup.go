package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/postfeed/internal/config"
	"github.com/rshade/postfeed/internal/logging"
)

// setupLogging configures logging from the resolved config and the --debug
// flag. When the viewer owns the terminal, logs always go to a file.
func setupLogging(cmd *cobra.Command, loggingCfg config.LoggingConfig, debug, ownsTerminal bool) logging.LogPathResult {
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}
	if ownsTerminal {
		loggingCfg = loggingCfg.ForTerminalUI()
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !ownsTerminal {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}
