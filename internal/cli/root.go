package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/postfeed/internal/config"
	"github.com/rshade/postfeed/internal/logging"
	"github.com/rshade/postfeed/internal/posts"
	"github.com/rshade/postfeed/internal/tui"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Annotation keys recognised by the root command.
const (
	// annotationNoClient marks commands that run without an API client.
	annotationNoClient = "postfeed/no-client"
)

// app holds what the root command resolves before any subcommand runs.
type app struct {
	configPath  string
	debug       bool
	baseURL     string
	pageSize    int
	metricsAddr string
	plain       bool

	cfg       *config.Config
	client    *posts.Client
	registry  *prometheus.Registry
	metrics   *metricsServer
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the postfeed CLI.
// Without a subcommand it runs the interactive viewer.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "postfeed",
		Short:   "Browse posts from a REST API",
		Long:    "postfeed: an infinite-scroll terminal viewer for a paginated posts API",
		Version: ver,
		Example: rootCmdExample,
		Args:    cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.cleanup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runViewer(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.postfeed/config.yaml)")
	pf.StringVar(&a.baseURL, "base-url", "", "posts API base URL (overrides config file and env var)")
	pf.IntVar(&a.pageSize, "page-size", 0, "posts per page (overrides config file and env var)")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().BoolVar(&a.plain, "plain", false, "print the first page as a table instead of running the viewer")

	cmd.AddCommand(newListCmd(a), newShowCmd(a), newConfigCmd(a), newVersionCmd())

	return cmd
}

const rootCmdExample = `  # Browse posts interactively
  postfeed

  # Browse a local API with 30 posts per page
  postfeed --base-url http://localhost:3000 --page-size 30

  # Print page 2 as JSON
  postfeed list --page 2 --output json

  # Show two posts
  postfeed show 1 42

  # Initialize configuration
  postfeed config init`

// setup loads configuration, applies flag overrides, starts logging and
// builds the API client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL = a.baseURL
	}
	if flags.Changed("page-size") {
		cfg.Pagination.PageSize = a.pageSize
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	result := setupLogging(cmd, cfg.Logging, a.debug, a.ownsTerminal(cmd))
	a.logResult = &result

	if cmd.Annotations[annotationNoClient] == "true" {
		return nil
	}

	a.registry = prometheus.NewRegistry()
	opts := []posts.Option{posts.WithMetrics(posts.NewMetrics(a.registry))}
	if cfg.API.Timeout > 0 {
		opts = append(opts, posts.WithTimeout(cfg.API.Timeout))
	}
	client, err := posts.NewClient(cfg.API.BaseURL, opts...)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}
	a.client = client

	if a.metricsAddr != "" {
		srv, srvErr := startMetricsServer(cmd.Context(), a.metricsAddr, a.registry)
		if srvErr != nil {
			return srvErr
		}
		a.metrics = srv
	}

	logger.Debug().
		Ctx(cmd.Context()).
		Str("base_url", client.BaseURL()).
		Int("page_size", cfg.Pagination.PageSize).
		Str("mode", cfg.Pagination.Mode).
		Msg("client configured")
	return nil
}

// ownsTerminal reports whether cmd will run the full-screen viewer, in
// which case logs must not go to the terminal.
func (a *app) ownsTerminal(cmd *cobra.Command) bool {
	if cmd != cmd.Root() || a.plain {
		return false
	}
	return tui.DetectOutputMode(false, false, false) == tui.OutputModeInteractive
}

// cleanup stops the metrics server and closes the log file.
func (a *app) cleanup(cmd *cobra.Command) error {
	if a.metrics != nil {
		if err := a.metrics.Shutdown(cmd.Context()); err != nil {
			logger.Warn().Ctx(cmd.Context()).Err(err).Msg("metrics server shutdown failed")
		}
	}
	if a.logResult != nil {
		return a.logResult.Close()
	}
	return nil
}
