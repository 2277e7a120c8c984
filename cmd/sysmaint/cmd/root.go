package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sysmaint/internal/config"
	"github.com/oshokin/sysmaint/internal/logger"
	"github.com/oshokin/sysmaint/internal/service/maintenance"
	"github.com/oshokin/sysmaint/internal/service/report"
	"github.com/oshokin/sysmaint/internal/sysexec"
	"github.com/oshokin/sysmaint/internal/version"
)

var (
	// configPath stores the path to the optional configuration YAML file.
	configPath string
	// envFile stores the path to an optional dotenv file loaded before the environment.
	envFile string
	// logLevel overrides the configured diagnostics verbosity.
	logLevel string
	// dryRun prints the commands that would run without executing them.
	dryRun bool

	// rootCmd represents the base command running the full maintenance pipeline.
	rootCmd = &cobra.Command{
		Use:   "sysmaint",
		Short: "Run routine maintenance on a Debian-based host.",
		Long: `Automate routine maintenance for a single Debian-based host.

One invocation runs a fixed pipeline: repair interrupted package
transactions, refresh and upgrade packages non-interactively, purge
obsolete packages and caches, trim logs and journald history, optionally
set up compressed-RAM (zram) swap, prune unused flatpak runtimes, and
print a final status report.

Requires root. Configuration comes from SYSMAINT_* environment variables,
with stated defaults; an optional yaml settings file supplies a layer
underneath the environment. A fatal step aborts the run with a nonzero
exit and prior steps' effects left in place; re-running is always safe.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return maintenance.Run(ctx, &maintenance.Options{
				Config: cfg,
				Runner: sysexec.NewRunner(dryRun),
			})
		},
	}

	// reportCmd prints only the status summary; it needs no privilege.
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Print the system status summary without running maintenance.",
		Long:  "Gather and print system health indicators: kernel and host identification, root filesystem usage, memory and swap figures, failed service units, and a pending-reboot notice. No maintenance action is performed and no privilege is required.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if _, err := loadConfig(); err != nil {
				return err
			}

			report.Run(ctx, &report.Options{
				Runner: sysexec.NewRunner(false),
			})

			return nil
		},
	}
)

// loadConfig builds the run configuration and applies the diagnostics level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	if parsed, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(parsed)
	} else {
		logger.Warnf(context.Background(), "Unknown log level %q, keeping %s", level, logger.Level())
	}

	return cfg, nil
}

// Execute runs the sysmaint CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(reportCmd)

	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to optional yaml settings file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to optional dotenv file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostics level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands that would run without executing them")
}
