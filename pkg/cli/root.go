package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/config"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	jsonOutput bool
	flagConfig config.Config

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// errSilent makes the process exit non-zero without printing anything more.
var errSilent = errors.New("silent failure")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "routestore",
	Short: "routestore keeps a registry of named mock routes",
	Long: `routestore stores named mock routes: a request (method and payload) paired
with the response (status and body) a mock should answer with.

Routes live in the configured backend: memory, a file-based write-ahead log,
or PostgreSQL. Configuration can be provided via flags, ROUTESTORE_*
environment variables, or routestore.yaml / routestore.toml.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Main()
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: $ROUTESTORE_CONFIG or ./routestore.{yaml,yml,toml})")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&flagConfig.Store.Backend, "backend", "", "Storage backend: memory, file or postgres")
	pf.StringVar(&flagConfig.Store.DataDir, "data-dir", "", "Data directory for the file backend")
	pf.StringVar(&flagConfig.Store.DSN, "dsn", "", "PostgreSQL connection string for the postgres backend")
	pf.StringVar(&flagConfig.Store.MaxRecordSize, "max-record-size", "", "Largest encoded route, e.g. 1024, 4k, 1MiB")
	pf.BoolVar(&flagConfig.Store.ReadOnly, "read-only", false, "Reject every mutation")
	pf.StringVar(&flagConfig.Logging.Level, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagConfig.Logging.Format, "log-format", "", "Log format: text or json")
	pf.StringVar(&flagConfig.Logging.File, "log-file", "", "Also write JSON logs to this file")
	pf.StringVar(&flagConfig.Logging.FileLevel, "log-file-level", "", "Log level for --log-file (default info)")
}
