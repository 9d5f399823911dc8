// Package cli provides the sercha-ask command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options carries the global flags to the bootstrap function.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// IndexDir overrides the configured artifact directory.
	IndexDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Services holds the driving ports the commands run against.
type Services struct {
	Ask      driving.AskService
	Index    driving.IndexService
	Settings driving.SettingsService

	// IndexDir is where the artifact lives; long-running commands watch it for rebuilds.
	IndexDir string

	// Unavailable explains why Ask or Index is nil, typically missing provider settings.
	Unavailable error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	askService      driving.AskService
	indexService    driving.IndexService
	settingsService driving.SettingsService
	indexDir        string
	unavailable     error

	bootstrap Bootstrap
	opts      Options
)

var rootCmd = &cobra.Command{
	Use:   "sercha-ask",
	Short: "Answer questions from your own documents",
	Long: `sercha-ask indexes local files and web pages into a vector index and
answers questions using only the indexed text.

Build an index, then ask:
  sercha-ask index ./handbook --crawl https://example.edu
  sercha-ask ask "What is the hostel fee?"`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.sercha-ask/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.IndexDir, "index-dir", "", "index directory (default from settings)")
}

// SetBootstrap sets the function that builds services before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)

	if bootstrap == nil {
		return nil
	}
	svcs, err := bootstrap(opts)
	if err != nil {
		return err
	}
	setServices(svcs)
	return nil
}

func setServices(s *Services) {
	askService = s.Ask
	indexService = s.Index
	settingsService = s.Settings
	indexDir = s.IndexDir
	unavailable = s.Unavailable
}

// errNotConfigured reports a missing service, with the reason when known.
func errNotConfigured(name string) error {
	if unavailable != nil {
		return fmt.Errorf("%s service not configured: %w", name, unavailable)
	}
	return errors.New(name + " service not configured")
}
