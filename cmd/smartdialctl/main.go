// Command smartdialctl operates a running smart-dial service: it triggers sync
// passes, runs lookups, reports sync status, rebuilds the index and watches
// index-changed notifications.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/config"
	"github.com/feral-file/ff-smartdial/internal/logger"
)

var (
	// configFile is set by the --config flag
	configFile string
	// envPath is set by the --env flag
	envPath string
	// jsonOutput is set by the --json flag
	jsonOutput bool

	// cfg is loaded before every command runs
	cfg *config.CtlConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartdialctl",
	Short: "Operate a smart-dial search index",
	Long: `smartdialctl talks to a running smart-dial service over its REST API,
rebuilds the index database directly and follows index-changed notifications
published on NATS JetStream.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Flush(time.Second)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the configuration and initializes the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadCtlConfig(configFile, envPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "smartdialctl",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// newAPIClient creates a client for the configured service
func newAPIClient() *apiClient {
	return newClient(adapter.NewHTTPClient(cfg.Timeout), cfg.APIURL, cfg.APIKey)
}

// printJSON writes v as indented JSON
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := adapter.NewJSON().MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
