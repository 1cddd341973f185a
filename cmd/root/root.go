// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	Format    string
	LogLevel  string
	LogFormat string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.Default()

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stmt-import",
		Short: "Import bank and credit-card exports into a normalized transaction ledger.",
		Long: `stmt-import reads CSV and Excel exports from banks and credit-card issuers,
maps their columns through a format descriptor and writes normalized, de-duplicated
transactions to a CSV ledger.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output ledger CSV")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Format descriptor name (default from formats.default)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format override (text, json)")
}

// setup loads configuration and wires the container before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}

	Log = config.NewLogger(cfg)
	c, err := container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	appContainer = c

	Log.Debug("Configuration loaded",
		logging.F("log_level", cfg.Log.Level),
		logging.F(logging.FieldDelimiter, string(common.Delimiter)))
	return nil
}

// GetContainer returns the container wired by the root command, or nil before setup ran.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the wired container; used by command tests.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}
