// Package cli implements the attune command line interface.
package cli

import (
	"fmt"

	"github.com/quantumsync/attune/internal/config"
	"github.com/quantumsync/attune/internal/db"
	"github.com/quantumsync/attune/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	jsonOutput     bool
	noProgress     bool
	nonInteractive bool
	logLevel       string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "attune",
	Short: "Chakra balancing session sequencer",
	Long: `Attune runs timed chakra balancing sessions.

A session walks a subject through the seven-stage chakra catalog (or
only the unbalanced stages from a recorded diagnosis), tracks per-stage
progress, and records completed runs locally and durably.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		appConfig = cfg

		logging.Setup(logging.Options{
			Level: cfg.LogLevel,
			JSON:  cfg.LogJSON,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress output")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail if input is required")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens and migrates the configured database.
func openDatabase(cmd *cobra.Command) (*db.DB, error) {
	if err := appConfig.EnsureDirs(); err != nil {
		return nil, err
	}
	step := startProgress("Opening database")
	database, err := db.Open(appConfig.DBPath)
	if err != nil {
		step.Fail(err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(cmd.Context()); err != nil {
		step.Fail(err)
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	step.Done()
	return database, nil
}

// PreflightError is returned when a command cannot run in the current
// environment. It carries a hint and a suggested next step.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

// Error implements the error interface.
func (e *PreflightError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	if e.NextStep != "" {
		msg += "\nTry: " + e.NextStep
	}
	return msg
}
