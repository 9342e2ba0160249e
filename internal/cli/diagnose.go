package cli

import (
	"fmt"
	"strings"

	"github.com/quantumsync/attune/internal/db"
	"github.com/quantumsync/attune/internal/events"
	"github.com/quantumsync/attune/internal/logging"
	"github.com/quantumsync/attune/internal/models"
	"github.com/spf13/cobra"
)

var (
	diagnoseSubject string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Record and inspect per-stage diagnoses",
}

var diagnoseSetCmd = &cobra.Command{
	Use:   "set <stage> <open|closed|blocked>",
	Short: "Record the diagnosed state of one stage for a subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(diagnoseSubject) == "" {
			return fmt.Errorf("a subject name is required (use --name)")
		}

		stage, ok := models.StageByName(args[0])
		if !ok {
			return fmt.Errorf("unknown stage %q; run 'attune stages' for the catalog", args[0])
		}
		state := models.DiagnosticState(strings.ToLower(strings.TrimSpace(args[1])))
		switch state {
		case models.DiagnosticOpen, models.DiagnosticClosed, models.DiagnosticBlocked:
		default:
			return fmt.Errorf("invalid state %q (expected open, closed, or blocked)", args[1])
		}

		database, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		diagnostic := models.Diagnostic{StageName: stage.Name, State: state}
		repo := db.NewDiagnosticRepository(database)
		if err := repo.Set(cmd.Context(), diagnoseSubject, diagnostic); err != nil {
			return fmt.Errorf("failed to record diagnosis: %w", err)
		}

		eventRepo := db.NewEventRepository(database)
		if err := events.LogDiagnosisRecorded(cmd.Context(), eventRepo, diagnoseSubject, stage.Name, state); err != nil {
			logger := logging.Component("cli")
			logger.Warn().Err(err).Msg("failed to log diagnosis event")
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]any{
				"subject": diagnoseSubject,
				"stage":   stage.Name,
				"state":   state,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s as %s for %s\n", stage.Name, state, diagnoseSubject)
		return nil
	},
}

var diagnoseShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the recorded diagnosis for a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(diagnoseSubject) == "" {
			return fmt.Errorf("a subject name is required (use --name)")
		}

		database, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewDiagnosticRepository(database)
		diagnostics, err := repo.ListBySubject(cmd.Context(), diagnoseSubject)
		if err != nil {
			return fmt.Errorf("failed to load diagnostics: %w", err)
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), diagnostics)
		}

		if len(diagnostics) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No diagnosis recorded for %s\n", diagnoseSubject)
			return nil
		}

		headers := []string{"STAGE", "STATE", "UNBALANCED"}
		rows := make([][]string, 0, len(diagnostics))
		for _, diagnostic := range diagnostics {
			rows = append(rows, []string{
				diagnostic.StageName,
				string(diagnostic.State),
				formatYesNo(diagnostic.State.Unbalanced()),
			})
		}
		return writeTable(cmd.OutOrStdout(), headers, rows)
	},
}

func init() {
	diagnoseCmd.PersistentFlags().StringVar(&diagnoseSubject, "name", "", "subject name")
	diagnoseCmd.AddCommand(diagnoseSetCmd)
	diagnoseCmd.AddCommand(diagnoseShowCmd)
	rootCmd.AddCommand(diagnoseCmd)
}
