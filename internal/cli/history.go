package cli

import (
	"fmt"
	"strings"

	"github.com/quantumsync/attune/internal/db"
	"github.com/quantumsync/attune/internal/models"
	"github.com/spf13/cobra"
)

var (
	historySubject string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded balancing sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewSessionRepository(database)

		var records []*models.SessionRecord
		if strings.TrimSpace(historySubject) != "" {
			records, err = repo.ListByPatient(cmd.Context(), historySubject, historyLimit)
		} else {
			records, err = repo.ListRecent(cmd.Context(), historyLimit)
		}
		if err != nil {
			return fmt.Errorf("failed to load session history: %w", err)
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), records)
		}

		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
			return nil
		}

		headers := []string{"WHEN", "SUBJECT", "STAGES", "MIN/STAGE", "THERAPIST"}
		rows := make([][]string, 0, len(records))
		for _, record := range records {
			rows = append(rows, []string{
				record.CreatedAt.Local().Format("2006-01-02 15:04"),
				record.PatientID,
				fmt.Sprintf("%d", len(record.Data.Stages)),
				fmt.Sprintf("%d", record.Data.DurationMinutes),
				record.TherapistID,
			})
		}
		return writeTable(cmd.OutOrStdout(), headers, rows)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySubject, "name", "", "filter by subject name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum sessions to list")
	rootCmd.AddCommand(historyCmd)
}
