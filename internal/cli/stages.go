package cli

import (
	"fmt"

	"github.com/quantumsync/attune/internal/models"
	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the chakra stage catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		stages := models.Catalog()

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), stages)
		}

		headers := []string{"STAGE", "FREQUENCY", "COLOR", "POSITION"}
		rows := make([][]string, 0, len(stages))
		for _, stage := range stages {
			rows = append(rows, []string{
				stage.Name,
				fmt.Sprintf("%d Hz", stage.Frequency),
				stage.Color,
				fmt.Sprintf("%d", stage.Position),
			})
		}
		return writeTable(cmd.OutOrStdout(), headers, rows)
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
}
