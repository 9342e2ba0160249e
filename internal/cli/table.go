package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const tablePadding = 2

// writeTable renders the aligned tables used by stages, diagnose show
// and history. Headers may be empty for headerless output.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

// formatYesNo renders a boolean cell, as in the diagnose show
// UNBALANCED column.
func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
