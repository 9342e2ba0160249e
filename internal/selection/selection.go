// Package selection computes which stages a balancing run should visit.
package selection

import (
	"strings"

	"github.com/quantumsync/attune/internal/models"
)

// ComputeStages returns the ordered list of stages to visit for a run.
//
// In SelectionModeAll the full catalog is returned in canonical order.
// In SelectionModeUnbalanced the catalog is filtered to stages whose
// diagnostic (matched case-insensitively by name) is closed or blocked.
// When no diagnostic data is supplied in unbalanced mode the full
// catalog is returned: the policy fails open rather than refusing to
// run. The result preserves canonical order regardless of diagnostic
// input order and may be empty in unbalanced mode.
func ComputeStages(mode models.SelectionMode, diagnostics []models.Diagnostic) []models.Stage {
	catalog := models.Catalog()

	if mode != models.SelectionModeUnbalanced {
		return catalog
	}
	if len(diagnostics) == 0 {
		return catalog
	}

	states := make(map[string]models.DiagnosticState, len(diagnostics))
	for _, d := range diagnostics {
		states[normalizeName(d.StageName)] = d.State
	}

	selected := make([]models.Stage, 0, len(catalog))
	for _, stage := range catalog {
		if states[normalizeName(stage.Name)].Unbalanced() {
			selected = append(selected, stage)
		}
	}
	return selected
}

// StageNames returns the names of the given stages, in order.
func StageNames(stages []models.Stage) []string {
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, stage.Name)
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
