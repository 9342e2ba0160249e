package models

import "testing"

func TestCatalogOrder(t *testing.T) {
	stages := Catalog()
	if len(stages) != StageCount {
		t.Fatalf("expected %d stages, got %d", StageCount, len(stages))
	}
	if stages[0].Name != "Root" || stages[StageCount-1].Name != "Crown" {
		t.Errorf("catalog must run root to crown, got %s..%s", stages[0].Name, stages[StageCount-1].Name)
	}
	for i := 1; i < len(stages); i++ {
		if stages[i].Frequency <= stages[i-1].Frequency {
			t.Errorf("frequencies must ascend: %s (%d) after %s (%d)",
				stages[i].Name, stages[i].Frequency, stages[i-1].Name, stages[i-1].Frequency)
		}
		if stages[i].Position >= stages[i-1].Position {
			t.Errorf("display positions must descend toward the crown")
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	stages := Catalog()
	stages[0].Name = "mutated"
	if fresh := Catalog(); fresh[0].Name != "Root" {
		t.Errorf("catalog mutated through returned slice")
	}
}

func TestStageByName(t *testing.T) {
	if _, ok := StageByName("solar plexus"); !ok {
		t.Errorf("lookup must be case-insensitive")
	}
	if _, ok := StageByName(" Heart "); !ok {
		t.Errorf("lookup must trim whitespace")
	}
	if _, ok := StageByName("aura"); ok {
		t.Errorf("unknown stage must not resolve")
	}
	if idx := StageIndex("Crown"); idx != StageCount-1 {
		t.Errorf("expected Crown at index %d, got %d", StageCount-1, idx)
	}
	if idx := StageIndex("aura"); idx != -1 {
		t.Errorf("expected -1 for unknown stage, got %d", idx)
	}
}

func TestDiagnosticStateUnbalanced(t *testing.T) {
	if DiagnosticOpen.Unbalanced() {
		t.Errorf("open stages are balanced")
	}
	if !DiagnosticClosed.Unbalanced() || !DiagnosticBlocked.Unbalanced() {
		t.Errorf("closed and blocked stages are unbalanced")
	}
}
