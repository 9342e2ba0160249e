package progress

import (
	"testing"

	"github.com/quantumsync/attune/internal/models"
)

func stageNamed(t *testing.T, name string) models.Stage {
	t.Helper()
	stage, ok := models.StageByName(name)
	if !ok {
		t.Fatalf("unknown stage %q", name)
	}
	return stage
}

func TestTracker_StageChangeResetsProgress(t *testing.T) {
	tracker := NewTracker()

	tracker.SetStage(stageNamed(t, "Root"))
	tracker.SetPercent(75)

	tracker.SetStage(stageNamed(t, "Sacral"))

	snap := tracker.Snapshot()
	if snap.Stage == nil || snap.Stage.Name != "Sacral" {
		t.Fatalf("expected Sacral, got %+v", snap.Stage)
	}
	if snap.Percent != 0 {
		t.Errorf("expected progress reset to 0, got %v", snap.Percent)
	}
}

func TestTracker_SameStageKeepsProgress(t *testing.T) {
	tracker := NewTracker()

	tracker.SetStage(stageNamed(t, "Heart"))
	tracker.SetPercent(40)
	tracker.SetStage(stageNamed(t, "Heart"))

	if got := tracker.Snapshot().Percent; got != 40 {
		t.Errorf("expected progress kept at 40, got %v", got)
	}
}

func TestTracker_SetPercentClamps(t *testing.T) {
	tracker := NewTracker()
	tracker.SetStage(stageNamed(t, "Root"))

	tracker.SetPercent(150)
	if got := tracker.Snapshot().Percent; got != 100 {
		t.Errorf("expected clamp to 100, got %v", got)
	}

	tracker.SetPercent(-5)
	if got := tracker.Snapshot().Percent; got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
}

func TestTracker_Clear(t *testing.T) {
	tracker := NewTracker()
	tracker.SetStage(stageNamed(t, "Crown"))
	tracker.SetPercent(90)

	tracker.Clear()

	snap := tracker.Snapshot()
	if snap.Stage != nil {
		t.Errorf("expected no stage, got %+v", snap.Stage)
	}
	if snap.Percent != 0 {
		t.Errorf("expected progress 0, got %v", snap.Percent)
	}

	// After Clear, re-entering the first stage starts from zero again.
	tracker.SetStage(stageNamed(t, "Crown"))
	if got := tracker.Snapshot().Percent; got != 0 {
		t.Errorf("expected progress 0 after re-entry, got %v", got)
	}
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	tracker := NewTracker()
	tracker.SetStage(stageNamed(t, "Root"))

	snap := tracker.Snapshot()
	snap.Stage.Name = "mutated"

	if got := tracker.Snapshot().Stage.Name; got != "Root" {
		t.Errorf("snapshot mutation leaked into tracker: %q", got)
	}
}
