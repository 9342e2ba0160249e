package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/quantumsync/attune/internal/models"
)

type memoryRepo struct {
	events []*models.Event
}

func (r *memoryRepo) Append(ctx context.Context, event *models.Event) error {
	r.events = append(r.events, event)
	return nil
}

func TestLogSessionStarted(t *testing.T) {
	repo := &memoryRepo{}

	err := LogSessionStarted(context.Background(), repo, "Maria", models.SelectionModeAll, 1, []string{"Root"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	event := repo.events[0]
	if event.Type != models.EventTypeSessionStarted {
		t.Errorf("expected session.started, got %q", event.Type)
	}
	if event.EntityID != "maria" {
		t.Errorf("expected lowercased entity id, got %q", event.EntityID)
	}

	var payload models.SessionStartedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.SubjectName != "Maria" || payload.Mode != models.SelectionModeAll {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestLogStageAdvanced(t *testing.T) {
	repo := &memoryRepo{}

	err := LogStageAdvanced(context.Background(), repo, "Maria", "Root", "Sacral", 1, 7)
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	var payload models.StageAdvancedPayload
	if err := json.Unmarshal(repo.events[0].Payload, &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.FromStage != "Root" || payload.ToStage != "Sacral" || payload.StageIndex != 1 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestLogRequiresRepoAndSubject(t *testing.T) {
	if err := LogSessionStopped(context.Background(), nil, "Maria", ""); err == nil {
		t.Error("expected error for nil repository")
	}

	repo := &memoryRepo{}
	if err := LogSessionStopped(context.Background(), repo, "   ", ""); err == nil {
		t.Error("expected error for blank subject name")
	}
	if len(repo.events) != 0 {
		t.Errorf("expected no events, got %d", len(repo.events))
	}
}
