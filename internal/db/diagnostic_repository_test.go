package db

import (
	"context"
	"errors"
	"testing"

	"github.com/quantumsync/attune/internal/models"
)

func TestDiagnosticRepository_SetAndList(t *testing.T) {
	database := setupTestDB(t)
	repo := NewDiagnosticRepository(database)
	ctx := context.Background()

	// Set out of catalog order.
	diagnostics := []models.Diagnostic{
		{StageName: "Crown", State: models.DiagnosticBlocked},
		{StageName: "Root", State: models.DiagnosticClosed},
		{StageName: "Heart", State: models.DiagnosticOpen},
	}
	for _, d := range diagnostics {
		if err := repo.Set(ctx, "Maria", d); err != nil {
			t.Fatalf("set %s: %v", d.StageName, err)
		}
	}

	got, err := repo.ListBySubject(ctx, "maria")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(got))
	}

	// Catalog order: Root before Heart before Crown.
	want := []string{"Root", "Heart", "Crown"}
	for i, name := range want {
		if got[i].StageName != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].StageName)
		}
	}
}

func TestDiagnosticRepository_SetReplacesState(t *testing.T) {
	database := setupTestDB(t)
	repo := NewDiagnosticRepository(database)
	ctx := context.Background()

	if err := repo.Set(ctx, "Jon", models.Diagnostic{StageName: "Throat", State: models.DiagnosticBlocked}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "Jon", models.Diagnostic{StageName: "Throat", State: models.DiagnosticOpen}); err != nil {
		t.Fatalf("set again: %v", err)
	}

	got, err := repo.ListBySubject(ctx, "Jon")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	if got[0].State != models.DiagnosticOpen {
		t.Errorf("expected open, got %q", got[0].State)
	}
}

func TestDiagnosticRepository_RejectsUnknownStage(t *testing.T) {
	database := setupTestDB(t)
	repo := NewDiagnosticRepository(database)

	err := repo.Set(context.Background(), "Maria", models.Diagnostic{
		StageName: "Spleen",
		State:     models.DiagnosticOpen,
	})
	if !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}
}

func TestDiagnosticRepository_RejectsInvalidState(t *testing.T) {
	database := setupTestDB(t)
	repo := NewDiagnosticRepository(database)

	err := repo.Set(context.Background(), "Maria", models.Diagnostic{
		StageName: "Root",
		State:     "wedged",
	})
	if !errors.Is(err, ErrInvalidDiagnostic) {
		t.Errorf("expected ErrInvalidDiagnostic, got %v", err)
	}
}

func TestDiagnosticRepository_EmptySubjectRejected(t *testing.T) {
	database := setupTestDB(t)
	repo := NewDiagnosticRepository(database)

	err := repo.Set(context.Background(), "  ", models.Diagnostic{
		StageName: "Root",
		State:     models.DiagnosticOpen,
	})
	if !errors.Is(err, ErrInvalidDiagnostic) {
		t.Errorf("expected ErrInvalidDiagnostic, got %v", err)
	}
}
