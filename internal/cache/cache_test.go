package cache

import (
	"testing"
	"time"

	"github.com/quantumsync/attune/internal/models"
)

func TestStore_AppendAndEntries(t *testing.T) {
	store := NewStore(t.TempDir())

	entry := models.BalanceEntry{
		SubjectName: "Maria",
		Timestamp:   time.Now().UTC(),
		Balanced:    true,
	}
	if err := store.Append(entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := store.Entries("Maria")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SubjectName != "Maria" || !entries[0].Balanced {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestStore_AppendIsAppendOnly(t *testing.T) {
	store := NewStore(t.TempDir())

	for i := 0; i < 3; i++ {
		if err := store.Append(models.BalanceEntry{SubjectName: "Maria", Balanced: true}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := store.Entries("maria")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestStore_CaseInsensitiveMatch(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append(models.BalanceEntry{SubjectName: "MARIA", Balanced: true}); err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err := store.RecentlyBalanced("maria", time.Now())
	if err != nil {
		t.Fatalf("recently balanced: %v", err)
	}
	if !recent {
		t.Error("expected case-insensitive match")
	}
}

func TestStore_RecentlyBalancedWindow(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now().UTC()

	if err := store.Append(models.BalanceEntry{
		SubjectName: "Old Subject",
		Timestamp:   now.Add(-25 * time.Hour),
		Balanced:    true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err := store.RecentlyBalanced("Old Subject", now)
	if err != nil {
		t.Fatalf("recently balanced: %v", err)
	}
	if recent {
		t.Error("entry older than 24h should not count as recent")
	}

	if err := store.Append(models.BalanceEntry{
		SubjectName: "Old Subject",
		Timestamp:   now.Add(-time.Hour),
		Balanced:    true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err = store.RecentlyBalanced("Old Subject", now)
	if err != nil {
		t.Fatalf("recently balanced: %v", err)
	}
	if !recent {
		t.Error("entry within 24h should count as recent")
	}
}

func TestStore_UnbalancedEntriesDoNotCount(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append(models.BalanceEntry{SubjectName: "Jon", Balanced: false}); err != nil {
		t.Fatalf("append: %v", err)
	}

	recent, err := store.RecentlyBalanced("Jon", time.Now())
	if err != nil {
		t.Fatalf("recently balanced: %v", err)
	}
	if recent {
		t.Error("unbalanced entries must not count as recently balanced")
	}
}

func TestStore_EmptyNameRejected(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append(models.BalanceEntry{SubjectName: "   "}); err != ErrInvalidSubjectName {
		t.Errorf("expected ErrInvalidSubjectName, got %v", err)
	}
}

func TestStore_MissingSubjectHasNoEntries(t *testing.T) {
	store := NewStore(t.TempDir())

	entries, err := store.Entries("nobody")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
