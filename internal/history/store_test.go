package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SuadeLabs/enumchecker/internal/analysis"
	"github.com/SuadeLabs/enumchecker/internal/parser"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadSnapshots(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.SaveSnapshot(Snapshot{
			RunID:          string(rune('a' + i)),
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			Files:          10 + i,
			Enums:          2,
			Diagnostics:    i,
			UnknownMembers: i,
			Duration:       1500 * time.Millisecond,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := store.RecentSnapshots(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].RunID != "c" || snaps[1].RunID != "b" {
		t.Errorf("expected newest first, got %s, %s", snaps[0].RunID, snaps[1].RunID)
	}
	if snaps[0].Files != 12 || snaps[0].UnknownMembers != 2 {
		t.Errorf("unexpected snapshot: %+v", snaps[0])
	}
	if snaps[0].Duration != 1500*time.Millisecond {
		t.Errorf("unexpected duration: %v", snaps[0].Duration)
	}
	if !snaps[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("unexpected timestamp: %v", snaps[0].Timestamp)
	}
}

func TestSaveSnapshotRejectsEmptyRunID(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveSnapshot(Snapshot{}); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestSnapshotFromResult(t *testing.T) {
	result := &analysis.Result{
		RunID:     "r1",
		Files:     4,
		EnumCount: 2,
		Duration:  2 * time.Second,
		Diagnostics: []analysis.Diagnostic{
			{Kind: analysis.KindUnknownMember, Locations: []parser.Location{{File: "a.py", Line: 1, Column: 1}}},
			{Kind: analysis.KindUnknownMember, Locations: []parser.Location{{File: "a.py", Line: 2, Column: 1}}},
			{Kind: analysis.KindConflictingDefinition, Locations: []parser.Location{{File: "a.py", Line: 3, Column: 1}}},
			{Kind: analysis.KindParseFailure, Locations: []parser.Location{{File: "b.py", Line: 1, Column: 1}}},
		},
	}

	snap := SnapshotFromResult(result)
	if snap.RunID != "r1" || snap.Files != 4 || snap.Enums != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Diagnostics != 4 || snap.UnknownMembers != 2 || snap.Conflicts != 1 || snap.ParseFailures != 1 {
		t.Errorf("unexpected counts: %+v", snap)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSnapshot(Snapshot{RunID: "r1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening must migrate cleanly and keep existing rows.
	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	snaps, err := store.RecentSnapshots(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].RunID != "r1" {
		t.Errorf("expected persisted snapshot after reopen, got %v", snaps)
	}
}
