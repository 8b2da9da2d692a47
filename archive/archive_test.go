package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var archiveDate = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestArchiveMovesIntoDatedFolder(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	writeFile(t, src, "order1.txt", "OrderID: A-900")
	writeFile(t, src, "batch.csv", "order_id,product_id,quantity\n")

	moved, failed := NewMover(root).Archive(src, archiveDate)

	if moved != 2 || failed != 0 {
		t.Fatalf("moved/failed = %d/%d, want 2/0", moved, failed)
	}

	dated := filepath.Join(root, "2025-03-14")
	for _, name := range []string{"order1.txt", "batch.csv"} {
		if _, err := os.Stat(filepath.Join(dated, name)); err != nil {
			t.Fatalf("archived file %s missing: %v", name, err)
		}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("source should be empty, has %d entries", len(entries))
	}
}

func TestArchiveCollisionGetsTimestampSuffix(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	writeFile(t, src, "order1.txt", "second version")

	dated := filepath.Join(root, "2025-03-14")
	if err := os.MkdirAll(dated, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, dated, "order1.txt", "first version")

	mover := NewMover(root)
	mover.now = func() time.Time {
		return time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	}

	moved, failed := mover.Archive(src, archiveDate)
	if moved != 1 || failed != 0 {
		t.Fatalf("moved/failed = %d/%d, want 1/0", moved, failed)
	}

	original, err := os.ReadFile(filepath.Join(dated, "order1.txt"))
	if err != nil {
		t.Fatalf("original missing: %v", err)
	}
	if string(original) != "first version" {
		t.Fatalf("original overwritten: %q", original)
	}

	stamped := filepath.Join(dated, "order1_2025-03-14_10-30-00.txt")
	renamed, err := os.ReadFile(stamped)
	if err != nil {
		entries, _ := os.ReadDir(dated)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("stamped file missing (%v): %v", names, err)
	}
	if string(renamed) != "second version" {
		t.Fatalf("stamped content = %q", renamed)
	}
}

func TestStampName(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		want string
	}{
		{name: "order1.txt", want: "order1_2025-03-14_10-30-00.txt"},
		{name: "noext", want: "noext_2025-03-14_10-30-00"},
		{name: "two.dots.csv", want: "two.dots_2025-03-14_10-30-00.csv"},
	}
	for _, tt := range tests {
		if got := stampName(tt.name, now); got != tt.want {
			t.Fatalf("stampName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestArchiveSkipsSubdirectories(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, src, "order1.txt", "content")

	moved, failed := NewMover(root).Archive(src, archiveDate)
	if moved != 1 || failed != 0 {
		t.Fatalf("moved/failed = %d/%d, want 1/0", moved, failed)
	}
	if _, err := os.Stat(filepath.Join(src, "nested")); err != nil {
		t.Fatalf("nested directory should remain: %v", err)
	}
}

func TestArchiveUnusableDestination(t *testing.T) {
	src := t.TempDir()
	root := t.TempDir()
	writeFile(t, src, "a.txt", "a")

	// A regular file where the dated folder should go makes MkdirAll fail;
	// the run is not aborted, the files just stay put.
	if err := os.WriteFile(filepath.Join(root, "2025-03-14"), []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	moved, failed := NewMover(root).Archive(src, archiveDate)
	if moved != 0 || failed != 0 {
		t.Fatalf("moved/failed = %d/%d, want 0/0", moved, failed)
	}
	if _, err := os.Stat(filepath.Join(src, "a.txt")); err != nil {
		t.Fatalf("source file should remain: %v", err)
	}
}
