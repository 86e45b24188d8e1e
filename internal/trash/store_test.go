package trash

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreList(t *testing.T) {
	dir, topdir := newTestTrash(t)

	for _, name := range []string{"a.txt", "b.txt"} {
		writeTestFile(t, filepath.Join(topdir, name), name)
		if _, err := Allocate(dir, filepath.Join(topdir, name)); err != nil {
			t.Fatal(err)
		}
	}

	entries, warnings, err := NewStore(dir).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].Name != "a.txt" || entries[1].Name != "b.txt" {
		t.Errorf("entries not in deterministic order: %s, %s", entries[0].Name, entries[1].Name)
	}
	for _, e := range entries {
		if e.Unreadable {
			t.Errorf("entry %s unexpectedly unreadable", e.Name)
		}
		if e.OriginalPath != filepath.Join(topdir, e.Name) {
			t.Errorf("entry %s original = %q, want %q", e.Name, e.OriginalPath, filepath.Join(topdir, e.Name))
		}
		if e.DeletedAt.IsZero() {
			t.Errorf("entry %s has no deletion date", e.Name)
		}
	}
}

func TestStoreListIdempotent(t *testing.T) {
	dir, topdir := newTestTrash(t)
	writeTestFile(t, filepath.Join(topdir, "a.txt"), "a")
	if _, err := Allocate(dir, filepath.Join(topdir, "a.txt")); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	first, _, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := store.List()
	if err != nil {
		t.Fatal(err)
	}

	names := func(entries []*Entry) []string {
		var out []string
		for _, e := range entries {
			out = append(out, e.Dir.Root+"/"+e.Name)
		}
		return out
	}
	if !reflect.DeepEqual(names(first), names(second)) {
		t.Errorf("listing not idempotent: %v vs %v", names(first), names(second))
	}
}

func TestStoreListUnreadableMetadata(t *testing.T) {
	dir, _ := newTestTrash(t)

	writeTestFile(t, dir.PayloadPath("broken.txt"), "data")
	writeTestFile(t, dir.InfoPath("broken.txt"), "not a trashinfo record\n")

	entries, warnings, err := NewStore(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if !e.Unreadable {
		t.Error("entry not flagged unreadable")
	}
	if e.OriginalPath != "" {
		t.Errorf("unreadable entry has original path %q", e.OriginalPath)
	}

	// Unreadable entries cannot be restored
	if err := Restore(e, ConflictAbort); err == nil {
		t.Error("Restore() succeeded on unreadable entry")
	}

	// But they can be emptied
	count, err := Empty(entries, EmptyFilter{})
	if err != nil {
		t.Fatalf("Empty() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Empty() = %d, want 1", count)
	}
}

func TestStoreListOrphans(t *testing.T) {
	dir, _ := newTestTrash(t)

	// Payload without metadata
	writeTestFile(t, dir.PayloadPath("lost.txt"), "data")
	// Metadata without payload
	writeTestFile(t, dir.InfoPath("gone.txt"),
		"[Trash Info]\nPath=/home/user/gone.txt\nDeletionDate=2024-03-01T12:30:45\n")

	entries, warnings, err := NewStore(dir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("orphans listed as entries: %v", entries)
	}
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	if !hasWarning(warnings, OrphanPayload) {
		t.Error("orphan payload not surfaced")
	}
	if !hasWarning(warnings, OrphanInfo) {
		t.Error("orphan metadata not surfaced")
	}

	// Orphans are reported, never deleted
	if _, err := os.Stat(dir.PayloadPath("lost.txt")); err != nil {
		t.Error("orphan payload was removed")
	}
	if _, err := os.Stat(dir.InfoPath("gone.txt")); err != nil {
		t.Error("orphan metadata was removed")
	}
}

func TestStoreOrphanDetails(t *testing.T) {
	dir, _ := newTestTrash(t)
	writeTestFile(t, dir.InfoPath("gone.txt"),
		"[Trash Info]\nPath=/home/user/gone.txt\nDeletionDate=2024-03-01T12:30:45\n")

	orphans, err := NewStore(dir).Orphans()
	if err != nil {
		t.Fatal(err)
	}
	if len(orphans) != 1 {
		t.Fatalf("got %d orphans, want 1", len(orphans))
	}
	o := orphans[0]
	if o.Kind != OrphanInfo {
		t.Errorf("orphan kind = %v, want OrphanInfo", o.Kind)
	}
	if o.Path != dir.InfoPath("gone.txt") {
		t.Errorf("orphan path = %q", o.Path)
	}
	if o.OriginalPath != "/home/user/gone.txt" {
		t.Errorf("orphan original = %q", o.OriginalPath)
	}
	if !o.DeletedAt.Equal(mustParseTime(t, "2024-03-01T12:30:45")) {
		t.Errorf("orphan deleted at = %v", o.DeletedAt)
	}
}

func TestStoreOrphanPayloads(t *testing.T) {
	dir, _ := newTestTrash(t)
	writeTestFile(t, dir.PayloadPath("lost.txt"), "data")

	orphans, err := NewStore(dir).Orphans()
	if err != nil {
		t.Fatal(err)
	}
	if len(orphans) != 1 {
		t.Fatalf("got %d orphans, want 1", len(orphans))
	}
	o := orphans[0]
	if o.Kind != OrphanPayload {
		t.Errorf("orphan kind = %v, want OrphanPayload", o.Kind)
	}
	if o.Path != dir.PayloadPath("lost.txt") {
		t.Errorf("orphan path = %q", o.Path)
	}
	if o.Size != 4 {
		t.Errorf("orphan size = %d, want 4", o.Size)
	}

	// Enumeration never deletes; removal only happens on request
	if _, err := os.Stat(o.Path); err != nil {
		t.Error("orphan payload removed by enumeration")
	}
}

func TestStoreFind(t *testing.T) {
	dir, topdir := newTestTrash(t)
	writeTestFile(t, filepath.Join(topdir, "a.txt"), "a")
	if _, err := Allocate(dir, filepath.Join(topdir, "a.txt")); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if _, err := store.Find("a.txt"); err != nil {
		t.Errorf("Find() error: %v", err)
	}
	if _, err := store.Find("nope"); !IsNotFound(err) {
		t.Errorf("Find(nope) = %v, want ErrNotFound", err)
	}
}

func TestStoreListMultipleDirectories(t *testing.T) {
	dir1, topdir1 := newTestTrash(t)
	dir2, topdir2 := newTestTrash(t)

	writeTestFile(t, filepath.Join(topdir1, "x.txt"), "x")
	writeTestFile(t, filepath.Join(topdir2, "y.txt"), "y")
	if _, err := Allocate(dir1, filepath.Join(topdir1, "x.txt")); err != nil {
		t.Fatal(err)
	}
	if _, err := Allocate(dir2, filepath.Join(topdir2, "y.txt")); err != nil {
		t.Fatal(err)
	}

	entries, _, err := NewStore(dir1, dir2).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
