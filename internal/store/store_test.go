package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mpetrov/folio/pkg/models"
)

func TestComputeBookID(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "book1.md")
	file2 := filepath.Join(tmpDir, "book2.md")
	file3 := filepath.Join(tmpDir, "book1_copy.md")

	os.WriteFile(file1, []byte("# Same content"), 0644)
	os.WriteFile(file2, []byte("# Different content"), 0644)
	os.WriteFile(file3, []byte("# Same content"), 0644)

	id1, err := ComputeBookID(file1)
	if err != nil {
		t.Fatalf("ComputeBookID failed: %v", err)
	}
	id2, err := ComputeBookID(file2)
	if err != nil {
		t.Fatalf("ComputeBookID failed: %v", err)
	}
	id3, err := ComputeBookID(file3)
	if err != nil {
		t.Fatalf("ComputeBookID failed: %v", err)
	}

	if id1 != id3 {
		t.Errorf("same content should produce same ID: %s != %s", id1, id3)
	}
	if id1 == id2 {
		t.Errorf("different content should produce different IDs")
	}
	if len(id1) != 32 {
		t.Errorf("ID length = %d, want 32", len(id1))
	}
}

func TestSetGetClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	s, err := openAt(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get on empty store should report not found")
	}

	pos := models.ReadingPosition{BookID: "abc", Chapter: 3, ScrollOffset: 1234.5, Progress: 0.42}
	if err := s.Set(pos); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get("abc")
	if !ok {
		t.Fatal("saved position not found")
	}
	if got.Chapter != 3 || got.ScrollOffset != 1234.5 || got.Progress != 0.42 {
		t.Errorf("got %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Set should stamp UpdatedAt")
	}

	if err := s.Clear("abc"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("abc"); ok {
		t.Error("cleared position still present")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	s1, _ := openAt(path)
	s1.Set(models.ReadingPosition{BookID: "persist", Chapter: 7, Progress: 0.9})

	s2, err := openAt(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := s2.Get("persist")
	if !ok || got.Chapter != 7 {
		t.Errorf("reloaded position = %+v, %v", got, ok)
	}
}

func TestMalformedStateStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	os.WriteFile(path, []byte("not json at all"), 0644)

	s, err := openAt(path)
	if err != nil {
		t.Fatalf("malformed state must not fail open: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("malformed state should reset to empty")
	}
}
