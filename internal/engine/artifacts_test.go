package engine

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func TestListArtifactsFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_chunk_0.txt")
	touch(t, dir, "a_chunk_1.txt")
	touch(t, dir, "index.faiss")
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ListArtifacts(dir, ".txt")
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	want := map[string]struct{}{"a_chunk_0.txt": {}, "a_chunk_1.txt": {}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestListArtifactsMissingDir(t *testing.T) {
	got, err := ListArtifacts(filepath.Join(t.TempDir(), "nope"), ".txt")
	if err != nil {
		t.Fatalf("ListArtifacts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}

func TestDiffArtifacts(t *testing.T) {
	before := map[string]struct{}{"old_0.txt": {}, "old_1.txt": {}}
	after := map[string]struct{}{
		"old_0.txt": {},
		"old_1.txt": {},
		"new_1.txt": {},
		"new_0.txt": {},
	}

	got := DiffArtifacts(before, after)
	want := []string{"new_0.txt", "new_1.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if diff := DiffArtifacts(after, after); len(diff) != 0 {
		t.Fatalf("expected no diff, got %v", diff)
	}
}
