package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Some document text.\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Name != "notes.txt" {
		t.Errorf("expected name 'notes.txt', got %q", doc.Name)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Number != 1 {
		t.Fatalf("expected single page 1, got %+v", doc.Pages)
	}
	if doc.Pages[0].Text != "Some document text." {
		t.Errorf("unexpected text: %q", doc.Pages[0].Text)
	}
	if doc.CharCount() != len("Some document text.") {
		t.Errorf("unexpected char count: %d", doc.CharCount())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
