package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestTableRows(t *testing.T) {

	var buf bytes.Buffer
	table := NewTable(&buf)

	if err := table.Row("Species", "Clusters with paralogs"); err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if err := table.Row("sp1", "3"); err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	want := "Species; Clusters with paralogs\nsp1; 3\n"
	if buf.String() != want {
		t.Errorf("table = %q, want %q", buf.String(), want)
	}
}

func TestCreate(t *testing.T) {

	path := filepath.Join(t.TempDir(), "report.csv")
	table, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := table.Row("a", "b", "c"); err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Double close must stay harmless.
	if err := table.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if string(content) != "a; b; c\n" {
		t.Errorf("file = %q, want %q", string(content), "a; b; c\n")
	}
}

func TestCreateBadPath(t *testing.T) {

	if _, err := Create(filepath.Join(t.TempDir(), "missing", "report.csv")); err == nil {
		t.Error("create under a missing directory should fail")
	}
}
