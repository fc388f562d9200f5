package seqstore

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openTestSQL(t *testing.T) *SQLStore {
	t.Helper()
	store, err := OpenSQL(filepath.Join(t.TempDir(), "sequences.db"))
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLStoreImportAndLookup(t *testing.T) {

	store := openTestSQL(t)

	fs, err := ReadFasta(strings.NewReader(">sp1|a\nATGC\n>sp2|b\nGGCC\n"))
	if err != nil {
		t.Fatalf("ReadFasta failed: %v", err)
	}
	if err := store.ImportFasta(fs); err != nil {
		t.Fatalf("ImportFasta failed: %v", err)
	}

	seq, err := store.Lookup("sp2|b")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if seq != "GGCC" {
		t.Errorf("sequence = %q, want GGCC", seq)
	}
}

func TestSQLStoreLookupMissing(t *testing.T) {

	store := openTestSQL(t)

	_, err := store.Lookup("sp9|zz")
	var lerr *LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, want LookupError", err)
	}
	if lerr.SeqID != "sp9|zz" {
		t.Errorf("missing id = %q, want sp9|zz", lerr.SeqID)
	}
}

func TestSQLStoreImportReplaces(t *testing.T) {

	store := openTestSQL(t)

	first, err := ReadFasta(strings.NewReader(">sp1|a\nAAAA\n"))
	if err != nil {
		t.Fatalf("ReadFasta failed: %v", err)
	}
	if err := store.ImportFasta(first); err != nil {
		t.Fatalf("ImportFasta failed: %v", err)
	}

	second, err := ReadFasta(strings.NewReader(">sp1|a\nTTTT\n"))
	if err != nil {
		t.Fatalf("ReadFasta failed: %v", err)
	}
	if err := store.ImportFasta(second); err != nil {
		t.Fatalf("Re-import failed: %v", err)
	}

	seq, err := store.Lookup("sp1|a")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if seq != "TTTT" {
		t.Errorf("sequence = %q, want replacement TTTT", seq)
	}
}
