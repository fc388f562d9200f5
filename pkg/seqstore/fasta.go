package seqstore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// FastaStore holds a FASTA (or one-sequence-per-record alignment) file
// in memory, keyed by the full header line after ">".
type FastaStore struct {
	seqs  MapStore
	order []string // header order of first appearance
}

// OpenFasta reads path into a FastaStore.
func OpenFasta(path string) (*FastaStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sequence database: %w", err)
	}
	defer f.Close()

	store, err := ReadFasta(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// ReadFasta parses FASTA records from r. A line starting with ">"
// opens a record; subsequent lines are concatenated into its sequence.
// A later record reusing a header replaces the earlier one.
func ReadFasta(r io.Reader) (*FastaStore, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	store := &FastaStore{seqs: make(MapStore)}
	var id string
	var body strings.Builder

	flush := func() {
		if id == "" {
			return
		}
		if _, dup := store.seqs[id]; !dup {
			store.order = append(store.order, id)
		}
		store.seqs[id] = body.String()
		body.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			flush()
			id = strings.TrimSpace(line[1:])
			continue
		}
		if id == "" {
			if line == "" {
				continue
			}
			return nil, fmt.Errorf("sequence data before first fasta header")
		}
		body.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sequence database: %w", err)
	}
	flush()

	return store, nil
}

func (s *FastaStore) Lookup(seqID string) (string, error) {
	return s.seqs.Lookup(seqID)
}

// Len returns the number of records held.
func (s *FastaStore) Len() int { return len(s.seqs) }

// IDs returns the record identifiers in file order.
func (s *FastaStore) IDs() []string { return s.order }
