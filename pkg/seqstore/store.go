// Package seqstore resolves sequence identifiers to sequence data for
// FASTA export. A store can be backed by memory, a FASTA file, or a
// SQLite database.
package seqstore

import (
	"errors"
	"fmt"
)

// Store looks sequence data up by the full sequence identifier.
type Store interface {
	Lookup(seqID string) (string, error)
}

// ErrUnsupported marks a database argument Resolve cannot turn into a
// Store.
var ErrUnsupported = errors.New("unsupported sequence database type")

// LookupError reports an identifier missing from a store.
type LookupError struct {
	SeqID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("sequence %q not found in database", e.SeqID)
}

// MapStore serves lookups straight from memory.
type MapStore map[string]string

func (m MapStore) Lookup(seqID string) (string, error) {
	seq, ok := m[seqID]
	if !ok {
		return "", &LookupError{SeqID: seqID}
	}
	return seq, nil
}

// Resolve turns a database argument into a Store: a Store passes
// through, a string is opened as a FASTA file, a plain map is wrapped
// as a MapStore. Anything else fails with ErrUnsupported.
func Resolve(database any) (Store, error) {
	switch db := database.(type) {
	case Store:
		return db, nil
	case string:
		return OpenFasta(db)
	case map[string]string:
		return MapStore(db), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, database)
	}
}
