package seqstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLStore serves lookups from a SQLite sequence database with a
// single sequences(seq_id, residues) table.
type SQLStore struct {
	db *sql.DB
}

const sequencesSchema = `
CREATE TABLE IF NOT EXISTS sequences (
	seq_id   TEXT PRIMARY KEY,
	residues TEXT NOT NULL
);`

// OpenSQL opens path as a SQLite sequence database, creating the
// schema when missing.
func OpenSQL(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sequence database: %w", err)
	}
	if _, err := db.ExecContext(context.TODO(), sequencesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sequence schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) Lookup(seqID string) (string, error) {
	ctx := context.TODO()

	var residues string
	err := s.db.QueryRowContext(ctx,
		`SELECT residues FROM sequences WHERE seq_id = ?`, seqID).Scan(&residues)

	if errors.Is(err, sql.ErrNoRows) {
		return "", &LookupError{SeqID: seqID}
	}
	if err != nil {
		return "", fmt.Errorf("sequence lookup: %w", err)
	}
	return residues, nil
}

// ImportFasta loads every record of a FASTA store into the database in
// one transaction, replacing rows that share an identifier.
func (s *SQLStore) ImportFasta(fs *FastaStore) error {
	ctx := context.TODO()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import sequences: %w", err)
	}

	stm, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO sequences (seq_id, residues) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("import sequences: %w", err)
	}
	defer stm.Close()

	for _, id := range fs.order {
		if _, err := stm.ExecContext(ctx, id, fs.seqs[id]); err != nil {
			tx.Rollback()
			return fmt.Errorf("import sequence %q: %w", id, err)
		}
	}
	return tx.Commit()
}
