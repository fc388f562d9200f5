// Package report writes the semicolon-delimited tables the toolbox
// emits: paralog counts per species and multigroup statistics.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Delimiter joins the fields of a row.
const Delimiter = "; "

// Table writes delimited rows to an underlying writer.
type Table struct {
	bw *bufio.Writer
	f  *os.File // nil when the writer is caller-owned
}

// NewTable wraps an existing writer. The caller flushes via Close.
func NewTable(w io.Writer) *Table {
	return &Table{bw: bufio.NewWriter(w)}
}

// Create opens path for writing and returns a file-backed table. The
// caller must Close it on every path.
func Create(path string) (*Table, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &Table{bw: bufio.NewWriter(f), f: f}, nil
}

// Row writes one delimited row.
func (t *Table) Row(fields ...string) error {
	if _, err := t.bw.WriteString(strings.Join(fields, Delimiter)); err != nil {
		return err
	}
	return t.bw.WriteByte('\n')
}

// Close flushes and, for file-backed tables, closes the file. Closing
// twice is harmless; the first error wins.
func (t *Table) Close() error {
	err := t.bw.Flush()
	if t.f != nil {
		f := t.f
		t.f = nil
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
