package orthomcl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/IsmailM/TriFusion/internal/util"
	"github.com/IsmailM/TriFusion/pkg/report"
	"github.com/IsmailM/TriFusion/pkg/seqstore"
)

// Thresholds bundle the two filter parameters: the per-species copy
// ceiling and the distinct-species floor.
type Thresholds struct {
	MaxGeneCopies int
	MinSpecies    int
}

// Group is one parsed groups file. Filtered is always a subsequence of
// Clusters in the same relative order, holding exactly the clusters
// that passed both checks.
type Group struct {
	Name       string // source path, used as the key in aggregate reports
	Thresholds *Thresholds

	Clusters    []*Cluster
	Filtered    []*Cluster
	SpeciesList []string // distinct species codes, first-seen order
}

// ParseGroupsFile reads one cluster per line, in file order. When th is
// non-nil the filter is applied eagerly and Filtered is populated in
// encounter order. Blank lines are not tolerated.
func ParseGroupsFile(path string, th *Thresholds) (*Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open groups file: %w", err)
	}
	defer f.Close()

	g := &Group{Name: path, Thresholds: th}
	if err := g.parse(f); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	seen := make(map[string]bool)
	lineno := 0
	for scanner.Scan() {
		lineno++
		cluster, err := ParseCluster(scanner.Text())
		if err != nil {
			var ferr *FormatError
			if errors.As(err, &ferr) {
				ferr.File = g.Name
				ferr.LineNo = lineno
			}
			return err
		}

		g.Clusters = append(g.Clusters, cluster)

		for _, sp := range cluster.Species {
			if !seen[sp] {
				seen[sp] = true
				g.SpeciesList = append(g.SpeciesList, sp)
			}
		}

		if g.Thresholds != nil {
			cluster.ApplyFilter(g.Thresholds.MaxGeneCopies, g.Thresholds.MinSpecies)
			if cluster.Compliant() {
				g.Filtered = append(g.Filtered, cluster)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read groups file: %w", err)
	}
	return nil
}

// collection selects between the filtered and the full cluster list.
func (g *Group) collection(filtered bool) []*Cluster {
	if filtered {
		return g.Filtered
	}
	return g.Clusters
}

// Stats are the per-group counters of BasicStatistics.
type Stats struct {
	Clusters         int
	Sequences        int
	SpeciesCompliant int
	GeneCompliant    int
	BothCompliant    int
}

// BasicStatistics totals the selected collection. Clusters whose flags
// were never set count as non-compliant on all three counters.
func (g *Group) BasicStatistics(filtered bool) Stats {
	var st Stats
	for _, c := range g.collection(filtered) {
		st.Clusters++
		st.Sequences += len(c.Sequences)
		if c.SpeciesCompliant.Passed() {
			st.SpeciesCompliant++
		}
		if c.GeneCompliant.Passed() {
			st.GeneCompliant++
		}
		if c.Compliant() {
			st.BothCompliant++
		}
	}
	return st
}

// SpeciesParalogs is one row of the paralog report.
type SpeciesParalogs struct {
	Species  string
	Clusters int
}

// ParalogPerSpecies counts, for every species in SpeciesList order, the
// clusters of the selected collection carrying more than one copy of
// that species.
func (g *Group) ParalogPerSpecies(filtered bool) []SpeciesParalogs {
	rows := make([]SpeciesParalogs, len(g.SpeciesList))
	index := make(map[string]int, len(g.SpeciesList))
	for i, sp := range g.SpeciesList {
		rows[i].Species = sp
		index[sp] = i
	}

	for _, c := range g.collection(filtered) {
		for sp, n := range c.SpeciesFrequency {
			if n > 1 {
				rows[index[sp]].Clusters++
			}
		}
	}
	return rows
}

// WriteParalogReport writes the two-column paralog table to path.
func (g *Group) WriteParalogReport(path string, filtered bool) error {
	t, err := report.Create(path)
	if err != nil {
		return err
	}
	defer t.Close()

	if err := t.Row("Species", "Clusters with paralogs"); err != nil {
		return err
	}
	for _, r := range g.ParalogPerSpecies(filtered) {
		if err := t.Row(r.Species, strconv.Itoa(r.Clusters)); err != nil {
			return err
		}
	}
	return t.Close()
}

// ExportStats summarizes one export run. The two compliant counters
// tally independently over the filtered collection; Exported counts
// the clusters actually written.
type ExportStats struct {
	TotalClusters    int
	SpeciesCompliant int
	GeneCompliant    int
	Exported         int
}

// ExportFiltered writes the doubly-compliant clusters in groups-file
// format, one "name: id id ..." line each, preserving filtered order.
// The group must have been filtered first; withStats selects whether a
// counter summary is returned.
func (g *Group) ExportFiltered(w io.Writer, withStats bool) (*ExportStats, error) {
	if len(g.Filtered) == 0 {
		return nil, &OrthoGroupError{Msg: "the group must be filtered before exporting"}
	}

	bw := bufio.NewWriter(w)
	var st *ExportStats
	if withStats {
		st = &ExportStats{TotalClusters: len(g.Clusters)}
	}

	for _, c := range g.Filtered {
		if c.Compliant() {
			line := c.Name + ": " + strings.Join(c.Sequences, " ") + "\n"
			if _, err := bw.WriteString(line); err != nil {
				return nil, fmt.Errorf("write filtered groups: %w", err)
			}
			if st != nil {
				st.Exported++
			}
		}
		if st != nil {
			if c.SpeciesCompliant.Passed() {
				st.SpeciesCompliant++
			}
			if c.GeneCompliant.Passed() {
				st.GeneCompliant++
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write filtered groups: %w", err)
	}
	return st, nil
}

// ExportFilteredFile is ExportFiltered against a freshly created file.
func (g *Group) ExportFilteredFile(path string, withStats bool) (*ExportStats, error) {
	if len(g.Filtered) == 0 {
		return nil, &OrthoGroupError{Msg: "the group must be filtered before exporting"}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create filtered groups: %w", err)
	}

	st, err := g.ExportFiltered(f, withStats)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateFiltered recomputes Filtered from the current compliance flags.
// It does not re-apply any thresholds, so calling it twice in a row
// yields the same result.
func (g *Group) UpdateFiltered() {
	updated := make([]*Cluster, 0, len(g.Filtered))
	for _, c := range g.Clusters {
		if c.Compliant() {
			updated = append(updated, c)
		}
	}
	g.Filtered = updated
}

// RetrieveFasta writes one "<name>.fas" file per cluster of the
// selected collection into outDir, resolving every identifier through
// the sequence store. database may be a seqstore.Store, a FASTA file
// path, or an in-memory map of identifier to sequence; anything else is
// rejected. A missing identifier aborts the export.
func (g *Group) RetrieveFasta(database any, outDir string, filtered bool) error {
	store, err := seqstore.Resolve(database)
	if err != nil {
		if errors.Is(err, seqstore.ErrUnsupported) {
			return &OrthoGroupError{Msg: err.Error()}
		}
		return err
	}

	if err := util.EnsureDir(outDir); err != nil {
		return fmt.Errorf("create fasta output dir: %w", err)
	}

	for _, c := range g.collection(filtered) {
		if err := writeClusterFasta(store, outDir, c); err != nil {
			return err
		}
	}
	return nil
}

func writeClusterFasta(store seqstore.Store, outDir string, c *Cluster) error {
	f, err := os.Create(filepath.Join(outDir, c.Name+".fas"))
	if err != nil {
		return fmt.Errorf("create cluster fasta: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, id := range c.Sequences {
		seq, err := store.Lookup(id)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", SpeciesCode(id), seq); err != nil {
			return fmt.Errorf("write cluster fasta: %w", err)
		}
	}
	return bw.Flush()
}
