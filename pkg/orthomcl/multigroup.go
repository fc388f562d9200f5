package orthomcl

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/IsmailM/TriFusion/pkg/report"
)

// DefaultPrefix names output files when the caller supplies none.
const DefaultPrefix = "MyGroups"

// DefaultStatisticsName is the aggregate statistics table file name,
// written as "<prefix>.<name>".
const DefaultStatisticsName = "multigroup_base_statistics.csv"

// MultiGroups aggregates Group instances parsed from several files,
// sharing a threshold pair and an output prefix.
type MultiGroups struct {
	Prefix     string
	Thresholds *Thresholds
	Groups     []*Group
}

// NewMultiGroups returns an empty collection with the given defaults.
func NewMultiGroups(prefix string, th *Thresholds) *MultiGroups {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &MultiGroups{Prefix: prefix, Thresholds: th}
}

// ParseMultiGroups parses every path into a Group using the shared
// thresholds, keeping the input order.
func ParseMultiGroups(paths []string, prefix string, th *Thresholds) (*MultiGroups, error) {
	mg := NewMultiGroups(prefix, th)
	for _, p := range paths {
		g, err := ParseGroupsFile(p, th)
		if err != nil {
			return nil, err
		}
		mg.AddGroup(g)
	}
	return mg, nil
}

// AddGroup appends a group to the collection.
func (mg *MultiGroups) AddGroup(g *Group) {
	mg.Groups = append(mg.Groups, g)
}

// Merge appends every group of other after the receiver's own entries,
// preserving both orders.
func (mg *MultiGroups) Merge(other *MultiGroups) {
	mg.Groups = append(mg.Groups, other.Groups...)
}

// statisticsHeader names the columns in their actual emitted order:
// the species counter comes before the gene counter.
var statisticsHeader = []string{
	"Group file",
	"Total clusters",
	"Total sequences",
	"Clusters above species threshold",
	"Clusters below gene threshold",
	"Clusters below gene and above species thresholds",
}

// WriteBasicStatistics writes one header row plus one row of
// filtered-collection counters per group, in insertion order, to
// "<prefix>.<name>" inside dir.
func (mg *MultiGroups) WriteBasicStatistics(dir, name string) error {
	if name == "" {
		name = DefaultStatisticsName
	}
	t, err := report.Create(filepath.Join(dir, mg.Prefix+"."+name))
	if err != nil {
		return err
	}
	defer t.Close()

	if err := t.Row(statisticsHeader...); err != nil {
		return err
	}
	for _, g := range mg.Groups {
		st := g.BasicStatistics(true)
		err := t.Row(
			g.Name,
			strconv.Itoa(st.Clusters),
			strconv.Itoa(st.Sequences),
			strconv.Itoa(st.SpeciesCompliant),
			strconv.Itoa(st.GeneCompliant),
			strconv.Itoa(st.BothCompliant),
		)
		if err != nil {
			return err
		}
	}
	return t.Close()
}

// GroupOverlap counts the clusters of the first group whose identifier
// set is exactly equal to some cluster's identifier set in the second
// group. The collection must hold exactly two groups.
//
// Experimental: this is an exact-set match count, not an intersection
// size.
func (mg *MultiGroups) GroupOverlap() (int, error) {
	if len(mg.Groups) != 2 {
		return 0, &OrthoGroupError{
			Msg: fmt.Sprintf("group overlap needs exactly two groups, have %d", len(mg.Groups)),
		}
	}

	second := make(map[string]bool, len(mg.Groups[1].Clusters))
	for _, c := range mg.Groups[1].Clusters {
		second[sequenceSetKey(c.Sequences)] = true
	}

	shared := 0
	for _, c := range mg.Groups[0].Clusters {
		if second[sequenceSetKey(c.Sequences)] {
			shared++
		}
	}
	return shared, nil
}

// sequenceSetKey canonicalizes an identifier list as an unordered set:
// duplicates dropped, sorted, joined on a byte that cannot appear in a
// whitespace-split identifier.
func sequenceSetKey(ids []string) string {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)
	return strings.Join(uniq, "\x00")
}
