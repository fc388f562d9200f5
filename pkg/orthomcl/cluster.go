// Package orthomcl parses and filters OrthoMCL-style groups files: one
// named ortholog cluster of sequence identifiers per line, identifiers
// conventionally "<species>|<gene>".
package orthomcl

import "strings"

// Compliance is the tri-state outcome of a threshold check. A cluster
// starts Unset and only moves to Pass or Fail once ApplyFilter ran.
type Compliance uint8

const (
	ComplianceUnset Compliance = iota
	CompliancePass
	ComplianceFail
)

// Passed treats Unset as false, which is how every counter downstream
// reads an unfiltered cluster.
func (c Compliance) Passed() bool { return c == CompliancePass }

// Cluster is one groups-file line.
type Cluster struct {
	Name      string
	Sequences []string // parse order, duplicates kept

	// Per-species copy counts, plus species codes in first-seen order
	// so reports stay deterministic.
	SpeciesFrequency map[string]int
	Species          []string

	SpeciesCompliant Compliance
	GeneCompliant    Compliance
}

// SpeciesCode returns the species part of a sequence identifier, the
// substring before the first "|". An identifier without a separator is
// its own species code.
func SpeciesCode(seqID string) string {
	if i := strings.IndexByte(seqID, '|'); i >= 0 {
		return seqID[:i]
	}
	return seqID
}

// ParseCluster parses a single groups-file line, e.g.
//
//	cluster_0001: SP1|g001 SP1|g002 SP2|g117
//
// The name is everything before the first colon, trimmed; it must not
// be empty. The remainder is whitespace-split into the identifier list.
func ParseCluster(line string) (*Cluster, error) {
	name, rest, found := strings.Cut(line, ":")
	if !found {
		return nil, &FormatError{Msg: "missing ':' between cluster name and sequences"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &FormatError{Msg: "empty cluster name"}
	}

	c := &Cluster{
		Name:             name,
		Sequences:        strings.Fields(rest),
		SpeciesFrequency: make(map[string]int),
	}

	for _, id := range c.Sequences {
		sp := SpeciesCode(id)
		if _, seen := c.SpeciesFrequency[sp]; !seen {
			c.Species = append(c.Species, sp)
		}
		c.SpeciesFrequency[sp]++
	}

	return c, nil
}

// MaxFrequency returns the highest per-species copy number, 0 for a
// cluster without sequences.
func (c *Cluster) MaxFrequency() int {
	max := 0
	for _, n := range c.SpeciesFrequency {
		if n > max {
			max = n
		}
	}
	return max
}

// ApplyFilter sets both compliance flags. geneThreshold caps the copy
// number of any single species, speciesThreshold is the minimum number
// of distinct species. Re-applying with the same thresholds is a no-op
// in effect; the flags always reflect the latest call.
//
// A cluster with no sequences has no defined maximum frequency and
// never passes either check.
func (c *Cluster) ApplyFilter(geneThreshold, speciesThreshold int) {
	if len(c.SpeciesFrequency) == 0 {
		c.SpeciesCompliant = ComplianceFail
		c.GeneCompliant = ComplianceFail
		return
	}
	c.SpeciesCompliant = compliance(len(c.SpeciesFrequency) >= speciesThreshold)
	c.GeneCompliant = compliance(c.MaxFrequency() <= geneThreshold)
}

// Compliant reports whether the cluster passed both checks.
func (c *Cluster) Compliant() bool {
	return c.SpeciesCompliant.Passed() && c.GeneCompliant.Passed()
}

func compliance(ok bool) Compliance {
	if ok {
		return CompliancePass
	}
	return ComplianceFail
}
