package orthomcl

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCluster(t *testing.T) {

	c, err := ParseCluster("G1: sp1|a sp1|b sp2|c")
	if err != nil {
		t.Fatalf("ParseCluster failed: %v", err)
	}

	if c.Name != "G1" {
		t.Errorf("name = %q, want G1", c.Name)
	}
	if want := []string{"sp1|a", "sp1|b", "sp2|c"}; !reflect.DeepEqual(c.Sequences, want) {
		t.Errorf("sequences = %v, want %v", c.Sequences, want)
	}
	if want := map[string]int{"sp1": 2, "sp2": 1}; !reflect.DeepEqual(c.SpeciesFrequency, want) {
		t.Errorf("species frequency = %v, want %v", c.SpeciesFrequency, want)
	}
	if want := []string{"sp1", "sp2"}; !reflect.DeepEqual(c.Species, want) {
		t.Errorf("species order = %v, want %v", c.Species, want)
	}
	if c.SpeciesCompliant != ComplianceUnset || c.GeneCompliant != ComplianceUnset {
		t.Error("compliance flags should start unset")
	}
}

func TestParseClusterNoPipe(t *testing.T) {

	// An identifier without "|" is its own species code.
	c, err := ParseCluster("G2: plainid sp1|x")
	if err != nil {
		t.Fatalf("ParseCluster failed: %v", err)
	}

	if c.SpeciesFrequency["plainid"] != 1 {
		t.Errorf("species frequency = %v, want plainid counted once", c.SpeciesFrequency)
	}
}

func TestParseClusterMalformed(t *testing.T) {

	for _, line := range []string{"", "no colon here", ": sp1|a", "   : sp1|a"} {
		_, err := ParseCluster(line)

		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Errorf("ParseCluster(%q) = %v, want FormatError", line, err)
		}
	}
}

func TestApplyFilter(t *testing.T) {

	c, err := ParseCluster("G1: sp1|a sp1|b sp2|c")
	if err != nil {
		t.Fatalf("ParseCluster failed: %v", err)
	}

	c.ApplyFilter(1, 2)

	// 2 distinct species >= 2, but sp1 has 2 copies > 1.
	if c.SpeciesCompliant != CompliancePass {
		t.Error("species compliance should pass")
	}
	if c.GeneCompliant != ComplianceFail {
		t.Error("gene compliance should fail")
	}
	if c.Compliant() {
		t.Error("cluster should not be doubly compliant")
	}

	// Flags track the latest thresholds.
	c.ApplyFilter(2, 3)
	if c.GeneCompliant != CompliancePass {
		t.Error("gene compliance should pass with threshold 2")
	}
	if c.SpeciesCompliant != ComplianceFail {
		t.Error("species compliance should fail with threshold 3")
	}
}

func TestApplyFilterEmptyCluster(t *testing.T) {

	c, err := ParseCluster("empty:")
	if err != nil {
		t.Fatalf("ParseCluster failed: %v", err)
	}
	if len(c.Sequences) != 0 {
		t.Fatalf("sequences = %v, want none", c.Sequences)
	}

	// No sequences means no defined maximum frequency; the cluster
	// never passes a filter.
	c.ApplyFilter(10, 0)
	if c.SpeciesCompliant != ComplianceFail || c.GeneCompliant != ComplianceFail {
		t.Error("empty cluster should fail both checks")
	}
}

func TestMaxFrequency(t *testing.T) {

	c, err := ParseCluster("G1: sp1|a sp1|b sp1|c sp2|d")
	if err != nil {
		t.Fatalf("ParseCluster failed: %v", err)
	}
	if got := c.MaxFrequency(); got != 3 {
		t.Errorf("max frequency = %d, want 3", got)
	}
}
