package cli

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/crdb/pkg/crdb"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.123456, "0.1235"},
		{12345678, "1.235e+07"},
		{math.NaN(), "—"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAsym(t *testing.T) {
	if got := asym(0.1, 0.1); got != "0.1" {
		t.Errorf("asym(equal) = %q, want 0.1", got)
	}
	if got := asym(0.1, 0.2); got != "-0.1/+0.2" {
		t.Errorf("asym() = %q, want -0.1/+0.2", got)
	}
}

func TestTableRowUpperLimit(t *testing.T) {
	r := crdb.DataRecord{SubExp: "AMS02", EAxis: "EKN", IsUpperLimit: true}
	row := tableRow(r)
	if len(row) != len(tableHeaders) {
		t.Fatalf("row has %d cells, want %d", len(row), len(tableHeaders))
	}
	if row[len(row)-1] != "yes" {
		t.Errorf("upper limit cell = %q, want yes", row[len(row)-1])
	}
}

func TestRenderTableWindow(t *testing.T) {
	table := browseTable(t)
	out := renderTable(table, 1, 3, -1)

	if strings.Contains(out, "HEAO3") || strings.Contains(out, "2016/05)") {
		t.Errorf("rows outside [1,3) rendered:\n%s", out)
	}
	if !strings.Contains(out, "PAMELA") || !strings.Contains(out, "2018/05)") {
		t.Errorf("rows inside [1,3) missing:\n%s", out)
	}
	if !strings.Contains(out, "Experiment") {
		t.Error("header missing")
	}

	if out := renderTable(table, 2, 99, -1); !strings.Contains(out, "HEAO3") {
		t.Error("to beyond the end should be clamped")
	}
}

func TestExperimentTable(t *testing.T) {
	out := experimentTable(browseTable(t))
	for _, want := range []string{"AMS02", "PAMELA", "HEAO3-C2", "1 – 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("experiment table missing %q:\n%s", want, out)
		}
	}
}

func TestEnergySpanAllNaN(t *testing.T) {
	table := crdb.Table{{EMean: math.NaN()}}
	lo, hi := energySpan(table)
	if lo != "—" || hi != "—" {
		t.Errorf("energySpan() = %q, %q, want dashes", lo, hi)
	}
}

func TestSummary(t *testing.T) {
	got := summary(browseTable(t))
	if !strings.Contains(got, "4 rows") || !strings.Contains(got, "3 experiments") {
		t.Errorf("summary() = %q", got)
	}
}

func TestWrapCodes(t *testing.T) {
	out := wrapCodes(crdb.Elements, 40)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 40 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if !slices.Contains(strings.Fields(out), "Fe") {
		t.Error("wrapped codes should include Fe")
	}
}
