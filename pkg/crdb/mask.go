package crdb

import "strings"

// Mask selects rows of a [Table]. It always has the table's length.
type Mask []bool

// Count returns the number of selected rows.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Indices returns the selected row indices in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, v := range m {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// ExperimentName strips the parenthesized campaign suffix from a sub_exp
// value: "AMS02(2011/05-2016/05)" becomes "AMS02".
func ExperimentName(subExp string) string {
	if i := strings.IndexByte(subExp, '('); i >= 0 {
		subExp = subExp[:i]
	}
	return strings.TrimSpace(subExp)
}

// ExperimentMasks groups the rows of t by experiment. Campaigns of the same
// experiment share one mask.
func ExperimentMasks(t Table) map[string]Mask {
	masks := make(map[string]Mask)
	for i := range t {
		name := t[i].Experiment()
		m, ok := masks[name]
		if !ok {
			m = make(Mask, len(t))
			masks[name] = m
		}
		m[i] = true
	}
	return masks
}

// Experiments returns the experiment names of t in order of first
// appearance.
func Experiments(t Table) []string {
	seen := make(map[string]bool)
	var names []string
	for i := range t {
		name := t[i].Experiment()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
