package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/crdb/pkg/crdb"
)

var tableHeaders = []string{"Experiment", "Axis", "E mean", "E range", "Value", "Stat ±", "Syst ±", "UL"}

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableLimitStyle  = lipgloss.NewStyle().Foreground(colorYellow).Padding(0, 1)
)

// tableRow formats a record for display.
func tableRow(r crdb.DataRecord) []string {
	upper := ""
	if r.IsUpperLimit {
		upper = "yes"
	}
	return []string{
		r.SubExp,
		r.EAxis,
		num(r.EMean),
		num(r.ELow) + "–" + num(r.EHigh),
		num(r.Value),
		asym(r.ErrStatMinus, r.ErrStatPlus),
		asym(r.ErrSysMinus, r.ErrSysPlus),
		upper,
	}
}

func num(v float64) string {
	s := fmt.Sprintf("%.4g", v)
	if s == "NaN" {
		return "—"
	}
	return s
}

// asym formats an asymmetric error, collapsing equal halves.
func asym(minus, plus float64) string {
	if minus == plus {
		return num(plus)
	}
	return "-" + num(minus) + "/+" + num(plus)
}

// renderTable renders rows [from, to) of t. highlight marks one row index
// (relative to t) in bold; pass -1 for none.
func renderTable(t crdb.Table, from, to, highlight int) string {
	if to > len(t) {
		to = len(t)
	}
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, tableRow(t[i]))
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			idx := from + row
			style := tableCellStyle
			if idx < len(t) && t[idx].IsUpperLimit {
				style = tableLimitStyle
			}
			if idx == highlight {
				style = style.Bold(true).Foreground(colorCyan)
			}
			return style
		}).
		Render()
}

// experimentTable renders experiment names with row counts.
func experimentTable(t crdb.Table) string {
	masks := crdb.ExperimentMasks(t)
	var rows [][]string
	for _, name := range crdb.Experiments(t) {
		m := masks[name]
		lo, hi := energySpan(t.Select(m))
		rows = append(rows, []string{name, fmt.Sprint(m.Count()), lo + " – " + hi})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Experiment", "Rows", "Energy span").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			if col == 1 {
				return tableCellStyle.Foreground(colorCyan)
			}
			return tableCellStyle
		}).
		Render()
}

func energySpan(t crdb.Table) (string, string) {
	col, _ := t.Column("e_mean")
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return "—", "—"
	}
	return num(lo), num(hi)
}

// summary describes a table on one line: rows and experiments.
func summary(t crdb.Table) string {
	n := len(crdb.ExperimentMasks(t))
	parts := []string{
		fmt.Sprintf("%d rows", t.Len()),
		fmt.Sprintf("%d experiments", n),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
