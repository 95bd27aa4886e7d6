package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/crdb/pkg/crdb"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	filterTagStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(16)
	detailPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// BrowseModel - Interactive table browser
// =============================================================================

// BrowseModel is the bubbletea model for browsing a query result. The
// experiment filter cycles through the experiments of the table.
type BrowseModel struct {
	Title       string
	Table       crdb.Table
	Experiments []string
	Masks       map[string]crdb.Mask

	Filter  int // 0 = all rows, i > 0 = Experiments[i-1]
	Cursor  int
	Offset  int
	Height  int
	Details bool

	view crdb.Table
}

// NewBrowseModel creates a browser for t.
func NewBrowseModel(title string, t crdb.Table) BrowseModel {
	m := BrowseModel{
		Title:       title,
		Table:       t,
		Experiments: crdb.Experiments(t),
		Masks:       crdb.ExperimentMasks(t),
		Height:      15,
	}
	m.view = t
	return m
}

// Visible returns the rows passing the current filter.
func (m BrowseModel) Visible() crdb.Table { return m.view }

// FilterName returns the selected experiment, or "" for all rows.
func (m BrowseModel) FilterName() string {
	if m.Filter == 0 {
		return ""
	}
	return m.Experiments[m.Filter-1]
}

func (m *BrowseModel) setFilter(i int) {
	n := len(m.Experiments) + 1
	m.Filter = ((i % n) + n) % n
	if m.Filter == 0 {
		m.view = m.Table
	} else {
		m.view = m.Table.Select(m.Masks[m.FilterName()])
	}
	m.Cursor, m.Offset = 0, 0
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.view)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.view) > 0 {
				m.Cursor = len(m.view) - 1
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		case "tab", "e", "right", "l":
			m.setFilter(m.Filter + 1)
		case "shift+tab", "E", "left", "h":
			m.setFilter(m.Filter - 1)
		case "a":
			m.setFilter(0)
		case "enter", " ":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	if name := m.FilterName(); name != "" {
		b.WriteString("  " + filterTagStyle.Render(name))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ experiment  a all  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.view) == 0 {
		b.WriteString(StyleWarning.Render("no data"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.view))
	b.WriteString(renderTable(m.view, m.Offset, end, m.Cursor))
	b.WriteString("\n")

	if m.Details {
		b.WriteString(detailPaneStyle.Render(details(m.view[m.Cursor])))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  experiment %d/%d",
		m.Cursor+1, len(m.view), m.Filter, len(m.Experiments))))
	return b.String()
}

// details lists every field of r.
func details(r crdb.DataRecord) string {
	values := r.Strings()
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = detailKeyStyle.Render(crdb.Columns[i]) + " " + StyleValue.Render(v)
	}
	return strings.Join(lines, "\n")
}
