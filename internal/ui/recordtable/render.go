package recordtable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/records"
	"github.com/gimenezdev/rentalops/internal/theme"
)

const (
	minColWidth = 4
	maxColWidth = 24
)

var (
	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)

	headerFocusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorBlue).
				Underline(true)

	cellStyle = lipgloss.NewStyle().
			Foreground(theme.ColorWhite)

	focusCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			Background(theme.ColorSubtle)

	footerStyle = lipgloss.NewStyle().
			Foreground(theme.ColorGray)
)

// View renders the record grid.
func (m Model) View() string {
	if m.loading && m.projection.Len() == 0 {
		return m.centered(i18n.T(m.locale, "table.loading"))
	}
	if m.loadErr != nil && m.projection.Len() == 0 {
		return m.centered(m.fetchErrorText(m.loadErr))
	}

	rows := m.visibleRows()
	if len(rows) == 0 {
		return m.centered(i18n.T(m.locale, "table.empty"))
	}

	fields := m.projection.Schema().Fields
	widths := m.columnWidths(fields, rows)

	var b strings.Builder
	b.WriteString(m.renderHeaderRow(fields, widths))
	b.WriteString("\n")

	end := m.offset + m.viewportRows()
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderDataRow(rows[i], i, fields, widths))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter(len(rows)))

	view := b.String()
	if m.searchMode {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, view)
	}
	if m.editing {
		return lipgloss.JoinVertical(lipgloss.Left, view, m.renderEditBar())
	}
	return view
}

func (m Model) renderHeaderRow(fields []records.Field, widths []int) string {
	cells := make([]string, len(fields))
	for i, f := range fields {
		label := padCell(m.fieldLabel(f), widths[i])
		if i == m.colIdx {
			cells[i] = headerFocusStyle.Render(label)
		} else {
			cells[i] = headerCellStyle.Render(label)
		}
	}
	return m.fitLine(strings.Join(cells, " "))
}

func (m Model) renderDataRow(
	row model.Row,
	idx int,
	fields []records.Field,
	widths []int,
) string {
	id := row.ID()
	cells := make([]string, len(fields))
	for i, f := range fields {
		text := records.FormatValue(row[f.Name])
		busy := m.projection.Busy(id, f.Name)
		if busy {
			text += " •"
		}
		text = padCell(text, widths[i])

		switch {
		case idx == m.rowIdx && i == m.colIdx:
			cells[i] = focusCellStyle.Render(text)
		case busy:
			cells[i] = theme.PendingCellStyle.Render(text)
		case idx == m.rowIdx:
			cells[i] = theme.UnreadStyle.Render(text)
		default:
			cells[i] = cellStyle.Render(text)
		}
	}
	return m.fitLine(strings.Join(cells, " "))
}

func (m Model) renderFooter(rowCount int) string {
	parts := []string{fmt.Sprintf("%d/%d", m.rowIdx+1, rowCount)}

	if pending := m.projection.PendingCount(); pending > 0 {
		parts = append(parts, i18n.Tf(m.locale, "table.pending", pending))
	}
	if m.loading {
		parts = append(parts, i18n.T(m.locale, "table.loading"))
	}
	if m.filter != "" {
		parts = append(parts, "/"+m.filter)
	}

	return footerStyle.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderEditBar() string {
	field := m.projection.Schema().Fields[m.colIdx]
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorYellow).
		Render(m.fieldLabel(field) + " ")
	return lipgloss.JoinHorizontal(lipgloss.Top, label, m.editInput.View())
}

// columnWidths sizes each column to its widest visible value, clamped so
// one long field cannot push the rest off screen.
func (m Model) columnWidths(fields []records.Field, rows []model.Row) []int {
	widths := make([]int, len(fields))
	for i, f := range fields {
		w := lipgloss.Width(m.fieldLabel(f))
		if w < minColWidth {
			w = minColWidth
		}
		widths[i] = w
	}

	end := m.offset + m.viewportRows()
	if end > len(rows) {
		end = len(rows)
	}
	for r := m.offset; r < end; r++ {
		for i, f := range fields {
			w := lipgloss.Width(records.FormatValue(rows[r][f.Name]))
			if w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// fitLine hard-limits a rendered line to the grid width without breaking
// ANSI sequences.
func (m Model) fitLine(line string) string {
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// padCell truncates or right-pads plain text to the column width.
func padCell(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return text + strings.Repeat(" ", width-len(runes))
}
