package feedview

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/theme"
)

// NotificationItem wraps a model.Notification for use in a bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string {
	return i.Notification.Title
}

// ItemDelegate renders one notification per line.
type ItemDelegate struct {
	locale string
	now    func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(NotificationItem)
	if !ok {
		return
	}

	n := wrapper.Notification
	isSelected := index == m.Index()

	marker := " "
	if n.Unread() {
		marker = "●"
	}

	sevBadge := theme.SeverityStyle(n.Severity).Render(
		i18n.T(d.locale, "severity."+n.Severity),
	)

	catLabel := theme.CategoryStyle(n.Category).Render(
		i18n.T(d.locale, "category."+n.Category),
	)

	title := n.Title
	if n.Unread() {
		title = theme.UnreadStyle.Render(title)
	} else {
		title = theme.ReadStyle.Render(title)
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(i18n.RelativeTime(d.locale, n.CreatedAt, d.now()))

	line := fmt.Sprintf(
		"%s %s %s %s  %s",
		marker, sevBadge, catLabel, title, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
