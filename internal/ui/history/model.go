package history

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
	"github.com/gimenezdev/rentalops/internal/theme"
)

const pageSize = 100

// EditsLoadedMsg is sent when edit history has been loaded from the store.
type EditsLoadedMsg struct {
	Edits []model.EditEntry
	Err   error
}

// statusCycle is the order the status filter toggles through; "" is all.
var statusCycle = []string{"", model.EditCommitted, model.EditFailed}

// EditItem wraps a model.EditEntry for use in a bubbles/list.
type EditItem struct {
	Edit model.EditEntry
}

// FilterValue returns the string used for fuzzy filtering.
func (i EditItem) FilterValue() string {
	return i.Edit.Resource + " " + i.Edit.Field
}

// ItemDelegate renders one edit entry per line.
type ItemDelegate struct {
	locale string
}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single edit journal line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(EditItem)
	if !ok {
		return
	}

	e := wrapper.Edit
	isSelected := index == m.Index()

	statusBadge := theme.EditStatusStyle(e.Status).Render(e.Status)
	resource := i18n.T(d.locale, "resource."+e.Resource)
	field := i18n.FieldLabel(d.locale, e.Field, e.Field)

	change := fmt.Sprintf("%s → %s", e.Previous, e.Next)
	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(i18n.RelativeTime(d.locale, e.CreatedAt, time.Now()))

	line := fmt.Sprintf(
		"%s %s.%s  %s  %s",
		statusBadge, resource, field, change, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the edit history view: the local journal of inline edits made
// in this workspace, committed and failed.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	locale      string
	workspaceID string
	status      string
	loadErr     error
	width       int
	height      int
}

// New creates the edit history view.
func New(
	st store.Store,
	k *keys.KeyMap,
	locale, workspaceID string,
	width, height int,
) Model {
	delegate := ItemDelegate{locale: locale}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:        l,
		store:       st,
		keys:        k,
		locale:      locale,
		workspaceID: workspaceID,
		width:       width,
		height:      height,
	}
}

// Init loads the journal.
func (m Model) Init() tea.Cmd {
	return m.LoadEdits()
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
	m.list.SetDelegate(ItemDelegate{locale: locale})
}

// LoadEdits queries the store with the current status filter.
func (m Model) LoadEdits() tea.Cmd {
	st := m.store
	filter := store.EditFilter{
		WorkspaceID: m.workspaceID,
		Limit:       pageSize,
	}
	if m.status != "" {
		status := m.status
		filter.Status = &status
	}
	return func() tea.Msg {
		edits, err := st.GetEdits(context.Background(), filter)
		return EditsLoadedMsg{Edits: edits, Err: err}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EditsLoadedMsg:
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Edits))
		for i, e := range msg.Edits {
			items[i] = EditItem{Edit: e}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.LoadEdits()
		}

		if msg.String() == "u" {
			m.status = nextIn(statusCycle, m.status)
			return m, m.LoadEdits()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		text := i18n.T(m.locale, "history.empty")
		if m.loadErr != nil {
			text = m.loadErr.Error()
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(text)
	}

	footer := ""
	if m.status != "" {
		footer = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(m.status)
	}
	if footer == "" {
		return m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), footer)
}

// SetSize updates the history view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

func nextIn(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
