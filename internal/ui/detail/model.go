package detail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/records"
	"github.com/gimenezdev/rentalops/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// Model shows one record or one notification in full.
type Model struct {
	schema       *records.Schema
	row          model.Row
	notification *model.Notification

	viewport viewport.Model
	keys     *keys.KeyMap
	locale   string
	width    int
	height   int
}

// New creates an empty detail view.
func New(k *keys.KeyMap, locale string, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		locale:   locale,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRecord shows a record row using its resource schema for labels.
func (m *Model) SetRecord(schema records.Schema, row model.Row) {
	m.schema = &schema
	m.row = row
	m.notification = nil
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetNotification shows one notification in full.
func (m *Model) SetNotification(n model.Notification) {
	m.notification = &n
	m.schema = nil
	m.row = nil
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
	m.viewport.SetContent(m.renderContent())
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.row == nil && m.notification == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(i18n.T(m.locale, "detail.empty"))
	}

	return m.viewport.View()
}

func (m Model) renderContent() string {
	if m.notification != nil {
		return m.renderNotification(*m.notification)
	}
	if m.row != nil && m.schema != nil {
		return m.renderRecord()
	}
	return ""
}

func (m Model) renderRecord() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var sections []string
	sections = append(sections, titleStyle.Render(
		i18n.T(m.locale, "resource."+m.schema.Resource),
	))
	sections = append(sections, "")

	labelWidth := 0
	for _, f := range m.schema.Fields {
		if w := lipgloss.Width(m.fieldLabel(f)); w > labelWidth {
			labelWidth = w
		}
	}

	badgeStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	for _, f := range m.schema.Fields {
		label := m.fieldLabel(f)
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		value := records.FormatValue(m.row[f.Name])
		if f.Hint == records.HintBadge {
			value = badgeStyle.Render(value)
		} else {
			value = valStyle.Render(value)
		}
		sections = append(sections, fmt.Sprintf(
			"%s%s  %s", labelStyle.Render(label), pad, value,
		))
	}

	// Wire fields outside the schema still show, sorted for stability.
	var extras []string
	for name := range m.row {
		if _, known := m.schema.Field(name); !known {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	if len(extras) > 0 {
		sections = append(sections, "")
		for _, name := range extras {
			sections = append(sections, fmt.Sprintf(
				"%s  %s",
				labelStyle.Render(name),
				valStyle.Render(records.FormatValue(m.row[name])),
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderNotification(n model.Notification) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var sections []string
	sections = append(sections, titleStyle.Render(n.Title))

	sevBadge := theme.SeverityStyle(n.Severity).Render(
		i18n.T(m.locale, "severity."+n.Severity),
	)
	catBadge := theme.CategoryStyle(n.Category).Render(
		i18n.T(m.locale, "category."+n.Category),
	)
	sections = append(sections, lipgloss.JoinHorizontal(
		lipgloss.Top, sevBadge, "  ", catBadge,
	))
	sections = append(sections, "")

	sections = append(sections, metaStyle.Render(
		n.OccurredAt.Format("2006-01-02 15:04")+
			"  ·  "+
			i18n.RelativeTime(m.locale, n.CreatedAt, time.Now()),
	))
	if n.LinkPath != "" {
		sections = append(sections, metaStyle.Render(n.LinkPath))
	}
	sections = append(sections, "")

	body := n.Body
	if body == "" {
		body = metaStyle.Italic(true).Render(i18n.T(m.locale, "detail.no_body"))
	}
	sections = append(sections, body)

	if len(n.Payload) > 0 {
		sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
		sections = append(sections, "")
		sections = append(sections, sepStyle.Render(
			strings.Repeat("─", min(m.width-4, 80)),
		))
		sections = append(sections, "")

		keys := make([]string, 0, len(n.Payload))
		for k := range n.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sections = append(sections, fmt.Sprintf(
				"%s  %v", metaStyle.Render(k+":"), n.Payload[k],
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) fieldLabel(f records.Field) string {
	return i18n.FieldLabel(m.locale, f.Name, f.Label)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
