package importview

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/channel"
	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
	"github.com/gimenezdev/rentalops/internal/theme"
	"github.com/gimenezdev/rentalops/internal/ui"
)

// scanWindow is how far back a mailbox scan reaches.
const scanWindow = 30 * 24 * time.Hour

// scanLimit caps the messages fetched per scan.
const scanLimit = 200

// requestTimeout bounds the import POST.
const requestTimeout = 30 * time.Second

// DraftsLoadedMsg is sent when drafts have been loaded from the store.
type DraftsLoadedMsg struct {
	Drafts []model.BookingDraft
	Err    error
}

// ScanResultMsg carries the outcome of a mailbox scan.
type ScanResultMsg struct {
	Created int
	Err     error
}

// ImportResultMsg carries the outcome of pushing one draft to the platform.
type ImportResultMsg struct {
	DraftID       string
	ReservationID string
	Err           error
}

// draftUpdatedMsg is sent after a local draft status change.
type draftUpdatedMsg struct {
	err error
}

// DraftItem wraps a model.BookingDraft for use in a bubbles/list.
type DraftItem struct {
	Draft model.BookingDraft
}

// FilterValue returns the string used for fuzzy filtering.
func (i DraftItem) FilterValue() string {
	return i.Draft.GuestName
}

// ItemDelegate renders one booking draft per line.
type ItemDelegate struct {
	locale string
}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single draft line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(DraftItem)
	if !ok {
		return
	}

	dr := wrapper.Draft
	isSelected := index == m.Index()

	chBadge := theme.ChannelStyle(dr.Channel).Render(dr.Channel)

	guest := dr.GuestName
	if guest == "" {
		guest = "—"
	}

	dates := fmt.Sprintf("%s → %s", orDash(dr.CheckIn), orDash(dr.CheckOut))
	amount := ""
	if dr.Amount > 0 {
		amount = fmt.Sprintf("%.0f", dr.Amount)
	}

	statusStr := ""
	if dr.Status != model.DraftNew {
		statusStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" [" + dr.Status + "]")
	}

	line := fmt.Sprintf(
		"%s %s  %s  %s%s",
		chBadge, guest, dates, amount, statusStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// Model is the booking inbox view: drafts parsed from channel emails,
// awaiting import into the platform or dismissal.
type Model struct {
	list        list.Model
	client      *api.Client
	store       store.Store
	importer    *channel.Importer
	keys        *keys.KeyMap
	locale      string
	workspaceID string
	scanning    bool
	spinner     spinner.Model
	width       int
	height      int
}

// New creates the booking inbox view. importer is nil when the workspace
// has no mailbox configured; scanning is then unavailable.
func New(
	client *api.Client,
	st store.Store,
	importer *channel.Importer,
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

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		list:        l,
		client:      client,
		store:       st,
		importer:    importer,
		keys:        k,
		locale:      locale,
		workspaceID: workspaceID,
		spinner:     sp,
		width:       width,
		height:      height,
	}
}

// Init loads the stored drafts.
func (m Model) Init() tea.Cmd {
	return m.LoadDrafts()
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
	m.list.SetDelegate(ItemDelegate{locale: locale})
}

// LoadDrafts queries the store for this workspace's drafts.
func (m Model) LoadDrafts() tea.Cmd {
	st := m.store
	filter := store.DraftFilter{WorkspaceID: m.workspaceID}
	return func() tea.Msg {
		drafts, err := st.GetDrafts(context.Background(), filter)
		return DraftsLoadedMsg{Drafts: drafts, Err: err}
	}
}

// Update handles messages for the booking inbox.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DraftsLoadedMsg:
		items := make([]list.Item, len(msg.Drafts))
		for i, d := range msg.Drafts {
			items[i] = DraftItem{Draft: d}
		}
		return m, m.list.SetItems(items)

	case ScanResultMsg:
		m.scanning = false
		if msg.Err != nil {
			return m, ui.ShowToast(ui.ToastError, msg.Err.Error())
		}
		return m, tea.Batch(
			ui.ShowToast(ui.ToastInfo,
				i18n.Tf(m.locale, "import.scanned", msg.Created)),
			m.LoadDrafts(),
		)

	case ImportResultMsg:
		if msg.Err != nil {
			text := api.ErrorMessage(msg.Err)
			if text == "" {
				text = i18n.T(m.locale, "toast.request_failed")
			}
			return m, ui.ShowToast(ui.ToastError, text)
		}
		return m, tea.Batch(
			ui.ShowToast(ui.ToastInfo, i18n.T(m.locale, "import.created")),
			m.markDraft(msg.DraftID, model.DraftImported, msg.ReservationID),
		)

	case draftUpdatedMsg:
		if msg.err != nil {
			return m, ui.ShowToast(ui.ToastError, msg.err.Error())
		}
		return m, m.LoadDrafts()

	case spinner.TickMsg:
		if m.scanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Scan):
		if m.importer == nil {
			return m, ui.ShowToast(
				ui.ToastError, i18n.T(m.locale, "import.no_mailbox"),
			)
		}
		if m.scanning {
			return m, nil
		}
		m.scanning = true
		return m, tea.Batch(m.spinner.Tick, m.scan())

	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(DraftItem)
		if !ok || item.Draft.Status != model.DraftNew {
			return m, nil
		}
		return m, m.importDraft(item.Draft)

	case key.Matches(msg, m.keys.Dismiss):
		item, ok := m.list.SelectedItem().(DraftItem)
		if !ok || item.Draft.Status != model.DraftNew {
			return m, nil
		}
		return m, m.markDraft(item.Draft.ID, model.DraftDismissed, "")

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadDrafts()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) scan() tea.Cmd {
	importer := m.importer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(
			context.Background(), 2*time.Minute,
		)
		defer cancel()

		created, err := importer.Scan(ctx, time.Now().Add(-scanWindow), scanLimit)
		return ScanResultMsg{Created: created, Err: err}
	}
}

// importDraft creates a platform reservation from the draft's parsed
// fields. Unit and guest references stay empty for later inline editing.
func (m Model) importDraft(draft model.BookingDraft) tea.Cmd {
	client := m.client
	fields := map[string]any{
		"check_in":     draft.CheckIn,
		"check_out":    draft.CheckOut,
		"status":       "pending",
		"total_amount": draft.Amount,
		"channel":      draft.Channel,
	}
	if draft.GuestName != "" || draft.UnitHint != "" {
		fields["notes"] = fmt.Sprintf(
			"%s (%s)", draft.GuestName, draft.UnitHint,
		)
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		row, err := client.CreateRow(ctx, "reservations", fields)
		if err != nil {
			return ImportResultMsg{DraftID: draft.ID, Err: err}
		}
		return ImportResultMsg{
			DraftID:       draft.ID,
			ReservationID: row.ID(),
		}
	}
}

func (m Model) markDraft(id, status, reservationID string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		err := st.UpdateDraftStatus(
			context.Background(), id, status, reservationID,
		)
		return draftUpdatedMsg{err: err}
	}
}

// View renders the booking inbox.
func (m Model) View() string {
	if m.scanning && len(m.list.Items()) == 0 {
		return m.centered(
			m.spinner.View() + " " + i18n.T(m.locale, "import.scanning"),
		)
	}
	if len(m.list.Items()) == 0 {
		return m.centered(i18n.T(m.locale, "import.empty"))
	}

	footer := ""
	if m.scanning {
		footer = m.spinner.View() + " " + lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(i18n.T(m.locale, "import.scanning"))
	}
	if footer == "" {
		return m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), footer)
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the booking inbox dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
