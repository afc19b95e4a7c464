package feedview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/feed"
	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/theme"
	"github.com/gimenezdev/rentalops/internal/ui"
)

// fetchTimeout bounds each visible fetch.
const fetchTimeout = 30 * time.Second

// FullLoadedMsg carries the result of a visible full load.
type FullLoadedMsg struct {
	Epoch  int
	Page   *api.NotificationPage
	Unread int
	Err    error
}

// MoreLoadedMsg carries the result of an older-page fetch.
type MoreLoadedMsg struct {
	Epoch int
	Page  *api.NotificationPage
	Err   error
}

// MarkReadResultMsg carries the outcome of a single mark-read request.
type MarkReadResultMsg struct {
	ID     string
	ReadAt time.Time
	Err    error
}

// MarkAllResultMsg carries the outcome of a mark-all-read request.
type MarkAllResultMsg struct {
	Updated int
	Err     error
}

// QueryChangedMsg tells the root model to repoint the background poller at
// the feed's current filters and epoch.
type QueryChangedMsg struct {
	Query api.NotificationQuery
	Epoch int
}

// ForceRefreshMsg asks the root model to trigger an immediate poll cycle.
// Sent when mark-all-read fails and local state must be resynchronized.
type ForceRefreshMsg struct{}

// NotificationSelectedMsg asks the parent to open a notification's detail.
type NotificationSelectedMsg struct {
	Notification model.Notification
}

// statusCycle is the order the read-state filter toggles through.
var statusCycle = []string{feed.StatusAll, feed.StatusUnread, feed.StatusRead}

// categoryCycle is the order the category filter toggles through; ""
// means all categories.
var categoryCycle = []string{
	"",
	model.CategoryReservations,
	model.CategoryPayments,
	model.CategoryOperations,
	model.CategorySystem,
}

// Model is the notification feed view.
type Model struct {
	list     list.Model
	client   *api.Client
	feed     *feed.Feed
	keys     *keys.KeyMap
	locale   string
	pageSize int

	width  int
	height int
}

// New creates the feed view. The *feed.Feed is shared with the root model
// so the header badge stays current while other views are active.
func New(
	client *api.Client,
	f *feed.Feed,
	k *keys.KeyMap,
	locale string,
	pageSize int,
	width, height int,
) Model {
	delegate := ItemDelegate{locale: locale, now: time.Now}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:     l,
		client:   client,
		feed:     f,
		keys:     k,
		locale:   locale,
		pageSize: pageSize,
		width:    width,
		height:   height,
	}
}

// Init starts the first visible load.
func (m Model) Init() tea.Cmd {
	return m.StartLoad()
}

// StartLoad begins a visible full load and republishes the poller query.
func (m *Model) StartLoad() tea.Cmd {
	epoch := m.feed.StartLoad()
	query := m.feed.Query(m.pageSize)
	return tea.Batch(
		m.loadFull(epoch),
		func() tea.Msg {
			return QueryChangedMsg{Query: query, Epoch: epoch}
		},
	)
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
	m.list.SetDelegate(ItemDelegate{locale: locale, now: time.Now})
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FullLoadedMsg:
		if msg.Err != nil {
			if m.feed.Fail(msg.Epoch, msg.Err) {
				return m, ui.ShowToast(ui.ToastError, m.fetchErrorText(msg.Err))
			}
			return m, nil
		}
		if m.feed.ApplyFull(msg.Epoch, msg.Page, msg.Unread) {
			return m, m.rebuildItems()
		}
		return m, nil

	case MoreLoadedMsg:
		if msg.Err != nil {
			if m.feed.Fail(msg.Epoch, msg.Err) {
				return m, ui.ShowToast(ui.ToastError, m.fetchErrorText(msg.Err))
			}
			return m, nil
		}
		if m.feed.ApplyMore(msg.Epoch, msg.Page) {
			return m, m.rebuildItems()
		}
		return m, nil

	case feed.ResultMsg:
		// Background refresh: failures are silent, the last good items
		// stay on screen.
		if msg.Error != nil {
			return m, nil
		}
		if m.feed.ApplySilent(msg.Epoch, msg.Page, msg.Unread) {
			return m, m.rebuildItems()
		}
		return m, nil

	case MarkReadResultMsg:
		if msg.Err != nil {
			// Optimistic state stays; the next refresh reconciles it.
			return m, ui.ShowToast(ui.ToastError, m.fetchErrorText(msg.Err))
		}
		m.feed.ConfirmRead(msg.ID, msg.ReadAt)
		return m, nil

	case MarkAllResultMsg:
		if msg.Err != nil {
			return m, tea.Batch(
				ui.ShowToast(ui.ToastError, m.fetchErrorText(msg.Err)),
				func() tea.Msg { return ForceRefreshMsg{} },
			)
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
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(NotificationItem)
		if !ok {
			return m, nil
		}
		n := item.Notification
		var cmds []tea.Cmd
		if markCmd := m.markRead(n.ID); markCmd != nil {
			cmds = append(cmds, markCmd, m.rebuildItems())
		}
		cmds = append(cmds, func() tea.Msg {
			return NotificationSelectedMsg{Notification: n}
		})
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.list.SelectedItem().(NotificationItem)
		if !ok {
			return m, nil
		}
		if cmd := m.markRead(item.Notification.ID); cmd != nil {
			return m, tea.Batch(cmd, m.rebuildItems())
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkAllRead):
		if !m.feed.MarkAllRead(time.Now()) {
			return m, nil
		}
		return m, tea.Batch(m.markAllRead(), m.rebuildItems())

	case key.Matches(msg, m.keys.LoadMore):
		cursor, epoch, ok := m.feed.StartLoadMore()
		if !ok {
			return m, nil
		}
		return m, m.loadMore(cursor, epoch)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.StartLoad()
	}

	switch msg.String() {
	case "u":
		m.feed.SetFilters(nextIn(statusCycle, m.feed.Status()), m.feed.Category())
		return m, m.StartLoad()

	case "c":
		m.feed.SetFilters(m.feed.Status(), nextIn(categoryCycle, m.feed.Category()))
		return m, m.StartLoad()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// markRead applies the optimistic mark and returns the request command,
// or nil when the item is already read and nothing must be sent.
func (m Model) markRead(id string) tea.Cmd {
	if !m.feed.MarkRead(id, time.Now()) {
		return nil
	}

	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		readAt, err := client.MarkRead(ctx, id)
		return MarkReadResultMsg{ID: id, ReadAt: readAt, Err: err}
	}
}

func (m Model) markAllRead() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		updated, err := client.MarkAllRead(ctx)
		return MarkAllResultMsg{Updated: updated, Err: err}
	}
}

func (m Model) loadFull(epoch int) tea.Cmd {
	client := m.client
	query := m.feed.Query(m.pageSize)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := client.ListNotifications(ctx, query)
		if err != nil {
			return FullLoadedMsg{Epoch: epoch, Err: err}
		}
		unread, err := client.UnreadCount(ctx)
		if err != nil {
			return FullLoadedMsg{Epoch: epoch, Err: err}
		}
		return FullLoadedMsg{Epoch: epoch, Page: page, Unread: unread}
	}
}

func (m Model) loadMore(cursor string, epoch int) tea.Cmd {
	client := m.client
	query := m.feed.Query(m.pageSize)
	query.Cursor = cursor
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := client.ListNotifications(ctx, query)
		return MoreLoadedMsg{Epoch: epoch, Page: page, Err: err}
	}
}

// rebuildItems pushes the feed's items into the list widget.
func (m *Model) rebuildItems() tea.Cmd {
	notifications := m.feed.Items()
	items := make([]list.Item, len(notifications))
	for i, n := range notifications {
		items[i] = NotificationItem{Notification: n}
	}
	return m.list.SetItems(items)
}

// View renders the feed view.
func (m Model) View() string {
	if m.feed.Phase() == feed.PhaseLoading && len(m.feed.Items()) == 0 {
		return m.centered(i18n.T(m.locale, "feed.loading"))
	}
	if len(m.feed.Items()) == 0 {
		if m.feed.Err() != nil {
			return m.centered(i18n.T(m.locale, "feed.error_generic"))
		}
		return m.centered(i18n.T(m.locale, "feed.empty"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.renderFooter())
}

func (m Model) renderFooter() string {
	style := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var parts []string
	if m.feed.Status() != feed.StatusAll {
		parts = append(parts, m.feed.Status())
	}
	if m.feed.Category() != "" {
		parts = append(parts, i18n.T(m.locale, "category."+m.feed.Category()))
	}

	switch {
	case m.feed.Phase() == feed.PhaseLoadingMore:
		parts = append(parts, i18n.T(m.locale, "feed.loading_more"))
	case m.feed.Phase() == feed.PhaseLoading:
		parts = append(parts, i18n.T(m.locale, "feed.loading"))
	case m.feed.HasMore():
		parts = append(parts, i18n.T(m.locale, "feed.load_more")+" (pgdn)")
	default:
		parts = append(parts, i18n.T(m.locale, "feed.exhausted"))
	}

	line := ""
	for i, p := range parts {
		if i > 0 {
			line += "  ·  "
		}
		line += p
	}
	return style.Render(line)
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

func (m Model) fetchErrorText(err error) string {
	if api.IsAuthError(err) {
		return i18n.T(m.locale, "toast.auth_failed")
	}
	if text := api.ErrorMessage(err); text != "" {
		return text
	}
	return i18n.T(m.locale, "feed.error_generic")
}

// SetSize updates the feed view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// nextIn returns the element after cur in the cycle, wrapping around.
func nextIn(cycle []string, cur string) string {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
