package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/channel"
	"github.com/gimenezdev/rentalops/internal/credential"
	"github.com/gimenezdev/rentalops/internal/feed"
	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/records"
	"github.com/gimenezdev/rentalops/internal/store"
	"github.com/gimenezdev/rentalops/internal/theme"
	"github.com/gimenezdev/rentalops/internal/ui"
	"github.com/gimenezdev/rentalops/internal/ui/command"
	"github.com/gimenezdev/rentalops/internal/ui/detail"
	"github.com/gimenezdev/rentalops/internal/ui/feedview"
	helpview "github.com/gimenezdev/rentalops/internal/ui/help"
	historyview "github.com/gimenezdev/rentalops/internal/ui/history"
	"github.com/gimenezdev/rentalops/internal/ui/importview"
	"github.com/gimenezdev/rentalops/internal/ui/recordtable"
	"github.com/gimenezdev/rentalops/internal/ui/workspaceform"
)

// toastTTL is how long a toast occupies the status bar.
const toastTTL = 4 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewRecords ViewState = iota
	ViewFeed
	ViewDetail
	ViewHistory
	ViewImport
	ViewWorkspaces
	ViewHelp
	ViewCommand
)

// workspacesBootMsg carries the stored workspaces found at startup.
type workspacesBootMsg struct {
	workspaces []model.Workspace
	err        error
}

// workspaceConnectedMsg is sent when a workspace's client is ready (or its
// credentials could not be loaded).
type workspaceConnectedMsg struct {
	workspace model.Workspace
	client    *api.Client
	importer  *channel.Importer
	err       error
}

// Model is the root Bubble Tea model that manages view routing, layout,
// the workspace connection, and the background poller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg        *model.AppConfig
	configPath string
	store      store.Store
	keys       *keys.KeyMap
	locale     string

	// Per-workspace state, rebuilt on every switch.
	workspace *model.Workspace
	client    *api.Client
	feedState *feed.Feed
	poller    *feed.Poller

	recordTable   recordtable.Model
	feedView      feedview.Model
	detailView    detail.Model
	historyView   historyview.Model
	importView    importview.Model
	workspaceView workspaceform.Model
	commandView   command.Model
	helpView      helpview.Model

	toast     ui.Toast
	toastID   int
	authError string

	ready bool
}

// New creates the root application model. Views that need a connected
// workspace are built once the first workspace is resolved.
func New(cfg *model.AppConfig, configPath string, s store.Store) Model {
	k := keys.DefaultKeyMap()
	locale := cfg.Display.Locale

	return Model{
		currentView:   ViewRecords,
		cfg:           cfg,
		configPath:    configPath,
		store:         s,
		keys:          k,
		locale:        locale,
		detailView:    detail.New(k, locale, 80, 24),
		workspaceView: workspaceform.New(s, k, locale, 80, 24),
		commandView:   command.New(locale, 80, 24),
		helpView:      helpview.New(k, locale, 80, 24),
	}
}

// Init looks up the stored workspaces and connects the active one.
func (m Model) Init() tea.Cmd {
	return m.loadWorkspaces()
}

func (m Model) loadWorkspaces() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		workspaces, err := s.GetWorkspaces(context.Background())
		return workspacesBootMsg{workspaces: workspaces, err: err}
	}
}

// connectWorkspace loads the workspace's credentials and builds its API
// client and, when mail is configured, the booking-email importer.
func (m Model) connectWorkspace(ws model.Workspace) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		token, err := credential.Get(credential.APITokenKey(ws.ID))
		if err != nil {
			return workspaceConnectedMsg{
				workspace: ws,
				err:       fmt.Errorf("loading workspace token: %w", err),
			}
		}
		client := api.NewClient(ws.BaseURL, token, ws.OrgID)

		var importer *channel.Importer
		if ws.MailEnabled {
			pass, err := credential.Get(credential.MailPasswordKey(ws.ID))
			if err != nil {
				log.Printf("mail password unavailable for workspace %s: %v",
					ws.Name, err)
			} else {
				mail := channel.NewIMAPClient(
					ws.MailHost, ws.MailUsername, pass, ws.MailFolder,
				)
				importer = channel.NewImporter(mail, s, ws.ID)
			}
		}

		return workspaceConnectedMsg{
			workspace: ws,
			client:    client,
			importer:  importer,
		}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.detailView.SetSize(w, h)
		m.workspaceView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		if m.workspace != nil {
			m.recordTable.SetSize(w, h)
			m.feedView.SetSize(w, h)
			m.historyView.SetSize(w, h)
			m.importView.SetSize(w, h)
		}
		// Forward to the active view so huh forms can calculate layout.
		return m.updateActiveView(msg)

	case workspacesBootMsg:
		if msg.err != nil {
			m.currentView = ViewWorkspaces
			return m, tea.Batch(
				m.workspaceView.Init(),
				ui.ShowToast(ui.ToastError, msg.err.Error()),
			)
		}
		// First run: no workspace yet, open the form.
		if len(msg.workspaces) == 0 {
			m.previousView = m.currentView
			m.currentView = ViewWorkspaces
			return m, m.workspaceView.Init()
		}
		ws := msg.workspaces[0]
		for _, w := range msg.workspaces {
			if w.ID == m.cfg.ActiveWorkspace {
				ws = w
				break
			}
		}
		return m, m.connectWorkspace(ws)

	case workspaceConnectedMsg:
		if msg.err != nil {
			m.currentView = ViewWorkspaces
			return m, tea.Batch(
				m.workspaceView.Init(),
				ui.ShowToast(ui.ToastError, msg.err.Error()),
			)
		}
		return m.switchWorkspace(msg)

	case ui.ToastMsg:
		m.toast = ui.Toast(msg)
		m.toastID++
		return m, ui.ExpireToast(m.toastID, toastTTL)

	case ui.ToastExpiredMsg:
		if msg.ID == m.toastID {
			m.toast = ui.Toast{}
		}
		return m, nil

	case feed.ResultMsg:
		if msg.AuthError {
			m.authError = i18n.T(m.locale, "toast.auth_failed")
		} else if msg.Error == nil {
			m.authError = ""
		}
		if m.workspace == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.feedView, cmd = m.feedView.Update(msg)
		if m.poller == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.poller.WaitForNextResult())

	case feedview.QueryChangedMsg:
		if m.poller != nil {
			m.poller.SetQuery(msg.Query, msg.Epoch)
		}
		return m, nil

	case feedview.ForceRefreshMsg:
		if m.poller != nil {
			return m, m.poller.TriggerNow()
		}
		return m, nil

	// Async results are routed to their owning view regardless of which
	// view is on screen; edits and loads resolve while the user is away.
	case feedview.FullLoadedMsg, feedview.MoreLoadedMsg,
		feedview.MarkReadResultMsg, feedview.MarkAllResultMsg:
		if m.workspace == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.feedView, cmd = m.feedView.Update(msg)
		return m, cmd

	case recordtable.RowsLoadedMsg, recordtable.EditResultMsg:
		if m.workspace == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.recordTable, cmd = m.recordTable.Update(msg)
		return m, cmd

	case importview.DraftsLoadedMsg, importview.ScanResultMsg,
		importview.ImportResultMsg:
		if m.workspace == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.importView, cmd = m.importView.Update(msg)
		return m, cmd

	case historyview.EditsLoadedMsg:
		if m.workspace == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case recordtable.RecordSelectedMsg:
		schema, ok := records.SchemaFor(msg.Resource)
		if !ok {
			return m, nil
		}
		m.detailView.SetRecord(schema, msg.Row)
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, nil

	case feedview.NotificationSelectedMsg:
		m.detailView.SetNotification(msg.Notification)
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case workspaceform.SelectedMsg:
		return m, m.connectWorkspace(msg.Workspace)

	case workspaceform.SavedMsg:
		// First workspace, or an edit of the active one: (re)connect.
		if m.workspace == nil || m.workspace.ID == msg.Workspace.ID {
			return m, m.connectWorkspace(msg.Workspace)
		}
		return m, nil

	case workspaceform.DeletedMsg:
		if m.workspace != nil && m.workspace.ID == msg.ID {
			m.disconnect()
		}
		return m, nil

	case workspaceform.DoneMsg:
		if m.workspace == nil {
			return m, ui.ShowToast(
				ui.ToastInfo, i18n.T(m.locale, "app.no_workspace"),
			)
		}
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			if m.poller != nil {
				m.poller.Stop()
			}
			return m, tea.Quit

		case "q":
			if m.browsing() {
				if m.poller != nil {
					m.poller.Stop()
				}
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			if m.browsing() || m.currentView == ViewDetail {
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			}

		case ":":
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			if m.browsing() || m.currentView == ViewDetail {
				m.previousView = m.currentView
				m.currentView = ViewCommand
				return m, m.commandView.Focus()
			}

		case "esc":
			switch m.currentView {
			case ViewFeed, ViewHistory, ViewImport:
				m.currentView = ViewRecords
				return m, nil
			case ViewHelp, ViewCommand:
				m.currentView = m.previousView
				return m, nil
			}

		case "n":
			if m.browsing() && m.currentView != ViewFeed {
				m.previousView = m.currentView
				m.currentView = ViewFeed
				return m, nil
			}

		case "y":
			if m.browsing() && m.currentView != ViewHistory {
				m.previousView = m.currentView
				m.currentView = ViewHistory
				return m, m.historyView.LoadEdits()
			}

		case "i":
			if m.browsing() && m.currentView != ViewImport {
				m.previousView = m.currentView
				m.currentView = ViewImport
				return m, m.importView.LoadDrafts()
			}

		case "w":
			if m.browsing() {
				m.previousView = m.currentView
				m.currentView = ViewWorkspaces
				return m, m.workspaceView.Init()
			}

		case "tab":
			if m.currentView == ViewRecords && !m.recordTable.InputActive() {
				return m, m.recordTable.CycleResource(1)
			}

		case "shift+tab":
			if m.currentView == ViewRecords && !m.recordTable.InputActive() {
				return m, m.recordTable.CycleResource(-1)
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// switchWorkspace tears down the previous workspace connection and brings
// up the new one: fresh client, feed, poller, and data views.
func (m Model) switchWorkspace(msg workspaceConnectedMsg) (tea.Model, tea.Cmd) {
	if m.poller != nil {
		m.poller.Stop()
	}

	ws := msg.workspace
	m.workspace = &ws
	m.client = msg.client
	m.authError = ""
	m.feedState = feed.New()
	m.poller = feed.NewPoller(
		msg.client,
		time.Duration(m.cfg.Feed.PollIntervalSec)*time.Second,
	)

	w, h := m.contentSize()
	m.recordTable = recordtable.New(
		msg.client, m.store, m.keys, m.locale, ws.ID, w, h,
	)
	m.feedView = feedview.New(
		msg.client, m.feedState, m.keys, m.locale, m.cfg.Feed.PageSize, w, h,
	)
	m.historyView = historyview.New(m.store, m.keys, m.locale, ws.ID, w, h)
	m.importView = importview.New(
		msg.client, m.store, msg.importer, m.keys, m.locale, ws.ID, w, h,
	)

	m.currentView = ViewRecords
	m.previousView = ViewRecords

	if m.cfg.ActiveWorkspace != ws.ID {
		m.cfg.ActiveWorkspace = ws.ID
		if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
			log.Printf("saving config: %v", err)
		}
	}

	return m, tea.Batch(
		m.recordTable.Init(),
		m.feedView.Init(),
		m.importView.Init(),
		m.poller.Start(),
		ui.ShowToast(ui.ToastInfo, i18n.Tf(m.locale, "workspace.switch", ws.Name)),
	)
}

// disconnect drops the active workspace connection. Called when the active
// workspace is deleted.
func (m *Model) disconnect() {
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
	m.workspace = nil
	m.client = nil
	m.feedState = nil
	m.authError = ""
	m.currentView = ViewWorkspaces

	m.cfg.ActiveWorkspace = ""
	if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
		log.Printf("saving config: %v", err)
	}
}

// browsing reports whether the user is on a top-level view with the
// keyboard free, so global navigation keys may act.
func (m Model) browsing() bool {
	if m.workspace == nil {
		return false
	}
	switch m.currentView {
	case ViewRecords:
		return !m.recordTable.InputActive()
	case ViewFeed, ViewHistory, ViewImport:
		return true
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewRecords:
		if m.workspace == nil {
			return m, nil
		}
		m.recordTable, cmd = m.recordTable.Update(msg)
	case ViewFeed:
		if m.workspace == nil {
			return m, nil
		}
		m.feedView, cmd = m.feedView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHistory:
		if m.workspace == nil {
			return m, nil
		}
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewImport:
		if m.workspace == nil {
			return m, nil
		}
		m.importView, cmd = m.importView.Update(msg)
	case ViewWorkspaces:
		m.workspaceView, cmd = m.workspaceView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return i18n.T(m.locale, "app.loading")
	}

	title := i18n.T(m.locale, "app.title")
	if m.workspace != nil {
		title += " · " + m.workspace.Name
	}

	badge := ""
	if m.feedState != nil && m.feedState.Unread() > 0 {
		badge = i18n.Tf(m.locale, "feed.unread_badge", m.feedState.Unread())
	}

	header := m.layout.RenderHeader(title, badge, m.pollStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.statusToast())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	if m.workspace == nil && m.currentView != ViewWorkspaces {
		return m.centeredNotice(i18n.T(m.locale, "app.connecting"))
	}

	switch m.currentView {
	case ViewRecords:
		return m.recordTable.View()
	case ViewFeed:
		return m.feedView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewImport:
		return m.importView.View()
	case ViewWorkspaces:
		return m.workspaceView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

func (m Model) centeredNotice(text string) string {
	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// statusToast returns what occupies the status bar: an active toast first,
// then a standing auth error, then nothing (hints render instead).
func (m Model) statusToast() ui.Toast {
	if m.toast.Text != "" {
		return m.toast
	}
	if m.authError != "" {
		return ui.Toast{Level: ui.ToastError, Text: m.authError}
	}
	return ui.Toast{}
}

// pollStatus returns the short refresh-state string for the header.
func (m Model) pollStatus() string {
	if m.poller == nil {
		return ""
	}
	status := m.poller.Status()
	switch {
	case status.State == feed.PollRunning:
		return i18n.T(m.locale, "app.poll_running")
	case status.State == feed.PollError:
		return i18n.T(m.locale, "app.poll_error")
	case !status.LastPoll.IsZero():
		return i18n.Tf(m.locale, "app.poll_last",
			i18n.RelativeTime(m.locale, status.LastPoll, time.Now()))
	}
	return ""
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewRecords:
		if m.recordTable.InputActive() {
			return "enter apply | esc cancel"
		}
		return "e edit | / filter | tab resource | n feed | y history | " +
			"i inbox | w workspaces | ? help | q quit"
	case ViewFeed:
		return "enter open | m read | M read all | u unread | c category | " +
			"pgdn older | esc back"
	case ViewDetail:
		return "j/k scroll | esc back"
	case ViewHistory:
		return "u status | r refresh | esc back"
	case ViewImport:
		return "s scan | enter import | d dismiss | esc back"
	case ViewWorkspaces:
		return "a add | e edit | d delete | enter switch | esc back"
	case ViewHelp:
		return "? close | esc back"
	case ViewCommand:
		return "enter execute | : close"
	default:
		return ""
	}
}

// contentSize returns the usable content dimensions, with a sane default
// before the first WindowSizeMsg.
func (m Model) contentSize() (int, int) {
	if !m.ready {
		return 80, 24
	}
	return m.layout.ContentWidth(), m.layout.ContentHeight()
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(raw string) tea.Cmd {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "q":
		if m.poller != nil {
			m.poller.Stop()
		}
		return tea.Quit

	case "refresh", "sync":
		if m.workspace == nil {
			return nil
		}
		cmds := []tea.Cmd{m.recordTable.Reload()}
		if m.poller != nil {
			cmds = append(cmds, m.poller.TriggerNow())
		}
		return tea.Batch(cmds...)

	case "records", "table":
		if m.workspace == nil {
			return nil
		}
		m.currentView = ViewRecords
		if len(fields) > 1 {
			return m.recordTable.SelectResource(fields[1])
		}
		return nil

	case "feed", "notifications":
		if m.workspace == nil {
			return nil
		}
		m.currentView = ViewFeed
		return nil

	case "history":
		if m.workspace == nil {
			return nil
		}
		m.currentView = ViewHistory
		return m.historyView.LoadEdits()

	case "import", "inbox":
		if m.workspace == nil {
			return nil
		}
		m.currentView = ViewImport
		return m.importView.LoadDrafts()

	case "workspaces", "ws":
		m.currentView = ViewWorkspaces
		return m.workspaceView.Init()

	case "locale", "lang":
		if len(fields) > 1 {
			return m.setLocale(fields[1])
		}
		return nil

	default:
		return nil
	}
}

// setLocale switches the UI language, persists it, and fans it out to
// every view.
func (m *Model) setLocale(locale string) tea.Cmd {
	if locale != model.LocaleEnglish && locale != model.LocaleSpanish {
		return nil
	}

	m.locale = locale
	m.cfg.Display.Locale = locale
	if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
		log.Printf("saving config: %v", err)
	}

	m.detailView.SetLocale(locale)
	m.workspaceView.SetLocale(locale)
	m.commandView.SetLocale(locale)
	m.helpView.SetLocale(locale)
	if m.workspace != nil {
		m.recordTable.SetLocale(locale)
		m.feedView.SetLocale(locale)
		m.historyView.SetLocale(locale)
		m.importView.SetLocale(locale)
	}

	return ui.ShowToast(ui.ToastInfo, i18n.T(locale, "app.locale_changed"))
}
