package workspaceform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gimenezdev/rentalops/internal/credential"
	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
	"github.com/gimenezdev/rentalops/internal/theme"
)

// Mode represents the current state of the workspace view.
type Mode int

const (
	ModeList          Mode = iota // List saved workspaces
	ModeForm                      // Add or edit a workspace
	ModeConfirmDelete             // Confirm workspace deletion
)

// DoneMsg signals the workspace view should close.
type DoneMsg struct{}

// SavedMsg signals a workspace was saved successfully.
type SavedMsg struct {
	Workspace model.Workspace
}

// SelectedMsg signals the user switched to a workspace.
type SelectedMsg struct {
	Workspace model.Workspace
}

// DeletedMsg signals a workspace was deleted.
type DeletedMsg struct {
	ID string
}

// workspacesLoadedMsg is sent when workspaces have been loaded from the store.
type workspacesLoadedMsg struct {
	workspaces []model.Workspace
	err        error
}

// savedInternalMsg is sent after a workspace is persisted.
type savedInternalMsg struct {
	workspace model.Workspace
	err       error
}

// deletedInternalMsg is sent after a workspace is removed.
type deletedInternalMsg struct {
	id  string
	err error
}

// formValues holds the fields huh binds to. It lives behind a pointer so
// the form's writes stay visible across Model copies.
type formValues struct {
	name    string
	baseURL string
	orgID   string
	token   string

	mailEnabled  bool
	mailHost     string
	mailUsername string
	mailPassword string
	mailFolder   string

	deleteConfirm bool
}

// Model is the Bubble Tea model for workspace management.
type Model struct {
	mode       Mode
	store      store.Store
	workspaces []model.Workspace

	selectedIdx int
	editing     *model.Workspace

	form          *huh.Form
	confirmDelete *huh.Form
	vals          *formValues

	statusMsg string

	keys          *keys.KeyMap
	locale        string
	width, height int
}

// New creates the workspace management view.
func New(s store.Store, k *keys.KeyMap, locale string, width, height int) Model {
	return Model{
		mode:   ModeList,
		store:  s,
		vals:   &formValues{},
		keys:   k,
		locale: locale,
		width:  width,
		height: height,
	}
}

// Init loads workspaces from the store on first render.
func (m Model) Init() tea.Cmd {
	return m.loadWorkspaces()
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case workspacesLoadedMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, nil
		}
		m.workspaces = msg.workspaces
		if m.selectedIdx >= len(m.workspaces) {
			m.selectedIdx = 0
		}
		return m, nil

	case savedInternalMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			m.mode = ModeList
			return m, nil
		}
		m.statusMsg = i18n.Tf(m.locale, "workspace.saved", msg.workspace.Name)
		m.mode = ModeList
		return m, tea.Batch(
			m.loadWorkspaces(),
			func() tea.Msg { return SavedMsg{Workspace: msg.workspace} },
		)

	case deletedInternalMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			m.mode = ModeList
			return m, nil
		}
		m.statusMsg = i18n.T(m.locale, "workspace.deleted")
		m.mode = ModeList
		if m.selectedIdx >= len(m.workspaces)-1 && m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, tea.Batch(
			m.loadWorkspaces(),
			func() tea.Msg { return DeletedMsg{ID: msg.id} },
		)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeList:
		return m.handleListKeys(msg)
	case ModeForm:
		return m.updateForm(msg)
	case ModeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }

	case msg.String() == "a":
		m.editing = nil
		m.resetFormValues()
		m.mode = ModeForm
		m.form = m.buildForm()
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.workspaces) == 0 {
			return m, nil
		}
		ws := m.workspaces[m.selectedIdx]
		m.editing = &ws
		m.fillFormValues(ws)
		m.mode = ModeForm
		m.form = m.buildForm()
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.workspaces) == 0 {
			return m, nil
		}
		m.vals.deleteConfirm = false
		m.confirmDelete = m.buildDeleteConfirmForm()
		m.mode = ModeConfirmDelete
		return m, m.confirmDelete.Init()

	case msg.String() == "enter":
		if len(m.workspaces) == 0 {
			return m, nil
		}
		ws := m.workspaces[m.selectedIdx]
		return m, func() tea.Msg { return SelectedMsg{Workspace: ws} }

	case key.Matches(msg, m.keys.Down):
		if len(m.workspaces) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.workspaces)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.workspaces) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.workspaces) - 1
			}
		}
		return m, nil
	}

	return m, nil
}

// updateActiveForm dispatches non-key messages to the currently active form.
func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		return m.updateForm(msg)
	case ModeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m, nil
}

// --- Workspace form ---

func (m *Model) buildForm() *huh.Form {
	vals := m.vals

	tokenDesc := i18n.T(m.locale, "workspace.form.token_desc")
	if m.editing != nil {
		tokenDesc = i18n.T(m.locale, "workspace.form.token_keep")
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.name")).
				Placeholder("Asunción Rentals").
				Value(&vals.name).
				Validate(m.validateRequired("workspace.form.name")),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.base_url")).
				Placeholder("https://api.example.com").
				Value(&vals.baseURL).
				Validate(m.validateURL),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.org_id")).
				Value(&vals.orgID).
				Validate(m.validateRequired("workspace.form.org_id")),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.token")).
				Description(tokenDesc).
				EchoMode(huh.EchoModePassword).
				Value(&vals.token).
				Validate(m.validateToken),
			huh.NewConfirm().
				Title(i18n.T(m.locale, "workspace.form.mail")).
				Description(i18n.T(m.locale, "workspace.form.mail_desc")).
				Value(&vals.mailEnabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.mail_host")).
				Placeholder("imap.example.com:993").
				Value(&vals.mailHost).
				Validate(m.validateRequired("workspace.form.mail_host")),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.mail_username")).
				Placeholder("bookings@example.com").
				Value(&vals.mailUsername).
				Validate(m.validateRequired("workspace.form.mail_username")),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.mail_password")).
				EchoMode(huh.EchoModePassword).
				Value(&vals.mailPassword).
				Validate(m.validateMailPassword),
			huh.NewInput().
				Title(i18n.T(m.locale, "workspace.form.mail_folder")).
				Placeholder("INBOX").
				Value(&vals.mailFolder),
		).WithHideFunc(func() bool { return !vals.mailEnabled }),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.saveWorkspace()
	}
	if m.form.State == huh.StateAborted {
		m.mode = ModeList
		return m, nil
	}

	return m, cmd
}

func (m Model) saveWorkspace() (Model, tea.Cmd) {
	vals := m.vals

	ws := model.Workspace{
		Name:         strings.TrimSpace(vals.name),
		BaseURL:      strings.TrimRight(strings.TrimSpace(vals.baseURL), "/"),
		OrgID:        strings.TrimSpace(vals.orgID),
		MailEnabled:  vals.mailEnabled,
		MailHost:     strings.TrimSpace(vals.mailHost),
		MailUsername: strings.TrimSpace(vals.mailUsername),
		MailFolder:   strings.TrimSpace(vals.mailFolder),
	}

	if m.editing != nil {
		ws.ID = m.editing.ID
		ws.CreatedAt = m.editing.CreatedAt
	} else {
		ws.ID = uuid.New().String()
	}

	if vals.token != "" {
		if err := credential.Set(credential.APITokenKey(ws.ID), vals.token); err != nil {
			m.statusMsg = err.Error()
			m.mode = ModeList
			return m, nil
		}
	}
	if ws.MailEnabled && vals.mailPassword != "" {
		if err := credential.Set(credential.MailPasswordKey(ws.ID), vals.mailPassword); err != nil {
			m.statusMsg = err.Error()
			m.mode = ModeList
			return m, nil
		}
	}

	m.mode = ModeList
	return m, m.persist(ws)
}

// --- Delete confirmation ---

func (m *Model) buildDeleteConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.workspaces) {
		name = m.workspaces[m.selectedIdx].Name
	}
	vals := m.vals

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(i18n.Tf(m.locale, "workspace.delete_confirm", name)).
				Description(i18n.T(m.locale, "workspace.delete_desc")).
				Value(&vals.deleteConfirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateConfirmDelete(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmDelete == nil {
		return m, nil
	}

	mdl, cmd := m.confirmDelete.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmDelete = f
	}

	if m.confirmDelete.State == huh.StateCompleted {
		m.mode = ModeList
		if m.vals.deleteConfirm && m.selectedIdx < len(m.workspaces) {
			ws := m.workspaces[m.selectedIdx]
			return m, m.deleteWorkspace(ws)
		}
		return m, nil
	}
	if m.confirmDelete.State == huh.StateAborted {
		m.mode = ModeList
		return m, nil
	}

	return m, cmd
}

// --- View ---

// View renders the workspace UI based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeForm:
		return m.viewForm(m.form)
	case ModeConfirmDelete:
		return m.viewForm(m.confirmDelete)
	default:
		return ""
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(i18n.T(m.locale, "workspace.title")))
	b.WriteString("\n\n")

	if len(m.workspaces) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true)
		b.WriteString(emptyStyle.Render(i18n.T(m.locale, "workspace.empty")))
	} else {
		for i, ws := range m.workspaces {
			b.WriteString(m.renderWorkspaceItem(i, ws))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	hintStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	b.WriteString(hintStyle.Render(i18n.T(m.locale, "workspace.hint")))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) renderWorkspaceItem(idx int, ws model.Workspace) string {
	name := ws.Name
	if name == "" {
		name = "(unnamed)"
	}

	urlStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	line := fmt.Sprintf("%s  %s", name, urlStyle.Render(ws.BaseURL))
	if ws.MailEnabled {
		line += "  " + lipgloss.NewStyle().
			Foreground(theme.ColorGreen).
			Render("[mail]")
	}

	if idx == m.selectedIdx {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(f.View())
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *Model) resetFormValues() {
	*m.vals = formValues{mailFolder: "INBOX"}
}

func (m *Model) fillFormValues(ws model.Workspace) {
	*m.vals = formValues{
		name:         ws.Name,
		baseURL:      ws.BaseURL,
		orgID:        ws.OrgID,
		mailEnabled:  ws.MailEnabled,
		mailHost:     ws.MailHost,
		mailUsername: ws.MailUsername,
		mailFolder:   ws.MailFolder,
	}
	// Credentials are never pre-filled; blank keeps the stored value.
}

// loadWorkspaces returns a command that loads all workspaces from the store.
func (m Model) loadWorkspaces() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		workspaces, err := s.GetWorkspaces(ctx)
		return workspacesLoadedMsg{workspaces: workspaces, err: err}
	}
}

// persist returns a command that saves a workspace to the store.
func (m Model) persist(ws model.Workspace) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		err := s.UpsertWorkspace(ctx, ws)
		return savedInternalMsg{workspace: ws, err: err}
	}
}

// deleteWorkspace returns a command that removes a workspace and its
// credentials.
func (m Model) deleteWorkspace(ws model.Workspace) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()

		_ = credential.Delete(credential.APITokenKey(ws.ID))
		_ = credential.Delete(credential.MailPasswordKey(ws.ID))

		err := s.DeleteWorkspace(ctx, ws.ID)
		return deletedInternalMsg{id: ws.ID, err: err}
	}
}

// --- Validators ---

func (m Model) validateRequired(labelKey string) func(string) error {
	locale := m.locale
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf(
				i18n.T(locale, "validation.required"),
				i18n.T(locale, labelKey),
			)
		}
		return nil
	}
}

func (m Model) validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf(
			i18n.T(m.locale, "validation.required"),
			i18n.T(m.locale, "workspace.form.base_url"),
		)
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s", i18n.T(m.locale, "validation.url"))
	}
	return nil
}

// validateToken requires a token for new workspaces; editing keeps the
// stored token when left blank.
func (m Model) validateToken(s string) error {
	if m.editing != nil {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf(
			i18n.T(m.locale, "validation.required"),
			i18n.T(m.locale, "workspace.form.token"),
		)
	}
	return nil
}

func (m Model) validateMailPassword(s string) error {
	if m.editing != nil && m.editing.MailEnabled {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf(
			i18n.T(m.locale, "validation.required"),
			i18n.T(m.locale, "workspace.form.mail_password"),
		)
	}
	return nil
}
