package recordtable

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gimenezdev/rentalops/internal/api"
	"github.com/gimenezdev/rentalops/internal/i18n"
	"github.com/gimenezdev/rentalops/internal/keys"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/records"
	"github.com/gimenezdev/rentalops/internal/store"
	"github.com/gimenezdev/rentalops/internal/ui"
)

const loadLimit = 200

// fetchTimeout bounds each list and update request.
const fetchTimeout = 30 * time.Second

// RowsLoadedMsg carries a full row snapshot for one resource.
type RowsLoadedMsg struct {
	Resource string
	Epoch    int
	Rows     []model.Row
	Err      error
}

// EditResultMsg carries the PATCH outcome for one dispatched edit.
type EditResultMsg struct {
	Resource string
	Edit     *records.PendingEdit
	Echo     model.Row
	Err      error
}

// RecordSelectedMsg asks the parent to open the detail view for a record.
// Row is the projected row as currently displayed, pending edits included.
type RecordSelectedMsg struct {
	Resource string
	Row      model.Row
}

// Model is the editable record grid for one resource at a time.
type Model struct {
	client      *api.Client
	store       store.Store
	keys        *keys.KeyMap
	locale      string
	workspaceID string

	resourceIdx int
	projection  *records.Projection

	epoch   int
	loading bool
	loadErr error

	rowIdx int
	colIdx int
	offset int

	filter      string
	searchMode  bool
	searchInput textinput.Model

	editing   bool
	editInput textinput.Model

	width  int
	height int
}

// New creates the record grid showing the first registry resource.
func New(
	client *api.Client,
	st store.Store,
	k *keys.KeyMap,
	locale, workspaceID string,
	width, height int,
) Model {
	si := textinput.New()
	si.Prompt = "/ "
	si.Width = width - 4

	ei := textinput.New()
	ei.Prompt = "> "
	ei.Width = width - 4

	schema := records.Registry()[0]

	return Model{
		client:      client,
		store:       st,
		keys:        k,
		locale:      locale,
		workspaceID: workspaceID,
		projection:  records.NewProjection(schema, records.Options{}),
		searchInput: si,
		editInput:   ei,
		width:       width,
		height:      height,
	}
}

// Init loads the initial resource.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Resource returns the active resource name.
func (m Model) Resource() string {
	return m.projection.Schema().Resource
}

// Title returns the localized resource title for the header.
func (m Model) Title() string {
	s := m.projection.Schema()
	return i18n.T(m.locale, "resource."+s.Resource)
}

// PendingCount returns how many edits are saving, for the status bar.
func (m Model) PendingCount() int {
	return m.projection.PendingCount()
}

// InputActive reports whether a text input owns the keyboard, so the root
// model leaves keystrokes alone.
func (m Model) InputActive() bool {
	return m.searchMode || m.editing
}

// SetLocale changes the display language.
func (m *Model) SetLocale(locale string) {
	m.locale = locale
}

// Reload starts a fresh fetch of the active resource. Pending edits are
// kept until the snapshot arrives; Replace then drops them.
func (m *Model) Reload() tea.Cmd {
	m.epoch++
	m.loading = true
	m.loadErr = nil
	return m.loadRows(m.Resource(), m.epoch)
}

// CycleResource switches to the next (or previous) registry resource.
func (m *Model) CycleResource(step int) tea.Cmd {
	reg := records.Registry()
	m.resourceIdx = (m.resourceIdx + step + len(reg)) % len(reg)
	m.projection = records.NewProjection(reg[m.resourceIdx], records.Options{})
	m.rowIdx, m.colIdx, m.offset = 0, 0, 0
	m.filter = ""
	m.editing = false
	m.searchMode = false
	return m.Reload()
}

// SelectResource switches to the named resource; unknown names are ignored.
func (m *Model) SelectResource(resource string) tea.Cmd {
	for i, s := range records.Registry() {
		if s.Resource == resource {
			return m.CycleResource(i - m.resourceIdx)
		}
	}
	return nil
}

func (m Model) loadRows(resource string, epoch int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rows, err := client.ListRows(ctx, resource, loadLimit)
		return RowsLoadedMsg{
			Resource: resource,
			Epoch:    epoch,
			Rows:     rows,
			Err:      err,
		}
	}
}

// Update handles messages for the record grid.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RowsLoadedMsg:
		if msg.Resource != m.Resource() || msg.Epoch != m.epoch {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, ui.ShowToast(ui.ToastError, m.fetchErrorText(msg.Err))
		}
		m.loadErr = nil
		m.projection.Replace(msg.Rows)
		m.clampCursor()
		return m, nil

	case EditResultMsg:
		return m.handleEditResult(msg)

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleEditResult settles a PATCH outcome against the projection and
// chains the queued successor, history entry, and user feedback.
func (m Model) handleEditResult(msg EditResultMsg) (Model, tea.Cmd) {
	if msg.Resource != m.Resource() {
		// The user switched resources while the request was in flight; the
		// projection that issued it is gone.
		return m, nil
	}

	res := m.projection.Resolve(msg.Edit, msg.Echo, msg.Err)
	if res.Edit == nil {
		return m, nil
	}

	var cmds []tea.Cmd
	cmds = append(cmds, m.appendHistory(res.Edit, msg.Err))

	if msg.Err != nil {
		text := api.ErrorMessage(msg.Err)
		if text == "" {
			text = i18n.T(m.locale, "toast.request_failed")
		}
		cmds = append(cmds, ui.ShowToast(
			ui.ToastError,
			i18n.Tf(m.locale, "toast.save_failed", text),
		))
	}

	if res.Next != nil {
		cmds = append(cmds, m.dispatchEdit(res.Next))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.filter = strings.TrimSpace(m.searchInput.Value())
		m.rowIdx, m.offset = 0, 0
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter = ""
		m.rowIdx, m.offset = 0, 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitEdit()

	case "esc":
		m.editing = false
		m.editInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		resource := m.Resource()
		return m, func() tea.Msg {
			return RecordSelectedMsg{Resource: resource, Row: row}
		}

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		m.searchInput.SetValue(m.filter)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Reload()
	}

	return m, nil
}

// startEdit opens the inline editor on the focused cell, pre-filled with
// the current value. Read-only fields are rejected up front.
func (m Model) startEdit() (Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}

	field := m.projection.Schema().Fields[m.colIdx]
	if !field.Editable {
		return m, ui.ShowToast(
			ui.ToastError,
			i18n.Tf(m.locale, "toast.read_only", m.fieldLabel(field)),
		)
	}

	m.editing = true
	m.editInput.Reset()
	m.editInput.SetValue(records.FormatValue(row[field.Name]))
	m.editInput.CursorEnd()
	if len(field.Options) > 0 {
		m.editInput.Placeholder = strings.Join(field.Options, " | ")
	} else {
		m.editInput.Placeholder = ""
	}
	return m, m.editInput.Focus()
}

// submitEdit validates the editor value and applies it optimistically.
// Validation failures keep the editor open so the value can be fixed.
func (m Model) submitEdit() (Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		m.editing = false
		return m, nil
	}

	field := m.projection.Schema().Fields[m.colIdx]
	edit, dispatch, err := m.projection.Begin(
		row.ID(), field.Name, m.editInput.Value(),
	)
	if err != nil {
		return m, ui.ShowToast(ui.ToastError, err.Error())
	}

	m.editing = false
	m.editInput.Reset()
	if dispatch {
		return m, m.dispatchEdit(edit)
	}
	return m, nil
}

// dispatchEdit issues the PATCH for an in-flight edit.
func (m Model) dispatchEdit(edit *records.PendingEdit) tea.Cmd {
	client := m.client
	resource := m.Resource()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		echo, err := client.UpdateField(
			ctx, resource, edit.RecordID, edit.Field, edit.Next,
		)
		return EditResultMsg{
			Resource: resource,
			Edit:     edit,
			Echo:     echo,
			Err:      err,
		}
	}
}

// appendHistory journals a settled edit. Failures only log; the journal
// must never interrupt the editing flow.
func (m Model) appendHistory(edit *records.PendingEdit, resErr error) tea.Cmd {
	st := m.store
	entry := model.EditEntry{
		ID:          uuid.NewString(),
		WorkspaceID: m.workspaceID,
		Resource:    m.Resource(),
		RecordID:    edit.RecordID,
		Field:       edit.Field,
		Previous:    records.FormatValue(edit.Previous),
		Next:        records.FormatValue(edit.Next),
		Status:      string(edit.Status),
		CreatedAt:   time.Now(),
	}
	if resErr != nil {
		entry.Message = resErr.Error()
	}

	return func() tea.Msg {
		if err := st.AppendEdit(context.Background(), entry); err != nil {
			log.Printf("edit history write failed: %v", err)
		}
		return nil
	}
}

// visibleRows returns the projected rows passing the active filter.
func (m Model) visibleRows() []model.Row {
	rows := m.projection.Rows()
	if m.filter == "" {
		return rows
	}

	needle := strings.ToLower(m.filter)
	var out []model.Row
	for _, r := range rows {
		for _, f := range m.projection.Schema().Fields {
			v, ok := r[f.Name].(string)
			if ok && strings.Contains(strings.ToLower(v), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (m Model) selectedRow() (model.Row, bool) {
	rows := m.visibleRows()
	if m.rowIdx < 0 || m.rowIdx >= len(rows) {
		return nil, false
	}
	return rows[m.rowIdx], true
}

func (m *Model) moveCursor(dRow, dCol int) {
	rows := m.visibleRows()
	m.rowIdx += dRow
	m.colIdx += dCol
	m.clampTo(len(rows))
}

func (m *Model) clampCursor() {
	m.clampTo(len(m.visibleRows()))
}

func (m *Model) clampTo(rowCount int) {
	if m.rowIdx >= rowCount {
		m.rowIdx = rowCount - 1
	}
	if m.rowIdx < 0 {
		m.rowIdx = 0
	}

	cols := len(m.projection.Schema().Fields)
	if m.colIdx >= cols {
		m.colIdx = cols - 1
	}
	if m.colIdx < 0 {
		m.colIdx = 0
	}

	visible := m.viewportRows()
	if m.rowIdx < m.offset {
		m.offset = m.rowIdx
	}
	if m.rowIdx >= m.offset+visible {
		m.offset = m.rowIdx - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// viewportRows is how many data rows fit under the header and above the
// footer line.
func (m Model) viewportRows() int {
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

// SetSize updates the grid dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
	m.editInput.Width = width - 4
	m.clampCursor()
}

func (m Model) fieldLabel(f records.Field) string {
	return i18n.FieldLabel(m.locale, f.Name, f.Label)
}

func (m Model) fetchErrorText(err error) string {
	if api.IsAuthError(err) {
		return i18n.T(m.locale, "toast.auth_failed")
	}
	if text := api.ErrorMessage(err); text != "" {
		return text
	}
	return i18n.T(m.locale, "toast.request_failed")
}
