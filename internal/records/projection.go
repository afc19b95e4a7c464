package records

import (
	"github.com/gimenezdev/rentalops/internal/model"
)

// EditStatus is the lifecycle state of a PendingEdit.
type EditStatus string

const (
	EditPending   EditStatus = "pending"
	EditCommitted EditStatus = "committed"
	EditFailed    EditStatus = "failed"
)

// PendingEdit is one optimistic field mutation, either in flight against
// the platform or queued behind an earlier edit of the same cell.
type PendingEdit struct {
	// ID distinguishes edits, including successive edits of one cell.
	ID int

	// RecordID and Field identify the cell.
	RecordID string
	Field    string

	// Previous is the value shown before this edit was applied.
	Previous any

	// Next is the optimistic value this edit applied.
	Next any

	// Status is the lifecycle state (see Edit* constants).
	Status EditStatus
}

// Resolution describes the outcome of resolving an edit.
type Resolution struct {
	// Edit is the resolved edit; nil when the edit was already dropped by
	// a full refresh, in which case nothing changed.
	Edit *PendingEdit

	// RolledBack reports that the cell was restored to its last
	// server-confirmed value.
	RolledBack bool

	// Next is the queued successor that became in-flight and must now be
	// dispatched; nil when the cell's queue is empty.
	Next *PendingEdit
}

// Options tune the projection's failure handling.
type Options struct {
	// KeepFailedValue leaves a rejected optimistic value visible until the
	// next full refresh instead of restoring the last confirmed value.
	KeepFailedValue bool
}

type cellKey struct {
	recordID string
	field    string
}

// Projection is an editable in-memory view of one remote resource
// collection. Edits apply optimistically and are serialized per cell: at
// most one mutation per (record, field) is in flight, later edits queue.
// All methods must be called from the update loop goroutine.
type Projection struct {
	schema Schema
	opts   Options

	rows  []model.Row
	index map[string]int

	nextEditID int
	inflight   map[cellKey]*PendingEdit
	queued     map[cellKey][]*PendingEdit

	// confirmed holds the last server-confirmed value per touched cell,
	// the restore target when an edit fails.
	confirmed map[cellKey]any
}

// NewProjection creates an empty projection for one resource schema.
func NewProjection(schema Schema, opts Options) *Projection {
	return &Projection{
		schema:    schema,
		opts:      opts,
		index:     map[string]int{},
		inflight:  map[cellKey]*PendingEdit{},
		queued:    map[cellKey][]*PendingEdit{},
		confirmed: map[cellKey]any{},
	}
}

// Schema returns the resource schema this projection renders.
func (p *Projection) Schema() Schema { return p.schema }

// Replace installs a full server snapshot: rows and their order are taken
// as-is, every pending and queued edit is dropped, and confirmed baselines
// reset. Responses for dropped edits resolve as no-ops.
func (p *Projection) Replace(rows []model.Row) {
	p.rows = make([]model.Row, 0, len(rows))
	p.index = make(map[string]int, len(rows))
	for _, r := range rows {
		id := r.ID()
		if id == "" {
			continue
		}
		if _, dup := p.index[id]; dup {
			continue
		}
		p.index[id] = len(p.rows)
		p.rows = append(p.rows, r.Clone())
	}
	p.inflight = map[cellKey]*PendingEdit{}
	p.queued = map[cellKey][]*PendingEdit{}
	p.confirmed = map[cellKey]any{}
}

// Rows returns the projected rows in server order. The slice and its rows
// are owned by the projection; callers must not mutate them.
func (p *Projection) Rows() []model.Row {
	return p.rows
}

// Row returns the row with the given id.
func (p *Projection) Row(id string) (model.Row, bool) {
	idx, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.rows[idx], true
}

// Len returns the number of projected rows.
func (p *Projection) Len() int { return len(p.rows) }

// Begin validates raw editor input against the schema and, on success,
// applies it optimistically. The returned dispatch flag is true when the
// caller must issue the PATCH now; false means an earlier edit of the same
// cell is still in flight and this one queued behind it.
//
// Validation failures return a *ValidationError and change nothing.
func (p *Projection) Begin(
	recordID, field, input string,
) (edit *PendingEdit, dispatch bool, err error) {
	idx, ok := p.index[recordID]
	if !ok {
		return nil, false, &ValidationError{
			Field:  field,
			Reason: "record no longer in the list",
		}
	}

	f, ok := p.schema.Field(field)
	if !ok {
		return nil, false, &ValidationError{
			Field:  field,
			Reason: "unknown field",
		}
	}
	if !f.Editable {
		return nil, false, &ValidationError{
			Field:  field,
			Reason: "field is read-only",
		}
	}

	next, err := ParseInput(f, input)
	if err != nil {
		return nil, false, err
	}

	key := cellKey{recordID, field}
	row := p.rows[idx]
	prev := row[field]

	// First touch of this cell records the server baseline.
	if _, seen := p.confirmed[key]; !seen {
		p.confirmed[key] = prev
	}

	p.nextEditID++
	edit = &PendingEdit{
		ID:       p.nextEditID,
		RecordID: recordID,
		Field:    field,
		Previous: prev,
		Next:     next,
		Status:   EditPending,
	}

	row[field] = next

	if p.inflight[key] == nil {
		p.inflight[key] = edit
		return edit, true, nil
	}
	p.queued[key] = append(p.queued[key], edit)
	return edit, false, nil
}

// Resolve settles an in-flight edit with the PATCH outcome. On success the
// server's echoed row value becomes the confirmed baseline; on failure the
// cell is restored to that baseline unless KeepFailedValue is set or a
// newer local edit already overwrote it. Edits dropped by Replace resolve
// as no-ops.
func (p *Projection) Resolve(
	edit *PendingEdit,
	echo model.Row,
	resErr error,
) Resolution {
	key := cellKey{edit.RecordID, edit.Field}

	cur := p.inflight[key]
	if cur == nil || cur.ID != edit.ID {
		return Resolution{}
	}
	delete(p.inflight, key)

	res := Resolution{Edit: edit}
	idx, haveRow := p.index[edit.RecordID]

	if resErr == nil {
		edit.Status = EditCommitted

		confirmedValue := edit.Next
		if echo != nil {
			if v, ok := echo[edit.Field]; ok {
				confirmedValue = v
			}
		}
		// Adopt the echo only if no newer local edit overwrote the cell.
		if haveRow && model.EqualValues(p.rows[idx][edit.Field], edit.Next) {
			p.rows[idx][edit.Field] = confirmedValue
		}
		p.confirmed[key] = confirmedValue
	} else {
		edit.Status = EditFailed

		if !p.opts.KeepFailedValue && haveRow &&
			model.EqualValues(p.rows[idx][edit.Field], edit.Next) {
			p.rows[idx][edit.Field] = p.confirmed[key]
			res.RolledBack = true
		}
	}

	if q := p.queued[key]; len(q) > 0 {
		next := q[0]
		if len(q) == 1 {
			delete(p.queued, key)
		} else {
			p.queued[key] = q[1:]
		}
		p.inflight[key] = next
		res.Next = next
	}

	return res
}

// PendingAt returns the cell's in-flight edit, or nil when none is.
func (p *Projection) PendingAt(recordID, field string) *PendingEdit {
	return p.inflight[cellKey{recordID, field}]
}

// Busy reports whether an edit is in flight for the cell. The UI renders
// busy cells with a pending marker; new edits of a busy cell queue.
func (p *Projection) Busy(recordID, field string) bool {
	return p.PendingAt(recordID, field) != nil
}

// PendingCount returns how many edits are in flight or queued.
func (p *Projection) PendingCount() int {
	n := len(p.inflight)
	for _, q := range p.queued {
		n += len(q)
	}
	return n
}
