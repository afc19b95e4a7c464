package records

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimenezdev/rentalops/internal/model"
)

func newTestProjection(t *testing.T, opts Options) *Projection {
	t.Helper()
	schema, ok := SchemaFor("properties")
	require.True(t, ok)

	p := NewProjection(schema, opts)
	p.Replace([]model.Row{
		{"id": "p1", "name": "Casa Sur", "status": "active", "city": "Asunción"},
		{"id": "p2", "name": "Loft Centro", "status": "active", "city": "Asunción"},
	})
	return p
}

func mustRow(t *testing.T, p *Projection, id string) model.Row {
	t.Helper()
	row, ok := p.Row(id)
	require.True(t, ok)
	return row
}

func TestBeginAppliesOptimisticallyAndDispatches(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	edit, dispatch, err := p.Begin("p1", "name", "Casa Norte")
	require.NoError(t, err)

	assert.True(dispatch)
	assert.Equal(EditPending, edit.Status)
	assert.Equal("Casa Sur", edit.Previous)
	assert.Equal("Casa Norte", edit.Next)
	assert.Equal("Casa Norte", mustRow(t, p, "p1")["name"])
	assert.True(p.Busy("p1", "name"))
}

func TestCommitAdoptsServerEcho(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	edit, _, err := p.Begin("p1", "name", "casa norte")
	require.NoError(t, err)

	// Server normalizes the value; the echo wins over the optimistic one.
	res := p.Resolve(edit, model.Row{"id": "p1", "name": "Casa Norte"}, nil)

	assert.Equal(edit, res.Edit)
	assert.Equal(EditCommitted, edit.Status)
	assert.False(res.RolledBack)
	assert.Nil(res.Next)
	assert.Equal("Casa Norte", mustRow(t, p, "p1")["name"])
	assert.False(p.Busy("p1", "name"))
}

func TestCommitWithoutEchoKeepsOptimisticValue(t *testing.T) {
	p := newTestProjection(t, Options{})

	edit, _, err := p.Begin("p1", "city", "Encarnación")
	require.NoError(t, err)

	p.Resolve(edit, nil, nil)
	assert.Equal(t, "Encarnación", mustRow(t, p, "p1")["city"])
}

func TestEditsOnDifferentCellsAreIndependent(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	nameEdit, dispatch1, err := p.Begin("p1", "name", "Casa Norte")
	require.NoError(t, err)
	statusEdit, dispatch2, err := p.Begin("p2", "status", "inactive")
	require.NoError(t, err)

	assert.True(dispatch1)
	assert.True(dispatch2)

	// One fails, the other commits; neither outcome leaks across cells.
	p.Resolve(statusEdit, nil, errors.New("conflict"))
	p.Resolve(nameEdit, model.Row{"id": "p1", "name": "Casa Norte"}, nil)

	assert.Equal("Casa Norte", mustRow(t, p, "p1")["name"])
	assert.Equal("active", mustRow(t, p, "p2")["status"])
	assert.Equal(EditCommitted, nameEdit.Status)
	assert.Equal(EditFailed, statusEdit.Status)
}

func TestSameCellEditsQueueInOrder(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	e1, d1, err := p.Begin("p1", "name", "First")
	require.NoError(t, err)
	e2, d2, err := p.Begin("p1", "name", "Second")
	require.NoError(t, err)
	e3, d3, err := p.Begin("p1", "name", "Third")
	require.NoError(t, err)

	assert.True(d1)
	assert.False(d2)
	assert.False(d3)

	// The newest optimistic value is visible while the first is in flight.
	assert.Equal("Third", mustRow(t, p, "p1")["name"])
	assert.Equal(3, p.PendingCount())
	assert.Equal(e1, p.PendingAt("p1", "name"))

	res := p.Resolve(e1, nil, nil)
	assert.Equal(e2, res.Next)
	assert.Equal(e2, p.PendingAt("p1", "name"))

	res = p.Resolve(e2, nil, nil)
	assert.Equal(e3, res.Next)

	res = p.Resolve(e3, nil, nil)
	assert.Nil(res.Next)

	assert.Equal("Third", mustRow(t, p, "p1")["name"])
	assert.Equal(0, p.PendingCount())
}

func TestFailureRestoresConfirmedValueByDefault(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	edit, _, err := p.Begin("p1", "name", "Casa Norte")
	require.NoError(t, err)

	res := p.Resolve(edit, nil, errors.New("name already taken"))

	assert.Equal(EditFailed, edit.Status)
	assert.True(res.RolledBack)
	assert.Equal("Casa Sur", mustRow(t, p, "p1")["name"])
}

func TestFailureKeepsValueInCompatibilityMode(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{KeepFailedValue: true})

	edit, _, err := p.Begin("p1", "name", "Casa Norte")
	require.NoError(t, err)

	res := p.Resolve(edit, nil, errors.New("name already taken"))

	// The rejected value stays visible until the next full refresh.
	assert.False(res.RolledBack)
	assert.Equal("Casa Norte", mustRow(t, p, "p1")["name"])

	p.Replace([]model.Row{
		{"id": "p1", "name": "Casa Sur", "status": "active"},
	})
	assert.Equal("Casa Sur", mustRow(t, p, "p1")["name"])
}

func TestFailureNeverClobbersNewerEdit(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	e1, _, err := p.Begin("p1", "name", "First")
	require.NoError(t, err)
	e2, _, err := p.Begin("p1", "name", "Second")
	require.NoError(t, err)

	// e1 fails while e2's optimistic value is on screen: no rollback.
	res := p.Resolve(e1, nil, errors.New("rejected"))
	assert.False(res.RolledBack)
	assert.Equal(e2, res.Next)
	assert.Equal("Second", mustRow(t, p, "p1")["name"])

	res = p.Resolve(e2, nil, nil)
	assert.Nil(res.Next)
	assert.Equal("Second", mustRow(t, p, "p1")["name"])
}

func TestQueuedChainFailureRestoresServerValue(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	e1, _, err := p.Begin("p1", "name", "First")
	require.NoError(t, err)
	e2, _, err := p.Begin("p1", "name", "Second")
	require.NoError(t, err)

	res := p.Resolve(e1, nil, errors.New("rejected"))
	require.Equal(t, e2, res.Next)

	// The second failure restores the original server value, not "First".
	res = p.Resolve(e2, nil, errors.New("rejected again"))
	assert.True(res.RolledBack)
	assert.Equal("Casa Sur", mustRow(t, p, "p1")["name"])
}

func TestReplaceDropsPendingEdits(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	edit, _, err := p.Begin("p1", "name", "Casa Norte")
	require.NoError(t, err)

	p.Replace([]model.Row{
		{"id": "p1", "name": "Casa Actualizada", "status": "active"},
	})

	// The late response resolves as a no-op.
	res := p.Resolve(edit, model.Row{"id": "p1", "name": "Casa Norte"}, nil)
	assert.Nil(res.Edit)
	assert.Nil(res.Next)
	assert.Equal("Casa Actualizada", mustRow(t, p, "p1")["name"])
	assert.False(p.Busy("p1", "name"))
	assert.Equal(0, p.PendingCount())
}

func TestFailedEditThenNewEditDispatchesImmediately(t *testing.T) {
	assert := assert.New(t)
	p := newTestProjection(t, Options{})

	e1, _, err := p.Begin("p1", "name", "Rejected")
	require.NoError(t, err)
	p.Resolve(e1, nil, errors.New("no"))

	e2, dispatch, err := p.Begin("p1", "name", "Accepted")
	require.NoError(t, err)
	assert.True(dispatch)

	p.Resolve(e2, nil, nil)
	assert.Equal("Accepted", mustRow(t, p, "p1")["name"])
}

func TestBeginValidationRejectsBeforeDispatch(t *testing.T) {
	cases := []struct {
		name  string
		id    string
		field string
		input string
	}{
		{"unknown record", "missing", "name", "x"},
		{"unknown field", "p1", "nope", "x"},
		{"read-only field", "p1", "created_at", "2026-01-01T00:00:00Z"},
		{"required empty", "p1", "name", "   "},
		{"invalid option", "p1", "status", "archived"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestProjection(t, Options{})

			edit, dispatch, err := p.Begin(tc.id, tc.field, tc.input)
			require.Error(t, err)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Nil(t, edit)
			assert.False(t, dispatch)
			assert.Equal(t, 0, p.PendingCount())
			assert.Equal(t, "Casa Sur", mustRow(t, p, "p1")["name"])
		})
	}
}

func TestNumberEditParsesToFloat(t *testing.T) {
	assert := assert.New(t)
	schema, ok := SchemaFor("units")
	require.True(t, ok)

	p := NewProjection(schema, Options{})
	p.Replace([]model.Row{
		{"id": "u1", "property_id": "p1", "name": "4B",
			"status": "available", "capacity": float64(2)},
	})

	edit, _, err := p.Begin("u1", "capacity", "4")
	require.NoError(t, err)
	assert.Equal(float64(4), edit.Next)

	p.Resolve(edit, model.Row{"id": "u1", "capacity": float64(4)}, nil)
	assert.Equal(float64(4), mustRow(t, p, "u1")["capacity"])

	_, _, err = p.Begin("u1", "capacity", "lots")
	var verr *ValidationError
	assert.True(errors.As(err, &verr))
}
