package model

// Row is a single record returned by the platform API: column name mapped to
// a JSON scalar (string, float64, bool, or nil). Rows are schemaless on the
// wire; types, labels, and edit rules come from the resource schema.
type Row map[string]any

// ID returns the row's primary key, or "" when absent.
func (r Row) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy safe to mutate field by field.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EqualValues reports whether two row values are the same JSON scalar.
// Non-scalar values never compare equal.
func EqualValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}
