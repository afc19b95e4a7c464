package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType is the declared scalar type of a schema field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeTimestamp FieldType = "timestamp"
)

// Hint selects a rendering treatment beyond the scalar type.
type Hint string

const (
	HintPlain Hint = ""
	HintUUID  Hint = "uuid"
	HintDate  Hint = "date"
	HintMoney Hint = "money"
	HintBadge Hint = "badge"
	HintLink  Hint = "link"
)

// Field describes one column of a resource: its type, how to render it,
// and whether inline editing is allowed.
type Field struct {
	// Name is the wire field name.
	Name string

	// Label is the English column header; the UI localizes it by Name.
	Label string

	// Type is the declared scalar type (see Type* constants).
	Type FieldType

	// Hint refines rendering (see Hint* constants).
	Hint Hint

	// Required rejects empty values on edit.
	Required bool

	// Editable allows inline editing of this field.
	Editable bool

	// Reference names the resource a foreign-key field points at.
	Reference string

	// Options restricts the value to a fixed set when non-empty.
	Options []string
}

// Schema describes one resource collection exposed by the platform.
type Schema struct {
	// Resource is the API path segment, e.g. "properties".
	Resource string

	// Title is the English display name; the UI localizes it by Resource.
	Title string

	// Fields lists the columns in display order.
	Fields []Field
}

// Field returns the schema field with the given wire name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// EditableFields returns the fields that allow inline editing, in order.
func (s Schema) EditableFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Editable {
			out = append(out, f)
		}
	}
	return out
}

// ValidationError reports an edit rejected before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseInput converts raw editor input into a wire-ready scalar for the
// field, enforcing the schema's type, required, and option rules.
func ParseInput(f Field, input string) (any, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		if f.Required {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: "value is required",
			}
		}
		return nil, nil
	}

	if len(f.Options) > 0 {
		for _, opt := range f.Options {
			if input == opt {
				return input, nil
			}
		}
		return nil, &ValidationError{
			Field: f.Name,
			Reason: fmt.Sprintf(
				"must be one of %s", strings.Join(f.Options, ", "),
			),
		}
	}

	switch f.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: "not a number",
			}
		}
		return n, nil

	case TypeBoolean:
		b, err := strconv.ParseBool(input)
		if err != nil {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: "must be true or false",
			}
		}
		return b, nil

	case TypeTimestamp:
		if f.Hint == HintDate {
			if _, err := time.Parse("2006-01-02", input); err != nil {
				return nil, &ValidationError{
					Field:  f.Name,
					Reason: "must be a date (YYYY-MM-DD)",
				}
			}
			return input, nil
		}
		if _, err := time.Parse(time.RFC3339, input); err != nil {
			return nil, &ValidationError{
				Field:  f.Name,
				Reason: "must be an RFC 3339 timestamp",
			}
		}
		return input, nil

	default:
		return input, nil
	}
}

// FormatValue renders a row value as plain text. Locale-aware treatments
// (badges, relative times) are applied by the UI on top of this.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
