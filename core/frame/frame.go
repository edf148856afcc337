// Package frame defines the columnar data model consumed by the filtering
// engine: a Frame is an ordered collection of named, typed Fields whose value
// sequences all share the frame's row count.
package frame

import "fmt"

// FieldType tags the kind of values a field holds. The filtering engine uses
// it to decide which matcher kinds apply to a field; it does not constrain the
// dynamic type of individual values.
type FieldType string

const (
	FieldTypeNumber  FieldType = "number"  // Numeric data
	FieldTypeString  FieldType = "string"  // Text data
	FieldTypeTime    FieldType = "time"    // Timestamps
	FieldTypeBoolean FieldType = "boolean" // True/false values
	FieldTypeOther   FieldType = "other"   // Anything else
)

// Field is a single named column of values within a Frame. Config is an
// opaque bag of display and formatting metadata; the only key this package
// interprets is "displayName".
type Field struct {
	Name   string
	Type   FieldType
	Values []any
	Config map[string]any
}

// DisplayName resolves the name a field is addressed by. A non-empty
// "displayName" entry in the config bag takes precedence over the storage name.
func (f *Field) DisplayName() string {
	if f.Config != nil {
		if name, ok := f.Config["displayName"].(string); ok && name != "" {
			return name
		}
	}
	return f.Name
}

// EmptyCopy returns a field with the same name, type and config but a fresh,
// empty value slice. The config bag is shared, not cloned; callers treat it
// as read-only.
func (f *Field) EmptyCopy() *Field {
	return &Field{
		Name:   f.Name,
		Type:   f.Type,
		Values: []any{},
		Config: f.Config,
	}
}

// Append adds a value to the end of the field's value sequence.
func (f *Field) Append(value any) {
	f.Values = append(f.Values, value)
}

// At returns the value at row index i. It panics if i is out of range, like a
// slice access would.
func (f *Field) At(i int) any {
	return f.Values[i]
}

// Frame is a table-like unit of columnar data: an ordered list of fields plus
// an explicit row count. Row i in one field corresponds to row i in every
// other field of the same frame.
type Frame struct {
	Name   string
	Fields []*Field
	Length int
}

// New creates a frame from the given fields. The frame's length is taken from
// the first field; an error is returned if any field's value count disagrees.
func New(name string, fields ...*Field) (*Frame, error) {
	length := 0
	if len(fields) > 0 {
		length = len(fields[0].Values)
	}
	for _, f := range fields {
		if len(f.Values) != length {
			return nil, fmt.Errorf("field %q has %d values, expected %d", f.Name, len(f.Values), length)
		}
	}
	return &Frame{Name: name, Fields: fields, Length: length}, nil
}

// FieldByDisplayName returns the first field whose resolved display name
// equals name, or nil if the frame has no such field.
func (fr *Frame) FieldByDisplayName(name string) *Field {
	for _, f := range fr.Fields {
		if f.DisplayName() == name {
			return f
		}
	}
	return nil
}

// EmptyCopy returns a frame mirroring the receiver's fields (names, types,
// config) with fresh empty value slices and a length of zero.
func (fr *Frame) EmptyCopy() *Frame {
	fields := make([]*Field, 0, len(fr.Fields))
	for _, f := range fr.Fields {
		fields = append(fields, f.EmptyCopy())
	}
	return &Frame{Name: fr.Name, Fields: fields}
}

// AppendRow copies row index i of src into the receiver, field by field, and
// bumps the receiver's length. Both frames must have the same field layout.
func (fr *Frame) AppendRow(src *Frame, i int) {
	for j, f := range src.Fields {
		fr.Fields[j].Append(f.At(i))
	}
	fr.Length++
}
