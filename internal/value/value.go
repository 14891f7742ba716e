// Package value is the data model navigated by column paths: scalars,
// ordered records, tables and errors carried as data.
//
// Value is a closed sum type. The only implementations are *Scalar, *Record,
// *Table and *Error; every type switch over a Value handles all four and
// panics on anything else, so adding a variant breaks loudly at each site.
//
// Values are immutable once constructed. Constructors copy the slices and
// dictionaries they are given and accessors never expose internal storage.
package value

import (
	"fmt"
	"iter"
	"slices"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/source"
)

// Value is one of *Scalar, *Record, *Table or *Error.
type Value interface {
	// Tag is provenance for diagnostics only.
	Tag() source.Tag
	// TypeName names the variant ("record", "table", "error", or the
	// primitive kind for scalars).
	TypeName() string

	value()
}

// Scalar wraps a Primitive.
type Scalar struct {
	primitive Primitive
	tag       source.Tag
}

// NewScalar wraps a primitive.
func NewScalar(primitive Primitive, tag source.Tag) *Scalar {
	if primitive.Bytes != nil {
		primitive.Bytes = slices.Clone(primitive.Bytes)
	}
	return &Scalar{primitive: primitive, tag: tag}
}

func (s *Scalar) Tag() source.Tag  { return s.tag }
func (s *Scalar) TypeName() string { return s.primitive.Kind.String() }
func (*Scalar) value()             {}

// Primitive returns a copy of the wrapped primitive.
func (s *Scalar) Primitive() Primitive {
	primitive := s.primitive
	if primitive.Bytes != nil {
		primitive.Bytes = slices.Clone(primitive.Bytes)
	}
	return primitive
}

// IsNothing reports whether the scalar is the absent value.
func (s *Scalar) IsNothing() bool {
	return s.primitive.Kind == KindNothing
}

// Record is an ordered set of uniquely named fields.
type Record struct {
	fields *Dictionary
	tag    source.Tag
}

// NewRecord snapshots the dictionary into a record.
func NewRecord(fields *Dictionary, tag source.Tag) *Record {
	if fields == nil {
		fields = NewDictionary()
	}
	return &Record{fields: fields.Clone(), tag: tag}
}

// RecordOf builds a record from fields in order. A repeated name replaces the
// earlier value in its original position.
func RecordOf(tag source.Tag, fields ...Field) *Record {
	dict := NewDictionaryWithCapacity(len(fields))
	for _, field := range fields {
		dict.Insert(field.Name, field.Value)
	}
	return &Record{fields: dict, tag: tag}
}

func (r *Record) Tag() source.Tag { return r.tag }
func (*Record) TypeName() string  { return "record" }
func (*Record) value()            {}

// Get looks a field up by exact name.
func (r *Record) Get(name string) (Value, bool) {
	return r.fields.Get(name)
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string {
	return r.fields.Names()
}

// Len is the number of fields.
func (r *Record) Len() int {
	return r.fields.Len()
}

// Fields iterates name/value pairs in insertion order.
func (r *Record) Fields() iter.Seq2[string, Value] {
	return r.fields.All()
}

// Table is an ordered sequence of values, usually records.
type Table struct {
	rows []Value
	tag  source.Tag
}

// NewTable copies rows into a table.
func NewTable(rows []Value, tag source.Tag) *Table {
	return &Table{rows: slices.Clone(rows), tag: tag}
}

func (t *Table) Tag() source.Tag { return t.tag }
func (*Table) TypeName() string  { return "table" }
func (*Table) value()            {}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row; ok is false past the end.
func (t *Table) Row(i int) (Value, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// Rows iterates rows in order.
func (t *Table) Rows() iter.Seq2[int, Value] {
	return slices.All(t.rows)
}

// Values returns a copy of the rows.
func (t *Table) Values() []Value {
	return slices.Clone(t.rows)
}

// Error is a failure flowing through a stream as data.
type Error struct {
	diagnostic *diagnostics.Diagnostic
	tag        source.Tag
}

// NewError wraps a diagnostic.
func NewError(diagnostic *diagnostics.Diagnostic, tag source.Tag) *Error {
	return &Error{diagnostic: diagnostic, tag: tag}
}

func (e *Error) Tag() source.Tag { return e.tag }
func (*Error) TypeName() string  { return "error" }
func (*Error) value()            {}

// Diagnostic returns the carried diagnostic.
func (e *Error) Diagnostic() *diagnostics.Diagnostic {
	return e.diagnostic
}

// Field is one name/value pair used to build records.
type Field struct {
	Name  string
	Value Value
}

// Nothing is the absent value.
func Nothing(tag source.Tag) *Scalar {
	return NewScalar(Primitive{Kind: KindNothing}, tag)
}

// Bool wraps a boolean.
func Bool(b bool, tag source.Tag) *Scalar {
	return NewScalar(Primitive{Kind: KindBoolean, B: b}, tag)
}

// Int wraps an integer.
func Int(i int64, tag source.Tag) *Scalar {
	return NewScalar(Primitive{Kind: KindInt, I64: i}, tag)
}

// String wraps a string.
func String(s string, tag source.Tag) *Scalar {
	return NewScalar(Primitive{Kind: KindString, S: s}, tag)
}

// Binary wraps a byte slice; the slice is copied.
func Binary(b []byte, tag source.Tag) *Scalar {
	if b == nil {
		b = []byte{}
	}
	return NewScalar(Primitive{Kind: KindBinary, Bytes: b}, tag)
}

// Equal compares structure and data, ignoring tags.
func Equal(a Value, b Value) bool {
	switch left := a.(type) {
	case *Scalar:
		right, ok := b.(*Scalar)
		return ok && left.primitive.Equal(right.primitive)
	case *Record:
		right, ok := b.(*Record)
		if !ok || left.Len() != right.Len() {
			return false
		}
		for name, leftValue := range left.Fields() {
			rightValue, ok := right.Get(name)
			if !ok || !Equal(leftValue, rightValue) {
				return false
			}
		}
		return slices.Equal(left.Names(), right.Names())
	case *Table:
		right, ok := b.(*Table)
		if !ok || left.Len() != right.Len() {
			return false
		}
		for i, row := range left.rows {
			if !Equal(row, right.rows[i]) {
				return false
			}
		}
		return true
	case *Error:
		right, ok := b.(*Error)
		if !ok {
			return false
		}
		if left.diagnostic == nil || right.diagnostic == nil {
			return left.diagnostic == right.diagnostic
		}
		return left.diagnostic.Code == right.diagnostic.Code &&
			left.diagnostic.Message == right.diagnostic.Message
	default:
		panic(fmt.Sprintf("value: unexpected variant %T", a))
	}
}
