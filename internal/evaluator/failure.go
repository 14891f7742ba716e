package evaluator

import (
	"fmt"
	"strconv"

	"github.com/JoshCheek/nushell/internal/columnpath"
	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/value"
)

// Kind classifies why a path could not be followed.
type Kind uint8

const (
	// KindUnknownColumn: a record, or every row of a table, lacks the field.
	KindUnknownColumn Kind = iota
	// KindIndexIntoRecord: a row index was applied to a record.
	KindIndexIntoRecord
	// KindIndexOutOfRange: a row index is past the end of a table.
	KindIndexOutOfRange
	// KindShapeMismatch: members remain but the current value is a scalar.
	KindShapeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindUnknownColumn:
		return "unknown column"
	case KindIndexIntoRecord:
		return "index into record"
	case KindIndexOutOfRange:
		return "index out of range"
	case KindShapeMismatch:
		return "shape mismatch"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Code maps the kind onto its diagnostic code.
func (k Kind) Code() diagnostics.Code {
	switch k {
	case KindUnknownColumn:
		return diagnostics.CodeUnknownColumn
	case KindIndexIntoRecord:
		return diagnostics.CodeNoRowsAvailable
	case KindIndexOutOfRange:
		return diagnostics.CodeRowNotFound
	default:
		return diagnostics.CodeShapeMismatch
	}
}

// Failure describes where and why resolution stopped. Source is the value
// the failing member was applied to and Depth is that member's position in
// Path.
type Failure struct {
	Kind   Kind
	Member columnpath.Member
	Path   columnpath.Path
	Source value.Value
	Depth  int
}

func (f *Failure) Error() string {
	switch f.Kind {
	case KindUnknownColumn:
		return fmt.Sprintf("unknown column %q in %s", f.Member.Name, f.Source.TypeName())
	case KindIndexIntoRecord:
		return fmt.Sprintf("row %d requested from a record", f.Member.Index)
	case KindIndexOutOfRange:
		length := 0
		if table, ok := f.Source.(*value.Table); ok {
			length = table.Len()
		}
		return fmt.Sprintf("row %d out of range for table of %d rows", f.Member.Index, length)
	default:
		return fmt.Sprintf("cannot access %s on a %s value", f.Member.String(), f.Source.TypeName())
	}
}

// Explainer renders a failure as a user-facing diagnostic.
type Explainer func(*Failure) *diagnostics.Diagnostic

// PlainExplain is the explainer used when none is configured: the failure's
// own text on the member span, with no suggestions.
func PlainExplain(f *Failure) *diagnostics.Diagnostic {
	return diagnostics.New(f.Kind.Code(), f.Error(), f.Member.Span)
}
