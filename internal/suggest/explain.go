package suggest

import (
	"fmt"
	"strings"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/evaluator"
	"github.com/JoshCheek/nushell/internal/value"
)

// Explain renders a resolution failure with suggestions. It satisfies
// evaluator.Explainer.
func Explain(f *evaluator.Failure) *diagnostics.Diagnostic {
	primary := f.Member.Span
	secondary := f.Member.Span.Since(f.Path.Span())

	switch f.Kind {
	case evaluator.KindUnknownColumn:
		message := fmt.Sprintf("There isn't a column named '%s'", f.Member.Name)
		return diagnostics.New(diagnostics.CodeUnknownColumn, message, primary).
			WithSecondary(unknownColumnHint(f), secondary)

	case evaluator.KindIndexIntoRecord:
		message := fmt.Sprintf("A row at '%d' can't be indexed.", f.Member.Index)
		return diagnostics.New(diagnostics.CodeNoRowsAvailable, message, primary).
			WithSecondary("Appears to contain columns. "+columnsAvailable(names(f.Source)), secondary)

	case evaluator.KindIndexOutOfRange:
		message := fmt.Sprintf("There isn't a row indexed at %d", f.Member.Index)
		return diagnostics.New(diagnostics.CodeRowNotFound, message, primary).
			WithSecondary(rowCount(f.Source), secondary)

	case evaluator.KindShapeMismatch:
		var message, missing string
		if f.Member.IsIndex() {
			message = fmt.Sprintf("A row at '%d' can't be indexed.", f.Member.Index)
			missing = "rows"
		} else {
			message = fmt.Sprintf("There isn't a column named '%s'", f.Member.Name)
			missing = "columns"
		}
		kind := f.Source.TypeName()
		hint := fmt.Sprintf("Appears to be %s %s value, which has no %s.", article(kind), kind, missing)
		return diagnostics.New(diagnostics.CodeShapeMismatch, message, primary).
			WithSecondary(hint, secondary)

	default:
		return evaluator.PlainExplain(f)
	}
}

func unknownColumnHint(f *evaluator.Failure) string {
	switch source := f.Source.(type) {
	case *value.Table:
		available := names(source)
		if len(available) == 0 {
			return "Appears to contain rows. Try indexing instead."
		}
		for _, row := range source.Rows() {
			if candidates := Suggest(f.Member.Name, names(row)); len(candidates) > 0 {
				return perhaps(candidates[0], available)
			}
		}
		return columnsAvailable(available)
	default:
		available := names(source)
		if candidates := Suggest(f.Member.Name, available); len(candidates) > 0 {
			return perhaps(candidates[0], available)
		}
		return columnsAvailable(available)
	}
}

// names lists the column names of a record, or the first-seen union of the
// names of a table's record rows.
func names(v value.Value) []string {
	switch current := v.(type) {
	case *value.Record:
		return current.Names()
	case *value.Table:
		seen := make(map[string]struct{})
		var out []string
		for _, row := range current.Rows() {
			record, ok := row.(*value.Record)
			if !ok {
				continue
			}
			for _, name := range record.Names() {
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}

func perhaps(top string, available []string) string {
	return fmt.Sprintf("Perhaps you meant '%s'? %s", top, columnsAvailable(available))
}

func columnsAvailable(available []string) string {
	if len(available) == 0 {
		return "No columns available"
	}
	return "Columns available: " + strings.Join(available, ", ")
}

func rowCount(v value.Value) string {
	table, ok := v.(*value.Table)
	if !ok {
		return "The table is empty"
	}
	switch total := table.Len(); total {
	case 0:
		return "The table is empty"
	case 1:
		return "The table only has 1 row"
	default:
		return fmt.Sprintf("The table only has %d rows (0 to %d)", total, total-1)
	}
}

func article(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}
