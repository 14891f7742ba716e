package constraints

import (
	"testing"

	"github.com/JoshCheek/nushell/internal/columnpath"
	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/evaluator"
	"github.com/JoshCheek/nushell/internal/report"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/suggest"
	"github.com/JoshCheek/nushell/internal/value"
)

func failures() []*evaluator.Failure {
	tag := source.UnknownTag()
	record := value.RecordOf(tag, value.Field{Name: "name", Value: value.String("a", tag)})
	table := value.NewTable([]value.Value{record}, tag)

	field := columnpath.Field("nmae", source.Unknown())
	index := columnpath.Index(5, source.Unknown())

	return []*evaluator.Failure{
		{Kind: evaluator.KindUnknownColumn, Member: field, Path: columnpath.MustNew(field), Source: record},
		{Kind: evaluator.KindIndexIntoRecord, Member: index, Path: columnpath.MustNew(index), Source: record},
		{Kind: evaluator.KindIndexOutOfRange, Member: index, Path: columnpath.MustNew(index), Source: table},
		{Kind: evaluator.KindShapeMismatch, Member: field, Path: columnpath.MustNew(field), Source: value.Int(1, tag)},
	}
}

func TestExplainersAgreeOnCodes(t *testing.T) {
	t.Parallel()

	for _, failure := range failures() {
		t.Run(failure.Kind.String(), func(t *testing.T) {
			t.Parallel()

			want := failure.Kind.Code()
			for name, explain := range map[string]evaluator.Explainer{
				"plain":   evaluator.PlainExplain,
				"suggest": suggest.Explain,
			} {
				d := explain(failure)
				if d.Code != want {
					t.Fatalf("%s explainer code = %q, want %q", name, d.Code, want)
				}
				if d.Label != diagnostics.DefinitionFor(want).Label {
					t.Fatalf("%s explainer label = %q, want canonical %q", name, d.Label, diagnostics.DefinitionFor(want).Label)
				}
			}
		})
	}
}

func TestEveryResolutionCodeHasAHint(t *testing.T) {
	t.Parallel()

	for _, failure := range failures() {
		code := failure.Kind.Code()
		summary := report.Summary{ByCode: map[diagnostics.Code]int{code: 1}}
		if hints := summary.Hints(); len(hints) != 1 {
			t.Fatalf("Hints() for %q = %v, want one hint", code, hints)
		}
	}
}
