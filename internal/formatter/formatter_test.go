package formatter

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/JoshCheek/nushell/internal/decode"
	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

var tag = source.UnknownTag()

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Format
		err   error
	}{
		{input: "", want: Text},
		{input: "text", want: Text},
		{input: "JSON", want: JSON},
		{input: "yml", want: YAML},
		{input: "yaml", want: YAML},
		{input: "table", err: ErrUnknownFormat},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if !errors.Is(err, tt.err) {
			t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.input, err, tt.err)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAppendJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input value.Value
		want  string
	}{
		{name: "nothing", input: value.Nothing(tag), want: `null`},
		{name: "int", input: value.Int(-3, tag), want: `-3`},
		{name: "decimal keeps digits", input: value.Decimal(decimal.RequireFromString("1.50"), tag), want: `1.5`},
		{name: "string escapes", input: value.String("a\"b", tag), want: `"a\"b"`},
		{name: "binary", input: value.Binary([]byte("hi"), tag), want: `"aGk="`},
		{
			name: "record keeps field order",
			input: value.RecordOf(tag,
				value.Field{Name: "z", Value: value.Int(1, tag)},
				value.Field{Name: "a", Value: value.Bool(true, tag)},
			),
			want: `{"z":1,"a":true}`,
		},
		{
			name:  "table",
			input: value.NewTable([]value.Value{value.String("x", tag), value.Nothing(tag)}, tag),
			want:  `["x",null]`,
		},
		{
			name:  "error",
			input: value.NewError(diagnostics.New(diagnostics.CodeUnknownColumn, "Cannot find column", source.Unknown()), tag),
			want:  `{"error":{"code":"unknown_column","stage":"resolve","severity":"error","label":"Unknown column","message":"Cannot find column"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := AppendJSON(nil, tt.input)
			require.NoError(t, err)
			if string(got) != tt.want {
				t.Fatalf("AppendJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMarshalYAMLRoundTrips(t *testing.T) {
	t.Parallel()

	record := value.RecordOf(tag,
		value.Field{Name: "name", Value: value.String("ls", tag)},
		value.Field{Name: "size", Value: value.Int(10, tag)},
		value.Field{Name: "ratio", Value: value.Decimal(decimal.RequireFromString("0.25"), tag)},
		value.Field{Name: "quoted", Value: value.String("10", tag)},
		value.Field{Name: "blob", Value: value.Binary([]byte{0, 1, 2}, tag)},
		value.Field{Name: "items", Value: value.NewTable([]value.Value{value.Int(1, tag), value.Int(2, tag)}, tag)},
		value.Field{Name: "none", Value: value.Nothing(tag)},
	)

	doc, err := MarshalYAML(record)
	require.NoError(t, err)

	file := source.NewFile("out.yaml", string(doc))
	var got []value.Value
	for item, err := range decode.DecodeYAML(context.Background(), file, doc) {
		require.NoError(t, err)
		got = append(got, item)
	}

	require.Len(t, got, 1)
	if !value.Equal(got[0], record) {
		t.Fatalf("MarshalYAML() did not round trip:\n%s", doc)
	}
}

func TestRenderDiagnostic(t *testing.T) {
	t.Parallel()

	files := source.NewFiles()
	file := files.Add("arg 1", "size.nam")

	tests := []struct {
		name       string
		diagnostic *diagnostics.Diagnostic
		want       string
	}{
		{
			name: "primary and secondary on one line",
			diagnostic: diagnostics.New(diagnostics.CodeUnknownColumn, "did you mean 'name'?", file.Span(5, 8)).
				WithSecondary("value originates here", file.Span(0, 8)),
			want: "Error: Unknown column\n" +
				"  --> arg 1:1:6\n" +
				"  |\n" +
				"1 | size.nam\n" +
				"  |      ^^^ did you mean 'name'?\n" +
				"  | -------- value originates here\n",
		},
		{
			name:       "empty span still gets a marker",
			diagnostic: diagnostics.New(diagnostics.CodeRowNotFound, "row 3 missing", file.Span(8, 8)),
			want: "Error: Row not found\n" +
				"  --> arg 1:1:9\n" +
				"  |\n" +
				"1 | size.nam\n" +
				"  |         ^ row 3 missing\n",
		},
		{
			name: "unknown span falls back to one line",
			diagnostic: diagnostics.New(diagnostics.CodeDecodeFailed, "unexpected EOF", source.Unknown()).
				WithSecondary("input was stdin", source.Unknown()),
			want: "Error: Input could not be decoded\n" +
				"  unexpected EOF\n" +
				"  = input was stdin\n",
		},
		{
			name: "secondary span in another file becomes a note",
			diagnostic: diagnostics.New(diagnostics.CodeUnknownColumn, "not found", file.Span(0, 4)).
				WithSecondary("elsewhere", source.NewFile("other", "x").Whole()),
			want: "Error: Unknown column\n" +
				"  --> arg 1:1:1\n" +
				"  |\n" +
				"1 | size.nam\n" +
				"  | ^^^^ not found\n" +
				"  = elsewhere\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderDiagnostic(tt.diagnostic, files); got != tt.want {
				t.Fatalf("RenderDiagnostic() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
