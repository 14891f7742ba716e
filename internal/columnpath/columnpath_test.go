package columnpath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JoshCheek/nushell/internal/source"
)

type memberWant struct {
	kind  MemberKind
	name  string
	index int
	start int
	end   int
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		members []memberWant
		span    [2]int
	}{
		{
			name:    "single field",
			input:   "name",
			members: []memberWant{{kind: KindField, name: "name", start: 0, end: 4}},
			span:    [2]int{0, 4},
		},
		{
			name:  "field then index",
			input: "size.0",
			members: []memberWant{
				{kind: KindField, name: "size", start: 0, end: 4},
				{kind: KindIndex, index: 0, start: 5, end: 6},
			},
			span: [2]int{0, 6},
		},
		{
			name:  "quoted digits stay a field",
			input: `"0".x`,
			members: []memberWant{
				{kind: KindField, name: "0", start: 0, end: 3},
				{kind: KindField, name: "x", start: 4, end: 5},
			},
			span: [2]int{0, 5},
		},
		{
			name:  "quoted key with spaces",
			input: `'first name'.len`,
			members: []memberWant{
				{kind: KindField, name: "first name", start: 0, end: 12},
				{kind: KindField, name: "len", start: 13, end: 16},
			},
			span: [2]int{0, 16},
		},
		{
			name:    "surrounding whitespace",
			input:   "  cpu  ",
			members: []memberWant{{kind: KindField, name: "cpu", start: 2, end: 5}},
			span:    [2]int{2, 5},
		},
		{
			name:    "escaped quote",
			input:   `"a\"b"`,
			members: []memberWant{{kind: KindField, name: `a"b`, start: 0, end: 6}},
			span:    [2]int{0, 6},
		},
		{
			name:    "negative number is a field",
			input:   "-1",
			members: []memberWant{{kind: KindField, name: "-1", start: 0, end: 2}},
			span:    [2]int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := source.NewFile("path", tt.input)
			path, err := Parse(file)
			require.NoError(t, err)

			if path.Len() != len(tt.members) {
				t.Fatalf("Parse(%q) has %d members, want %d", tt.input, path.Len(), len(tt.members))
			}
			for i, want := range tt.members {
				got := path.At(i)
				require.Equal(t, want.kind, got.Kind, "member %d kind", i)
				require.Equal(t, want.name, got.Name, "member %d name", i)
				require.Equal(t, want.index, got.Index, "member %d index", i)
				require.Equal(t, file.Span(want.start, want.end), got.Span, "member %d span", i)
			}
			require.Equal(t, file.Span(tt.span[0], tt.span[1]), path.Span())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: ErrEmptyPath},
		{name: "blank", input: "   ", want: ErrEmptyPath},
		{name: "leading dot", input: ".a", want: ErrSyntax},
		{name: "trailing dot", input: "a.", want: ErrSyntax},
		{name: "double dot", input: "a..b", want: ErrSyntax},
		{name: "inner whitespace", input: "a. b", want: ErrSyntax},
		{name: "unterminated", input: `"abc`, want: ErrSyntax},
		{name: "adjacent strings", input: `"a""b"`, want: ErrSyntax},
		{name: "index overflow", input: "99999999999999999999999", want: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseString(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseString(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, source.Unknown()); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("New(nil) error = %v, want %v", err, ErrEmptyPath)
	}
}

func TestPathIsImmutable(t *testing.T) {
	t.Parallel()

	members := []Member{Field("a", source.Unknown())}
	path, err := New(members, source.Unknown())
	require.NoError(t, err)

	members[0] = Field("b", source.Unknown())
	if got := path.At(0).Name; got != "a" {
		t.Fatalf("At(0).Name = %q, want %q", got, "a")
	}

	copied := path.Members()
	copied[0] = Field("c", source.Unknown())
	if got := path.At(0).Name; got != "a" {
		t.Fatalf("At(0).Name after mutating Members() = %q, want %q", got, "a")
	}
}

func TestNewRejectsNegativeIndex(t *testing.T) {
	t.Parallel()

	members := []Member{Field("a", source.Unknown()), Index(-1, source.Unknown())}
	if _, err := New(members, source.Unknown()); !errors.Is(err, ErrNegativeIndex) {
		t.Fatalf("New() error = %v, want %v", err, ErrNegativeIndex)
	}
	require.Panics(t, func() { MustNew(Index(-3, source.Unknown())) })

	path, err := New([]Member{Index(0, source.Unknown())}, source.Unknown())
	require.NoError(t, err)
	require.Equal(t, 0, path.At(0).Index)
}

func TestPathString(t *testing.T) {
	t.Parallel()

	path := MustNew(
		Field("name", source.Unknown()),
		Index(2, source.Unknown()),
		Field("first name", source.Unknown()),
		Field("7", source.Unknown()),
	)

	if got, want := path.String(), `name.2."first name"."7"`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	reparsed, err := ParseString(path.String())
	require.NoError(t, err)
	require.Equal(t, path.String(), reparsed.String())
}

func TestParseJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		members []memberWant
	}{
		{
			name:  "dotted",
			input: "$.a.b",
			members: []memberWant{
				{kind: KindField, name: "a", start: 2, end: 3},
				{kind: KindField, name: "b", start: 4, end: 5},
			},
		},
		{
			name:  "bracket index",
			input: "$.items[1]",
			members: []memberWant{
				{kind: KindField, name: "items", start: 2, end: 7},
				{kind: KindIndex, index: 1, start: 8, end: 9},
			},
		},
		{
			name:  "quoted name",
			input: "$['first name']",
			members: []memberWant{
				{kind: KindField, name: "first name", start: 2, end: 14},
			},
		},
		{
			name:  "escaped name",
			input: `$["a\u0041"]`,
			members: []memberWant{
				{kind: KindField, name: "aA", start: 2, end: 11},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := source.NewFile("path", tt.input)
			path, err := ParseJSONPath(file)
			require.NoError(t, err)
			require.Equal(t, len(tt.members), path.Len())
			for i, want := range tt.members {
				got := path.At(i)
				require.Equal(t, want.kind, got.Kind, "member %d kind", i)
				require.Equal(t, want.name, got.Name, "member %d name", i)
				require.Equal(t, want.index, got.Index, "member %d index", i)
				require.Equal(t, file.Span(want.start, want.end), got.Span, "member %d span", i)
			}
		})
	}
}

func TestParseJSONPathErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "root only", input: "$", want: ErrEmptyPath},
		{name: "missing root", input: "a.b", want: ErrSyntax},
		{name: "wildcard", input: "$.a.*", want: ErrUnsupported},
		{name: "descendant", input: "$..a", want: ErrUnsupported},
		{name: "slice", input: "$.a[0:2]", want: ErrUnsupported},
		{name: "filter", input: "$.a[?@.b == 1]", want: ErrUnsupported},
		{name: "union", input: "$['a','b']", want: ErrUnsupported},
		{name: "negative index", input: "$.a[-1]", want: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJSONPath(source.NewFile("path", tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseJSONPath(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}
