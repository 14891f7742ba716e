package source

import "testing"

func TestSpanSince(t *testing.T) {
	t.Parallel()

	file := NewFile("path", "size.name.0")
	whole := file.Whole()

	tests := []struct {
		name   string
		span   Span
		origin Span
		want   Span
	}{
		{
			name:   "member since whole path",
			span:   file.Span(5, 9),
			origin: whole,
			want:   file.Span(0, 9),
		},
		{
			name:   "first member",
			span:   file.Span(0, 4),
			origin: whole,
			want:   file.Span(0, 4),
		},
		{
			name:   "unknown origin",
			span:   file.Span(5, 9),
			origin: Unknown(),
			want:   file.Span(5, 9),
		},
		{
			name:   "unknown span",
			span:   Unknown(),
			origin: whole,
			want:   whole,
		},
		{
			name:   "different files",
			span:   file.Span(5, 9),
			origin: NewFile("other", "x").Whole(),
			want:   file.Span(5, 9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.span.Since(tt.origin); got != tt.want {
				t.Fatalf("Since() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileLocate(t *testing.T) {
	t.Parallel()

	file := NewFile("input.yaml", "a: 1\nbb: 2\n")

	tests := []struct {
		offset int
		want   Location
	}{
		{offset: 0, want: Location{Line: 1, Column: 1}},
		{offset: 3, want: Location{Line: 1, Column: 4}},
		{offset: 5, want: Location{Line: 2, Column: 1}},
		{offset: 7, want: Location{Line: 2, Column: 3}},
		{offset: 100, want: Location{Line: 3, Column: 1}},
	}

	for _, tt := range tests {
		if got := file.Locate(tt.offset); got != tt.want {
			t.Fatalf("Locate(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}

	for _, tt := range tests[:4] {
		if got := file.Offset(tt.want); got != tt.offset {
			t.Fatalf("Offset(%+v) = %d, want %d", tt.want, got, tt.offset)
		}
	}

	if got := file.Line(2); got != "bb: 2" {
		t.Fatalf("Line(2) = %q, want %q", got, "bb: 2")
	}
	if got := file.Line(9); got != "" {
		t.Fatalf("Line(9) = %q, want empty", got)
	}
}

func TestFilesLookup(t *testing.T) {
	t.Parallel()

	files := NewFiles()
	first := files.Add("arg 1", "name")
	files.Add("arg 2", "size")

	got, ok := files.Lookup(first.Span(0, 2))
	if !ok || got != first {
		t.Fatalf("Lookup() = %v, %t, want first file", got, ok)
	}
	if _, ok := files.Lookup(Unknown()); ok {
		t.Fatal("Lookup(Unknown()) found a file")
	}
	if files.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", files.Len())
	}
}
