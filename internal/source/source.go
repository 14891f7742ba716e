package source

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Span is a half-open byte range [Start, End) inside one registered File.
type Span struct {
	File  uuid.UUID
	Start int
	End   int
}

// Unknown is the span of values with no recorded location.
func Unknown() Span {
	return Span{}
}

// IsUnknown reports whether the span points nowhere.
func (s Span) IsUnknown() bool {
	return s.File == uuid.Nil && s.Start == 0 && s.End == 0
}

// Since returns the range starting at origin and ending where s ends, so a
// diagnostic can highlight everything from the start of a path up to the
// member that failed. Spans from different files do not combine.
func (s Span) Since(origin Span) Span {
	if origin.IsUnknown() {
		return s
	}
	if s.IsUnknown() {
		return origin
	}
	if s.File != origin.File {
		return s
	}

	return Span{
		File:  s.File,
		Start: min(origin.Start, s.Start),
		End:   s.End,
	}
}

// Len is the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.IsUnknown() {
		return "unknown"
	}
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Tag is the provenance attached to every value: the name of the input it
// came from plus its span. It never takes part in equality.
type Tag struct {
	Anchor string
	Span   Span
}

// UnknownTag is attached to synthesized values.
func UnknownTag() Tag {
	return Tag{}
}

// File is a piece of text spans can point into: a path argument or an input.
type File struct {
	ID   uuid.UUID
	Name string
	Text string
}

// NewFile creates a file with a fresh identity without registering it.
func NewFile(name string, text string) *File {
	return &File{
		ID:   uuid.New(),
		Name: name,
		Text: text,
	}
}

// Span builds a span inside the file.
func (f *File) Span(start int, end int) Span {
	return Span{File: f.ID, Start: start, End: end}
}

// Whole spans the full text of the file.
func (f *File) Whole() Span {
	return f.Span(0, len(f.Text))
}

// Tag builds a tag anchored at this file.
func (f *File) Tag(start int, end int) Tag {
	return Tag{Anchor: f.Name, Span: f.Span(start, end)}
}

// Location is a 1-based line/column position resolved from a byte offset.
type Location struct {
	Line   int
	Column int
}

// Locate converts a byte offset into a line and column.
func (f *File) Locate(offset int) Location {
	offset = max(0, min(offset, len(f.Text)))
	line := 1 + strings.Count(f.Text[:offset], "\n")
	lineStart := strings.LastIndexByte(f.Text[:offset], '\n') + 1
	return Location{Line: line, Column: offset - lineStart + 1}
}

// Offset converts a 1-based line and column back into a byte offset,
// clamped to the file.
func (f *File) Offset(loc Location) int {
	offset := 0
	for line := 1; line < loc.Line; line++ {
		next := strings.IndexByte(f.Text[offset:], '\n')
		if next < 0 {
			return len(f.Text)
		}
		offset += next + 1
	}
	return min(offset+max(loc.Column-1, 0), len(f.Text))
}

// Line returns the text of the 1-based line, without its newline.
func (f *File) Line(line int) string {
	lines := strings.Split(f.Text, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

// Files is a registry of every File a run has produced spans for.
type Files struct {
	byID  map[uuid.UUID]*File
	order []*File
}

// NewFiles returns an empty registry.
func NewFiles() *Files {
	return &Files{byID: make(map[uuid.UUID]*File)}
}

// Add registers a new file and returns it.
func (fs *Files) Add(name string, text string) *File {
	file := NewFile(name, text)
	fs.byID[file.ID] = file
	fs.order = append(fs.order, file)
	return file
}

// Lookup finds the file a span points into.
func (fs *Files) Lookup(span Span) (*File, bool) {
	if fs == nil || span.IsUnknown() {
		return nil, false
	}
	file, ok := fs.byID[span.File]
	return file, ok
}

// Len reports how many files are registered.
func (fs *Files) Len() int {
	return len(fs.order)
}
