// Package columnpath models the paths `get` navigates by and parses them
// from command-line text.
//
// A Path is a non-empty sequence of members. A member either names a record
// field or selects a table row by position. Every member remembers the span
// of text it was parsed from so failures can point at it.
package columnpath

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/JoshCheek/nushell/internal/source"
)

var (
	// ErrEmptyPath is returned when a path would have no members.
	ErrEmptyPath = errors.New("column path is empty")
	// ErrSyntax wraps every column path parse failure.
	ErrSyntax = errors.New("invalid column path")
	// ErrUnsupported wraps JSONPath constructs that do not address a single member.
	ErrUnsupported = errors.New("unsupported path selector")
	// ErrNegativeIndex is returned by New for a row member below zero.
	ErrNegativeIndex = errors.New("row index cannot be negative")
)

// MemberKind distinguishes field access from row access.
type MemberKind uint8

const (
	KindField MemberKind = iota
	KindIndex
)

func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindIndex:
		return "index"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is one step of a path.
type Member struct {
	Kind  MemberKind
	Name  string // KindField
	Index int    // KindIndex, never negative
	Span  source.Span
}

// Field builds a field member.
func Field(name string, span source.Span) Member {
	return Member{Kind: KindField, Name: name, Span: span}
}

// Index builds a row member. New rejects negative positions.
func Index(position int, span source.Span) Member {
	return Member{Kind: KindIndex, Index: position, Span: span}
}

// IsField reports whether the member names a column.
func (m Member) IsField() bool { return m.Kind == KindField }

// IsIndex reports whether the member selects a row.
func (m Member) IsIndex() bool { return m.Kind == KindIndex }

// String renders the member the way it would be typed.
func (m Member) String() string {
	if m.Kind == KindIndex {
		return strconv.Itoa(m.Index)
	}
	if needsQuoting(m.Name) {
		return strconv.Quote(m.Name)
	}
	return m.Name
}

// Path is an immutable, non-empty sequence of members.
type Path struct {
	members []Member
	span    source.Span
}

// New builds a path; the members slice is copied.
func New(members []Member, span source.Span) (Path, error) {
	if len(members) == 0 {
		return Path{}, ErrEmptyPath
	}
	for _, member := range members {
		if member.IsIndex() && member.Index < 0 {
			return Path{}, fmt.Errorf("%w: %d", ErrNegativeIndex, member.Index)
		}
	}
	return Path{members: slices.Clone(members), span: span}, nil
}

// MustNew is New for paths known to be valid, such as test fixtures.
func MustNew(members ...Member) Path {
	path, err := New(members, source.Unknown())
	if err != nil {
		panic(err)
	}
	return path
}

// Members returns a copy of the members.
func (p Path) Members() []Member {
	return slices.Clone(p.members)
}

// Len is the number of members.
func (p Path) Len() int {
	return len(p.members)
}

// At returns the i-th member.
func (p Path) At(i int) Member {
	return p.members[i]
}

// Span covers the whole path text.
func (p Path) Span() source.Span {
	return p.span
}

// String renders the path in dotted form.
func (p Path) String() string {
	parts := make([]string, len(p.members))
	for i, member := range p.members {
		parts[i] = member.String()
	}
	return strings.Join(parts, ".")
}

func needsQuoting(name string) bool {
	if name == "" || isAllDigits(name) {
		return true
	}
	for _, r := range name {
		if r == '.' || r == '"' || r == '\'' || r == '`' || unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
