package columnpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/theory/jsonpath"

	"github.com/JoshCheek/nushell/internal/source"
)

// ParseJSONPath reads an RFC 9535 singular query such as `$.a.b[0]` or
// `$['first name']`. The expression is validated by the JSONPath parser
// first; wildcards, slices, filters, negative indexes, unions and
// descendant segments parse but are rejected with ErrUnsupported since they
// can address more than one member.
func ParseJSONPath(file *source.File) (Path, error) {
	if _, err := jsonpath.Parse(strings.TrimSpace(file.Text)); err != nil {
		return Path{}, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	scanner := jsonpathScanner{file: file, input: file.Text}
	members, err := scanner.scan()
	if err != nil {
		return Path{}, err
	}
	if len(members) == 0 {
		return Path{}, ErrEmptyPath
	}

	first, last := members[0].Span, members[len(members)-1].Span
	return New(members, file.Span(first.Start, last.End))
}

type jsonpathScanner struct {
	file  *source.File
	input string
	pos   int
}

func (s *jsonpathScanner) scan() ([]Member, error) {
	s.skipSpace()
	if !s.consume('$') {
		return nil, syntaxError("JSONPath must start with '$'")
	}

	var members []Member
	for {
		s.skipSpace()
		if s.pos >= len(s.input) {
			return members, nil
		}

		switch s.input[s.pos] {
		case '.':
			member, err := s.scanDot()
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		case '[':
			member, err := s.scanBracket()
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		default:
			return nil, syntaxError("unexpected character %q at position %d", s.input[s.pos], s.pos)
		}
	}
}

func (s *jsonpathScanner) scanDot() (Member, error) {
	start := s.pos
	s.pos++
	if s.pos < len(s.input) {
		switch s.input[s.pos] {
		case '.':
			return Member{}, fmt.Errorf("%w: descendant segment at position %d", ErrUnsupported, start)
		case '*':
			return Member{}, fmt.Errorf("%w: wildcard at position %d", ErrUnsupported, start)
		}
	}

	nameStart := s.pos
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !isShorthandRune(r, s.pos == nameStart) {
			break
		}
		s.pos += size
	}
	if s.pos == nameStart {
		return Member{}, syntaxError("expected member name at position %d", nameStart)
	}

	return Field(s.input[nameStart:s.pos], s.file.Span(nameStart, s.pos)), nil
}

func (s *jsonpathScanner) scanBracket() (Member, error) {
	open := s.pos
	s.pos++
	s.skipSpace()
	if s.pos >= len(s.input) {
		return Member{}, syntaxError("unterminated selector at position %d", open)
	}

	var member Member
	switch ch := s.input[s.pos]; {
	case ch == '\'' || ch == '"':
		start := s.pos
		name, err := s.scanQuoted()
		if err != nil {
			return Member{}, err
		}
		member = Field(name, s.file.Span(start, s.pos))
	case ch >= '0' && ch <= '9':
		start := s.pos
		for s.pos < len(s.input) && s.input[s.pos] >= '0' && s.input[s.pos] <= '9' {
			s.pos++
		}
		position, err := strconv.Atoi(s.input[start:s.pos])
		if err != nil {
			return Member{}, syntaxError("index %q out of range at position %d", s.input[start:s.pos], start)
		}
		member = Index(position, s.file.Span(start, s.pos))
	case ch == '-':
		return Member{}, fmt.Errorf("%w: negative index at position %d", ErrUnsupported, s.pos)
	case ch == '*':
		return Member{}, fmt.Errorf("%w: wildcard at position %d", ErrUnsupported, s.pos)
	case ch == '?':
		return Member{}, fmt.Errorf("%w: filter at position %d", ErrUnsupported, s.pos)
	case ch == ':':
		return Member{}, fmt.Errorf("%w: slice at position %d", ErrUnsupported, s.pos)
	default:
		return Member{}, syntaxError("unexpected character %q at position %d", ch, s.pos)
	}

	s.skipSpace()
	if s.pos < len(s.input) {
		switch s.input[s.pos] {
		case ',':
			return Member{}, fmt.Errorf("%w: union at position %d", ErrUnsupported, s.pos)
		case ':':
			return Member{}, fmt.Errorf("%w: slice at position %d", ErrUnsupported, s.pos)
		}
	}
	if !s.consume(']') {
		return Member{}, syntaxError("expected ']' at position %d", s.pos)
	}
	return member, nil
}

func (s *jsonpathScanner) scanQuoted() (string, error) {
	start := s.pos
	quote := s.input[s.pos]
	s.pos++

	var b strings.Builder
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		switch {
		case ch == quote:
			s.pos++
			return b.String(), nil
		case ch == '\\':
			if err := s.scanEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(ch)
			s.pos++
		}
	}
	return "", syntaxError("unterminated string at position %d", start)
}

func (s *jsonpathScanner) scanEscape(b *strings.Builder) error {
	start := s.pos
	s.pos++
	if s.pos >= len(s.input) {
		return syntaxError("unterminated escape sequence at position %d", start)
	}

	escaped := s.input[s.pos]
	s.pos++
	switch escaped {
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := s.scanHex(start)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(s.input[s.pos:], `\u`) {
			s.pos += 2
			low, err := s.scanHex(start)
			if err != nil {
				return err
			}
			r = utf16.DecodeRune(r, low)
		}
		b.WriteRune(r)
	default:
		b.WriteByte(escaped)
	}
	return nil
}

func (s *jsonpathScanner) scanHex(start int) (rune, error) {
	if s.pos+4 > len(s.input) {
		return 0, syntaxError("invalid unicode escape at position %d", start)
	}
	code, err := strconv.ParseUint(s.input[s.pos:s.pos+4], 16, 32)
	if err != nil {
		return 0, syntaxError("invalid unicode escape at position %d", start)
	}
	s.pos += 4
	return rune(code), nil
}

func (s *jsonpathScanner) consume(ch byte) bool {
	if s.pos < len(s.input) && s.input[s.pos] == ch {
		s.pos++
		return true
	}
	return false
}

func (s *jsonpathScanner) skipSpace() {
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

func isShorthandRune(r rune, first bool) bool {
	switch {
	case r == '_' || r >= 0x80 && r != utf8.RuneError:
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	default:
		return false
	}
}
