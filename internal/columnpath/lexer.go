package columnpath

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenWord
	tokenString
	tokenDot
)

type token struct {
	typ     tokenType
	literal string
	pos     int
	end     int
}

// lex splits column path text into words, quoted strings and dots. Leading
// and trailing whitespace is ignored; whitespace anywhere else is an error.
func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/2+1)

	end := len(strings.TrimRightFunc(input, unicode.IsSpace))
	pos := len(input) - len(strings.TrimLeftFunc(input, unicode.IsSpace))

	for pos < end {
		r, size := utf8.DecodeRuneInString(input[pos:])
		switch {
		case r == '.':
			tokens = append(tokens, token{typ: tokenDot, pos: pos, end: pos + 1})
			pos++
		case r == '"' || r == '\'' || r == '`':
			literal, nextPos, err := lexString(input[:end], pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos, end: nextPos})
			pos = nextPos
		case unicode.IsSpace(r):
			return nil, syntaxError("unexpected whitespace at position %d", pos)
		case r == utf8.RuneError && size == 1:
			return nil, syntaxError("invalid UTF-8 at position %d", pos)
		default:
			start := pos
			for pos < end {
				r, size := utf8.DecodeRuneInString(input[pos:])
				if !isWordRune(r) {
					break
				}
				pos += size
			}
			if pos == start {
				return nil, syntaxError("unexpected character %q at position %d", r, pos)
			}
			tokens = append(tokens, token{typ: tokenWord, literal: input[start:pos], pos: start, end: pos})
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: end, end: end})
	return tokens, nil
}

func isWordRune(r rune) bool {
	switch r {
	case '.', '"', '\'', '`', utf8.RuneError:
		return false
	}
	return !unicode.IsSpace(r)
}

// lexString reads a quoted member. Double quotes honour backslash escapes;
// single quotes and backticks are raw.
func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' && quote == '"' {
			pos++
			if pos >= len(input) {
				return "", 0, syntaxError("unterminated escape sequence at position %d", start)
			}
			switch escaped := input[pos]; escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(escaped)
			}
			continue
		}

		if ch == '\n' || ch == '\r' {
			return "", 0, syntaxError("unterminated string at position %d", start)
		}

		b.WriteByte(ch)
	}

	return "", 0, syntaxError("unterminated string at position %d", start)
}
