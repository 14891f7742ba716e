package columnpath

import (
	"strconv"

	"github.com/JoshCheek/nushell/internal/source"
)

type parserState struct {
	file   *source.File
	tokens []token
	pos    int
}

// Parse reads a column path such as `name`, `size.0` or `"first name".x`
// from the file's text. Unquoted all-digit members select rows; everything
// else names a field. Spans point into file.
func Parse(file *source.File) (Path, error) {
	tokens, err := lex(file.Text)
	if err != nil {
		return Path{}, err
	}

	state := parserState{file: file, tokens: tokens}
	if state.current().typ == tokenEOF {
		return Path{}, ErrEmptyPath
	}

	var members []Member
	for {
		member, err := state.parseMember()
		if err != nil {
			return Path{}, err
		}
		members = append(members, member)

		switch tok := state.current(); tok.typ {
		case tokenEOF:
			first, last := members[0].Span, member.Span
			return New(members, file.Span(first.Start, last.End))
		case tokenDot:
			state.advance()
		default:
			return Path{}, syntaxError("expected '.' at position %d", tok.pos)
		}
	}
}

// ParseString parses text registered as an anonymous file.
func ParseString(text string) (Path, error) {
	return Parse(source.NewFile("path", text))
}

func (p *parserState) parseMember() (Member, error) {
	tok := p.current()
	span := p.file.Span(tok.pos, tok.end)

	switch tok.typ {
	case tokenString:
		p.advance()
		return Field(tok.literal, span), nil
	case tokenWord:
		p.advance()
		if !isAllDigits(tok.literal) {
			return Field(tok.literal, span), nil
		}
		position, err := strconv.Atoi(tok.literal)
		if err != nil {
			return Member{}, syntaxError("row index %q out of range at position %d", tok.literal, tok.pos)
		}
		return Index(position, span), nil
	case tokenDot:
		return Member{}, syntaxError("empty member at position %d", tok.pos)
	default:
		return Member{}, syntaxError("expected member at position %d", tok.pos)
	}
}

func (p *parserState) current() token {
	return p.tokens[p.pos]
}

func (p *parserState) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}
