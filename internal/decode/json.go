package decode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/stack"
	"github.com/JoshCheek/nushell/internal/value"
)

type containerKind uint8

const (
	kindObj containerKind = iota
	kindArr
)

// containerFrame is one open object or array.
type containerFrame struct {
	kind    containerKind
	start   int64
	needKey bool
	key     string
	fields  *value.Dictionary
	rows    []value.Value
}

type jsonStream struct {
	file   *source.File
	src    *offsetReader
	dec    *json.Decoder
	frames *stack.Stack[containerFrame]
}

// offsetReader keeps the bytes the decoder has read but whose values have
// not started yet, so a token's true start can be found after Token returns.
type offsetReader struct {
	r    io.Reader
	base int64
	buf  []byte
}

func (o *offsetReader) Read(p []byte) (int, error) {
	n, err := o.r.Read(p)
	o.buf = append(o.buf, p[:n]...)
	return n, err
}

// valueStart returns the offset of the first byte at or after from that is
// not whitespace or a ',' or ':' separator. Bytes before from are released.
func (o *offsetReader) valueStart(from int64) int64 {
	if drop := min(from-o.base, int64(len(o.buf))); drop > 0 {
		o.buf = o.buf[drop:]
		o.base += drop
	}

	i := max(from-o.base, 0)
	for i < int64(len(o.buf)) && isJSONSeparator(o.buf[i]) {
		i++
	}
	return o.base + i
}

func isJSONSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ',', ':':
		return true
	}
	return false
}

// DecodeJSON streams JSON texts from r: NDJSON, concatenated documents or a
// single document. The elements of a top-level array are yielded one by one.
// Numbers keep full precision: integers that fit int64 become Int values,
// everything else Decimal.
func DecodeJSON(ctx context.Context, file *source.File, r io.Reader) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		src := &offsetReader{r: r}
		dec := json.NewDecoder(src)
		dec.UseNumber()

		js := &jsonStream{
			file:   file,
			src:    src,
			dec:    dec,
			frames: stack.NewWithCapacity[containerFrame](MaxDepth, 16),
		}

		inArray := false
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			if inArray && !dec.More() {
				if _, err := dec.Token(); err != nil {
					yield(nil, js.fail(err))
					return
				}
				inArray = false
				continue
			}

			start := dec.InputOffset()
			tok, err := dec.Token()
			if errors.Is(err, io.EOF) && !inArray {
				return
			}
			if err != nil {
				yield(nil, js.fail(err))
				return
			}
			start = js.src.valueStart(start)

			if delim, ok := tok.(json.Delim); ok && delim == '[' && !inArray {
				inArray = true
				continue
			}

			v, err := js.valueFrom(tok, start)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// valueFrom builds the complete value that begins with tok.
func (js *jsonStream) valueFrom(tok json.Token, start int64) (value.Value, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return js.scalar(tok, start)
	}
	if err := js.open(delim, start); err != nil {
		return nil, err
	}

	for {
		start := js.dec.InputOffset()
		tok, err := js.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, js.fail(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, js.fail(err)
		}
		start = js.src.valueStart(start)

		top := js.frames.PeekRef()
		if top.kind == kindObj && top.needKey {
			if delim, ok := tok.(json.Delim); ok && delim == '}' {
				if done, v := js.close(); done {
					return v, nil
				}
				continue
			}
			key, ok := tok.(string)
			if !ok {
				return nil, js.failAt(start, fmt.Errorf("object key must be a string, got %T", tok))
			}
			top.key = key
			top.needKey = false
			continue
		}

		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				if err := js.open(delim, start); err != nil {
					return nil, err
				}
			case ']', '}':
				if done, v := js.close(); done {
					return v, nil
				}
			}
			continue
		}

		v, err := js.scalar(tok, start)
		if err != nil {
			return nil, err
		}
		js.attach(v)
	}
}

func (js *jsonStream) open(delim json.Delim, start int64) error {
	frame := containerFrame{kind: kindArr, start: start}
	if delim == '{' {
		frame = containerFrame{kind: kindObj, start: start, needKey: true, fields: value.NewDictionary()}
	}
	if err := js.frames.Push(frame); err != nil {
		return js.failAt(start, err)
	}
	return nil
}

// close finishes the top container. done is true when it was the outermost.
func (js *jsonStream) close() (bool, value.Value) {
	frame, _ := js.frames.Pop()
	tag := js.tag(frame.start)

	var v value.Value
	if frame.kind == kindObj {
		v = value.NewRecord(frame.fields, tag)
	} else {
		v = value.NewTable(frame.rows, tag)
	}

	if js.frames.IsEmpty() {
		return true, v
	}
	js.attach(v)
	return false, nil
}

// attach stores a finished value in the enclosing container. Duplicate keys
// keep the last value at the first key's position.
func (js *jsonStream) attach(v value.Value) {
	top := js.frames.PeekRef()
	if top.kind == kindObj {
		top.fields.Insert(top.key, v)
		top.needKey = true
		return
	}
	top.rows = append(top.rows, v)
}

func (js *jsonStream) scalar(tok json.Token, start int64) (value.Value, error) {
	tag := js.tag(start)
	switch current := tok.(type) {
	case nil:
		return value.Nothing(tag), nil
	case bool:
		return value.Bool(current, tag), nil
	case string:
		return value.String(current, tag), nil
	case json.Number:
		v, err := value.Number(current, tag)
		if err != nil {
			return nil, js.failAt(start, err)
		}
		return v, nil
	default:
		return nil, js.failAt(start, fmt.Errorf("unexpected token %v", tok))
	}
}

func (js *jsonStream) tag(start int64) source.Tag {
	return js.file.Tag(int(start), int(js.dec.InputOffset()))
}

func (js *jsonStream) fail(err error) error {
	return js.failAt(js.dec.InputOffset(), err)
}

func (js *jsonStream) failAt(offset int64, err error) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		offset = syntax.Offset
	}
	return &Error{
		Input:  js.file.Name,
		Span:   js.file.Span(int(offset), int(offset)),
		Format: JSON,
		Err:    err,
	}
}
