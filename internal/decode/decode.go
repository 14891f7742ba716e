// Package decode turns raw inputs into lazy streams of values.
//
// Every decoder yields one value per input item. A top-level JSON array or
// YAML sequence is streamed as its elements, so `[{...}, {...}]` and NDJSON
// produce the same items. A decode error is yielded once and ends the
// stream.
package decode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/JoshCheek/nushell/internal/decompress"
	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

var (
	// ErrUnknownFormat is returned for format names that have no decoder.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrDecode matches every *Error.
	ErrDecode = errors.New("decode failed")
)

// MaxDepth bounds container nesting in every decoder.
const MaxDepth = 10_000

// Format selects a decoder.
type Format string

const (
	Auto    Format = "auto"
	JSON    Format = "json"
	YAML    Format = "yaml"
	Parquet Format = "parquet"
)

// Formats lists the accepted format names.
func Formats() []Format {
	return []Format{Auto, JSON, YAML, Parquet}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case Auto, JSON, YAML, Parquet:
		return format, nil
	case "":
		return Auto, nil
	case "ndjson", "jsonl":
		return JSON, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Error is a decode failure at a position in one input.
type Error struct {
	Input  string
	Span   source.Span
	Format Format
	Err    error
}

func (e *Error) Error() string {
	if e.Span.IsUnknown() {
		return fmt.Sprintf("decode %s as %s: %v", e.Input, e.Format, e.Err)
	}
	return fmt.Sprintf("decode %s as %s at byte %d: %v", e.Input, e.Format, e.Span.Start, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for every decode error.
func (e *Error) Is(target error) bool { return target == ErrDecode }

// Diagnostic renders the failure for the error writer.
func (e *Error) Diagnostic() *diagnostics.Diagnostic {
	return diagnostics.New(diagnostics.CodeDecodeFailed, e.Error(), e.Span)
}

// Input is one named byte stream.
type Input struct {
	Name   string
	Reader io.Reader
	// Opened, when set, is told which codec and format were picked once
	// the input has been sniffed.
	Opened func(codec decompress.Codec, format Format)
}

// Stream decompresses the input, picks a decoder and decodes lazily.
// Inputs decoded from memory register their text with files so
// diagnostics can quote them.
func Stream(ctx context.Context, files *source.Files, in Input, format Format) iter.Seq2[value.Value, error] {
	if files == nil {
		files = source.NewFiles()
	}

	return func(yield func(value.Value, error) bool) {
		reader, codec, err := decompress.NewReader(in.Reader)
		if err != nil {
			yield(nil, &Error{Input: in.Name, Format: format, Err: err})
			return
		}
		defer reader.Close()

		buffered := bufio.NewReader(reader)
		if format == Auto {
			format = detect(in.Name, buffered)
		}
		if in.Opened != nil {
			in.Opened(codec, format)
		}

		var seq iter.Seq2[value.Value, error]
		switch format {
		case JSON:
			seq = DecodeJSON(ctx, files.Add(in.Name, ""), buffered)
		case YAML, Parquet:
			data, err := io.ReadAll(buffered)
			if err != nil {
				yield(nil, &Error{Input: in.Name, Format: format, Err: err})
				return
			}
			if format == YAML {
				seq = DecodeYAML(ctx, files.Add(in.Name, string(data)), data)
			} else {
				seq = DecodeParquet(ctx, files.Add(in.Name, ""), data)
			}
		default:
			yield(nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
			return
		}

		for v, err := range seq {
			if !yield(v, err) {
				return
			}
		}
	}
}

var parquetMagic = []byte("PAR1")

// detect chooses a format from the file extension, then from content.
func detect(name string, r *bufio.Reader) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".ndjson", ".jsonl":
		return JSON
	case ".yaml", ".yml":
		return YAML
	case ".parquet", ".pq":
		return Parquet
	}

	head, _ := r.Peek(512)
	if bytes.HasPrefix(head, parquetMagic) {
		return Parquet
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return JSON
	}
	return YAML
}
