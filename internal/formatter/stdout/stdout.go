package stdout

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/formatter"
	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

// Formatter writes values to one writer and diagnostics to another.
type Formatter struct {
	out    io.Writer
	errOut io.Writer
	format formatter.Format
	files  *source.Files
	debug  bool
	dumper *spew.ConfigState
}

// NewWithWriters creates a formatter with custom writers.
// This is useful for testing or redirecting output to files.
func NewWithWriters(out io.Writer, errOut io.Writer, format formatter.Format, files *source.Files, debug bool) formatter.Formatter {
	return &Formatter{
		out:    out,
		errOut: errOut,
		format: format,
		files:  files,
		debug:  debug,
		dumper: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

// Value writes one value. In text mode Error values are rendered as
// diagnostics on the error writer; structured formats keep them inline.
func (f *Formatter) Value(v value.Value) error {
	switch f.format {
	case formatter.JSON:
		line, err := formatter.AppendJSON(nil, v)
		if err != nil {
			return err
		}
		line = append(line, '\n')
		_, err = f.out.Write(line)
		return err
	case formatter.YAML:
		doc, err := formatter.MarshalYAML(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f.out, "---\n%s", doc); err != nil {
			return err
		}
		return nil
	default:
		return f.text(v)
	}
}

func (f *Formatter) text(v value.Value) error {
	switch v := v.(type) {
	case *value.Error:
		if v.Diagnostic() == nil {
			return nil
		}
		return f.Diagnostic(v.Diagnostic())
	case *value.Scalar:
		if _, err := fmt.Fprintln(f.out, v.Primitive().Text()); err != nil {
			return err
		}
		return nil
	default:
		line, err := formatter.AppendJSON(nil, v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(f.out, string(line)); err != nil {
			return err
		}
		return nil
	}
}

// Diagnostic renders d with a source snippet when its span is known.
func (f *Formatter) Diagnostic(d *diagnostics.Diagnostic) error {
	if _, err := fmt.Fprint(f.errOut, formatter.RenderDiagnostic(d, f.files)); err != nil {
		return err
	}
	return nil
}

// Debug dumps data on the error writer when debug mode is enabled.
func (f *Formatter) Debug(description string, data any) error {
	if !f.debug {
		return nil
	}
	if _, err := fmt.Fprintf(f.errOut, "DEBUG %s:\n%s", description, f.dumper.Sdump(data)); err != nil {
		return err
	}
	return nil
}
