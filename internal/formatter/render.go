package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/source"
)

type annotation struct {
	span    source.Span
	marker  byte
	message string
}

// RenderDiagnostic renders d as a labelled report. When the primary span
// points into a registered file that kept its text, the offending line is
// shown with '^' under the primary span and '-' under the secondary one.
// Otherwise the report collapses to a single line plus an optional note.
func RenderDiagnostic(d *diagnostics.Diagnostic, files *source.Files) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Error: %s\n", d.Label)

	// Streamed inputs are registered without their text.
	file, ok := files.Lookup(d.Span)
	if !ok || file.Text == "" {
		fmt.Fprintf(&b, "  %s\n", d.Message)
		if d.Secondary != nil {
			fmt.Fprintf(&b, "  = %s\n", d.Secondary.Message)
		}
		return b.String()
	}

	annotations := []annotation{{span: d.Span, marker: '^', message: d.Message}}
	if d.Secondary != nil {
		if _, ok := files.Lookup(d.Secondary.Span); ok && d.Secondary.Span.File == file.ID {
			annotations = append(annotations, annotation{span: d.Secondary.Span, marker: '-', message: d.Secondary.Message})
		}
	}

	start := file.Locate(d.Span.Start)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", file.Name, start.Line, start.Column)

	gutter := len(strconv.Itoa(lastLine(file, annotations)))
	pad := strings.Repeat(" ", gutter)
	fmt.Fprintf(&b, "%s |\n", pad)

	shown := -1
	for _, a := range annotations {
		loc := file.Locate(a.span.Start)
		text := file.Line(loc.Line)
		if loc.Line != shown {
			fmt.Fprintf(&b, "%*d | %s\n", gutter, loc.Line, text)
			shown = loc.Line
		}
		fmt.Fprintf(&b, "%s | %s\n", pad, underline(text, loc.Column, a.span.Len(), a.marker, a.message))
	}

	if d.Secondary != nil && len(annotations) == 1 {
		fmt.Fprintf(&b, "%s = %s\n", pad, d.Secondary.Message)
	}

	return b.String()
}

func lastLine(file *source.File, annotations []annotation) int {
	line := 1
	for _, a := range annotations {
		line = max(line, file.Locate(a.span.Start).Line)
	}
	return line
}

// underline marks length bytes from column on text, clamped to the end of
// the line and never shorter than one marker.
func underline(text string, column int, length int, marker byte, message string) string {
	startByte := min(column-1, len(text))
	endByte := min(startByte+max(length, 0), len(text))

	indent := utf8.RuneCountInString(text[:startByte])
	width := max(utf8.RuneCountInString(text[startByte:endByte]), 1)

	line := strings.Repeat(" ", indent) + strings.Repeat(string(marker), width)
	if message != "" {
		line += " " + message
	}
	return line
}
