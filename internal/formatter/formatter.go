package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/value"
)

// ErrUnknownFormat is returned for an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how values are rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the accepted output formats.
func Formats() []Format {
	return []Format{Text, JSON, YAML}
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case Text, "":
		return Text, nil
	case JSON:
		return JSON, nil
	case YAML, "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Formatter defines the interface for rendering the output of a run.
// Implementations are responsible for determining the output device (stdout, file, etc.).
type Formatter interface {
	// Value renders one emitted value, Error values included.
	Value(v value.Value) error
	// Diagnostic reports a failure that is not part of the value stream.
	Diagnostic(d *diagnostics.Diagnostic) error
	// Debug dumps internal state when debug mode is enabled.
	Debug(description string, data any) error
}
