package diagnostics

import (
	"fmt"

	"github.com/JoshCheek/nushell/internal/source"
)

// Code classifies navigation and input failures.
type Code string

const (
	CodeUnknownColumn   Code = "unknown_column"
	CodeRowNotFound     Code = "row_not_found"
	CodeNoRowsAvailable Code = "no_rows_available"
	CodeShapeMismatch   Code = "shape_mismatch"
	CodeDecodeFailed    Code = "decode_failed"
)

// Stage identifies where in a run a diagnostic was raised.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageDecode  Stage = "decode"
)

// Severity indicates diagnostic impact.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Definition is canonical metadata for one diagnostic code.
type Definition struct {
	Code            Code
	Label           string
	DefaultStage    Stage
	DefaultSeverity Severity
}

var definitions = map[Code]Definition{
	CodeUnknownColumn: {
		Code:            CodeUnknownColumn,
		Label:           "Unknown column",
		DefaultStage:    StageResolve,
		DefaultSeverity: SeverityError,
	},
	CodeRowNotFound: {
		Code:            CodeRowNotFound,
		Label:           "Row not found",
		DefaultStage:    StageResolve,
		DefaultSeverity: SeverityError,
	},
	CodeNoRowsAvailable: {
		Code:            CodeNoRowsAvailable,
		Label:           "No rows available",
		DefaultStage:    StageResolve,
		DefaultSeverity: SeverityError,
	},
	CodeShapeMismatch: {
		Code:            CodeShapeMismatch,
		Label:           "Data cannot be accessed",
		DefaultStage:    StageResolve,
		DefaultSeverity: SeverityError,
	},
	CodeDecodeFailed: {
		Code:            CodeDecodeFailed,
		Label:           "Input could not be decoded",
		DefaultStage:    StageDecode,
		DefaultSeverity: SeverityError,
	},
}

// DefinitionFor resolves canonical metadata for a diagnostic code.
func DefinitionFor(code Code) Definition {
	if definition, ok := definitions[code]; ok {
		return definition
	}

	return Definition{
		Code:            code,
		Label:           string(code),
		DefaultStage:    StageResolve,
		DefaultSeverity: SeverityError,
	}
}

// Note is secondary, remediation-oriented text attached to its own span.
type Note struct {
	Message string      `json:"message"`
	Span    source.Span `json:"-"`
}

// Diagnostic is a labeled error with a primary message and span and an
// optional secondary note.
type Diagnostic struct {
	Code      Code        `json:"code"`
	Stage     Stage       `json:"stage,omitempty"`
	Severity  Severity    `json:"severity,omitempty"`
	Label     string      `json:"label"`
	Message   string      `json:"message"`
	Span      source.Span `json:"-"`
	Secondary *Note       `json:"secondary,omitempty"`
}

// New builds a diagnostic with the code's canonical label, stage and severity.
func New(code Code, message string, span source.Span) *Diagnostic {
	definition := DefinitionFor(code)
	return &Diagnostic{
		Code:     code,
		Stage:    definition.DefaultStage,
		Severity: definition.DefaultSeverity,
		Label:    definition.Label,
		Message:  message,
		Span:     span,
	}
}

// WithSecondary attaches the secondary note.
func (d *Diagnostic) WithSecondary(message string, span source.Span) *Diagnostic {
	d.Secondary = &Note{Message: message, Span: span}
	return d
}

// Error renders the label and both messages on one line.
func (d *Diagnostic) Error() string {
	if d.Secondary == nil {
		return fmt.Sprintf("%s: %s", d.Label, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Label, d.Message, d.Secondary.Message)
}
