package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/value"
)

// Format determines how summaries are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat resolves a summary format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", name)
	}
}

// InputResult is the outcome of reading one input.
type InputResult struct {
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
	Codec  string `json:"codec,omitempty"`
	Items  int    `json:"items"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates what a run consumed and emitted.
type Summary struct {
	Items  int                      `json:"items"`
	Values int                      `json:"values"`
	Errors int                      `json:"errors"`
	ByCode map[diagnostics.Code]int `json:"by_code,omitempty"`
	Inputs []InputResult            `json:"inputs,omitempty"`
}

// AddInput records one finished input.
func (s *Summary) AddInput(result InputResult) {
	s.Items += result.Items
	s.Inputs = append(s.Inputs, result)
}

// Observe counts one emitted value, classifying Error values by code.
func (s *Summary) Observe(v value.Value) {
	errValue, ok := v.(*value.Error)
	if !ok {
		s.Values++
		return
	}

	s.Errors++
	if s.ByCode == nil {
		s.ByCode = make(map[diagnostics.Code]int)
	}
	if d := errValue.Diagnostic(); d != nil {
		s.ByCode[d.Code]++
	}
}

// HasErrors reports whether any Error value was emitted or any input failed.
func (s Summary) HasErrors() bool {
	if s.Errors > 0 {
		return true
	}
	for _, input := range s.Inputs {
		if input.Error != "" {
			return true
		}
	}
	return false
}

// Hints returns remediation advice for the most frequent error codes first.
func (s Summary) Hints() []string {
	hintsByCode := map[diagnostics.Code]string{
		diagnostics.CodeUnknownColumn:   "Run get without a path to list the columns present in the input.",
		diagnostics.CodeRowNotFound:     "Check the row index against the table length; indexes start at 0.",
		diagnostics.CodeNoRowsAvailable: "Use a column name instead of a row index when the value is a record.",
		diagnostics.CodeShapeMismatch:   "Shorten the path; it descends into a value that has no columns or rows.",
		diagnostics.CodeDecodeFailed:    "Pass --format explicitly when the input format cannot be detected.",
	}

	type pair struct {
		code  diagnostics.Code
		count int
	}
	var ranked []pair
	for code, count := range s.ByCode {
		if _, ok := hintsByCode[code]; !ok {
			continue
		}
		ranked = append(ranked, pair{code: code, count: count})
	}

	slices.SortFunc(ranked, func(a, b pair) int {
		if a.count == b.count {
			return strings.Compare(string(a.code), string(b.code))
		}
		if a.count > b.count {
			return -1
		}
		return 1
	})

	hints := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		hints = append(hints, hintsByCode[entry.code])
	}

	return hints
}

// Write prints the summary in the requested format.
func (s Summary) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatText, "":
		writef := func(format string, args ...any) error {
			if _, err := fmt.Fprintf(w, format, args...); err != nil {
				return err
			}
			return nil
		}

		if err := writef("get summary\n"); err != nil {
			return err
		}
		if err := writef("  items read: %d\n", s.Items); err != nil {
			return err
		}
		if err := writef("  values emitted: %d\n", s.Values); err != nil {
			return err
		}
		if err := writef("  errors emitted: %d\n", s.Errors); err != nil {
			return err
		}

		if len(s.Inputs) > 0 {
			if err := writef("\nInputs:\n"); err != nil {
				return err
			}
			for _, input := range s.Inputs {
				line := fmt.Sprintf("  - %s: %d item(s)", input.Name, input.Items)
				if input.Format != "" {
					line += ", " + input.Format
				}
				if input.Codec != "" && input.Codec != "none" {
					line += ", " + input.Codec + " compressed"
				}
				if input.Error != "" {
					line += ", failed: " + input.Error
				}
				if err := writef("%s\n", line); err != nil {
					return err
				}
			}
		}

		if len(s.ByCode) > 0 {
			if err := writef("\nErrors by code:\n"); err != nil {
				return err
			}
			codes := make([]diagnostics.Code, 0, len(s.ByCode))
			for code := range s.ByCode {
				codes = append(codes, code)
			}
			slices.Sort(codes)
			for _, code := range codes {
				if err := writef("  - %s: %d\n", code, s.ByCode[code]); err != nil {
					return err
				}
			}
		}

		hints := s.Hints()
		if len(hints) > 0 {
			if err := writef("\nHints:\n"); err != nil {
				return err
			}
			for _, hint := range hints {
				if err := writef("  - %s\n", hint); err != nil {
					return err
				}
			}
		}

		return nil
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
