package formatter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"

	"github.com/JoshCheek/nushell/internal/diagnostics"
	"github.com/JoshCheek/nushell/internal/value"
)

// AppendJSON appends the compact JSON encoding of v to dst. Record fields
// keep their order, decimals are written with their exact digits and binary
// is base64 encoded. An Error value becomes {"error": {...}}.
func AppendJSON(dst []byte, v value.Value) ([]byte, error) {
	switch v := v.(type) {
	case *value.Scalar:
		return appendPrimitiveJSON(dst, v.Primitive())
	case *value.Record:
		dst = append(dst, '{')
		i := 0
		for name, field := range v.Fields() {
			if i > 0 {
				dst = append(dst, ',')
			}
			i++
			key, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			dst = append(dst, key...)
			dst = append(dst, ':')
			if dst, err = AppendJSON(dst, field); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	case *value.Table:
		dst = append(dst, '[')
		for i, row := range v.Rows() {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = AppendJSON(dst, row); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case *value.Error:
		body, err := json.Marshal(diagnosticOrEmpty(v.Diagnostic()))
		if err != nil {
			return nil, err
		}
		dst = append(dst, `{"error":`...)
		dst = append(dst, body...)
		return append(dst, '}'), nil
	default:
		panic(fmt.Sprintf("formatter: unexpected value %T", v))
	}
}

func appendPrimitiveJSON(dst []byte, p value.Primitive) ([]byte, error) {
	switch p.Kind {
	case value.KindNothing:
		return append(dst, "null"...), nil
	case value.KindBoolean:
		return strconv.AppendBool(dst, p.B), nil
	case value.KindInt:
		return strconv.AppendInt(dst, p.I64, 10), nil
	case value.KindDecimal:
		return append(dst, p.Dec.String()...), nil
	case value.KindString:
		s, err := json.Marshal(p.S)
		if err != nil {
			return nil, err
		}
		return append(dst, s...), nil
	case value.KindBinary:
		dst = append(dst, '"')
		dst = base64.StdEncoding.AppendEncode(dst, p.Bytes)
		return append(dst, '"'), nil
	default:
		return nil, fmt.Errorf("formatter: unexpected primitive kind %s", p.Kind)
	}
}

// yamlDecimal keeps the decimal's digits in YAML output instead of going
// through float64.
type yamlDecimal decimal.Decimal

func (d yamlDecimal) MarshalYAML() ([]byte, error) {
	return []byte(decimal.Decimal(d).String()), nil
}

type yamlBinary []byte

func (b yamlBinary) MarshalYAML() ([]byte, error) {
	return []byte("!!binary " + base64.StdEncoding.EncodeToString(b)), nil
}

// ToYAML converts v into the ordered structures goccy/go-yaml marshals.
func ToYAML(v value.Value) any {
	switch v := v.(type) {
	case *value.Scalar:
		p := v.Primitive()
		switch p.Kind {
		case value.KindNothing:
			return nil
		case value.KindBoolean:
			return p.B
		case value.KindInt:
			return p.I64
		case value.KindDecimal:
			return yamlDecimal(p.Dec)
		case value.KindString:
			return p.S
		case value.KindBinary:
			return yamlBinary(p.Bytes)
		default:
			panic(fmt.Sprintf("formatter: unexpected primitive kind %s", p.Kind))
		}
	case *value.Record:
		fields := make(yaml.MapSlice, 0, v.Len())
		for name, field := range v.Fields() {
			fields = append(fields, yaml.MapItem{Key: name, Value: ToYAML(field)})
		}
		return fields
	case *value.Table:
		rows := make([]any, 0, v.Len())
		for _, row := range v.Rows() {
			rows = append(rows, ToYAML(row))
		}
		return rows
	case *value.Error:
		return yaml.MapSlice{{Key: "error", Value: diagnosticYAML(diagnosticOrEmpty(v.Diagnostic()))}}
	default:
		panic(fmt.Sprintf("formatter: unexpected value %T", v))
	}
}

// MarshalYAML renders v as a YAML document.
func MarshalYAML(v value.Value) ([]byte, error) {
	return yaml.MarshalWithOptions(ToYAML(v), yaml.Indent(2), yaml.IndentSequence(true))
}

func diagnosticYAML(d *diagnostics.Diagnostic) yaml.MapSlice {
	out := yaml.MapSlice{
		{Key: "code", Value: string(d.Code)},
	}
	if d.Stage != "" {
		out = append(out, yaml.MapItem{Key: "stage", Value: string(d.Stage)})
	}
	if d.Severity != "" {
		out = append(out, yaml.MapItem{Key: "severity", Value: string(d.Severity)})
	}
	out = append(out,
		yaml.MapItem{Key: "label", Value: d.Label},
		yaml.MapItem{Key: "message", Value: d.Message},
	)
	if d.Secondary != nil {
		out = append(out, yaml.MapItem{Key: "secondary", Value: yaml.MapSlice{{Key: "message", Value: d.Secondary.Message}}})
	}
	return out
}

func diagnosticOrEmpty(d *diagnostics.Diagnostic) *diagnostics.Diagnostic {
	if d == nil {
		return &diagnostics.Diagnostic{}
	}
	return d
}
