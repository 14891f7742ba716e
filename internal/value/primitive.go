package value

import (
	"bytes"
	"encoding/base64"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JoshCheek/nushell/internal/source"
)

// PrimitiveKind tags which field of a Primitive is meaningful.
type PrimitiveKind uint8

const (
	KindNothing PrimitiveKind = iota
	KindBoolean
	KindInt
	KindDecimal
	KindString
	KindBinary
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindNothing:
		return "nothing"
	case KindBoolean:
		return "bool"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Primitive is atomic data. Only the field matching Kind should be read;
// the others stay at their zero values.
type Primitive struct {
	Kind PrimitiveKind

	B     bool            // KindBoolean
	I64   int64           // KindInt
	Dec   decimal.Decimal // KindDecimal
	S     string          // KindString
	Bytes []byte          // KindBinary
}

// DecimalPrimitive builds a decimal primitive.
func DecimalPrimitive(d decimal.Decimal) Primitive {
	return Primitive{Kind: KindDecimal, Dec: d}
}

// Equal compares kind and payload. Int and Decimal holding the same number
// are different primitives.
func (p Primitive) Equal(other Primitive) bool {
	if p.Kind != other.Kind {
		return false
	}

	switch p.Kind {
	case KindNothing:
		return true
	case KindBoolean:
		return p.B == other.B
	case KindInt:
		return p.I64 == other.I64
	case KindDecimal:
		return p.Dec.Equal(other.Dec)
	case KindString:
		return p.S == other.S
	case KindBinary:
		return bytes.Equal(p.Bytes, other.Bytes)
	default:
		return false
	}
}

// Text renders the primitive the way it is printed as a bare output line.
func (p Primitive) Text() string {
	switch p.Kind {
	case KindNothing:
		return ""
	case KindBoolean:
		return strconv.FormatBool(p.B)
	case KindInt:
		return strconv.FormatInt(p.I64, 10)
	case KindDecimal:
		return p.Dec.String()
	case KindString:
		return p.S
	case KindBinary:
		return base64.StdEncoding.EncodeToString(p.Bytes)
	default:
		return ""
	}
}

// Decimal wraps an arbitrary-precision decimal.
func Decimal(d decimal.Decimal, tag source.Tag) *Scalar {
	return NewScalar(DecimalPrimitive(d), tag)
}
