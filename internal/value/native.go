package value

import (
	"fmt"

	"github.com/JoshCheek/nushell/internal/number"
	"github.com/JoshCheek/nushell/internal/source"
)

// Number converts a decoded native number into an Int scalar when it is
// integral and fits in int64, and a Decimal scalar otherwise.
func Number(native any, tag source.Tag) (*Scalar, error) {
	if integer, ok := number.ToInt64(native); ok {
		return Int(integer, tag), nil
	}
	d, err := number.ToDecimal(native)
	if err != nil {
		return nil, fmt.Errorf("convert number: %w", err)
	}
	return Decimal(d, tag), nil
}
