package get

import (
	"context"
	"fmt"
	"iter"

	"github.com/JoshCheek/nushell/internal/value"
)

// Columns drains input and returns the field names of its Record items in
// first-seen order without duplicates. Other items contribute nothing.
func Columns(ctx context.Context, input iter.Seq2[value.Value, error]) ([]string, error) {
	union := value.NewDictionary()

	for item, err := range input {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch current := item.(type) {
		case *value.Record:
			for name, v := range current.Fields() {
				union.InsertMissing(name, v)
			}
		case *value.Table, *value.Scalar, *value.Error:
		default:
			panic(fmt.Sprintf("get: unexpected value variant %T", item))
		}
	}

	return union.Names(), nil
}
