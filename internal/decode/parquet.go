package decode

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/shopspring/decimal"

	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

// parquetBatchSize is the number of rows decoded per record batch.
const parquetBatchSize = 1024

// DecodeParquet yields one record per row. Nested structs become records,
// lists become tables and nulls become Nothing. Column types without a
// direct mapping are rendered with their Arrow string form.
func DecodeParquet(ctx context.Context, src *source.File, data []byte) iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		fail := func(err error) {
			yield(nil, &Error{Input: src.Name, Format: Parquet, Err: err})
		}

		pf, err := file.NewParquetReader(bytes.NewReader(data), file.WithReadProps(&parquet.ReaderProperties{}))
		if err != nil {
			fail(fmt.Errorf("failed to create parquet reader: %w", err))
			return
		}
		defer pf.Close()

		mem := memory.NewGoAllocator()
		arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: parquetBatchSize}, mem)
		if err != nil {
			fail(fmt.Errorf("failed to create arrow reader: %w", err))
			return
		}

		records, err := arrowReader.GetRecordReader(ctx, nil, nil)
		if err != nil {
			fail(fmt.Errorf("failed to read parquet data: %w", err))
			return
		}
		defer records.Release()

		tag := source.Tag{Anchor: src.Name}
		for records.Next() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			batch := records.Record()
			for row := 0; row < int(batch.NumRows()); row++ {
				fields := value.NewDictionaryWithCapacity(int(batch.NumCols()))
				for col := 0; col < int(batch.NumCols()); col++ {
					v, err := arrowValue(batch.Column(col), row, tag)
					if err != nil {
						fail(fmt.Errorf("column %q row %d: %w", batch.ColumnName(col), row, err))
						return
					}
					fields.Insert(batch.ColumnName(col), v)
				}
				if !yield(value.NewRecord(fields, tag), nil) {
					return
				}
			}
		}
		if err := records.Err(); err != nil {
			fail(fmt.Errorf("failed to read parquet data: %w", err))
		}
	}
}

func arrowValue(col arrow.Array, i int, tag source.Tag) (value.Value, error) {
	if col.IsNull(i) {
		return value.Nothing(tag), nil
	}

	switch arr := col.(type) {
	case *array.Boolean:
		return value.Bool(arr.Value(i), tag), nil
	case *array.Int8:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Int16:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Int32:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Int64:
		return value.Int(arr.Value(i), tag), nil
	case *array.Uint8:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Uint16:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Uint32:
		return value.Int(int64(arr.Value(i)), tag), nil
	case *array.Uint64:
		return value.Number(arr.Value(i), tag)
	case *array.Float32:
		return floatValue(float64(arr.Value(i)), tag), nil
	case *array.Float64:
		return floatValue(arr.Value(i), tag), nil
	case *array.String:
		return value.String(arr.Value(i), tag), nil
	case *array.LargeString:
		return value.String(arr.Value(i), tag), nil
	case *array.Binary:
		return value.Binary(arr.Value(i), tag), nil
	case *array.LargeBinary:
		return value.Binary(arr.Value(i), tag), nil
	case *array.Struct:
		structType, ok := arr.DataType().(*arrow.StructType)
		if !ok {
			return nil, fmt.Errorf("struct column has type %s", arr.DataType())
		}
		fields := value.NewDictionaryWithCapacity(arr.NumField())
		for f := 0; f < arr.NumField(); f++ {
			v, err := arrowValue(arr.Field(f), i, tag)
			if err != nil {
				return nil, err
			}
			fields.Insert(structType.Field(f).Name, v)
		}
		return value.NewRecord(fields, tag), nil
	case *array.List:
		start, end := arr.ValueOffsets(i)
		return listValue(arr.ListValues(), start, end, tag)
	case *array.LargeList:
		start, end := arr.ValueOffsets(i)
		return listValue(arr.ListValues(), start, end, tag)
	default:
		return value.String(col.ValueStr(i), tag), nil
	}
}

func listValue(values arrow.Array, start int64, end int64, tag source.Tag) (value.Value, error) {
	rows := make([]value.Value, 0, end-start)
	for j := start; j < end; j++ {
		v, err := arrowValue(values, int(j), tag)
		if err != nil {
			return nil, err
		}
		rows = append(rows, v)
	}
	return value.NewTable(rows, tag), nil
}

// floatValue keeps NaN and infinities, which have no decimal form, as text.
func floatValue(f float64, tag source.Tag) value.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.String(fmt.Sprint(f), tag)
	}
	return value.Decimal(decimal.NewFromFloat(f), tag)
}
