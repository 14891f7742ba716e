package decode

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/JoshCheek/nushell/internal/source"
	"github.com/JoshCheek/nushell/internal/value"
)

func writeParquet(t *testing.T) []byte {
	t.Helper()

	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "size", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float64},
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"a", "b"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 0}, []bool{true, false})
	builder.Field(2).(*array.Float64Builder).AppendValues([]float64{0.5, 2}, nil)

	tags := builder.Field(3).(*array.ListBuilder)
	tagValues := tags.ValueBuilder().(*array.StringBuilder)
	tags.Append(true)
	tagValues.AppendValues([]string{"x", "y"}, nil)
	tags.Append(true)

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(table, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestDecodeParquet(t *testing.T) {
	t.Parallel()

	data := writeParquet(t)
	got, err := drain(t, DecodeParquet(context.Background(), source.NewFile("in.parquet", ""), data))
	require.NoError(t, err)

	requireValues(t, got,
		rec(
			"name", value.String("a", tag),
			"size", value.Int(1, tag),
			"ratio", value.Decimal(decimal.RequireFromString("0.5"), tag),
			"tags", value.NewTable([]value.Value{value.String("x", tag), value.String("y", tag)}, tag),
		),
		rec(
			"name", value.String("b", tag),
			"size", value.Nothing(tag),
			"ratio", value.Decimal(decimal.NewFromInt(2), tag),
			"tags", value.NewTable(nil, tag),
		),
	)
}

func TestStreamDetectsParquetByMagic(t *testing.T) {
	t.Parallel()

	data := writeParquet(t)
	got, err := drain(t, Stream(context.Background(), source.NewFiles(), Input{Name: "stdin", Reader: bytes.NewReader(data)}, Auto))
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestDecodeParquetRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := drain(t, DecodeParquet(context.Background(), source.NewFile("in.parquet", ""), []byte("PAR1 not really")))
	require.ErrorIs(t, err, ErrDecode)
}
