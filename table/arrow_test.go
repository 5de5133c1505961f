package table

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlateRecord(t *testing.T) arrow.Record {
	t.Helper()
	alloc := memory.NewGoAllocator()

	schema := arrow.NewSchema(
		[]arrow.Field{
			{Name: "id", Type: arrow.BinaryTypes.String, Nullable: false},
			{Name: "plate", Type: arrow.BinaryTypes.String, Nullable: true},
			{Name: "dose", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
			{Name: "row", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
			{Name: "control", Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
			{Name: "moa", Type: arrow.ListOf(arrow.BinaryTypes.String), Nullable: true},
		},
		nil,
	)

	idBuilder := array.NewStringBuilder(alloc)
	defer idBuilder.Release()
	idBuilder.AppendValues([]string{"s0", "s1", "s2"}, nil)
	idArr := idBuilder.NewArray()
	defer idArr.Release()

	plateBuilder := array.NewStringBuilder(alloc)
	defer plateBuilder.Release()
	plateBuilder.Append("p1")
	plateBuilder.AppendNull()
	plateBuilder.Append("p2")
	plateArr := plateBuilder.NewArray()
	defer plateArr.Release()

	doseBuilder := array.NewFloat64Builder(alloc)
	defer doseBuilder.Release()
	doseBuilder.AppendValues([]float64{0.1, 1, 10}, nil)
	doseArr := doseBuilder.NewArray()
	defer doseArr.Release()

	rowBuilder := array.NewInt32Builder(alloc)
	defer rowBuilder.Release()
	rowBuilder.AppendValues([]int32{1, 2, 3}, nil)
	rowArr := rowBuilder.NewArray()
	defer rowArr.Release()

	ctrlBuilder := array.NewBooleanBuilder(alloc)
	defer ctrlBuilder.Release()
	ctrlBuilder.AppendValues([]bool{true, false, false}, nil)
	ctrlArr := ctrlBuilder.NewArray()
	defer ctrlArr.Release()

	moaBuilder := array.NewListBuilder(alloc, arrow.BinaryTypes.String)
	defer moaBuilder.Release()
	labels := moaBuilder.ValueBuilder().(*array.StringBuilder)
	moaBuilder.Append(true)
	labels.Append("taxol")
	labels.Append("dmso")
	moaBuilder.Append(true)
	labels.Append("dmso")
	moaBuilder.AppendNull()
	moaArr := moaBuilder.NewArray()
	defer moaArr.Release()

	rec := array.NewRecord(schema, []arrow.Array{idArr, plateArr, doseArr, rowArr, ctrlArr, moaArr}, 3)
	t.Cleanup(rec.Release)
	return rec
}

func TestFromArrow(t *testing.T) {
	rec := newPlateRecord(t)

	tbl, err := FromArrow(rec, WithIndexColumn("id"))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"plate", "dose", "row", "control", "moa"}, tbl.Columns())
	assert.Equal(t, "s1", tbl.Index()[1].StringValue())

	assert.Equal(t, "p1", tbl.Value("plate", 0).StringValue())
	assert.True(t, tbl.Value("plate", 1).IsMissing())

	dose, ok := tbl.Value("dose", 2).AsFloat64()
	require.True(t, ok)
	assert.InDelta(t, 10.0, dose, 1e-12)

	row, ok := tbl.Value("row", 0).AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), row)

	ctrl, ok := tbl.Value("control", 0).AsBool()
	require.True(t, ok)
	assert.True(t, ctrl)

	moa, ok := tbl.Value("moa", 0).AsArray()
	require.True(t, ok)
	require.Len(t, moa, 2)
	assert.Equal(t, "taxol", moa[0].StringValue())
	assert.True(t, tbl.Value("moa", 2).IsMissing())
}

func TestFromArrowColumns(t *testing.T) {
	rec := newPlateRecord(t)

	tbl, err := FromArrow(rec, WithArrowColumns("moa", "plate"))
	require.NoError(t, err)
	assert.Equal(t, []string{"moa", "plate"}, tbl.Columns())
	assert.Equal(t, int64(2), tbl.Index()[2].I64)

	_, err = FromArrow(rec, WithArrowColumns("plate", "batch"))
	var uce *UnknownColumnError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, []string{"batch"}, uce.Columns)

	_, err = FromArrow(rec, WithIndexColumn("missing"))
	require.True(t, errors.As(err, &uce))
}
