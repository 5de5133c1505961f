package metadata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected Value
	}{
		{"nil", nil, Null()},
		{"Value passthrough", Int(1), Int(1)},
		{"bool", true, Bool(true)},
		{"string", "plate_1", String("plate_1")},
		{"float64", 3.5, Float(3.5)},
		{"float32", float32(1.5), Float(1.5)},
		{"int", 7, Int(7)},
		{"int32", int32(7), Int(7)},
		{"uint16", uint16(7), Int(7)},
		{"uint32 max", uint32(math.MaxUint32), Int(int64(math.MaxUint32))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromAny(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestFromAnyLabelSets(t *testing.T) {
	v, err := FromAny([]string{"taxol", "nocodazole"})
	require.NoError(t, err)
	arr, ok := v.AsArray()
	require.True(t, ok)
	assert.Equal(t, []Value{String("taxol"), String("nocodazole")}, arr)

	v, err = FromAny([]any{"a", 1, nil})
	require.NoError(t, err)
	arr, _ = v.AsArray()
	assert.Equal(t, []Value{String("a"), Int(1), Null()}, arr)

	v, err = FromAny([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind)

	v, err = FromAny([]float64{0.5})
	require.NoError(t, err)
	assert.Equal(t, KindArray, v.Kind)
}

func TestFromAnyErrors(t *testing.T) {
	_, err := FromAny(uint64(math.MaxUint32 + 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = FromAny(make(chan int))
	assert.Error(t, err)

	_, err = FromAny([]any{struct{}{}})
	assert.Error(t, err)
}

func TestDocumentFromAny(t *testing.T) {
	doc, err := DocumentFromAny(map[string]any{"plate": "p1", "row": 3})
	require.NoError(t, err)
	assert.Equal(t, String("p1"), doc["plate"])
	assert.Equal(t, Int(3), doc["row"])

	_, err = DocumentFromAny(map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "bad"`)
}
