package rowindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alxndrkalinin/copairs/metadata"
)

func TestIndexer(t *testing.T) {
	labels := []metadata.Value{metadata.String("w3"), metadata.String("w1"), metadata.Int(7)}

	idx, err := New(labels)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []ID{0, 1, 2}, idx.All())
	assert.Equal(t, "w1", idx.Label(1).StringValue())

	id, ok := idx.Lookup(metadata.Int(7))
	require.True(t, ok)
	assert.Equal(t, ID(2), id)

	_, ok = idx.Lookup(metadata.String("w2"))
	assert.False(t, ok)
}

func TestIndexerDuplicate(t *testing.T) {
	_, err := New([]metadata.Value{metadata.Int(1), metadata.Int(2), metadata.Float(1)})

	var dup *DuplicateIndexError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)
}

func TestIndexerMissing(t *testing.T) {
	_, err := New([]metadata.Value{metadata.Int(1), metadata.Null()})

	var miss *MissingIndexError
	require.True(t, errors.As(err, &miss))
	assert.Equal(t, 1, miss.Row)
}

func TestIndexerEmpty(t *testing.T) {
	idx, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.All())
}
