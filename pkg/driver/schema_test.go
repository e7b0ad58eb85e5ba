package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptorFeed(descs []ColumnDescriptor, failAt int, failWith error) func() (*ColumnDescriptor, error) {
	i := 0
	return func() (*ColumnDescriptor, error) {
		if failWith != nil && i == failAt {
			return nil, failWith
		}
		if i >= len(descs) {
			return nil, nil
		}
		d := descs[i]
		i++
		return &d, nil
	}
}

func TestColumnIterWalk(t *testing.T) {
	descs := []ColumnDescriptor{
		{Ordinal: 0, Name: "dateTime", Type: "INTEGER", IsPrimary: true},
		{Ordinal: 1, Name: "usUnits", Type: "INTEGER"},
		{Ordinal: 2, Name: "outTemp", Type: "REAL", Nullable: true},
	}

	released := false
	it := NewColumnIter(descriptorFeed(descs, -1, nil), func() error {
		released = true
		return nil
	})

	var got []ColumnDescriptor
	for it.Next() {
		got = append(got, it.Descriptor())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, descs, got)
	assert.True(t, released, "iterator releases its handle at end of pass")

	// The pass is single-use.
	assert.False(t, it.Next())
}

func TestColumnIterCollect(t *testing.T) {
	descs := []ColumnDescriptor{
		{Ordinal: 0, Name: "id", Type: "INTEGER", IsPrimary: true},
		{Ordinal: 1, Name: "name", Type: "TEXT", Nullable: true},
	}

	it := NewColumnIter(descriptorFeed(descs, -1, nil), nil)
	got, err := it.Collect()
	require.NoError(t, err)
	assert.Equal(t, descs, got)
}

func TestColumnIterError(t *testing.T) {
	descs := []ColumnDescriptor{
		{Ordinal: 0, Name: "id"},
		{Ordinal: 1, Name: "name"},
	}
	boom := errors.New("catalog read failed")

	released := false
	it := NewColumnIter(descriptorFeed(descs, 1, boom), func() error {
		released = true
		return nil
	})

	assert.True(t, it.Next())
	assert.False(t, it.Next())
	assert.Equal(t, boom, it.Err())
	assert.True(t, released, "iterator releases its handle on error")

	_, err := NewColumnIter(descriptorFeed(descs, 0, boom), nil).Collect()
	assert.Equal(t, boom, err)
}

func TestColumnIterEarlyClose(t *testing.T) {
	descs := []ColumnDescriptor{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	releases := 0
	it := NewColumnIter(descriptorFeed(descs, -1, nil), func() error {
		releases++
		return nil
	})

	require.True(t, it.Next())
	require.NoError(t, it.Close())
	assert.False(t, it.Next(), "a closed iterator yields nothing")
	require.NoError(t, it.Close())
	assert.Equal(t, 1, releases, "release happens once")
}

func TestColumnIterEmpty(t *testing.T) {
	it := NewColumnIter(descriptorFeed(nil, -1, nil), nil)
	got, err := it.Collect()
	require.NoError(t, err)
	assert.Empty(t, got)
}
