package storage

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/nasbench/pkg/nasbench"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := NewArchive(filepath.Join(t.TempDir(), "archive"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func testRecord(lo uint64, epochs uint8) *nasbench.RawRecord {
	return &nasbench.RawRecord{
		ModuleHash: nasbench.ModuleHash{Lo: lo},
		Epochs:     epochs,
		Adjacency:  [][]bool{{false, true}, {false, false}},
		Operations: []nasbench.Op{nasbench.OpInput, nasbench.OpOutput},
		Metrics:    "CgQIAhAF",
	}
}

func TestArchive_PutGet(t *testing.T) {
	a := newTestArchive(t)
	importID := NewImportID()
	record := testRecord(1, 108)

	require.NoError(t, a.Put(importID, record))

	entry, err := a.Get(record.ModuleHash)
	require.NoError(t, err)
	assert.Equal(t, importID, entry.ImportID)
	assert.Equal(t, record, entry.Record)
}

func TestArchive_GetMissing(t *testing.T) {
	a := newTestArchive(t)

	entry, err := a.Get(nasbench.ModuleHash{Hi: 1})
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_PutBatchAndCount(t *testing.T) {
	a := newTestArchive(t)

	count, err := a.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	first := NewImportID()
	require.NoError(t, a.PutBatch(first, []*nasbench.RawRecord{
		testRecord(1, 4), testRecord(2, 12), testRecord(3, 36),
	}))

	count, err = a.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// A later import replaces records with the same hash
	second := NewImportID()
	require.NoError(t, a.PutBatch(second, []*nasbench.RawRecord{testRecord(2, 108)}))

	count, err = a.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entry, err := a.Get(nasbench.ModuleHash{Lo: 2})
	require.NoError(t, err)
	assert.Equal(t, second, entry.ImportID)
	assert.Equal(t, uint8(108), entry.Record.Epochs)
}

func TestArchive_PutNil(t *testing.T) {
	a := newTestArchive(t)
	assert.Error(t, a.Put(ksuid.New(), nil))
	assert.Error(t, a.PutBatch(ksuid.New(), []*nasbench.RawRecord{nil}))
}

func TestArchive_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")

	a, err := NewArchive(dir)
	require.NoError(t, err)
	require.NoError(t, a.PutBatch(NewImportID(), []*nasbench.RawRecord{testRecord(7, 4)}))
	require.NoError(t, a.Close())

	a, err = NewArchive(dir)
	require.NoError(t, err)
	defer a.Close()

	entry, err := a.Get(nasbench.ModuleHash{Lo: 7})
	require.NoError(t, err)
	assert.Equal(t, uint8(4), entry.Record.Epochs)
}
