// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

func testSummary() types.RunSummary {
	return types.RunSummary{
		Document:  "sheet.pdf",
		Model:     "gpt-4o",
		Mode:      types.ModeExtract,
		Succeeded: 2,
		Failed:    1,
		Pages: []types.PageResult{
			{Index: 1, OK: true, Bytes: 150},
			{Index: 2, OK: false, Error: "inference endpoint returned 502"},
			{Index: 3, OK: true, Bytes: 90},
		},
	}
}

func TestRecordAndShow(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	cfg := types.RunConfig{
		ClientConfig: types.ClientConfig{Model: "gpt-4o"},
		DocumentPath: "sheet.pdf",
		Mode:         types.ModeExtract,
	}
	startedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	id, err := store.Record(context.Background(), cfg, startedAt, testSummary())
	require.NoError(t, err)
	require.NotZero(t, id)

	record, pages, err := store.Show(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "sheet.pdf", record.Document)
	assert.Equal(t, "gpt-4o", record.Model)
	assert.Equal(t, "extract", record.Mode)
	assert.Equal(t, "2026-03-14T09:30:00Z", record.StartedAt)
	assert.Equal(t, 3, record.PagesTotal)
	assert.Equal(t, 2, record.PagesOK)

	require.Len(t, pages, 3)
	assert.True(t, pages[0].OK)
	assert.False(t, pages[1].OK)
	assert.Contains(t, pages[1].Error, "502")
	assert.Equal(t, 90, pages[2].Bytes)
}

func TestListNewestFirst(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	cfg := types.RunConfig{DocumentPath: "a.pdf", Mode: types.ModeExtract}
	_, err = store.Record(context.Background(), cfg, time.Now(), testSummary())
	require.NoError(t, err)

	cfg.DocumentPath = "b.pdf"
	_, err = store.Record(context.Background(), cfg, time.Now(), testSummary())
	require.NoError(t, err)

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b.pdf", records[0].Document)
	assert.Equal(t, "a.pdf", records[1].Document)
}

func TestListLimit(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	cfg := types.RunConfig{DocumentPath: "a.pdf", Mode: types.ModeExtract}
	for i := 0; i < 5; i++ {
		_, err = store.Record(context.Background(), cfg, time.Now(), testSummary())
		require.NoError(t, err)
	}

	records, err := store.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestShowUnknownRun(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.Show(context.Background(), 999)
	assert.ErrorContains(t, err, "not found")
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), types.RunConfig{DocumentPath: "a.pdf"}, time.Now(), testSummary())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening keeps the existing rows.
	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()
	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
