package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(id string) *dto.AnalysisResult {
	fields := dto.NewFieldSet(map[dto.FieldName]float64{
		dto.TotalAssets:        1500000,
		dto.CurrentAssets:      500000,
		dto.CurrentLiabilities: 200000,
	})
	rs := dto.NewRatioSet(fields)
	v := 2.5
	rs.Set(dto.CategoryLiquidity, "current_ratio", &v, false)
	rs.Set(dto.CategoryLiquidity, "cash_ratio", nil, false)
	rs.Normalize()
	rs.Interpretation["current_ratio"] = "Strong"

	return &dto.AnalysisResult{
		ID:            id,
		Filename:      "statement.pdf",
		DocType:       dto.DocTypePDF,
		Ratios:        rs,
		MissingFields: fields.Missing(),
		Plausible:     true,
		ProcessedAt:   time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, sampleResult("a")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "statement.pdf", got.Filename)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), ErrNotFound)
}

func TestMemoryStore_RejectsMissingID(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.Put(context.Background(), &dto.AnalysisResult{}))
	assert.Error(t, store.Put(context.Background(), nil))
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, sampleResult("b")))

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	assert.True(t, got.Plausible)
	assert.True(t, got.ProcessedAt.Equal(time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC)))

	require.NotNil(t, got.Ratios)
	cr, ok := got.Ratios.Get(dto.CategoryLiquidity, "current_ratio")
	require.True(t, ok)
	require.NotNil(t, cr)
	assert.InDelta(t, 2.5, *cr, 1e-9)

	cash, ok := got.Ratios.Get(dto.CategoryLiquidity, "cash_ratio")
	assert.True(t, ok)
	assert.Nil(t, cash)

	assert.Equal(t, "Strong", got.Ratios.Interpretation["current_ratio"])
	ta, ok := got.Ratios.ExtractedNumbers.Get(dto.TotalAssets)
	assert.True(t, ok)
	assert.Equal(t, 1500000.0, ta)
	assert.True(t, got.Ratios.Normalized())
}

func TestBadgerStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, sampleResult("c")))
	require.NoError(t, store.Delete(ctx, "c"))
	_, err = store.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}
