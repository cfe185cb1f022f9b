package http

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garantias-api/internal/domain"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("from", "", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDate("from", "2026-03-10", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseDate("to", "2026-03-10", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 999999999, time.UTC), *got)

	got, err = parseDate("date", "2026-03-10T15:04:05-05:00", true)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 10, 20, 4, 5, 0, time.UTC)))

	_, err = parseDate("date", "10/03/2026", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Invalid("x", "y"), 400, "VALIDATION"},
		{domain.ErrWarrantyExpired, 400, "WARRANTY_EXPIRED"},
		{domain.ErrNotFound, 404, "NOT_FOUND"},
		{&domain.StockError{Err: domain.ErrInsufficientStock}, 409, "INSUFFICIENT_STOCK"},
		{&domain.StockError{Err: domain.ErrInvalidStockOperation}, 409, "INVALID_STOCK_OPERATION"},
		{domain.Storage("run", domain.ErrConcurrentModification), 409, "CONCURRENT_MODIFICATION"},
		{domain.Storage("commit", errors.New("conexión perdida")), 503, "STORAGE"},
		{errors.New("otro"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, code)
	}
}
