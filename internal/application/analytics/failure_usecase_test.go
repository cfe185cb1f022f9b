package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/garantias-api/internal/application/dto"
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/infrastructure/memory"
)

var day = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

type mapCache struct {
	mu   sync.Mutex
	data map[string]*dto.FailureAnalyticsDTO
	gets int
	err  error
}

func (c *mapCache) Get(_ context.Context, key string) (*dto.FailureAnalyticsDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return nil, false, c.err
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, v *dto.FailureAnalyticsDTO, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = v
	return nil
}

func addRecord(t *testing.T, st *memory.Store, branch, product, customer string, kind entity.RecordKind, refund int64, at time.Time) {
	t.Helper()
	rec := &entity.ReturnRecord{
		Branch:       branch,
		ProductID:    product,
		ProductName:  "Producto " + product,
		CustomerID:   customer,
		CustomerName: "Cliente " + customer,
		Kind:         kind,
		Quantity:     1,
		ProcessedAt:  at,
	}
	if kind == entity.KindReturn {
		m := entity.RefundCash
		amt := decimal.NewFromInt(refund)
		rec.RefundMethod = &m
		rec.RefundAmount = &amt
	}
	require.NoError(t, st.Ledgers().Records.Create(context.Background(), rec))
}

func ptr(t time.Time) *time.Time { return &t }

func TestGetFailureAnalytics_SinRegistrosDevuelveVacio(t *testing.T) {
	st := memory.New()
	uc := NewFailureUseCase(st, nil, 0, zerolog.Nop())

	report, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{Branch: "B1", From: ptr(day), To: ptr(day.AddDate(0, 1, 0))})
	require.NoError(t, err)

	assert.NotNil(t, report.ByProduct)
	assert.NotNil(t, report.ByBranch)
	assert.NotNil(t, report.ByCustomer)
	assert.NotNil(t, report.ByCustomerProduct)
	assert.Empty(t, report.ByProduct)
	assert.Empty(t, report.ByBranch)
	assert.Empty(t, report.ByCustomer)
	assert.Empty(t, report.ByCustomerProduct)
	assert.Equal(t, 0, report.Summary.TotalEvents)
	assert.True(t, report.Summary.TotalRefunded.IsZero())
	assert.True(t, report.Summary.AverageRefund.IsZero())
}

func TestGetFailureAnalytics_Cortes(t *testing.T) {
	st := memory.New()
	addRecord(t, st, "B1", "P1", "C1", entity.KindReturn, 80, day.Add(1*time.Hour))
	addRecord(t, st, "B1", "P1", "C1", entity.KindReplacement, 0, day.Add(2*time.Hour))
	addRecord(t, st, "B1", "P2", "C2", entity.KindReturn, 40, day.Add(3*time.Hour))
	addRecord(t, st, "B2", "P1", "C2", entity.KindReturn, 30, day.Add(4*time.Hour))
	addRecord(t, st, "B2", "P3", "", entity.KindReplacement, 0, day.Add(5*time.Hour))
	// fuera de rango
	addRecord(t, st, "B1", "P9", "C9", entity.KindReturn, 999, day.AddDate(0, 2, 0))

	uc := NewFailureUseCase(st, nil, 0, zerolog.Nop())
	report, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{From: ptr(day), To: ptr(day.AddDate(0, 0, 7))})
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 5, s.TotalEvents)
	assert.Equal(t, 3, s.Returns)
	assert.Equal(t, 2, s.Replacements)
	assert.Equal(t, 3, s.DistinctProducts)
	assert.Equal(t, 2, s.DistinctCustomers)
	assert.Equal(t, 2, s.DistinctBranches)
	assert.True(t, s.TotalRefunded.Equal(decimal.NewFromInt(150)))
	assert.True(t, s.AverageRefund.Equal(decimal.NewFromInt(50)))

	require.Len(t, report.ByProduct, 3)
	assert.Equal(t, "P1", report.ByProduct[0].ProductID)
	assert.Equal(t, 3, report.ByProduct[0].TotalEvents)
	assert.Equal(t, 2, report.ByProduct[0].Returns)
	assert.Equal(t, 1, report.ByProduct[0].Replacements)
	assert.True(t, report.ByProduct[0].TotalRefunded.Equal(decimal.NewFromInt(110)))

	require.Len(t, report.ByBranch, 2)
	assert.Equal(t, "B1", report.ByBranch[0].Branch)
	assert.Equal(t, 3, report.ByBranch[0].TotalEvents)
	assert.Equal(t, 2, report.ByBranch[0].DistinctProducts)
	assert.Equal(t, 2, report.ByBranch[0].DistinctCustomers)
	assert.Equal(t, 1, report.ByBranch[1].DistinctCustomers)

	require.Len(t, report.ByCustomer, 2)
	assert.Equal(t, "C1", report.ByCustomer[0].CustomerID)
	assert.Equal(t, 2, report.ByCustomer[0].TotalEvents)
	assert.True(t, report.ByCustomer[0].LastFailureAt.Equal(day.Add(2*time.Hour)))
	assert.Equal(t, "C2", report.ByCustomer[1].CustomerID)
	assert.True(t, report.ByCustomer[1].LastFailureAt.Equal(day.Add(4*time.Hour)))

	require.Len(t, report.ByCustomerProduct, 3)
	assert.Equal(t, "C1", report.ByCustomerProduct[0].CustomerID)
	assert.Equal(t, "P1", report.ByCustomerProduct[0].ProductID)
	assert.Equal(t, 2, report.ByCustomerProduct[0].FailureCount)

	b2, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{Branch: "B2", From: ptr(day), To: ptr(day.AddDate(0, 0, 7))})
	require.NoError(t, err)
	assert.Equal(t, 2, b2.Summary.TotalEvents)
	assert.Equal(t, 1, b2.Summary.DistinctBranches)
}

func TestGetFailureAnalytics_TopProductosLimitadoA10(t *testing.T) {
	st := memory.New()
	for i := 0; i < 15; i++ {
		addRecord(t, st, "B1", fmt.Sprintf("P%02d", i), "C1", entity.KindReplacement, 0, day)
	}
	uc := NewFailureUseCase(st, nil, 0, zerolog.Nop())
	report, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{})
	require.NoError(t, err)
	assert.Len(t, report.ByProduct, 10)
	assert.Equal(t, 15, report.Summary.TotalEvents)
	assert.Len(t, report.ByCustomerProduct, 15)
}

func TestGetFailureAnalytics_RangoInvertido(t *testing.T) {
	uc := NewFailureUseCase(memory.New(), nil, 0, zerolog.Nop())
	_, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{From: ptr(day.AddDate(0, 0, 1)), To: ptr(day)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetFailureAnalytics_UsaCache(t *testing.T) {
	st := memory.New()
	addRecord(t, st, "B1", "P1", "C1", entity.KindReturn, 10, day)
	cache := &mapCache{data: map[string]*dto.FailureAnalyticsDTO{}}
	uc := NewFailureUseCase(st, cache, time.Minute, zerolog.Nop())
	q := FailureQuery{Branch: "B1", From: ptr(day.Add(-time.Hour)), To: ptr(day.Add(time.Hour))}

	first, err := uc.GetFailureAnalytics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Summary.TotalEvents)

	// un registro nuevo no se ve mientras dure el TTL
	addRecord(t, st, "B1", "P1", "C1", entity.KindReturn, 10, day)
	second, err := uc.GetFailureAnalytics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.TotalEvents)
	assert.Equal(t, 2, cache.gets)
}

func TestGetFailureAnalytics_CacheCaidaNoFallaLaConsulta(t *testing.T) {
	st := memory.New()
	addRecord(t, st, "B1", "P1", "C1", entity.KindReturn, 10, day)
	cache := &mapCache{data: map[string]*dto.FailureAnalyticsDTO{}, err: errors.New("redis caído")}
	uc := NewFailureUseCase(st, cache, time.Minute, zerolog.Nop())

	report, err := uc.GetFailureAnalytics(context.Background(), FailureQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.TotalEvents)
}
