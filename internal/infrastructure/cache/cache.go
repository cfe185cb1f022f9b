// Package cache guarda reportes de analítica de fallas. Sin Redis configurado se usa NoopReportCache.
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/application/analytics"
	"github.com/jhoicas/garantias-api/internal/application/dto"
)

var (
	_ analytics.ReportCache = NoopReportCache{}
	_ analytics.ReportCache = (*RedisReportCache)(nil)
)

// NoopReportCache no guarda nada; se usa cuando no hay Redis configurado.
type NoopReportCache struct{}

// Get siempre reporta ausencia.
func (NoopReportCache) Get(_ context.Context, _ string) (*dto.FailureAnalyticsDTO, bool, error) {
	return nil, false, nil
}

// Set descarta el valor.
func (NoopReportCache) Set(_ context.Context, _ string, _ *dto.FailureAnalyticsDTO, _ time.Duration) error {
	return nil
}
