package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/garantias-api/internal/application/dto"
)

// ReportCache caché del reporte de fallas. Un fallo de la caché nunca falla la consulta.
type ReportCache interface {
	Get(ctx context.Context, key string) (*dto.FailureAnalyticsDTO, bool, error)
	Set(ctx context.Context, key string, value *dto.FailureAnalyticsDTO, ttl time.Duration) error
}
