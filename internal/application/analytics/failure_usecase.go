// Package analytics contiene la analítica de fallas sobre devoluciones y reemplazos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/garantias-api/internal/application/dto"
	"github.com/jhoicas/garantias-api/internal/domain"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

const (
	topProductsLimit  = 10
	topCustomersLimit = 20
)

// FailureQuery filtro de la consulta. From/To nil = sin límite inferior / hasta ahora.
type FailureQuery struct {
	Branch string
	From   *time.Time
	To     *time.Time
}

// FailureUseCase arma los cinco cortes de la analítica de fallas en paralelo.
//
// Fuente de datos: FailureAnalyticsRepository (consultas read-only sobre return_records).
// El rango se evalúa contra processed_at, inclusivo en ambos extremos.
type FailureUseCase struct {
	repo  repository.FailureAnalyticsRepository
	cache ReportCache
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

// NewFailureUseCase construye el caso de uso. cache puede ser nil; ttl <= 0 desactiva la caché.
func NewFailureUseCase(repo repository.FailureAnalyticsRepository, cache ReportCache, ttl time.Duration, log zerolog.Logger) *FailureUseCase {
	return &FailureUseCase{repo: repo, cache: cache, ttl: ttl, log: log, now: time.Now}
}

// GetFailureAnalytics devuelve resumen, top productos, sucursales, top clientes y cruce cliente × producto.
// Sin registros en el rango devuelve listas vacías y resumen en cero.
func (uc *FailureUseCase) GetFailureAnalytics(ctx context.Context, q FailureQuery) (*dto.FailureAnalyticsDTO, error) {
	filter := repository.FailureFilter{Branch: q.Branch, From: time.Unix(0, 0).UTC(), To: uc.now().UTC()}
	if q.From != nil {
		filter.From = q.From.UTC()
	}
	if q.To != nil {
		filter.To = q.To.UTC()
	}
	if filter.From.After(filter.To) {
		return nil, domain.Invalid("from", "debe ser anterior a to")
	}

	key := cacheKey(q)
	if report, ok := uc.cached(ctx, key); ok {
		return report, nil
	}

	// ── Goroutines para paralelizar las 5 consultas ──────────────────────────
	type productsResult struct {
		rows []repository.ProductFailureResult
		err  error
	}
	type branchesResult struct {
		rows []repository.BranchFailureResult
		err  error
	}
	type customersResult struct {
		rows []repository.CustomerFailureResult
		err  error
	}
	type pairsResult struct {
		rows []repository.CustomerProductFailureResult
		err  error
	}
	type summaryResult struct {
		sum repository.FailureSummaryResult
		err error
	}

	productsCh := make(chan productsResult, 1)
	branchesCh := make(chan branchesResult, 1)
	customersCh := make(chan customersResult, 1)
	pairsCh := make(chan pairsResult, 1)
	summaryCh := make(chan summaryResult, 1)

	go func() {
		rows, err := uc.repo.TopProducts(ctx, filter, topProductsLimit)
		productsCh <- productsResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.ByBranch(ctx, filter)
		branchesCh <- branchesResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.TopCustomers(ctx, filter, topCustomersLimit)
		customersCh <- customersResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.ByCustomerProduct(ctx, filter)
		pairsCh <- pairsResult{rows, err}
	}()
	go func() {
		sum, err := uc.repo.Summary(ctx, filter)
		summaryCh <- summaryResult{sum, err}
	}()

	products := <-productsCh
	branches := <-branchesCh
	customers := <-customersCh
	pairs := <-pairsCh
	summary := <-summaryCh

	if products.err != nil {
		return nil, fmt.Errorf("analítica: top productos: %w", products.err)
	}
	if branches.err != nil {
		return nil, fmt.Errorf("analítica: por sucursal: %w", branches.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("analítica: top clientes: %w", customers.err)
	}
	if pairs.err != nil {
		return nil, fmt.Errorf("analítica: cliente × producto: %w", pairs.err)
	}
	if summary.err != nil {
		return nil, fmt.Errorf("analítica: resumen: %w", summary.err)
	}

	report := &dto.FailureAnalyticsDTO{
		Branch: q.Branch,
		From:   filter.From,
		To:     filter.To,
		Summary: dto.FailureSummaryDTO{
			TotalEvents:       summary.sum.TotalEvents,
			DistinctProducts:  summary.sum.DistinctProducts,
			DistinctCustomers: summary.sum.DistinctCustomers,
			DistinctBranches:  summary.sum.DistinctBranches,
			Returns:           summary.sum.Returns,
			Replacements:      summary.sum.Replacements,
			TotalRefunded:     summary.sum.TotalRefunded.Round(2),
			AverageRefund:     summary.sum.AverageRefund.Round(2),
		},
		ByProduct:         make([]dto.ProductFailureDTO, 0, len(products.rows)),
		ByBranch:          make([]dto.BranchFailureDTO, 0, len(branches.rows)),
		ByCustomer:        make([]dto.CustomerFailureDTO, 0, len(customers.rows)),
		ByCustomerProduct: make([]dto.CustomerProductFailureDTO, 0, len(pairs.rows)),
	}
	for _, r := range products.rows {
		report.ByProduct = append(report.ByProduct, dto.ProductFailureDTO{
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			TotalEvents:   r.TotalEvents,
			Returns:       r.Returns,
			Replacements:  r.Replacements,
			TotalRefunded: r.TotalRefunded.Round(2),
		})
	}
	for _, r := range branches.rows {
		report.ByBranch = append(report.ByBranch, dto.BranchFailureDTO{
			Branch:            r.Branch,
			TotalEvents:       r.TotalEvents,
			DistinctProducts:  r.DistinctProducts,
			DistinctCustomers: r.DistinctCustomers,
			TotalRefunded:     r.TotalRefunded.Round(2),
		})
	}
	for _, r := range customers.rows {
		report.ByCustomer = append(report.ByCustomer, dto.CustomerFailureDTO{
			CustomerID:    r.CustomerID,
			CustomerName:  r.CustomerName,
			TotalEvents:   r.TotalEvents,
			LastFailureAt: r.LastFailureAt,
			TotalRefunded: r.TotalRefunded.Round(2),
		})
	}
	for _, r := range pairs.rows {
		report.ByCustomerProduct = append(report.ByCustomerProduct, dto.CustomerProductFailureDTO{
			CustomerID:    r.CustomerID,
			CustomerName:  r.CustomerName,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			FailureCount:  r.FailureCount,
			LastFailureAt: r.LastFailureAt,
			TotalRefunded: r.TotalRefunded.Round(2),
		})
	}

	uc.store(ctx, key, report)
	return report, nil
}

// cacheKey usa los parámetros tal como llegaron: un "to" vacío significa "ahora" y el TTL acota lo viejo que puede estar.
func cacheKey(q FailureQuery) string {
	from, to := "", "now"
	if q.From != nil {
		from = q.From.UTC().Format(time.RFC3339Nano)
	}
	if q.To != nil {
		to = q.To.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("analytics:failures:%s:%s:%s", q.Branch, from, to)
}

func (uc *FailureUseCase) cached(ctx context.Context, key string) (*dto.FailureAnalyticsDTO, bool) {
	if uc.cache == nil || uc.ttl <= 0 {
		return nil, false
	}
	report, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de analítica no disponible")
		return nil, false
	}
	return report, ok
}

func (uc *FailureUseCase) store(ctx context.Context, key string, report *dto.FailureAnalyticsDTO) {
	if uc.cache == nil || uc.ttl <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, key, report, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la analítica en caché")
	}
}
