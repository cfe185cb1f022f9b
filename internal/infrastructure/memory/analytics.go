package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var _ repository.FailureAnalyticsRepository = (*Store)(nil)

// matching devuelve los registros dentro del filtro. Requiere el mutex tomado.
func (s *Store) matching(f repository.FailureFilter) []entity.ReturnRecord {
	out := make([]entity.ReturnRecord, 0)
	for _, rec := range s.records {
		if f.Branch != "" && rec.Branch != f.Branch {
			continue
		}
		if !f.From.IsZero() && rec.ProcessedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && rec.ProcessedAt.After(f.To) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func refundOf(rec entity.ReturnRecord) decimal.Decimal {
	if rec.RefundAmount == nil {
		return decimal.Zero
	}
	return *rec.RefundAmount
}

func (s *Store) TopProducts(_ context.Context, f repository.FailureFilter, limit int) ([]repository.ProductFailureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := make(map[string]int)
	out := make([]repository.ProductFailureResult, 0)
	for _, rec := range s.matching(f) {
		i, ok := idx[rec.ProductID]
		if !ok {
			i = len(out)
			idx[rec.ProductID] = i
			out = append(out, repository.ProductFailureResult{ProductID: rec.ProductID, TotalRefunded: decimal.Zero})
		}
		p := &out[i]
		p.ProductName = rec.ProductName
		p.TotalEvents++
		if rec.Kind == entity.KindReturn {
			p.Returns++
		} else {
			p.Replacements++
		}
		p.TotalRefunded = p.TotalRefunded.Add(refundOf(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEvents != out[j].TotalEvents {
			return out[i].TotalEvents > out[j].TotalEvents
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ByBranch(_ context.Context, f repository.FailureFilter) ([]repository.BranchFailureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type acc struct {
		res       repository.BranchFailureResult
		products  map[string]struct{}
		customers map[string]struct{}
	}
	byBranch := make(map[string]*acc)
	for _, rec := range s.matching(f) {
		a, ok := byBranch[rec.Branch]
		if !ok {
			a = &acc{
				res:       repository.BranchFailureResult{Branch: rec.Branch, TotalRefunded: decimal.Zero},
				products:  make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			byBranch[rec.Branch] = a
		}
		a.res.TotalEvents++
		a.products[rec.ProductID] = struct{}{}
		if rec.CustomerID != "" {
			a.customers[rec.CustomerID] = struct{}{}
		}
		a.res.TotalRefunded = a.res.TotalRefunded.Add(refundOf(rec))
	}
	out := make([]repository.BranchFailureResult, 0, len(byBranch))
	for _, a := range byBranch {
		a.res.DistinctProducts = len(a.products)
		a.res.DistinctCustomers = len(a.customers)
		out = append(out, a.res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEvents != out[j].TotalEvents {
			return out[i].TotalEvents > out[j].TotalEvents
		}
		return out[i].Branch < out[j].Branch
	})
	return out, nil
}

func (s *Store) TopCustomers(_ context.Context, f repository.FailureFilter, limit int) ([]repository.CustomerFailureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := make(map[string]int)
	out := make([]repository.CustomerFailureResult, 0)
	for _, rec := range s.matching(f) {
		if rec.CustomerID == "" {
			continue
		}
		i, ok := idx[rec.CustomerID]
		if !ok {
			i = len(out)
			idx[rec.CustomerID] = i
			out = append(out, repository.CustomerFailureResult{CustomerID: rec.CustomerID, TotalRefunded: decimal.Zero})
		}
		c := &out[i]
		c.CustomerName = rec.CustomerName
		c.TotalEvents++
		if rec.ProcessedAt.After(c.LastFailureAt) {
			c.LastFailureAt = rec.ProcessedAt
		}
		c.TotalRefunded = c.TotalRefunded.Add(refundOf(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEvents != out[j].TotalEvents {
			return out[i].TotalEvents > out[j].TotalEvents
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ByCustomerProduct(_ context.Context, f repository.FailureFilter) ([]repository.CustomerProductFailureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type pairKey struct{ customer, product string }
	idx := make(map[pairKey]int)
	out := make([]repository.CustomerProductFailureResult, 0)
	for _, rec := range s.matching(f) {
		if rec.CustomerID == "" {
			continue
		}
		k := pairKey{rec.CustomerID, rec.ProductID}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, repository.CustomerProductFailureResult{
				CustomerID:    rec.CustomerID,
				ProductID:     rec.ProductID,
				TotalRefunded: decimal.Zero,
			})
		}
		p := &out[i]
		p.CustomerName = rec.CustomerName
		p.ProductName = rec.ProductName
		p.FailureCount++
		if rec.ProcessedAt.After(p.LastFailureAt) {
			p.LastFailureAt = rec.ProcessedAt
		}
		p.TotalRefunded = p.TotalRefunded.Add(refundOf(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FailureCount != out[j].FailureCount {
			return out[i].FailureCount > out[j].FailureCount
		}
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

func (s *Store) Summary(_ context.Context, f repository.FailureFilter) (repository.FailureSummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := repository.FailureSummaryResult{TotalRefunded: decimal.Zero, AverageRefund: decimal.Zero}
	products := make(map[string]struct{})
	customers := make(map[string]struct{})
	branches := make(map[string]struct{})
	refunded := 0
	for _, rec := range s.matching(f) {
		sum.TotalEvents++
		products[rec.ProductID] = struct{}{}
		if rec.CustomerID != "" {
			customers[rec.CustomerID] = struct{}{}
		}
		branches[rec.Branch] = struct{}{}
		if rec.Kind == entity.KindReturn {
			sum.Returns++
		} else {
			sum.Replacements++
		}
		if rec.RefundAmount != nil {
			refunded++
			sum.TotalRefunded = sum.TotalRefunded.Add(*rec.RefundAmount)
		}
	}
	sum.DistinctProducts = len(products)
	sum.DistinctCustomers = len(customers)
	sum.DistinctBranches = len(branches)
	if refunded > 0 {
		sum.AverageRefund = sum.TotalRefunded.Div(decimal.NewFromInt(int64(refunded))).Round(2)
	}
	return sum, nil
}
