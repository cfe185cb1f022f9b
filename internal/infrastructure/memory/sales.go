package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository   = (*Store)(nil)
	_ repository.BranchRepository = (*Store)(nil)
)

// GetLineItem devuelve nil, nil si la línea no existe.
func (s *Store) GetLineItem(_ context.Context, lineItemID string) (*entity.SaleLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.lineItems[lineItemID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) ListLineItems(_ context.Context, saleID string) ([]*entity.SaleLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.SaleLineItem, 0)
	for _, item := range s.lineItems {
		if item.SaleID == saleID {
			it := item
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Exists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.branches[code]
	return ok, nil
}
