package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

type levelRepo struct{ view }

var _ repository.StockLevelRepository = levelRepo{}

func (r levelRepo) Get(_ context.Context, productID, branch string) (*entity.StockLevel, error) {
	defer r.guard()()
	if l, ok := r.s.levels[levelKey{productID, branch}]; ok {
		return &l, nil
	}
	return &entity.StockLevel{ProductID: productID, Branch: branch}, nil
}

// GetForUpdate dentro de Run el mutex del store ya serializa; se comporta como Get.
func (r levelRepo) GetForUpdate(ctx context.Context, productID, branch string) (*entity.StockLevel, error) {
	return r.Get(ctx, productID, branch)
}

func (r levelRepo) Upsert(_ context.Context, level *entity.StockLevel) error {
	defer r.guard()()
	r.s.levels[levelKey{level.ProductID, level.Branch}] = *level
	return nil
}

type movementRepo struct{ view }

var _ repository.StockMovementRepository = movementRepo{}

func (r movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	defer r.guard()()
	r.s.nextMovementID++
	m.ID = r.s.nextMovementID
	r.s.movements = append(r.s.movements, *m)
	return nil
}

// later indica si a va después de b en el orden (timestamp, id).
func later(a, b *entity.StockMovement) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (r movementRepo) LatestAtOrBefore(_ context.Context, productID, branch string, at time.Time) (*entity.StockMovement, error) {
	defer r.guard()()
	var best *entity.StockMovement
	for i := range r.s.movements {
		m := &r.s.movements[i]
		if m.ProductID != productID || m.Branch != branch || m.CreatedAt.After(at) {
			continue
		}
		if best == nil || later(m, best) {
			best = m
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

func (r movementRepo) LatestPerProductAtOrBefore(_ context.Context, branch string, at time.Time) ([]*entity.StockMovement, error) {
	defer r.guard()()
	latest := make(map[string]*entity.StockMovement)
	for i := range r.s.movements {
		m := &r.s.movements[i]
		if m.Branch != branch || m.CreatedAt.After(at) {
			continue
		}
		if cur, ok := latest[m.ProductID]; !ok || later(m, cur) {
			latest[m.ProductID] = m
		}
	}
	out := make([]*entity.StockMovement, 0, len(latest))
	for _, m := range latest {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	defer r.guard()()
	out := make([]*entity.StockMovement, 0)
	for i := range r.s.movements {
		m := r.s.movements[i]
		if f.Branch != "" && m.Branch != f.Branch {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return later(out[i], out[j]) })
	return paginate(out, f.Limit, f.Offset), nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
