package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

type cashRepo struct{ view }

var _ repository.CashRepository = cashRepo{}

func (r cashRepo) Get(_ context.Context, branch string) (*entity.CashRegister, error) {
	defer r.guard()()
	if reg, ok := r.s.registers[branch]; ok {
		return &reg, nil
	}
	return &entity.CashRegister{Branch: branch, Balance: decimal.Zero}, nil
}

func (r cashRepo) GetForUpdate(ctx context.Context, branch string) (*entity.CashRegister, error) {
	return r.Get(ctx, branch)
}

func (r cashRepo) UpdateBalance(_ context.Context, reg *entity.CashRegister) error {
	defer r.guard()()
	r.s.registers[reg.Branch] = *reg
	return nil
}

func (r cashRepo) AppendMovement(_ context.Context, m *entity.CashMovement) error {
	defer r.guard()()
	r.s.nextCashID++
	m.ID = r.s.nextCashID
	r.s.cashMovements = append(r.s.cashMovements, *m)
	return nil
}

func (r cashRepo) ListMovements(_ context.Context, branch string, limit, offset int) ([]*entity.CashMovement, error) {
	defer r.guard()()
	out := make([]*entity.CashMovement, 0)
	for i := range r.s.cashMovements {
		m := r.s.cashMovements[i]
		if m.Branch == branch {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, limit, offset), nil
}
