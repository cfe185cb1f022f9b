package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

type creditRepo struct{ view }

var _ repository.CustomerCreditRepository = creditRepo{}

func (r creditRepo) Append(_ context.Context, m *entity.CustomerCreditMovement) error {
	defer r.guard()()
	if m.ID == "" {
		m.ID = newID()
	}
	r.s.credit = append(r.s.credit, *m)
	return nil
}

func (r creditRepo) Account(_ context.Context, branch, customerID string) (*entity.CustomerCreditAccount, error) {
	defer r.guard()()
	acc := &entity.CustomerCreditAccount{
		Branch:     branch,
		CustomerID: customerID,
		TotalDebit: decimal.Zero,
		TotalHaber: decimal.Zero,
		Balance:    decimal.Zero,
	}
	for _, m := range r.s.credit {
		if m.Branch != branch || m.CustomerID != customerID {
			continue
		}
		acc.CustomerName = m.CustomerName
		acc.TotalDebit = acc.TotalDebit.Add(m.Debit)
		acc.TotalHaber = acc.TotalHaber.Add(m.Haber)
	}
	acc.Balance = acc.TotalDebit.Sub(acc.TotalHaber)
	return acc, nil
}

func (r creditRepo) List(_ context.Context, branch, customerID string, limit, offset int) ([]*entity.CustomerCreditMovement, error) {
	defer r.guard()()
	out := make([]*entity.CustomerCreditMovement, 0)
	for i := len(r.s.credit) - 1; i >= 0; i-- {
		m := r.s.credit[i]
		if m.Branch == branch && m.CustomerID == customerID {
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}
