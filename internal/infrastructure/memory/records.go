package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/garantias-api/internal/domain/entity"
	"github.com/jhoicas/garantias-api/internal/domain/repository"
)

type recordRepo struct{ view }

var _ repository.ReturnRecordRepository = recordRepo{}

func (r recordRepo) Create(_ context.Context, rec *entity.ReturnRecord) error {
	defer r.guard()()
	if rec.ID == "" {
		rec.ID = newID()
	}
	r.s.records = append(r.s.records, *rec)
	return nil
}

func (r recordRepo) List(_ context.Context, f repository.RecordFilter) ([]*entity.ReturnRecord, error) {
	defer r.guard()()
	out := make([]*entity.ReturnRecord, 0)
	for i := len(r.s.records) - 1; i >= 0; i-- {
		rec := r.s.records[i]
		if f.Branch != "" && rec.Branch != f.Branch {
			continue
		}
		if !inRange(rec.ProcessedAt, f.From, f.To) {
			continue
		}
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProcessedAt.After(out[j].ProcessedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}
