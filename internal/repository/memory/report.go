package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type reportRepository struct{ s *Store }

func NewReportRepository(s *Store) repository.ReportRepository {
	return &reportRepository{s: s}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reports {
		if existing.ObjectKey == report.ObjectKey {
			return apperrors.Conflict("object key already exists", nil)
		}
	}

	report.ID = uuid.New()
	report.UploadedAt = time.Now()
	cp := *report
	r.s.reports[report.ID] = &cp
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rep, ok := r.s.reports[id]
	if !ok {
		return nil, apperrors.NotFound("report", nil)
	}
	cp := *rep
	return &cp, nil
}

func (r *reportRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.Report
	for _, rep := range r.s.reports {
		if rep.PatientID == patientID {
			cp := *rep
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UploadedAt.After(matched[j].UploadedAt)
	})
	return matched, nil
}
