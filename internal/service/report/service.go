package report

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service stores uploaded report files and their metadata. The object
// key handed back is durable and unique per upload.
type Service struct {
	repo       repository.ReportRepository
	patients   repository.PatientRepository
	admissions repository.AdmissionRepository
	store      Store
}

func NewService(repo repository.ReportRepository, patients repository.PatientRepository, admissions repository.AdmissionRepository, store Store) *Service {
	return &Service{
		repo:       repo,
		patients:   patients,
		admissions: admissions,
		store:      store,
	}
}

// Upload streams the payload into the store, hashing as it goes, then
// records the metadata. A metadata failure removes nothing from the
// caller's view: no report row exists, and the orphaned blob is
// unreachable because its key was never handed out.
func (s *Service) Upload(ctx context.Context, uploader uuid.UUID, req *model.UploadReportRequest, fileName, mimeType string, payload io.Reader) (*model.Report, error) {
	if fileName == "" {
		return nil, apperrors.Validationf("file name is required")
	}
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if req.AdmissionID != nil {
		if _, err := s.admissions.Get(ctx, *req.AdmissionID); err != nil {
			return nil, err
		}
	}

	// Hash while buffering so size, checksum, and stored bytes all
	// come from the same read.
	hasher := sha256.New()
	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(hasher, &buf), payload); err != nil {
		return nil, apperrors.Internal(err)
	}

	objectKey := fmt.Sprintf("reports/%s/%s%s",
		req.PatientID, uuid.New(), path.Ext(fileName))

	size, err := s.store.Save(ctx, objectKey, &buf)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	report := &model.Report{
		PatientID:      req.PatientID,
		AdmissionID:    req.AdmissionID,
		ReportType:     req.ReportType,
		FileName:       fileName,
		ObjectKey:      objectKey,
		MimeType:       mimeType,
		SizeBytes:      size,
		ChecksumSHA256: hex.EncodeToString(hasher.Sum(nil)),
		UploadedBy:     uploader,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	return s.repo.Get(ctx, id)
}

// Download resolves the stored reference back into the payload.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*model.Report, io.ReadCloser, error) {
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, report.ObjectKey)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return report, rc, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Report, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID)
}
