package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type fixture struct {
	svc     *Service
	patient *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	mem := memory.NewStore()
	patients := memory.NewPatientRepository(mem)
	svc := NewService(memory.NewReportRepository(mem), patients, memory.NewAdmissionRepository(mem), store)

	patient := &model.Patient{MRN: "MRN-4001", FirstName: "Leela", LastName: "Pillai"}
	require.NoError(t, patients.Create(ctx, patient))

	return &fixture{svc: svc, patient: patient}
}

func TestUploadAndDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := "PDF-ish bytes for a blood panel"
	uploader := uuid.New()

	report, err := f.svc.Upload(ctx, uploader, &model.UploadReportRequest{
		PatientID:  f.patient.ID,
		ReportType: "lab",
		Notes:      "fasting sample",
	}, "panel.pdf", "application/pdf", strings.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), report.SizeBytes)
	assert.Equal(t, uploader, report.UploadedBy)
	assert.Contains(t, report.ObjectKey, f.patient.ID.String())
	assert.True(t, strings.HasSuffix(report.ObjectKey, ".pdf"))

	sum := sha256.Sum256([]byte(payload))
	assert.Equal(t, hex.EncodeToString(sum[:]), report.ChecksumSHA256)

	got, rc, err := f.svc.Download(ctx, report.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, report.ID, got.ID)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
}

func TestUploadKeysAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &model.UploadReportRequest{PatientID: f.patient.ID, ReportType: "lab"}
	first, err := f.svc.Upload(ctx, uuid.New(), req, "scan.png", "image/png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := f.svc.Upload(ctx, uuid.New(), req, "scan.png", "image/png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &model.UploadReportRequest{PatientID: f.patient.ID, ReportType: "lab"}
	_, err := f.svc.Upload(ctx, uuid.New(), req, "", "application/pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Upload(ctx, uuid.New(), &model.UploadReportRequest{
		PatientID:  uuid.New(),
		ReportType: "lab",
	}, "panel.pdf", "application/pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	missingAdmission := uuid.New()
	_, err = f.svc.Upload(ctx, uuid.New(), &model.UploadReportRequest{
		PatientID:   f.patient.ID,
		AdmissionID: &missingAdmission,
		ReportType:  "lab",
	}, "panel.pdf", "application/pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListForPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := &model.UploadReportRequest{PatientID: f.patient.ID, ReportType: "lab"}
	_, err := f.svc.Upload(ctx, uuid.New(), req, "a.pdf", "application/pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, uuid.New(), req, "b.pdf", "application/pdf", strings.NewReader("b"))
	require.NoError(t, err)

	reports, err := f.svc.ListForPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	_, err = f.svc.ListForPatient(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
