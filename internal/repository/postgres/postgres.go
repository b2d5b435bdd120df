package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/healthvault/ops-api/internal/repository"
)

type appUserRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type directoryRepository struct {
	db *sqlx.DB
}

type admissionRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	db *sqlx.DB
}

type orderRepository struct {
	db *sqlx.DB
}

type accessRepository struct {
	db *sqlx.DB
}

type notificationRepository struct {
	db *sqlx.DB
}

type medicalOrderRepository struct {
	db *sqlx.DB
}

type complaintRepository struct {
	db *sqlx.DB
}

type reportRepository struct {
	db *sqlx.DB
}

func NewAppUserRepository(db *sqlx.DB) repository.AppUserRepository {
	return &appUserRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewDirectoryRepository(db *sqlx.DB) repository.DirectoryRepository {
	return &directoryRepository{db: db}
}

func NewAdmissionRepository(db *sqlx.DB) repository.AdmissionRepository {
	return &admissionRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func NewAccessRepository(db *sqlx.DB) repository.AccessRepository {
	return &accessRepository{db: db}
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func NewMedicalOrderRepository(db *sqlx.DB) repository.MedicalOrderRepository {
	return &medicalOrderRepository{db: db}
}

func NewComplaintRepository(db *sqlx.DB) repository.ComplaintRepository {
	return &complaintRepository{db: db}
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}
