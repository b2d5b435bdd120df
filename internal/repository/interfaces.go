package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

type AppUserRepository interface {
	Create(ctx context.Context, user *model.AppUser) error
	Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.AppUser, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error)
}

type DirectoryRepository interface {
	CreateDepartment(ctx context.Context, dept *model.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
	ListDepartments(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Department, int, error)

	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
	GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	ListDoctors(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Doctor, int, error)

	CreateWard(ctx context.Context, ward *model.Ward) error
	GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error)
	ListWards(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Ward, int, error)

	CreateBed(ctx context.Context, bed *model.Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error)
	ListBeds(ctx context.Context, filter *model.DirectoryFilter) ([]*model.Bed, int, error)

	CreateMenuItem(ctx context.Context, item *model.MenuItem) error
	GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)
	ListMenuItems(ctx context.Context, filter *model.DirectoryFilter) ([]*model.MenuItem, int, error)
}

type AdmissionRepository interface {
	// Create inserts the admission; a ConflictError surfaces when the
	// bed already holds an active admission.
	Create(ctx context.Context, admission *model.Admission) error
	Get(ctx context.Context, id uuid.UUID) (*model.Admission, error)
	// Discharge flips the row to discharged if and only if it is not
	// already discharged; an InvalidStateError surfaces otherwise.
	Discharge(ctx context.Context, id uuid.UUID, at time.Time) (*model.Admission, error)
	ListActive(ctx context.Context, filter *model.AdmissionFilter) ([]*model.Admission, int, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Admission, error)
	ActiveForPatient(ctx context.Context, patientID uuid.UUID) (*model.Admission, error)
	IsOccupied(ctx context.Context, bedID uuid.UUID) (bool, error)

	CreateTask(ctx context.Context, task *model.AdmissionTask) error
	GetTask(ctx context.Context, id uuid.UUID) (*model.AdmissionTask, error)
	UpdateTask(ctx context.Context, task *model.AdmissionTask) error
	ListTasks(ctx context.Context, admissionID uuid.UUID) ([]*model.AdmissionTask, error)
}

type BookingRepository interface {
	// Create inserts the booking; a ConflictError surfaces when the
	// (doctor, date, time) tuple already holds a non-cancelled booking.
	Create(ctx context.Context, booking *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error)
	TakenSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}

type OrderRepository interface {
	// CreateWithItems inserts the order and all lines in one
	// transaction; either everything lands or nothing does.
	CreateWithItems(ctx context.Context, order *model.CanteenOrder, items []model.OrderLine) error
	Get(ctx context.Context, id uuid.UUID) (*model.CanteenOrder, error)
	// UpsertItem merges qty into an existing line for the same menu
	// item or inserts a new line.
	UpsertItem(ctx context.Context, line *model.OrderLine) error
	// UpdateStatus compare-and-swaps the status; ok is false when the
	// row was not in the expected prior status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error)
	List(ctx context.Context, filter *model.OrderFilter) ([]*model.CanteenOrder, int, error)
}

type AccessRepository interface {
	// Upsert creates the grant or updates the relationship in place
	// for an existing (user, patient) pair.
	Upsert(ctx context.Context, grant *model.AccessGrant) error
	Get(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AccessGrant, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AccessGrant, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	// MarkRead stamps read_at once for a targeted notification; the
	// returned time is the original stamp on repeat calls.
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	// MarkBroadcastRead records a per-reader read mark, idempotently.
	MarkBroadcastRead(ctx context.Context, id, userID uuid.UUID) (*model.Notification, error)
	UpdateDelivery(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, filter *model.NotificationFilter) ([]*model.Notification, int, error)
	ListRetryable(ctx context.Context, maxRetries int, limit int) ([]*model.Notification, error)
}

type MedicalOrderRepository interface {
	Create(ctx context.Context, order *model.MedicalOrder) error
	Get(ctx context.Context, id uuid.UUID) (*model.MedicalOrder, error)
	// UpdateStatus compare-and-swaps the status; ok is false when the
	// row was not in the expected prior status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.MedicalOrderStatus) (bool, error)
	List(ctx context.Context, filter *model.MedicalOrderFilter) ([]*model.MedicalOrder, int, error)
}

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	Get(ctx context.Context, id uuid.UUID) (*model.Complaint, error)
	Update(ctx context.Context, complaint *model.Complaint) error
	List(ctx context.Context, filter *model.ComplaintFilter) ([]*model.Complaint, int, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Report, error)
}
