// Package memory holds in-memory repository implementations that honor
// the same contracts as the postgres ones, including the uniqueness
// and state-machine guarantees. They back the service tests.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
)

// Store bundles every in-memory repository over shared state so
// cross-repository reads (bed occupancy, complaint snapshots) work.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*model.AppUser
	patients      map[uuid.UUID]*model.Patient
	departments   map[uuid.UUID]*model.Department
	doctors       map[uuid.UUID]*model.Doctor
	wards         map[uuid.UUID]*model.Ward
	beds          map[uuid.UUID]*model.Bed
	menuItems     map[uuid.UUID]*model.MenuItem
	admissions    map[uuid.UUID]*model.Admission
	tasks         map[uuid.UUID]*model.AdmissionTask
	bookings      map[uuid.UUID]*model.Booking
	orders        map[uuid.UUID]*model.CanteenOrder
	orderLines    map[uuid.UUID][]model.OrderLine
	grants        map[uuid.UUID]*model.AccessGrant
	notifications map[uuid.UUID]*model.Notification
	broadcastRead map[uuid.UUID]map[uuid.UUID]time.Time
	medOrders     map[uuid.UUID]*model.MedicalOrder
	complaints    map[uuid.UUID]*model.Complaint
	reports       map[uuid.UUID]*model.Report
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*model.AppUser),
		patients:      make(map[uuid.UUID]*model.Patient),
		departments:   make(map[uuid.UUID]*model.Department),
		doctors:       make(map[uuid.UUID]*model.Doctor),
		wards:         make(map[uuid.UUID]*model.Ward),
		beds:          make(map[uuid.UUID]*model.Bed),
		menuItems:     make(map[uuid.UUID]*model.MenuItem),
		admissions:    make(map[uuid.UUID]*model.Admission),
		tasks:         make(map[uuid.UUID]*model.AdmissionTask),
		bookings:      make(map[uuid.UUID]*model.Booking),
		orders:        make(map[uuid.UUID]*model.CanteenOrder),
		orderLines:    make(map[uuid.UUID][]model.OrderLine),
		grants:        make(map[uuid.UUID]*model.AccessGrant),
		notifications: make(map[uuid.UUID]*model.Notification),
		broadcastRead: make(map[uuid.UUID]map[uuid.UUID]time.Time),
		medOrders:     make(map[uuid.UUID]*model.MedicalOrder),
		complaints:    make(map[uuid.UUID]*model.Complaint),
		reports:       make(map[uuid.UUID]*model.Report),
	}
}

func matchQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, p model.Pagination) []T {
	offset := p.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
