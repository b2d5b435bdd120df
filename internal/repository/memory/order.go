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

type orderRepository struct{ s *Store }

func NewOrderRepository(s *Store) repository.OrderRepository {
	return &orderRepository{s: s}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, order *model.CanteenOrder, items []model.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = uuid.New()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	lines := make([]model.OrderLine, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New()
		item.OrderID = order.ID
		lines = mergeLine(lines, item)
	}

	cp := *order
	r.s.orders[order.ID] = &cp
	r.s.orderLines[order.ID] = lines

	order.Items = append([]model.OrderLine(nil), lines...)
	order.ComputeTotal()
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.CanteenOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", nil)
	}

	cp := *o
	cp.Items = append([]model.OrderLine(nil), r.s.orderLines[id]...)
	cp.ComputeTotal()
	return &cp, nil
}

func (r *orderRepository) UpsertItem(ctx context.Context, line *model.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[line.OrderID]; !ok {
		return apperrors.NotFound("order", nil)
	}

	line.ID = uuid.New()
	r.s.orderLines[line.OrderID] = mergeLine(r.s.orderLines[line.OrderID], *line)
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return false, apperrors.NotFound("order", nil)
	}
	if o.Status != from {
		return false, nil
	}

	o.Status = to
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *orderRepository) List(ctx context.Context, filter *model.OrderFilter) ([]*model.CanteenOrder, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*model.CanteenOrder
	for id, o := range r.s.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		cp := *o
		cp.Items = append([]model.OrderLine(nil), r.s.orderLines[id]...)
		cp.ComputeTotal()
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Pagination), len(matched), nil
}

// mergeLine folds a new line into the set, accumulating qty for an
// existing (order, menu item) pair. Same behavior as the
// ON CONFLICT qty merge.
func mergeLine(lines []model.OrderLine, line model.OrderLine) []model.OrderLine {
	for i := range lines {
		if lines[i].MenuItemID == line.MenuItemID {
			lines[i].Qty += line.Qty
			return lines
		}
	}
	return append(lines, line)
}
