package canteen

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

// Service runs canteen order fulfillment: composition, the status
// state machine, and derived totals.
type Service struct {
	repo      repository.OrderRepository
	directory repository.DirectoryRepository
	patients  repository.PatientRepository
}

func NewService(repo repository.OrderRepository, directory repository.DirectoryRepository, patients repository.PatientRepository) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		patients:  patients,
	}
}

// CreateOrder composes an order and its lines as one atomic
// operation; readers never observe a partially built order, and any
// failed line rolls the whole creation back.
func (s *Service) CreateOrder(ctx context.Context, orderingUser uuid.UUID, req *model.CreateOrderRequest) (*model.CanteenOrder, error) {
	if req.PatientID != nil {
		if _, err := s.patients.Get(ctx, *req.PatientID); err != nil {
			return nil, err
		}
	}

	lines := make([]model.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		line, err := s.resolveLine(ctx, item.MenuItemID, item.Qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}

	order := &model.CanteenOrder{
		UserID:    orderingUser,
		PatientID: req.PatientID,
		Status:    model.OrderStatusPending,
	}
	if err := s.repo.CreateWithItems(ctx, order, lines); err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem merges the quantity into an existing line for the same menu
// item instead of duplicating lines. Line changes are only legal
// while the order is pending or preparing.
func (s *Service) AddItem(ctx context.Context, orderID uuid.UUID, req *model.AddItemRequest) (*model.CanteenOrder, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.AcceptsLineChanges() {
		return nil, apperrors.InvalidState("order no longer accepts line changes", nil)
	}

	line, err := s.resolveLine(ctx, req.MenuItemID, req.Qty)
	if err != nil {
		return nil, err
	}
	line.OrderID = orderID

	if err := s.repo.UpsertItem(ctx, line); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

// SetStatus advances the order through
// pending -> preparing -> ready -> delivered, with cancelled
// reachable from every non-terminal state. The move is a
// compare-and-swap so concurrent transitions cannot double-apply.
func (s *Service) SetStatus(ctx context.Context, orderID uuid.UUID, next model.OrderStatus) (*model.CanteenOrder, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition(string(order.Status), string(next))
	}

	ok, err := s.repo.UpdateStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent writer moved the order first.
		return nil, apperrors.Conflict("order status changed concurrently", nil)
	}
	return s.repo.Get(ctx, orderID)
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*model.CanteenOrder, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter *model.OrderFilter) ([]*model.CanteenOrder, int, error) {
	return s.repo.List(ctx, filter)
}

// resolveLine prices a line from the menu; unit price always comes
// from the directory, never from client input.
func (s *Service) resolveLine(ctx context.Context, menuItemID uuid.UUID, qty int) (*model.OrderLine, error) {
	if qty < 1 {
		return nil, apperrors.Validationf("quantity must be at least 1")
	}

	item, err := s.directory.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, apperrors.Validationf("menu item %s is not available", item.Name)
	}

	return &model.OrderLine{
		MenuItemID: item.ID,
		ItemName:   item.Name,
		Qty:        qty,
		PriceCents: item.PriceCents,
	}, nil
}
