package canteen

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthvault/ops-api/internal/model"
	"github.com/healthvault/ops-api/internal/repository"
	"github.com/healthvault/ops-api/internal/repository/memory"
	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type fixture struct {
	svc   *Service
	repo  repository.OrderRepository
	tea   *model.MenuItem
	toast *model.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	directory := memory.NewDirectoryRepository(store)
	repo := memory.NewOrderRepository(store)
	svc := NewService(repo, directory, memory.NewPatientRepository(store))

	tea := &model.MenuItem{Name: "Masala tea", Category: "beverage", PriceCents: 150}
	require.NoError(t, directory.CreateMenuItem(ctx, tea))
	toast := &model.MenuItem{Name: "Toast", Category: "snack", PriceCents: 400}
	require.NoError(t, directory.CreateMenuItem(ctx, toast))

	return &fixture{svc: svc, repo: repo, tea: tea, toast: toast}
}

func (f *fixture) order(t *testing.T, items ...model.OrderLineRequest) *model.CanteenOrder {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), uuid.New(), &model.CreateOrderRequest{Items: items})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	order := f.order(t,
		model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 2},
		model.OrderLineRequest{MenuItemID: f.toast.ID, Qty: 1},
	)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	// 2 x 150 + 1 x 400, priced from the menu, not the client.
	assert.Equal(t, 700, order.TotalCents)
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	f := newFixture(t)

	order := f.order(t,
		model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 2},
		model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 3},
	)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Qty)
	assert.Equal(t, 750, order.TotalCents)
}

func TestCreateOrderBadLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, uuid.New(), &model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{MenuItemID: f.tea.ID, Qty: 0}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.CreateOrder(ctx, uuid.New(), &model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{MenuItemID: uuid.New(), Qty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	patientID := uuid.New()
	_, err = f.svc.CreateOrder(ctx, uuid.New(), &model.CreateOrderRequest{
		PatientID: &patientID,
		Items:     []model.OrderLineRequest{{MenuItemID: f.tea.ID, Qty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// inactiveMenu reports every menu item as inactive so the availability
// guard can be exercised; items only go inactive through operational
// data changes, not the API.
type inactiveMenu struct {
	repository.DirectoryRepository
}

func (m inactiveMenu) GetMenuItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error) {
	item, err := m.DirectoryRepository.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.IsActive = false
	return item, nil
}

func TestCreateOrderInactiveItem(t *testing.T) {
	store := memory.NewStore()
	directory := memory.NewDirectoryRepository(store)
	svc := NewService(memory.NewOrderRepository(store), inactiveMenu{directory}, memory.NewPatientRepository(store))

	tea := &model.MenuItem{Name: "Masala tea", PriceCents: 150}
	require.NoError(t, directory.CreateMenuItem(context.Background(), tea))

	_, err := svc.CreateOrder(context.Background(), uuid.New(), &model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{MenuItemID: tea.ID, Qty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAddItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.order(t, model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 1})

	updated, err := f.svc.AddItem(ctx, order.ID, &model.AddItemRequest{MenuItemID: f.toast.ID, Qty: 1})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, 550, updated.TotalCents)

	// Same item merges into the existing line.
	updated, err = f.svc.AddItem(ctx, order.ID, &model.AddItemRequest{MenuItemID: f.tea.ID, Qty: 2})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, 850, updated.TotalCents)
}

func TestAddItemAfterReady(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.order(t, model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 1})

	_, err := f.svc.SetStatus(ctx, order.ID, model.OrderStatusPreparing)
	require.NoError(t, err)
	// Preparing still accepts line changes.
	_, err = f.svc.AddItem(ctx, order.ID, &model.AddItemRequest{MenuItemID: f.toast.ID, Qty: 1})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, order.ID, model.OrderStatusReady)
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, order.ID, &model.AddItemRequest{MenuItemID: f.toast.ID, Qty: 1})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.order(t, model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 1})

	for _, next := range []model.OrderStatus{
		model.OrderStatusPreparing,
		model.OrderStatusReady,
		model.OrderStatusDelivered,
	} {
		updated, err := f.svc.SetStatus(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Delivered is terminal.
	_, err := f.svc.SetStatus(ctx, order.ID, model.OrderStatusCancelled)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestStatusSkipRejected(t *testing.T) {
	f := newFixture(t)

	order := f.order(t, model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 1})

	_, err := f.svc.SetStatus(context.Background(), order.ID, model.OrderStatusReady)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestCancelFromAnyNonTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, prep := range [][]model.OrderStatus{
		{},
		{model.OrderStatusPreparing},
		{model.OrderStatusPreparing, model.OrderStatusReady},
	} {
		order := f.order(t, model.OrderLineRequest{MenuItemID: f.tea.ID, Qty: 1})
		for _, next := range prep {
			_, err := f.svc.SetStatus(ctx, order.ID, next)
			require.NoError(t, err)
		}
		cancelled, err := f.svc.SetStatus(ctx, order.ID, model.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	}
}

func TestListByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := uuid.New()
	_, err := f.svc.CreateOrder(ctx, mine, &model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{MenuItemID: f.tea.ID, Qty: 1}},
	})
	require.NoError(t, err)
	f.order(t, model.OrderLineRequest{MenuItemID: f.toast.ID, Qty: 1})

	orders, total, err := f.svc.List(ctx, &model.OrderFilter{UserID: &mine})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, mine, orders[0].UserID)
	assert.Equal(t, 150, orders[0].TotalCents)
}
