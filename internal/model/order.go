package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the allowed status graph. Delivered and
// cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether from -> to is a legal order move.
func (from OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AcceptsLineChanges reports whether order lines may still be edited.
func (s OrderStatus) AcceptsLineChanges() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}

// OrderLine is one menu item on an order. Lines for the same item
// merge; qty accumulates instead of duplicating rows.
type OrderLine struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string    `json:"item_name" db:"item_name"`
	Qty        int       `json:"qty" db:"qty"`
	PriceCents int       `json:"price_cents" db:"price_cents"`
}

// CanteenOrder is a canteen purchase. TotalCents is derived from the
// lines on every read and never stored.
type CanteenOrder struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     uuid.UUID   `json:"user_id" db:"user_id"`
	PatientID  *uuid.UUID  `json:"patient_id,omitempty" db:"patient_id"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
	Items      []OrderLine `json:"items" db:"-"`
	TotalCents int         `json:"total_cents" db:"-"`
}

// ComputeTotal recomputes the derived total from the lines.
func (o *CanteenOrder) ComputeTotal() {
	total := 0
	for _, line := range o.Items {
		total += line.Qty * line.PriceCents
	}
	o.TotalCents = total
}

type OrderLineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Qty        int       `json:"qty" validate:"required,gte=1"`
}

// CreateOrderRequest composes an order and its lines in one atomic
// call; a partially built order is never visible to readers.
type CreateOrderRequest struct {
	PatientID *uuid.UUID         `json:"patient_id"`
	Items     []OrderLineRequest `json:"items" validate:"dive"`
}

type AddItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Qty        int       `json:"qty" validate:"required,gte=1"`
}

type SetOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

type OrderFilter struct {
	UserID *uuid.UUID   `form:"-"`
	Status *OrderStatus `form:"status"`
	Pagination
}
