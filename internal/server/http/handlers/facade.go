package handlers

import (
	"context"

	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/usecase"
)

// OrderReader covers the read endpoints.
type OrderReader interface {
	ListOrders(ctx context.Context, q model.ListQuery) ([]model.Order, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
	OrderTotal(ctx context.Context, orderID int64) (float64, error)
}

// OrderWriter covers the mutating endpoints.
type OrderWriter interface {
	CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, in usecase.UpdateInput) (*model.Order, *model.OrderPatch, error)
	RemoveBook(ctx context.Context, bookID int64, sellerID *int64) (int64, error)
	CancelBySeller(ctx context.Context, sellerID int64) (int64, error)
	CancelByUser(ctx context.Context, userID int64) (int64, []model.Order, error)
	UpdateDeliveryAddress(ctx context.Context, userID int64, address string) (int64, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

// Notifying covers the fire-and-forget side effects dispatched after the
// response has been written.
type Notifying interface {
	DispatchOrderCreated(token string, order model.Order)
	DispatchStatusChange(token string, order model.Order, patch model.OrderPatch)
	DispatchRestock(token string, orders []model.Order)
}

// OrdersFacade aggregates the full set of operations used by handlers.
type OrdersFacade interface {
	OrderReader
	OrderWriter
	Notifying
}
