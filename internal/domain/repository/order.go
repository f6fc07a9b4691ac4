package repository

import (
	"context"
	"time"

	"github.com/bookmart/orders/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// The bulk operations (CancelBySeller, CancelByUser, UpdateAddressByUser)
// must be atomic per matched record: a concurrent reader never observes a
// partially applied patch.
type OrderRepository interface {
	ListAll(ctx context.Context) ([]model.Order, error)
	ListInPreparationByBook(ctx context.Context, bookID int64) ([]model.Order, error)
	ListInPreparationByUser(ctx context.Context, userID int64) ([]model.Order, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error)
	Insert(ctx context.Context, order *model.Order) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	// UpdateMany rewrites a batch of orders in one transaction: either
	// every order is persisted or none is.
	UpdateMany(ctx context.Context, orders []model.Order) error
	Delete(ctx context.Context, orderID int64) (bool, error)
	CancelBySeller(ctx context.Context, sellerID int64, now time.Time) (int64, error)
	CancelByUser(ctx context.Context, userID int64, now time.Time) (int64, error)
	UpdateAddressByUser(ctx context.Context, userID int64, address string, now time.Time) (int64, error)
}
