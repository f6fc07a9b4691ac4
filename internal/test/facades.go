package test

import (
	"context"
	"sync"

	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/usecase"
)

// OrdersFacadeStub provides controllable behaviour for order endpoints.
// Unset functions fall back to permissive defaults. Dispatched side
// effects are recorded for assertions.
type OrdersFacadeStub struct {
	ListFn          func(context.Context, model.ListQuery) ([]model.Order, error)
	OrderFn         func(context.Context, int64) (*model.Order, error)
	TotalFn         func(context.Context, int64) (float64, error)
	CreateFn        func(context.Context, model.OrderDraft) (*model.Order, error)
	UpdateFn        func(context.Context, int64, usecase.UpdateInput) (*model.Order, *model.OrderPatch, error)
	RemoveBookFn    func(context.Context, int64, *int64) (int64, error)
	CancelSellerFn  func(context.Context, int64) (int64, error)
	CancelUserFn    func(context.Context, int64) (int64, []model.Order, error)
	UpdateAddressFn func(context.Context, int64, string) (int64, error)
	DeleteFn        func(context.Context, int64) error

	mu                sync.Mutex
	CreatedDispatches []model.Order
	StatusDispatches  []model.OrderPatch
	RestockDispatches [][]model.Order
}

func (s *OrdersFacadeStub) ListOrders(ctx context.Context, q model.ListQuery) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, q)
	}
	return []model.Order{SampleOrder(1)}, nil
}

func (s *OrdersFacadeStub) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	o := SampleOrder(orderID)
	return &o, nil
}

func (s *OrdersFacadeStub) OrderTotal(ctx context.Context, orderID int64) (float64, error) {
	if s.TotalFn != nil {
		return s.TotalFn(ctx, orderID)
	}
	return SampleOrder(orderID).TotalPrice(), nil
}

func (s *OrdersFacadeStub) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	o := SampleOrder(1)
	return &o, nil
}

func (s *OrdersFacadeStub) UpdateOrder(ctx context.Context, orderID int64, in usecase.UpdateInput) (*model.Order, *model.OrderPatch, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, in)
	}
	o := SampleOrder(orderID)
	return &o, &model.OrderPatch{}, nil
}

func (s *OrdersFacadeStub) RemoveBook(ctx context.Context, bookID int64, sellerID *int64) (int64, error) {
	if s.RemoveBookFn != nil {
		return s.RemoveBookFn(ctx, bookID, sellerID)
	}
	return 1, nil
}

func (s *OrdersFacadeStub) CancelBySeller(ctx context.Context, sellerID int64) (int64, error) {
	if s.CancelSellerFn != nil {
		return s.CancelSellerFn(ctx, sellerID)
	}
	return 1, nil
}

func (s *OrdersFacadeStub) CancelByUser(ctx context.Context, userID int64) (int64, []model.Order, error) {
	if s.CancelUserFn != nil {
		return s.CancelUserFn(ctx, userID)
	}
	return 1, []model.Order{SampleOrder(1)}, nil
}

func (s *OrdersFacadeStub) UpdateDeliveryAddress(ctx context.Context, userID int64, address string) (int64, error) {
	if s.UpdateAddressFn != nil {
		return s.UpdateAddressFn(ctx, userID, address)
	}
	return 1, nil
}

func (s *OrdersFacadeStub) DeleteOrder(ctx context.Context, orderID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, orderID)
	}
	return nil
}

func (s *OrdersFacadeStub) DispatchOrderCreated(token string, order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreatedDispatches = append(s.CreatedDispatches, order)
}

func (s *OrdersFacadeStub) DispatchStatusChange(token string, order model.Order, patch model.OrderPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatusDispatches = append(s.StatusDispatches, patch)
}

func (s *OrdersFacadeStub) DispatchRestock(token string, orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RestockDispatches = append(s.RestockDispatches, orders)
}
