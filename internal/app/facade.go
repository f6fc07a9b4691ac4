package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookmart/orders/internal/adapter/notifier"
	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/usecase"
	"github.com/bookmart/orders/internal/worker"
)

// OrdersFacade aggregates the engine, the downstream notifier and the
// dispatcher behind the surface the HTTP layer consumes.
type OrdersFacade struct {
	engine     *usecase.OrderUseCase
	notifier   notifier.Client
	dispatcher *worker.Dispatcher
}

// NewOrdersFacade constructs OrdersFacade.
func NewOrdersFacade(engine *usecase.OrderUseCase, client notifier.Client, dispatcher *worker.Dispatcher) *OrdersFacade {
	return &OrdersFacade{engine: engine, notifier: client, dispatcher: dispatcher}
}

func (f *OrdersFacade) ListOrders(ctx context.Context, q model.ListQuery) ([]model.Order, error) {
	return f.engine.List(ctx, q)
}

func (f *OrdersFacade) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.engine.Get(ctx, orderID)
}

func (f *OrdersFacade) OrderTotal(ctx context.Context, orderID int64) (float64, error) {
	return f.engine.TotalPrice(ctx, orderID)
}

func (f *OrdersFacade) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	return f.engine.Create(ctx, draft)
}

func (f *OrdersFacade) UpdateOrder(ctx context.Context, orderID int64, in usecase.UpdateInput) (*model.Order, *model.OrderPatch, error) {
	return f.engine.Update(ctx, orderID, in)
}

func (f *OrdersFacade) RemoveBook(ctx context.Context, bookID int64, sellerID *int64) (int64, error) {
	return f.engine.RemoveBook(ctx, bookID, sellerID)
}

func (f *OrdersFacade) CancelBySeller(ctx context.Context, sellerID int64) (int64, error) {
	return f.engine.CancelBySeller(ctx, sellerID)
}

func (f *OrdersFacade) CancelByUser(ctx context.Context, userID int64) (int64, []model.Order, error) {
	return f.engine.CancelByUser(ctx, userID)
}

func (f *OrdersFacade) UpdateDeliveryAddress(ctx context.Context, userID int64, address string) (int64, error) {
	return f.engine.UpdateAddressByUser(ctx, userID, address)
}

func (f *OrdersFacade) DeleteOrder(ctx context.Context, orderID int64) error {
	return f.engine.Delete(ctx, orderID)
}

// --- fire-and-forget side effects, dispatched after the response ---

// DispatchOrderCreated decrements stock for every line item and sends the
// order confirmation email.
func (f *OrdersFacade) DispatchOrderCreated(token string, order model.Order) {
	for _, b := range order.Books {
		book := b
		f.dispatcher.Enqueue(worker.Job{
			ID:   uuid.NewString(),
			Name: "stock-decrement",
			Run: func(ctx context.Context) error {
				return f.notifier.AdjustStock(ctx, token, book.BookID, order.SellerID, -book.Units)
			},
		})
	}
	f.dispatcher.Enqueue(worker.Job{
		ID:   uuid.NewString(),
		Name: "order-email",
		Run: func(ctx context.Context) error {
			return f.notifier.SendOrderEmail(ctx, token, order.UserID, order.OrderID)
		},
	})
}

// DispatchStatusChange reacts to a status transition applied by a partial
// update: cancellations restore stock, deliveries bump the seller counter.
func (f *OrdersFacade) DispatchStatusChange(token string, order model.Order, patch model.OrderPatch) {
	switch {
	case patch.SetsStatus(model.StatusCancelled):
		f.dispatchRestock(token, order)
	case patch.SetsStatus(model.StatusDelivered):
		f.dispatcher.Enqueue(worker.Job{
			ID:   uuid.NewString(),
			Name: "seller-counter",
			Run: func(ctx context.Context) error {
				return f.notifier.IncrementSellerOrders(ctx, token, order.SellerID)
			},
		})
	}
}

// DispatchRestock restores stock for every line item of every order.
func (f *OrdersFacade) DispatchRestock(token string, orders []model.Order) {
	for _, o := range orders {
		f.dispatchRestock(token, o)
	}
}

func (f *OrdersFacade) dispatchRestock(token string, order model.Order) {
	for _, b := range order.Books {
		book := b
		f.dispatcher.Enqueue(worker.Job{
			ID:   uuid.NewString(),
			Name: "stock-restore",
			Run: func(ctx context.Context) error {
				return f.notifier.AdjustStock(ctx, token, book.BookID, order.SellerID, book.Units)
			},
		})
	}
}
