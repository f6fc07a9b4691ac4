// Package memory holds an in-memory order repository used as a test
// double by engine and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/domain/model"
)

// Store keeps orders in a process-local slice guarded by a mutex.
type Store struct {
	mu     sync.Mutex
	nextID int64
	orders []model.Order

	// FailWith, when set, is returned by every operation. Lets tests
	// simulate an unavailable store.
	FailWith error
}

// NewStore returns an empty store, optionally seeded with orders.
func NewStore(seed ...model.Order) *Store {
	s := &Store{}
	for _, o := range seed {
		s.nextID++
		o.ID = s.nextID
		s.orders = append(s.orders, cloneOrder(o))
	}
	return s
}

func cloneOrder(o model.Order) model.Order {
	books := make([]model.BookLine, len(o.Books))
	copy(books, o.Books)
	o.Books = books
	return o
}

func (s *Store) ListAll(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	result := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, cloneOrder(o))
	}
	return result, nil
}

func (s *Store) ListInPreparationByBook(ctx context.Context, bookID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	var result []model.Order
	for _, o := range s.orders {
		if o.Status == model.StatusInPreparation && o.ContainsBook(bookID) {
			result = append(result, cloneOrder(o))
		}
	}
	return result, nil
}

func (s *Store) ListInPreparationByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	var result []model.Order
	for _, o := range s.orders {
		if o.UserID == userID && o.Status == model.StatusInPreparation {
			result = append(result, cloneOrder(o))
		}
	}
	return result, nil
}

func (s *Store) GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	for _, o := range s.orders {
		if o.OrderID == orderID {
			c := cloneOrder(o)
			return &c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *Store) Insert(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.nextID++
	order.ID = s.nextID
	s.orders = append(s.orders, cloneOrder(*order))
	return order, nil
}

func (s *Store) Update(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	for i, o := range s.orders {
		if o.OrderID == order.OrderID {
			updated := cloneOrder(*order)
			updated.ID = o.ID
			s.orders[i] = updated
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *Store) UpdateMany(ctx context.Context, orders []model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	// All-or-nothing: locate every target before touching the slice.
	indexes := make([]int, 0, len(orders))
	for _, o := range orders {
		found := -1
		for i, existing := range s.orders {
			if existing.OrderID == o.OrderID {
				found = i
				break
			}
		}
		if found < 0 {
			return domainErrors.ErrNotFound
		}
		indexes = append(indexes, found)
	}

	for n, o := range orders {
		updated := cloneOrder(o)
		updated.ID = s.orders[indexes[n]].ID
		s.orders[indexes[n]] = updated
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, orderID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return false, s.FailWith
	}
	for i, o := range s.orders {
		if o.OrderID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CancelBySeller(ctx context.Context, sellerID int64, now time.Time) (int64, error) {
	return s.cancelWhere(func(o model.Order) bool { return o.SellerID == sellerID }, now)
}

func (s *Store) CancelByUser(ctx context.Context, userID int64, now time.Time) (int64, error) {
	return s.cancelWhere(func(o model.Order) bool { return o.UserID == userID }, now)
}

func (s *Store) cancelWhere(match func(model.Order) bool, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	var count int64
	for i, o := range s.orders {
		if match(o) && o.Status == model.StatusInPreparation {
			s.orders[i].Status = model.StatusCancelled
			s.orders[i].UpdateDatetime = now
			count++
		}
	}
	return count, nil
}

func (s *Store) UpdateAddressByUser(ctx context.Context, userID int64, address string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	var count int64
	for i, o := range s.orders {
		if o.UserID == userID && o.Status == model.StatusInPreparation {
			s.orders[i].DeliveryAddress = address
			s.orders[i].UpdateDatetime = now
			count++
		}
	}
	return count, nil
}
