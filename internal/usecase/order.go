package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/domain/repository"
)

// OrderUseCase is the order query and mutation engine. It interprets
// filters, computes derived totals, applies partial updates and enforces
// the deletion policy. It holds no state between requests: every
// operation re-reads from the repository.
type OrderUseCase struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, now: time.Now}
}

// List returns orders matching the query. Filters compose as AND in a
// fixed sequence; range filters run after sorting because the price range
// needs computed totals. An empty result is ErrNotFound.
func (u *OrderUseCase) List(ctx context.Context, q model.ListQuery) ([]model.Order, error) {
	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	selected := orders
	if q.UserID != nil {
		selected = keep(selected, func(o model.Order) bool { return o.UserID == *q.UserID })
	}
	if q.SellerID != nil {
		selected = keep(selected, func(o model.Order) bool { return o.SellerID == *q.SellerID })
	}
	if q.Status != nil {
		selected = keep(selected, func(o model.Order) bool { return o.Status == *q.Status })
	}
	if q.BookID != nil {
		selected = keep(selected, func(o model.Order) bool { return o.ContainsBook(*q.BookID) })
	}

	sortOrders(selected, q.Sort)

	if q.MinPayment != nil && q.MaxPayment != nil {
		selected = keep(selected, func(o model.Order) bool {
			return o.ShippingCost >= *q.MinPayment && o.ShippingCost <= *q.MaxPayment
		})
	}
	if q.MinPrice != nil && q.MaxPrice != nil {
		selected = keep(selected, func(o model.Order) bool {
			total := o.TotalPrice()
			return total >= *q.MinPrice && total <= *q.MaxPrice
		})
	}

	if len(selected) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return selected, nil
}

func keep(orders []model.Order, pred func(model.Order) bool) []model.Order {
	result := orders[:0:len(orders)]
	for _, o := range orders {
		if pred(o) {
			result = append(result, o)
		}
	}
	return result
}

func sortOrders(orders []model.Order, key model.SortKey) {
	var less func(a, b model.Order) bool
	switch key {
	case model.SortCreationDate:
		less = func(a, b model.Order) bool { return a.CreationDatetime.Before(b.CreationDatetime) }
	case model.SortUpdateDatetime:
		less = func(a, b model.Order) bool { return a.UpdateDatetime.Before(b.UpdateDatetime) }
	case model.SortMaxDeliveryDate:
		less = func(a, b model.Order) bool { return a.MaxDeliveryDate.Before(b.MaxDeliveryDate) }
	case model.SortShippingCost:
		less = func(a, b model.Order) bool { return a.ShippingCost < b.ShippingCost }
	case model.SortPrice:
		less = func(a, b model.Order) bool { return a.TotalPrice() < b.TotalPrice() }
	default:
		return
	}
	sort.SliceStable(orders, func(i, j int) bool { return less(orders[i], orders[j]) })
}

// Get returns a single order by its public identifier.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByOrderID(ctx, orderID)
}

// TotalPrice returns the computed total for one order.
func (u *OrderUseCase) TotalPrice(ctx context.Context, orderID int64) (float64, error) {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return order.TotalPrice(), nil
}

// Create validates the draft, assigns server-owned fields and persists
// the order.
//
// The identifier is 1 + the maximum orderId in a snapshot read taken just
// before the insert. Concurrent creates can race on that read; the unique
// index on order_id turns a lost race into a write error.
func (u *OrderUseCase) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if draft.UserID == 0 || draft.SellerID == 0 || len(draft.Books) == 0 ||
		draft.DeliveryAddress == "" || draft.ShippingCost == 0 {
		return nil, domainErrors.ErrMissingFields
	}
	if err := ValidateBooks(draft.Books); err != nil {
		return nil, err
	}

	now := u.now()
	maxDeliveryDate := now.AddDate(0, 0, 15)
	if draft.MaxDeliveryDate != "" {
		parsed, err := ParseDeliveryDate(draft.MaxDeliveryDate)
		if err != nil {
			return nil, err
		}
		maxDeliveryDate = parsed
	}

	existing, err := u.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var maxID int64
	for _, o := range existing {
		if o.OrderID > maxID {
			maxID = o.OrderID
		}
	}

	order := &model.Order{
		OrderID:          maxID + 1,
		UserID:           draft.UserID,
		SellerID:         draft.SellerID,
		Books:            draft.Books,
		Status:           model.StatusInPreparation,
		DeliveryAddress:  draft.DeliveryAddress,
		MaxDeliveryDate:  maxDeliveryDate,
		CreationDatetime: now,
		UpdateDatetime:   now,
		ShippingCost:     draft.ShippingCost,
	}

	return u.orders.Insert(ctx, order)
}

// UpdateInput carries the raw partial-update payload. Zero values mean
// "field absent", reproducing the truthiness contract of the API.
type UpdateInput struct {
	UserID          int64
	SellerID        int64
	Books           []model.BookLine
	Status          string
	DeliveryAddress string
	MaxDeliveryDate string
	ShippingCost    float64
}

// Update builds a patch from the provided fields, validates them, merges
// the patch into the stored order and persists it. The applied patch is
// returned so callers can react to status changes.
func (u *OrderUseCase) Update(ctx context.Context, orderID int64, in UpdateInput) (*model.Order, *model.OrderPatch, error) {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	patch := model.OrderPatch{UpdateDatetime: u.now()}
	if in.UserID != 0 {
		patch.UserID = &in.UserID
	}
	if in.SellerID != 0 {
		patch.SellerID = &in.SellerID
	}
	if in.Books != nil {
		if err := ValidateBooks(in.Books); err != nil {
			return nil, nil, err
		}
		patch.Books = in.Books
	}
	if in.Status != "" {
		status := model.OrderStatus(in.Status)
		if !status.Valid() {
			return nil, nil, domainErrors.ErrInvalidStatus
		}
		patch.Status = &status
	}
	if in.DeliveryAddress != "" {
		patch.DeliveryAddress = &in.DeliveryAddress
	}
	if in.MaxDeliveryDate != "" {
		parsed, err := ParseDeliveryDate(in.MaxDeliveryDate)
		if err != nil {
			return nil, nil, err
		}
		patch.MaxDeliveryDate = &parsed
	}
	if in.ShippingCost != 0 {
		patch.ShippingCost = &in.ShippingCost
	}

	patch.ApplyTo(order)
	if err := u.orders.Update(ctx, order); err != nil {
		return nil, nil, err
	}
	return order, &patch, nil
}

// RemoveBook cancels or trims in-progress orders containing the book.
// A single-line order for the book is cancelled outright; otherwise only
// that line item is dropped. An optional seller scope narrows the sweep.
// The whole sweep persists in one transaction.
func (u *OrderUseCase) RemoveBook(ctx context.Context, bookID int64, sellerID *int64) (int64, error) {
	orders, err := u.orders.ListInPreparationByBook(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("scan orders for book %d: %w", bookID, err)
	}

	now := u.now()
	modified := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if sellerID != nil && o.SellerID != *sellerID {
			continue
		}
		if len(o.Books) == 1 {
			o.Status = model.StatusCancelled
		} else {
			remaining := make([]model.BookLine, 0, len(o.Books)-1)
			for _, b := range o.Books {
				if b.BookID != bookID {
					remaining = append(remaining, b)
				}
			}
			o.Books = remaining
		}
		o.UpdateDatetime = now
		modified = append(modified, o)
	}

	if len(modified) == 0 {
		return 0, domainErrors.ErrNotFound
	}
	if err := u.orders.UpdateMany(ctx, modified); err != nil {
		return 0, fmt.Errorf("update %d orders for book %d: %w", len(modified), bookID, err)
	}
	return int64(len(modified)), nil
}

// CancelBySeller cancels all in-progress orders of a seller in one bulk
// update.
func (u *OrderUseCase) CancelBySeller(ctx context.Context, sellerID int64) (int64, error) {
	count, err := u.orders.CancelBySeller(ctx, sellerID, u.now())
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, domainErrors.ErrNotFound
	}
	return count, nil
}

// CancelByUser cancels all in-progress orders of a buyer. The affected
// orders are read before the bulk update so callers can restore stock for
// their line items.
func (u *OrderUseCase) CancelByUser(ctx context.Context, userID int64) (int64, []model.Order, error) {
	affected, err := u.orders.ListInPreparationByUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	count, err := u.orders.CancelByUser(ctx, userID, u.now())
	if err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, domainErrors.ErrNotFound
	}
	return count, affected, nil
}

// UpdateAddressByUser rewrites the delivery address of all in-progress
// orders of a buyer.
func (u *OrderUseCase) UpdateAddressByUser(ctx context.Context, userID int64, address string) (int64, error) {
	if address == "" {
		return 0, domainErrors.ErrMissingAddress
	}
	count, err := u.orders.UpdateAddressByUser(ctx, userID, address, u.now())
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, domainErrors.ErrNotFound
	}
	return count, nil
}

// Delete removes an order. Only terminal orders (Cancelled, Delivered)
// may be deleted.
func (u *OrderUseCase) Delete(ctx context.Context, orderID int64) error {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.Status.Terminal() {
		return domainErrors.ErrOrderNotDeletable
	}
	deleted, err := u.orders.Delete(ctx, orderID)
	if err != nil {
		return err
	}
	if !deleted {
		return domainErrors.ErrNotFound
	}
	return nil
}
