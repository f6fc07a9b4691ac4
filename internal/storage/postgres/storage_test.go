package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/domain/model"
)

var orderRowColumns = []string{
	"id", "order_id", "user_id", "seller_id", "books", "status", "delivery_address",
	"max_delivery_date", "creation_datetime", "update_datetime", "shipping_cost",
}

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func sampleRow() []any {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []any{
		int64(1), int64(1), int64(1), int64(2),
		[]byte(`[{"bookId":2,"units":1,"price":6},{"bookId":1,"units":2,"price":5}]`),
		model.StatusInPreparation, "4 Privet Drive",
		time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), ts, ts, float64(16),
	}
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_id").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_seller_status").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_user_status").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_books").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))

	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAll(t *testing.T) {
	storage, mock := newMockStorage(t)

	rows := pgxmockv3.NewRows(orderRowColumns).AddRow(sampleRow()...)
	mock.ExpectQuery("SELECT .+ FROM orders ORDER BY order_id").WillReturnRows(rows)

	orders, err := storage.Orders().ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	if orders[0].OrderID != 1 || len(orders[0].Books) != 2 || orders[0].Books[1].Units != 2 {
		t.Fatalf("unexpected order decoded: %+v", orders[0])
	}
}

func TestListAllQueryError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT .+ FROM orders ORDER BY order_id").WillReturnError(errors.New("boom"))

	if _, err := storage.Orders().ListAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetByOrderIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT .+ FROM orders WHERE order_id").
		WithArgs(int64(42)).
		WillReturnRows(pgxmockv3.NewRows(orderRowColumns))

	_, err := storage.Orders().GetByOrderID(context.Background(), 42)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByOrderID(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT .+ FROM orders WHERE order_id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows(orderRowColumns).AddRow(sampleRow()...))

	order, err := storage.Orders().GetByOrderID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.SellerID != 2 || order.ShippingCost != 16 {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestInsertReturnsStoreID(t *testing.T) {
	storage, mock := newMockStorage(t)

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &model.Order{
		OrderID:          3,
		UserID:           1,
		SellerID:         2,
		Books:            []model.BookLine{{BookID: 1, Units: 1, Price: 5}},
		Status:           model.StatusInPreparation,
		DeliveryAddress:  "a",
		MaxDeliveryDate:  now.AddDate(0, 0, 15),
		CreationDatetime: now,
		UpdateDatetime:   now,
		ShippingCost:     2,
	}
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(3), int64(1), int64(2), []byte(`[{"bookId":1,"units":1,"price":5}]`),
			model.StatusInPreparation, "a", order.MaxDeliveryDate, now, now, float64(2)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(11)))

	inserted, err := storage.Orders().Insert(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.ID != 11 {
		t.Fatalf("expected store id 11, got %d", inserted.ID)
	}
}

func TestUpdateMissingOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("UPDATE orders SET user_id").
		WithArgs(int64(9), int64(0), int64(0), []byte(`[]`), model.OrderStatus(""), "",
			time.Time{}, time.Time{}, float64(0)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))

	order := &model.Order{OrderID: 9, Books: []model.BookLine{}}
	if err := storage.Orders().Update(context.Background(), order); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateManyCommitsOneTransaction(t *testing.T) {
	storage, mock := newMockStorage(t)

	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{OrderID: 1, UserID: 1, SellerID: 2, Books: []model.BookLine{{BookID: 1, Units: 1, Price: 5}},
			Status: model.StatusCancelled, DeliveryAddress: "a", MaxDeliveryDate: due, UpdateDatetime: now, ShippingCost: 2},
		{OrderID: 2, UserID: 1, SellerID: 2, Books: []model.BookLine{{BookID: 6, Units: 1, Price: 2}},
			Status: model.StatusInPreparation, DeliveryAddress: "a", MaxDeliveryDate: due, UpdateDatetime: now, ShippingCost: 2},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET user_id").
		WithArgs(int64(1), int64(1), int64(2), []byte(`[{"bookId":1,"units":1,"price":5}]`),
			model.StatusCancelled, "a", due, now, float64(2)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders SET user_id").
		WithArgs(int64(2), int64(1), int64(2), []byte(`[{"bookId":6,"units":1,"price":2}]`),
			model.StatusInPreparation, "a", due, now, float64(2)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	if err := storage.Orders().UpdateMany(context.Background(), orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateManyRollsBackOnMiss(t *testing.T) {
	storage, mock := newMockStorage(t)

	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{OrderID: 9, Books: []model.BookLine{}, UpdateDatetime: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET user_id").
		WithArgs(int64(9), int64(0), int64(0), []byte(`[]`), model.OrderStatus(""), "",
			time.Time{}, now, float64(0)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	if err := storage.Orders().UpdateMany(context.Background(), orders); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateManyEmptyIsNoop(t *testing.T) {
	storage, mock := newMockStorage(t)

	if err := storage.Orders().UpdateMany(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements expected: %v", err)
	}
}

func TestDelete(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("DELETE FROM orders WHERE order_id").
		WithArgs(int64(1)).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 1))

	deleted, err := storage.Orders().Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion reported")
	}
}

func TestDeleteMissing(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("DELETE FROM orders WHERE order_id").
		WithArgs(int64(1)).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 0))

	deleted, err := storage.Orders().Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatal("expected no deletion")
	}
}

func TestCancelBySellerCountsRows(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(int64(7), now, model.StatusCancelled, model.StatusInPreparation).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 3))

	count, err := storage.Orders().CancelBySeller(context.Background(), 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}
}

func TestUpdateAddressByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	mock.ExpectExec("UPDATE orders SET delivery_address").
		WithArgs(int64(4), "new address", now, model.StatusInPreparation).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))

	count, err := storage.Orders().UpdateAddressByUser(context.Background(), 4, "new address", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestListInPreparationByBookUsesContainment(t *testing.T) {
	storage, mock := newMockStorage(t)
	rows := pgxmockv3.NewRows(orderRowColumns).AddRow(sampleRow()...)
	mock.ExpectQuery("SELECT .+ FROM orders WHERE status=.+ AND books").
		WithArgs(model.StatusInPreparation, `[{"bookId":2}]`).
		WillReturnRows(rows)

	orders, err := storage.Orders().ListInPreparationByBook(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()

	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsBadDSN(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := New(context.Background(), ":://bad", logger); err == nil {
		t.Fatal("expected error")
	}
}
