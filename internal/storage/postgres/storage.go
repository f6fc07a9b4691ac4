package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
	"github.com/bookmart/orders/internal/domain/model"
	"github.com/bookmart/orders/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the storage relies on; satisfied by
// pgxmock pools in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository backed by this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL,
            user_id BIGINT NOT NULL,
            seller_id BIGINT NOT NULL,
            books JSONB NOT NULL,
            status TEXT NOT NULL,
            delivery_address TEXT NOT NULL,
            max_delivery_date DATE NOT NULL,
            creation_datetime TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            update_datetime TIMESTAMPTZ NOT NULL,
            shipping_cost DOUBLE PRECISION NOT NULL
        )`,
		// Unique index makes a lost create race surface as a write error
		// instead of a silent duplicate order_id.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_id ON orders(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller_status ON orders(seller_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_books ON orders USING GIN (books)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_id, user_id, seller_id, books, status, delivery_address,
                      max_delivery_date, creation_datetime, update_datetime, shipping_cost`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		books []byte
	)
	err := row.Scan(&o.ID, &o.OrderID, &o.UserID, &o.SellerID, &books, &o.Status,
		&o.DeliveryAddress, &o.MaxDeliveryDate, &o.CreationDatetime, &o.UpdateDatetime, &o.ShippingCost)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(books, &o.Books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY order_id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListInPreparationByBook(ctx context.Context, bookID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 AND books @> $2::jsonb ORDER BY order_id`
	contains := fmt.Sprintf(`[{"bookId":%d}]`, bookID)
	rows, err := r.storage.pool.Query(ctx, query, model.StatusInPreparation, contains)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListInPreparationByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 AND status=$2 ORDER BY order_id`
	rows, err := r.storage.pool.Query(ctx, query, userID, model.StatusInPreparation)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Insert(ctx context.Context, order *model.Order) (*model.Order, error) {
	books, err := json.Marshal(order.Books)
	if err != nil {
		return nil, fmt.Errorf("encode books: %w", err)
	}

	const query = `INSERT INTO orders (order_id, user_id, seller_id, books, status, delivery_address,
                       max_delivery_date, creation_datetime, update_datetime, shipping_cost)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id`
	err = r.storage.pool.QueryRow(ctx, query,
		order.OrderID, order.UserID, order.SellerID, books, order.Status, order.DeliveryAddress,
		order.MaxDeliveryDate, order.CreationDatetime, order.UpdateDatetime, order.ShippingCost,
	).Scan(&order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

const updateOrderQuery = `UPDATE orders SET user_id=$2, seller_id=$3, books=$4, status=$5, delivery_address=$6,
                       max_delivery_date=$7, update_datetime=$8, shipping_cost=$9
                   WHERE order_id=$1`

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	books, err := json.Marshal(order.Books)
	if err != nil {
		return fmt.Errorf("encode books: %w", err)
	}

	tag, err := r.storage.pool.Exec(ctx, updateOrderQuery,
		order.OrderID, order.UserID, order.SellerID, books, order.Status, order.DeliveryAddress,
		order.MaxDeliveryDate, order.UpdateDatetime, order.ShippingCost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateMany(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for i := range orders {
			o := &orders[i]
			books, err := json.Marshal(o.Books)
			if err != nil {
				return fmt.Errorf("encode books: %w", err)
			}
			tag, err := tx.Exec(ctx, updateOrderQuery,
				o.OrderID, o.UserID, o.SellerID, books, o.Status, o.DeliveryAddress,
				o.MaxDeliveryDate, o.UpdateDatetime, o.ShippingCost)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return domainErrors.ErrNotFound
			}
		}
		return nil
	})
}

func (r *orderRepository) Delete(ctx context.Context, orderID int64) (bool, error) {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE order_id=$1`, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) CancelBySeller(ctx context.Context, sellerID int64, now time.Time) (int64, error) {
	const query = `UPDATE orders SET status=$3, update_datetime=$2 WHERE seller_id=$1 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, sellerID, now, model.StatusCancelled, model.StatusInPreparation)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepository) CancelByUser(ctx context.Context, userID int64, now time.Time) (int64, error) {
	const query = `UPDATE orders SET status=$3, update_datetime=$2 WHERE user_id=$1 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, userID, now, model.StatusCancelled, model.StatusInPreparation)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepository) UpdateAddressByUser(ctx context.Context, userID int64, address string, now time.Time) (int64, error) {
	const query = `UPDATE orders SET delivery_address=$2, update_datetime=$3 WHERE user_id=$1 AND status=$4`
	tag, err := r.storage.pool.Exec(ctx, query, userID, address, now, model.StatusInPreparation)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
