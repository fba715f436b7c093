package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/order"
)

// OrderRepository MySQL実装のOrderRepository
type OrderRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewOrderRepository 新しいOrderRepositoryを作成
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		tracer: otel.Tracer("order-repository"),
	}
}

const orderInsertQuery = `
	INSERT INTO orders (
		order_id, account_id, kind, value_cents, resulting_credit,
		product_name, player_id, screenshot, status, admin_note, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const orderSelectColumns = `
	order_id, account_id, kind, value_cents, resulting_credit,
	product_name, player_id, screenshot, status, admin_note, created_at, updated_at
`

// Create 注文を作成
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", o.OrderID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "orders"),
	)

	if err := r.insert(ctx, r.db.DB, o); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	span.SetStatus(otelcodes.Ok, "order created")
	return nil
}

// CreateTx トランザクション内で注文を作成
// 商品注文のデビットバッチと同一トランザクションで使用する。
func (r *OrderRepository) CreateTx(ctx context.Context, tx *sql.Tx, o *order.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateTx")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", o.OrderID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "orders"),
	)

	if err := r.insert(ctx, tx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	span.SetStatus(otelcodes.Ok, "order created")
	return nil
}

// execer ExecContextを持つ最小インターフェース（*sql.DB / *sql.Tx 両対応）
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *OrderRepository) insert(ctx context.Context, ex execer, o *order.Order) error {
	_, err := ex.ExecContext(ctx, orderInsertQuery,
		o.OrderID(),
		o.AccountID(),
		o.Kind().String(),
		o.ValueCents(),
		o.ResultingCredit(),
		o.ProductName(),
		o.PlayerID(),
		o.Screenshot(),
		o.Status().String(),
		o.AdminNote(),
		o.CreatedAt(),
		o.UpdatedAt(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return order.ErrOrderAlreadyExists
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// FindByID 注文IDで注文を取得
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	query := `SELECT ` + orderSelectColumns + ` FROM orders WHERE order_id = ?`

	o, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "order not found")
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "order found")
	return o, nil
}

// FindByAccountID アカウントIDで注文一覧を取得（新しい順）
func (r *OrderRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByAccountID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	query := `
		SELECT ` + orderSelectColumns + `
		FROM orders
		WHERE account_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	return r.queryOrders(ctx, span, query, accountID, limit, offset)
}

// FindByStatus ステータスで注文一覧を取得（古い順、管理キュー向け）
func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status, limit, offset int) ([]*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.status", status.String()),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	query := `
		SELECT ` + orderSelectColumns + `
		FROM orders
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?
	`

	return r.queryOrders(ctx, span, query, status.String(), limit, offset)
}

// Transition 注文をpendingから終端状態へ条件付きで遷移させる
// WHERE句でpendingを要求するため、二重承認はErrOrderAlreadyTerminalになる。
func (r *OrderRepository) Transition(ctx context.Context, tx *sql.Tx, orderID string, status order.Status, note string) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Transition")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.status", status.String()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "orders"),
	)

	if !status.Terminal() {
		return order.ErrInvalidStatus
	}

	query := `
		UPDATE orders
		SET status = ?, admin_note = ?, updated_at = ?
		WHERE order_id = ? AND status = 'pending'
	`

	result, err := tx.ExecContext(ctx, query, status.String(), note, time.Now(), orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to transition order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "order not pending")
		return order.ErrOrderAlreadyTerminal
	}

	span.SetStatus(otelcodes.Ok, "order transitioned")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *OrderRepository) scanOrder(row rowScanner) (*order.Order, error) {
	var (
		orderID         string
		accountID       string
		kind            string
		valueCents      int64
		resultingCredit int64
		productName     string
		playerID        string
		screenshot      string
		status          string
		adminNote       string
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&orderID,
		&accountID,
		&kind,
		&valueCents,
		&resultingCredit,
		&productName,
		&playerID,
		&screenshot,
		&status,
		&adminNote,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	k, err := order.NewKind(kind)
	if err != nil {
		return nil, fmt.Errorf("invalid kind column: %w", err)
	}
	st, err := order.NewStatus(status)
	if err != nil {
		return nil, fmt.Errorf("invalid status column: %w", err)
	}

	return order.ReconstructOrder(
		orderID, accountID, k, valueCents, resultingCredit,
		productName, playerID, screenshot, st, adminNote, createdAt, updatedAt,
	), nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, span trace.Span, query string, args ...interface{}) ([]*order.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "orders found")
	return orders, nil
}
