package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"ledger-server/internal/domain/order"
)

func newOrderRepository(t *testing.T) (*OrderRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &OrderRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}
	return repo, mock, func() { db.Close() }
}

func orderColumns() []string {
	return []string{
		"order_id", "account_id", "kind", "value_cents", "resulting_credit",
		"product_name", "player_id", "screenshot", "status", "admin_note", "created_at", "updated_at",
	}
}

func TestOrderRepository_Create(t *testing.T) {
	t.Run("正常系: 入金注文を作成", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		o := order.MustNewOrder("order-1", "user1", order.KindDeposit, 2000, 0, "", "", "proof.png")

		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs("order-1", "user1", "deposit", int64(2000), int64(0),
				"", "", "proof.png", "pending", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(context.Background(), o)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: 注文IDの重複", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		o := order.MustNewOrder("order-1", "user1", order.KindDeposit, 2000, 0, "", "", "")

		mock.ExpectExec(`INSERT INTO orders`).
			WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := repo.Create(context.Background(), o)

		assert.ErrorIs(t, err, order.ErrOrderAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_CreateTx(t *testing.T) {
	t.Run("正常系: トランザクション内で商品注文を作成", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		o := order.MustNewOrder("order-1", "user1", order.KindProduct, 999, 999, "1000 Coins", "player42", "")

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs("order-1", "user1", "product", int64(999), int64(999),
				"1000 Coins", "player42", "", "pending", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx, err := repo.db.Begin()
		require.NoError(t, err)

		err = repo.CreateTx(context.Background(), tx, o)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_FindByID(t *testing.T) {
	t.Run("正常系: 注文を取得", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		now := time.Now()
		mock.ExpectQuery(`SELECT .+ FROM orders WHERE order_id = \?`).
			WithArgs("order-1").
			WillReturnRows(sqlmock.NewRows(orderColumns()).
				AddRow("order-1", "user1", "product", int64(999), int64(999),
					"1000 Coins", "player42", "", "pending", "", now, now))

		o, err := repo.FindByID(context.Background(), "order-1")

		require.NoError(t, err)
		assert.Equal(t, "order-1", o.OrderID())
		assert.Equal(t, order.KindProduct, o.Kind())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, int64(999), o.ResultingCredit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: 注文が存在しない", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		mock.ExpectQuery(`SELECT .+ FROM orders WHERE order_id = \?`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(orderColumns()))

		_, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, order.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_FindByStatus(t *testing.T) {
	t.Run("正常系: pendingの管理キューを古い順で取得", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		now := time.Now()
		mock.ExpectQuery(`SELECT .+ FROM orders\s+WHERE status = \?`).
			WithArgs("pending", 50, 0).
			WillReturnRows(sqlmock.NewRows(orderColumns()).
				AddRow("order-1", "user1", "deposit", int64(2000), int64(0),
					"", "", "proof.png", "pending", "", now.Add(-time.Hour), now.Add(-time.Hour)).
				AddRow("order-2", "user2", "product", int64(999), int64(999),
					"1000 Coins", "p1", "", "pending", "", now, now))

		orders, err := repo.FindByStatus(context.Background(), order.StatusPending, 50, 0)

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "order-1", orders[0].OrderID())
		assert.Equal(t, "order-2", orders[1].OrderID())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_Transition(t *testing.T) {
	t.Run("正常系: pendingからcompletedへ遷移", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders\s+SET status = \?, admin_note = \?`).
			WithArgs("completed", "verified", sqlmock.AnyArg(), "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := repo.db.Begin()
		require.NoError(t, err)

		err = repo.Transition(context.Background(), tx, "order-1", order.StatusCompleted, "verified")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: 既に終端状態の注文はErrOrderAlreadyTerminal", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders\s+SET status = \?, admin_note = \?`).
			WithArgs("rejected", "dup", sqlmock.AnyArg(), "order-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.db.Begin()
		require.NoError(t, err)

		err = repo.Transition(context.Background(), tx, "order-1", order.StatusRejected, "dup")

		assert.ErrorIs(t, err, order.ErrOrderAlreadyTerminal)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: pendingへの遷移は無効", func(t *testing.T) {
		repo, mock, closeDB := newOrderRepository(t)
		defer closeDB()

		mock.ExpectBegin()

		tx, err := repo.db.Begin()
		require.NoError(t, err)

		err = repo.Transition(context.Background(), tx, "order-1", order.StatusPending, "")

		assert.ErrorIs(t, err, order.ErrInvalidStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
