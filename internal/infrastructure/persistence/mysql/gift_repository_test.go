package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"ledger-server/internal/domain/gift"
)

func TestGiftRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &GiftRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}

	t.Run("正常系: ギフトを取得", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM gifts`).
			WithArgs("rose").
			WillReturnRows(sqlmock.NewRows([]string{"gift_id", "name", "unit_cost", "icon", "animation_type", "duration"}).
				AddRow("rose", "Rose", int64(100), "rose.png", "fullscreen", 5))

		g, err := repo.FindByID(context.Background(), "rose")

		require.NoError(t, err)
		assert.Equal(t, "rose", g.GiftID())
		assert.Equal(t, "Rose", g.Name())
		assert.Equal(t, int64(100), g.UnitCost())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("異常系: ギフトが存在しない", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM gifts`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"gift_id", "name", "unit_cost", "icon", "animation_type", "duration"}))

		_, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, gift.ErrGiftNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGiftEventRepository_FindByAccountID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := &GiftEventRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}

	t.Run("正常系: 送受信イベントを取得", func(t *testing.T) {
		columns := []string{
			"event_id", "gift_id", "gift_name", "sender_id", "recipient_ids",
			"quantity", "gross_value", "recipient_credit", "earned_share", "win_amount", "created_at",
		}
		mock.ExpectQuery(`SELECT .+ FROM gift_events`).
			WithArgs("host1", "host1", 50, 0).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("evt1", "rose", "Rose", "user1", []byte(`["host1","host2"]`),
					int64(3), int64(300), int64(300), int64(210), int64(0), time.Now()))

		events, err := repo.FindByAccountID(context.Background(), "host1", 50, 0)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "evt1", events[0].EventID())
		assert.Equal(t, []string{"host1", "host2"}, events[0].RecipientIDs())
		assert.Equal(t, int64(210), events[0].EarnedShare())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
