package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"ledger-server/internal/domain/settings"
)

func newSettingsRepository(t *testing.T) (*SettingsRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &SettingsRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}
	return repo, mock, func() { db.Close() }
}

func settingsColumns() []string {
	return []string{
		"production_ratio_percent", "diamond_to_coin_num", "diamond_to_coin_den",
		"salary_unit_diamonds", "salary_unit_payout", "announcement_threshold", "usd_to_coin_rate",
	}
}

func TestSettingsRepository_Load(t *testing.T) {
	t.Run("正常系: 保存済み設定を取得", func(t *testing.T) {
		repo, mock, closeDB := newSettingsRepository(t)
		defer closeDB()

		mock.ExpectQuery(`SELECT .+ FROM economy_settings`).
			WillReturnRows(sqlmock.NewRows(settingsColumns()).
				AddRow(60, int64(1), int64(3), int64(70000), int64(80000), int64(20000), int64(110)))

		s, err := repo.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 60, s.ProductionRatioPercent())
		assert.Equal(t, int64(20000), s.AnnouncementThreshold())
		assert.Equal(t, int64(110), s.UsdToCoinRate())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("正常系: 未設定なら既定値を返す", func(t *testing.T) {
		repo, mock, closeDB := newSettingsRepository(t)
		defer closeDB()

		mock.ExpectQuery(`SELECT .+ FROM economy_settings`).
			WillReturnRows(sqlmock.NewRows(settingsColumns()))

		s, err := repo.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, settings.DefaultProductionRatioPercent, s.ProductionRatioPercent())
		assert.Equal(t, int64(settings.DefaultAnnouncementThreshold), s.AnnouncementThreshold())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettingsRepository_Save(t *testing.T) {
	t.Run("正常系: 設定をupsertで保存", func(t *testing.T) {
		repo, mock, closeDB := newSettingsRepository(t)
		defer closeDB()

		s := settings.MustNewEconomySettings(60, 1, 3, 70000, 80000, 20000, 110)

		mock.ExpectExec(`INSERT INTO economy_settings`).
			WithArgs(60, int64(1), int64(3), int64(70000), int64(80000), int64(20000), int64(110)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Save(context.Background(), s)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
