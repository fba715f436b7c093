package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/settings"
)

// SettingsRepository MySQL実装のSettingsRepository
// 経済設定は単一行（id=1）で保持するシングルトン。
type SettingsRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewSettingsRepository 新しいSettingsRepositoryを作成
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		tracer: otel.Tracer("settings-repository"),
	}
}

// Load 経済設定を取得（未設定なら既定値を返す）
func (r *SettingsRepository) Load(ctx context.Context) (*settings.EconomySettings, error) {
	ctx, span := r.tracer.Start(ctx, "SettingsRepository.Load")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "economy_settings"),
	)

	query := `
		SELECT production_ratio_percent, diamond_to_coin_num, diamond_to_coin_den,
		       salary_unit_diamonds, salary_unit_payout, announcement_threshold, usd_to_coin_rate
		FROM economy_settings
		WHERE id = 1
	`

	var (
		productionRatioPercent int
		diamondToCoinNum       int64
		diamondToCoinDen       int64
		salaryUnitDiamonds     int64
		salaryUnitPayout       int64
		announcementThreshold  int64
		usdToCoinRate          int64
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&productionRatioPercent,
		&diamondToCoinNum,
		&diamondToCoinDen,
		&salaryUnitDiamonds,
		&salaryUnitPayout,
		&announcementThreshold,
		&usdToCoinRate,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "settings not found, using defaults")
		return settings.DefaultEconomySettings(), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "settings loaded")

	s, err := settings.NewEconomySettings(
		productionRatioPercent,
		diamondToCoinNum, diamondToCoinDen,
		salaryUnitDiamonds, salaryUnitPayout,
		announcementThreshold,
		usdToCoinRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct settings entity: %w", err)
	}
	return s, nil
}

// Save 経済設定を保存
func (r *SettingsRepository) Save(ctx context.Context, s *settings.EconomySettings) error {
	ctx, span := r.tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "economy_settings"),
	)

	query := `
		INSERT INTO economy_settings (
			id, production_ratio_percent, diamond_to_coin_num, diamond_to_coin_den,
			salary_unit_diamonds, salary_unit_payout, announcement_threshold, usd_to_coin_rate
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			production_ratio_percent = VALUES(production_ratio_percent),
			diamond_to_coin_num = VALUES(diamond_to_coin_num),
			diamond_to_coin_den = VALUES(diamond_to_coin_den),
			salary_unit_diamonds = VALUES(salary_unit_diamonds),
			salary_unit_payout = VALUES(salary_unit_payout),
			announcement_threshold = VALUES(announcement_threshold),
			usd_to_coin_rate = VALUES(usd_to_coin_rate),
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ProductionRatioPercent(),
		s.DiamondToCoinNum(),
		s.DiamondToCoinDen(),
		s.SalaryUnitDiamonds(),
		s.SalaryUnitPayout(),
		s.AnnouncementThreshold(),
		s.UsdToCoinRate(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save settings: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "settings saved")
	return nil
}
