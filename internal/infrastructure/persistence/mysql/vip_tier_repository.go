package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/vip"
)

// VipTierRepository MySQL実装のTierRepository（カタログ読み取り）
type VipTierRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewVipTierRepository 新しいVipTierRepositoryを作成
func NewVipTierRepository(db *DB) *VipTierRepository {
	return &VipTierRepository{
		db:     db,
		tracer: otel.Tracer("vip-tier-repository"),
	}
}

// FindByID ティアIDでティアを取得
func (r *VipTierRepository) FindByID(ctx context.Context, tierID string) (*vip.Tier, error) {
	ctx, span := r.tracer.Start(ctx, "VipTierRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.tier_id", tierID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "vip_tiers"),
	)

	query := `
		SELECT tier_id, level, cost, frame_url
		FROM vip_tiers
		WHERE tier_id = ?
	`

	var (
		dbTierID string
		level    int
		cost     int64
		frameURL string
	)

	err := r.db.QueryRowContext(ctx, query, tierID).Scan(
		&dbTierID,
		&level,
		&cost,
		&frameURL,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "tier not found")
		return nil, vip.ErrTierNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find vip tier: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "tier found")

	t, err := vip.NewTier(dbTierID, level, cost, frameURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tier entity: %w", err)
	}
	return t, nil
}
