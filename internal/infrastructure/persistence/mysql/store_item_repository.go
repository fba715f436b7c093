package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/reward"
	"ledger-server/internal/domain/store"
)

// StoreItemRepository MySQL実装のstore.ItemRepository（カタログ読み取り）
type StoreItemRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewStoreItemRepository 新しいStoreItemRepositoryを作成
func NewStoreItemRepository(db *DB) *StoreItemRepository {
	return &StoreItemRepository{
		db:     db,
		tracer: otel.Tracer("store-item-repository"),
	}
}

// FindByID アイテムIDでアイテムを取得
func (r *StoreItemRepository) FindByID(ctx context.Context, itemID string) (*store.Item, error) {
	ctx, span := r.tracer.Start(ctx, "StoreItemRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.item_id", itemID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "store_items"),
	)

	query := `
		SELECT item_id, name, price_coins, reward_kind, reward_value
		FROM store_items
		WHERE item_id = ?
	`

	var (
		dbItemID    string
		name        string
		priceCoins  int64
		rewardKind  sql.NullString
		rewardValue sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&dbItemID,
		&name,
		&priceCoins,
		&rewardKind,
		&rewardValue,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "store item not found")
		return nil, store.ErrItemNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find store item: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "store item found")

	var rw reward.Reward
	if rewardKind.Valid && rewardKind.String != "" {
		rw, err = reward.Parse(reward.Kind(rewardKind.String), dbItemID, rewardValue.String)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct item reward: %w", err)
		}
	}

	item, err := store.NewItem(dbItemID, name, priceCoins, rw)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct store item entity: %w", err)
	}
	return item, nil
}
