package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/gift"
)

// GiftRepository MySQL実装のGiftRepository（カタログ読み取り）
type GiftRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewGiftRepository 新しいGiftRepositoryを作成
func NewGiftRepository(db *DB) *GiftRepository {
	return &GiftRepository{
		db:     db,
		tracer: otel.Tracer("gift-repository"),
	}
}

// FindByID ギフトIDでギフトを取得
func (r *GiftRepository) FindByID(ctx context.Context, giftID string) (*gift.Gift, error) {
	ctx, span := r.tracer.Start(ctx, "GiftRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.gift_id", giftID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gifts"),
	)

	query := `
		SELECT gift_id, name, unit_cost, icon, animation_type, duration
		FROM gifts
		WHERE gift_id = ?
	`

	var (
		dbGiftID      string
		name          string
		unitCost      int64
		icon          string
		animationType string
		duration      int
	)

	err := r.db.QueryRowContext(ctx, query, giftID).Scan(
		&dbGiftID,
		&name,
		&unitCost,
		&icon,
		&animationType,
		&duration,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "gift not found")
		return nil, gift.ErrGiftNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find gift: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "gift found")

	g, err := gift.NewGift(dbGiftID, name, unitCost, icon, animationType, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct gift entity: %w", err)
	}
	return g, nil
}

// GiftEventRepository MySQL実装のgift.EventRepository（読み取り専用）
type GiftEventRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewGiftEventRepository 新しいGiftEventRepositoryを作成
func NewGiftEventRepository(db *DB) *GiftEventRepository {
	return &GiftEventRepository{
		db:     db,
		tracer: otel.Tracer("gift-event-repository"),
	}
}

// FindByAccountID 送信者または受信者として関わったイベント一覧を取得（新しい順）
func (r *GiftEventRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*gift.Event, error) {
	ctx, span := r.tracer.Start(ctx, "GiftEventRepository.FindByAccountID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "gift_events"),
	)

	// 受信者はJSON配列で保持しているためJSON_CONTAINSで照合する
	query := `
		SELECT event_id, gift_id, gift_name, sender_id, recipient_ids,
		       quantity, gross_value, recipient_credit, earned_share, win_amount, created_at
		FROM gift_events
		WHERE sender_id = ? OR JSON_CONTAINS(recipient_ids, JSON_QUOTE(?))
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, accountID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query gift events: %w", err)
	}
	defer rows.Close()

	var events []*gift.Event
	for rows.Next() {
		event, err := scanGiftEvent(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan gift event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate gift events: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "gift events found")
	return events, nil
}

func scanGiftEvent(row rowScanner) (*gift.Event, error) {
	var (
		eventID         string
		giftID          string
		giftName        string
		senderID        string
		recipientIDsRaw []byte
		quantity        int64
		grossValue      int64
		recipientCredit int64
		earnedShare     int64
		winAmount       int64
		createdAt       time.Time
	)

	err := row.Scan(
		&eventID,
		&giftID,
		&giftName,
		&senderID,
		&recipientIDsRaw,
		&quantity,
		&grossValue,
		&recipientCredit,
		&earnedShare,
		&winAmount,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	var recipientIDs []string
	if err := json.Unmarshal(recipientIDsRaw, &recipientIDs); err != nil {
		return nil, fmt.Errorf("invalid recipient_ids column: %w", err)
	}

	return gift.ReconstructEvent(
		eventID, giftID, giftName, senderID, recipientIDs,
		quantity, grossValue, recipientCredit, earnedShare, winAmount, createdAt,
	), nil
}
