package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/ledger"
)

// OutboxRepository MySQL実装のOutboxRepository
type OutboxRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewOutboxRepository 新しいOutboxRepositoryを作成
func NewOutboxRepository(db *DB) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		tracer: otel.Tracer("outbox-repository"),
	}
}

// FetchPending 未送信メッセージを古い順に取得
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]ledger.PendingMessage, error) {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.FetchPending")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.limit", limit),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "outbox_messages"),
	)

	query := `
		SELECT id, topic, message_key, payload, created_at
		FROM outbox_messages
		WHERE published_at IS NULL
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to fetch pending messages: %w", err)
	}
	defer rows.Close()

	var messages []ledger.PendingMessage
	for rows.Next() {
		var msg ledger.PendingMessage
		var createdAt time.Time
		if err := rows.Scan(&msg.ID, &msg.Topic, &msg.MessageKey, &msg.Payload, &createdAt); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan pending message: %w", err)
		}
		msg.CreatedAt = createdAt
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate pending messages: %w", err)
	}

	span.SetAttributes(attribute.Int("db.fetched", len(messages)))
	span.SetStatus(otelcodes.Ok, "pending messages fetched")
	return messages, nil
}

// MarkPublished 送信済みとしてマークする
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []int64) error {
	ctx, span := r.tracer.Start(ctx, "OutboxRepository.MarkPublished")
	defer span.End()

	span.SetAttributes(
		attribute.Int("db.count", len(ids)),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "outbox_messages"),
	)

	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		UPDATE outbox_messages
		SET published_at = CURRENT_TIMESTAMP
		WHERE id IN (%s)
	`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to mark messages published: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "messages marked published")
	return nil
}
