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

	"ledger-server/internal/domain/ledger"
)

// EntryRepository MySQL実装のEntryRepository（読み取り専用）
type EntryRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewEntryRepository 新しいEntryRepositoryを作成
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{
		db:     db,
		tracer: otel.Tracer("entry-repository"),
	}
}

// FindByEntryID エントリIDでエントリを取得
func (r *EntryRepository) FindByEntryID(ctx context.Context, entryID string) (*ledger.Entry, error) {
	ctx, span := r.tracer.Start(ctx, "EntryRepository.FindByEntryID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.entry_id", entryID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "ledger_entries"),
	)

	query := `
		SELECT entry_id, account_id, kind, amount, metadata, created_at
		FROM ledger_entries
		WHERE entry_id = ?
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, entryID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "entry not found")
		return nil, ledger.ErrEntryNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "entry found")
	return entry, nil
}

// FindByAccountID アカウントIDでエントリ一覧を取得（新しい順）
func (r *EntryRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*ledger.Entry, error) {
	ctx, span := r.tracer.Start(ctx, "EntryRepository.FindByAccountID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "ledger_entries"),
	)

	query := `
		SELECT entry_id, account_id, kind, amount, metadata, created_at
		FROM ledger_entries
		WHERE account_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "entries found")
	return entries, nil
}

func scanEntry(row rowScanner) (*ledger.Entry, error) {
	var (
		entryID   string
		accountID string
		kind      string
		amount    int64
		metadata  []byte
		createdAt time.Time
	)

	if err := row.Scan(&entryID, &accountID, &kind, &amount, &metadata, &createdAt); err != nil {
		return nil, err
	}

	k, err := ledger.NewEntryKind(kind)
	if err != nil {
		return nil, fmt.Errorf("invalid kind column: %w", err)
	}

	var meta map[string]interface{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &meta); err != nil {
			return nil, fmt.Errorf("invalid metadata column: %w", err)
		}
	}

	return ledger.ReconstructEntry(entryID, accountID, k, amount, meta, createdAt), nil
}
