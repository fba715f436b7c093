package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
)

// balanceColumns BalanceFieldから列名への対応
// SQLへ直接埋め込むため、必ずこの表を経由させる。
var balanceColumns = map[ledger.BalanceField]string{
	ledger.FieldBalanceCents:   "balance_cents",
	ledger.FieldCoins:          "coins",
	ledger.FieldDiamonds:       "diamonds",
	ledger.FieldWealth:         "wealth",
	ledger.FieldCharm:          "charm",
	ledger.FieldAgencyBalance:  "agency_balance",
	ledger.FieldRechargePoints: "recharge_points",
	ledger.FieldHostProduction: "host_production",
}

// BatchStore MySQL実装のledger.TxStore
// バッチの全ミューテーションを単一トランザクションで適用する。残高の更新は
// すべて相対加算なので、同時適用されるバッチ同士は順序に依らず収束する。
type BatchStore struct {
	db     *DB
	tracer trace.Tracer
}

// NewBatchStore 新しいBatchStoreを作成
func NewBatchStore(db *DB) *BatchStore {
	return &BatchStore{
		db:     db,
		tracer: otel.Tracer("batch-store"),
	}
}

// Apply バッチをアトミックに適用
func (s *BatchStore) Apply(ctx context.Context, batch *ledger.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.ApplyTx(ctx, tx, batch); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// ApplyTx トランザクション内でバッチを適用
// 冪等性キーの挿入が先頭に立つため、適用済みバッチはErrDuplicateEntryで
// 拒否され、後続のミューテーションは一切実行されない。
func (s *BatchStore) ApplyTx(ctx context.Context, tx *sql.Tx, batch *ledger.Batch) error {
	ctx, span := s.tracer.Start(ctx, "BatchStore.ApplyTx")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.idempotency_key", batch.IdempotencyKey()),
		attribute.Int("db.account_increments", len(batch.AccountIncrements())),
		attribute.Int("db.entries", len(batch.Entries())),
	)

	if batch.Empty() {
		return ledger.ErrEmptyBatch
	}

	if err := s.claimIdempotencyKey(ctx, tx, batch.IdempotencyKey()); err != nil {
		if err == ledger.ErrDuplicateEntry {
			span.SetStatus(otelcodes.Ok, "duplicate batch rejected")
		} else {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		return err
	}

	for _, inc := range batch.AccountIncrements() {
		if err := s.applyAccountIncrement(ctx, tx, inc); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, inc := range batch.AgencyIncrements() {
		if err := s.applyAgencyIncrement(ctx, tx, inc); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, fs := range batch.FieldSets() {
		if err := s.applyFieldSet(ctx, tx, fs); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, ap := range batch.ItemAppends() {
		if err := s.applyItemAppend(ctx, tx, ap); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, entry := range batch.Entries() {
		if err := s.insertEntry(ctx, tx, entry); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, event := range batch.GiftEvents() {
		if err := s.insertGiftEvent(ctx, tx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	for _, msg := range batch.Outbox() {
		if err := s.insertOutboxMessage(ctx, tx, msg); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return err
		}
	}

	span.SetStatus(otelcodes.Ok, "batch applied")
	return nil
}

// claimIdempotencyKey 冪等性キーを占有する
func (s *BatchStore) claimIdempotencyKey(ctx context.Context, tx *sql.Tx, key string) error {
	query := `
		INSERT INTO ledger_batches (idempotency_key)
		VALUES (?)
	`

	_, err := tx.ExecContext(ctx, query, key)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ledger.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	return nil
}

func (s *BatchStore) applyAccountIncrement(ctx context.Context, tx *sql.Tx, inc ledger.AccountIncrement) error {
	column, ok := balanceColumns[inc.Field]
	if !ok {
		return fmt.Errorf("%w: unknown balance field %q", ledger.ErrInvalidOperation, inc.Field)
	}

	query := fmt.Sprintf(`
		UPDATE accounts
		SET %s = %s + ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ?
	`, column, column)

	result, err := tx.ExecContext(ctx, query, inc.Delta, inc.AccountID)
	if err != nil {
		return fmt.Errorf("failed to apply account increment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (s *BatchStore) applyAgencyIncrement(ctx context.Context, tx *sql.Tx, inc ledger.AgencyIncrement) error {
	query := `
		UPDATE agencies
		SET total_production = total_production + ?, updated_at = CURRENT_TIMESTAMP
		WHERE agency_id = ?
	`

	result, err := tx.ExecContext(ctx, query, inc.Delta, inc.AgencyID)
	if err != nil {
		return fmt.Errorf("failed to apply agency increment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return agency.ErrAgencyNotFound
	}
	return nil
}

func (s *BatchStore) applyFieldSet(ctx context.Context, tx *sql.Tx, fs ledger.AccountFieldSet) error {
	query := `
		UPDATE accounts
		SET vip_level = ?, frame = ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ?
	`

	result, err := tx.ExecContext(ctx, query, fs.VipLevel, fs.Frame, fs.AccountID)
	if err != nil {
		return fmt.Errorf("failed to apply field set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (s *BatchStore) applyItemAppend(ctx context.Context, tx *sql.Tx, ap ledger.AccountItemAppend) error {
	// 既所持アイテムの再追加は黙って成功させる
	query := `
		INSERT IGNORE INTO account_items (account_id, item_id)
		VALUES (?, ?)
	`

	_, err := tx.ExecContext(ctx, query, ap.AccountID, ap.ItemID)
	if err != nil {
		return fmt.Errorf("failed to append account item: %w", err)
	}
	return nil
}

func (s *BatchStore) insertEntry(ctx context.Context, tx *sql.Tx, entry *ledger.Entry) error {
	metadata, err := json.Marshal(entry.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (entry_id, account_id, kind, amount, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		entry.EntryID(),
		entry.AccountID(),
		entry.Kind().String(),
		entry.Amount(),
		metadata,
		entry.CreatedAt(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ledger.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func (s *BatchStore) insertGiftEvent(ctx context.Context, tx *sql.Tx, event *gift.Event) error {
	recipientIDs, err := json.Marshal(event.RecipientIDs())
	if err != nil {
		return fmt.Errorf("failed to marshal recipient ids: %w", err)
	}

	query := `
		INSERT INTO gift_events (
			event_id, gift_id, gift_name, sender_id, recipient_ids,
			quantity, gross_value, recipient_credit, earned_share, win_amount, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		event.EventID(),
		event.GiftID(),
		event.GiftName(),
		event.SenderID(),
		recipientIDs,
		event.Quantity(),
		event.GrossValue(),
		event.RecipientCredit(),
		event.EarnedShare(),
		event.WinAmount(),
		event.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert gift event: %w", err)
	}
	return nil
}

func (s *BatchStore) insertOutboxMessage(ctx context.Context, tx *sql.Tx, msg ledger.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (topic, message_key, payload)
		VALUES (?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query, msg.Topic, msg.MessageKey, msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}
	return nil
}
