package ledger

import "errors"

var (
	// ErrDuplicateEntry 冪等性キーの重複エラー（バッチは一切適用されない）
	ErrDuplicateEntry = errors.New("duplicate ledger entry")
	// ErrInvalidIdempotencyKey 冪等性キーが無効
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	// ErrInvalidOperation バッチ操作が無効
	ErrInvalidOperation = errors.New("invalid batch operation")
	// ErrMonotoneViolation 単調非減少フィールドへの減算エラー
	ErrMonotoneViolation = errors.New("negative delta on monotone field")
	// ErrInvalidEntryKind エントリ種別が無効
	ErrInvalidEntryKind = errors.New("invalid entry kind")
	// ErrEntryNotFound エントリが見つからないエラー
	ErrEntryNotFound = errors.New("ledger entry not found")
	// ErrEmptyBatch 空のバッチエラー
	ErrEmptyBatch = errors.New("empty batch")
)
