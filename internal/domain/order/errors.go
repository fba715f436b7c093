package order

import "errors"

var (
	// ErrOrderNotFound 注文が見つからないエラー
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyTerminal 終端状態の注文への再遷移エラー
	ErrOrderAlreadyTerminal = errors.New("order already terminal")
	// ErrOrderAlreadyExists 注文IDが既に存在するエラー
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrInvalidStatus 遷移先ステータスが無効
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNoteRequired 却下理由のメモが必須エラー
	ErrNoteRequired = errors.New("note is required")
	// ErrInvalidOrderID 注文IDが無効
	ErrInvalidOrderID = errors.New("invalid order id")
	// ErrInvalidAccountID アカウントIDが無効
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrInvalidOrderKind 注文種別が無効
	ErrInvalidOrderKind = errors.New("invalid order kind")
	// ErrInvalidOrderValue 注文金額が無効
	ErrInvalidOrderValue = errors.New("invalid order value")
)
