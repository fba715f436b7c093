package store

import "errors"

var (
	// ErrItemNotFound アイテムが存在しないエラー
	ErrItemNotFound = errors.New("store item not found")
	// ErrInvalidItemID 無効なアイテムIDエラー
	ErrInvalidItemID = errors.New("invalid item id")
	// ErrInvalidItem 無効なアイテム定義エラー
	ErrInvalidItem = errors.New("invalid store item")
	// ErrInvalidPrice 無効な価格エラー
	ErrInvalidPrice = errors.New("invalid item price")
)
