package account

import "errors"

var (
	// ErrInsufficientBalance 残高不足エラー
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAmount 無効な金額エラー
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAccountNotFound アカウントが見つからないエラー
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists アカウントが既に存在するエラー
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountBlocked アカウントがブロック済みエラー
	ErrAccountBlocked = errors.New("account is blocked")
)
