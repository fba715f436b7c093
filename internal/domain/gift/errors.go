package gift

import "errors"

var (
	// ErrGiftNotFound ギフトが見つからないエラー
	ErrGiftNotFound = errors.New("gift not found")
	// ErrInvalidGiftID ギフトIDが無効
	ErrInvalidGiftID = errors.New("invalid gift id")
	// ErrInvalidGift ギフト定義が無効
	ErrInvalidGift = errors.New("invalid gift")
	// ErrInvalidUnitCost 単価が無効
	ErrInvalidUnitCost = errors.New("invalid unit cost")
	// ErrInvalidGiftEvent ギフトイベントが無効
	ErrInvalidGiftEvent = errors.New("invalid gift event")
	// ErrNoRecipients 受信者が指定されていないエラー
	ErrNoRecipients = errors.New("no recipients")
)
