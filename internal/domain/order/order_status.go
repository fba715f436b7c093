package order

import (
	"fmt"
)

// Status 注文ステータスを表す値オブジェクト
type Status string

const (
	StatusPending   Status = "pending"   // 処理待ち
	StatusCompleted Status = "completed" // 完了（終端）
	StatusRejected  Status = "rejected"  // 却下（終端）
)

// NewStatus 新しいStatusを作成
func NewStatus(s string) (Status, error) {
	switch s {
	case "pending", "completed", "rejected":
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid order status: %s", s)
	}
}

// String 文字列表現を返す
func (s Status) String() string {
	return string(s)
}

// Valid 有効なステータスかどうかを返す
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal 終端状態かどうかを返す
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}
