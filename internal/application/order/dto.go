package order

import (
	"time"

	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/order"
)

// CreateOrderRequest 注文作成リクエスト
type CreateOrderRequest struct {
	IdempotencyKey string
	AccountID      string
	Kind           string // "product" | "deposit"
	ValueCents     int64
	ProductName    string // 商品注文のみ
	PlayerID       string // 商品注文のみ（入金先のゲーム内ID）
	Screenshot     string // 入金注文のみ（入金証明URL）
}

// CreateOrderResponse 注文作成レスポンス
type CreateOrderResponse struct {
	OrderID         string
	Status          string
	ResultingCredit int64 // 商品注文のみ
	AccountDelta    ledger.AccountDelta
}

// TransitionOrderRequest 注文遷移リクエスト（承認・却下）
type TransitionOrderRequest struct {
	OrderID   string
	AdminNote string
}

// TransitionOrderResponse 注文遷移レスポンス
type TransitionOrderResponse struct {
	OrderID string
	Status  string
}

// ListOrdersRequest 注文一覧リクエスト
type ListOrdersRequest struct {
	AccountID string // 指定時は依頼者で絞り込み
	Status    string // 指定時はステータスで絞り込み（管理用）
	Limit     int
	Offset    int
}

// OrderView 注文ビュー
type OrderView struct {
	OrderID         string
	AccountID       string
	Kind            string
	ValueCents      int64
	ResultingCredit int64
	ProductName     string
	PlayerID        string
	Screenshot      string
	Status          string
	AdminNote       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListOrdersResponse 注文一覧レスポンス
type ListOrdersResponse struct {
	Orders []OrderView
}

func toOrderView(o *order.Order) OrderView {
	return OrderView{
		OrderID:         o.OrderID(),
		AccountID:       o.AccountID(),
		Kind:            o.Kind().String(),
		ValueCents:      o.ValueCents(),
		ResultingCredit: o.ResultingCredit(),
		ProductName:     o.ProductName(),
		PlayerID:        o.PlayerID(),
		Screenshot:      o.Screenshot(),
		Status:          o.Status().String(),
		AdminNote:       o.AdminNote(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}
