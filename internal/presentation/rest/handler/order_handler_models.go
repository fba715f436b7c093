package handler

import (
	"strconv"

	orderapp "ledger-server/internal/application/order"
)

// CreateOrderRequest 注文作成リクエスト
// @Description 注文作成リクエスト
type CreateOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000010"`
	Kind           string `json:"kind" example:"product" enums:"product,deposit"`
	ValueCents     string `json:"value_cents" example:"999"`
	ProductName    string `json:"product_name,omitempty" example:"1000 Coins"`
	PlayerID       string `json:"player_id,omitempty" example:"player42"`
	Screenshot     string `json:"screenshot,omitempty" example:"https://cdn.example.com/proof.png"`
}

// CreateOrderResponse 注文作成レスポンス
// @Description 注文作成レスポンス
type CreateOrderResponse struct {
	OrderID         string    `json:"order_id" example:"7234981234567890"`
	Status          string    `json:"status" example:"pending"`
	ResultingCredit string    `json:"resulting_credit,omitempty" example:"999"`
	AccountDelta    DeltaView `json:"account_delta"`
}

// TransitionOrderRequest 注文遷移リクエスト（承認・却下）
// @Description 注文遷移リクエスト
type TransitionOrderRequest struct {
	AdminNote string `json:"admin_note,omitempty" example:"確認済み"`
}

// TransitionOrderResponse 注文遷移レスポンス
// @Description 注文遷移レスポンス
type TransitionOrderResponse struct {
	OrderID string `json:"order_id" example:"7234981234567890"`
	Status  string `json:"status" example:"completed"`
}

// OrderItem 注文アイテム
// @Description 注文アイテム
type OrderItem struct {
	OrderID         string `json:"order_id" example:"7234981234567890"`
	AccountID       string `json:"account_id" example:"user123"`
	Kind            string `json:"kind" example:"product"`
	ValueCents      string `json:"value_cents" example:"999"`
	ResultingCredit string `json:"resulting_credit" example:"999"`
	ProductName     string `json:"product_name,omitempty" example:"1000 Coins"`
	PlayerID        string `json:"player_id,omitempty" example:"player42"`
	Screenshot      string `json:"screenshot,omitempty" example:"https://cdn.example.com/proof.png"`
	Status          string `json:"status" example:"pending"`
	AdminNote       string `json:"admin_note,omitempty" example:"確認済み"`
	CreatedAt       string `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt       string `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// ListOrdersResponse 注文一覧レスポンス
// @Description 注文一覧レスポンス
type ListOrdersResponse struct {
	Orders []OrderItem `json:"orders"`
	Limit  int         `json:"limit" example:"50"`
	Offset int         `json:"offset" example:"0"`
}

func toOrderItem(v orderapp.OrderView) OrderItem {
	return OrderItem{
		OrderID:         v.OrderID,
		AccountID:       v.AccountID,
		Kind:            v.Kind,
		ValueCents:      strconv.FormatInt(v.ValueCents, 10),
		ResultingCredit: strconv.FormatInt(v.ResultingCredit, 10),
		ProductName:     v.ProductName,
		PlayerID:        v.PlayerID,
		Screenshot:      v.Screenshot,
		Status:          v.Status,
		AdminNote:       v.AdminNote,
		CreatedAt:       v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       v.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
