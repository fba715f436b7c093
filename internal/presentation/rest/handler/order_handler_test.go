package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	orderapp "ledger-server/internal/application/order"
	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/order"
	"ledger-server/internal/domain/service"
	"ledger-server/internal/domain/settings"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

type orderHandlerMocks struct {
	orderRepo    *MockOrderRepository
	accountRepo  *MockAccountRepository
	settingsRepo *MockSettingsRepository
	txManager    *MockTransactionManager
	txStore      *MockTxStore
	publisher    *MockSnapshotPublisher
}

func newOrderHandlerMocks() *orderHandlerMocks {
	return &orderHandlerMocks{
		orderRepo:    new(MockOrderRepository),
		accountRepo:  new(MockAccountRepository),
		settingsRepo: new(MockSettingsRepository),
		txManager:    new(MockTransactionManager),
		txStore:      new(MockTxStore),
		publisher:    new(MockSnapshotPublisher),
	}
}

func newOrderHandler(t *testing.T, m *orderHandlerMocks) *OrderHandler {
	t.Helper()

	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	appService := orderapp.NewOrderApplicationService(
		m.orderRepo,
		m.accountRepo,
		m.settingsRepo,
		m.txManager,
		m.txStore,
		service.NewSettlementService(),
		&stubIDGenerator{id: "order-1"},
		m.publisher,
		logger,
		metrics,
	)
	return NewOrderHandler(appService)
}

func pendingOrder(orderID, accountID string, kind order.Kind) *order.Order {
	now := time.Now()
	return order.ReconstructOrder(orderID, accountID, kind, 999, 0, "", "", "", order.StatusPending, "", now, now)
}

func completedOrder(orderID, accountID string, kind order.Kind) *order.Order {
	now := time.Now()
	return order.ReconstructOrder(orderID, accountID, kind, 999, 0, "", "", "", order.StatusCompleted, "ok", now, now)
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		tokenAccountID string
		body           map[string]interface{}
		setupMocks     func(*orderHandlerMocks)
		expectedStatus int
	}{
		{
			name:           "正常系: 入金注文の作成",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"idempotency_key": "dep-1",
				"kind":            "deposit",
				"value_cents":     "1000",
				"screenshot":      "https://example.com/receipt.png",
			},
			setupMocks: func(m *orderHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(walletAccountForOrder("user123", 0), nil)
				m.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "正常系: 商品注文は作成時にデビット",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"kind":         "product",
				"value_cents":  "999",
				"product_name": "1000 Coins",
				"player_id":    "player42",
			},
			setupMocks: func(m *orderHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(walletAccountForOrder("user123", 5000), nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
				m.txManager.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.orderRepo.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
				m.txStore.On("ApplyTx", mock.Anything, mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 不明な注文種別",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"kind":        "barter",
				"value_cents": "100",
			},
			setupMocks:     func(m *orderHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: value_centsが数値でない",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"kind":        "deposit",
				"value_cents": "ten dollars",
			},
			setupMocks:     func(m *orderHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 残高不足の商品注文は409",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"kind":         "product",
				"value_cents":  "999",
				"product_name": "1000 Coins",
			},
			setupMocks: func(m *orderHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(walletAccountForOrder("user123", 100), nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newOrderHandlerMocks()
			tt.setupMocks(m)
			handler := newOrderHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.tokenAccountID != "" {
				c.Set("account_id", tt.tokenAccountID)
			}

			invokeHandler(t, e, c, handler.CreateOrder)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rec.Body.Bytes(), &response)
				require.NoError(t, err)
				assert.Equal(t, "order-1", response["order_id"])
				assert.Equal(t, "pending", response["status"])
			}
		})
	}
}

// walletAccountForOrder ウォレット残高のみを持つアカウント
func walletAccountForOrder(id string, balanceCents int64) *account.Account {
	return account.MustReconstruct(id, balanceCents, 0, 0, 0, 0, 0, 0, 0, "", "", account.NewRoleSet(), nil, 1)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*orderHandlerMocks)
		expectedStatus int
	}{
		{
			name:  "正常系: 自分の注文一覧を取得",
			query: "",
			setupMocks: func(m *orderHandlerMocks) {
				orders := []*order.Order{pendingOrder("order-1", "user123", order.KindDeposit)}
				m.orderRepo.On("FindByAccountID", mock.Anything, "user123", 50, 0).Return(orders, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: limitが範囲外",
			query:          "?limit=500",
			setupMocks:     func(m *orderHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: offsetが負数",
			query:          "?offset=-1",
			setupMocks:     func(m *orderHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newOrderHandlerMocks()
			tt.setupMocks(m)
			handler := newOrderHandler(t, m)

			req := httptest.NewRequest(http.MethodGet, "/orders"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("account_id", "user123")

			invokeHandler(t, e, c, handler.ListOrders)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestOrderHandler_ListOrdersAdmin(t *testing.T) {
	e := echo.New()
	m := newOrderHandlerMocks()
	orders := []*order.Order{
		pendingOrder("order-1", "user123", order.KindDeposit),
		pendingOrder("order-2", "user456", order.KindProduct),
	}
	m.orderRepo.On("FindByStatus", mock.Anything, order.StatusPending, 50, 0).Return(orders, nil)
	handler := newOrderHandler(t, m)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	invokeHandler(t, e, c, handler.ListOrdersAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response ListOrdersResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Len(t, response.Orders, 2)
	assert.Equal(t, "order-1", response.Orders[0].OrderID)
}

func TestOrderHandler_ApproveOrder(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		setupMocks     func(*orderHandlerMocks)
		expectedStatus int
	}{
		{
			name:    "正常系: 入金注文を承認してクレジット",
			orderID: "order-1",
			setupMocks: func(m *orderHandlerMocks) {
				m.orderRepo.On("FindByID", mock.Anything, "order-1").Return(pendingOrder("order-1", "user123", order.KindDeposit), nil)
				m.txManager.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.orderRepo.On("Transition", mock.Anything, mock.Anything, "order-1", order.StatusCompleted, "").Return(nil)
				m.txStore.On("ApplyTx", mock.Anything, mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(walletAccountForOrder("user123", 999), nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "異常系: 終端状態の注文は409",
			orderID: "order-1",
			setupMocks: func(m *orderHandlerMocks) {
				m.orderRepo.On("FindByID", mock.Anything, "order-1").Return(completedOrder("order-1", "user123", order.KindDeposit), nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:    "異常系: 注文が存在しない",
			orderID: "ghost",
			setupMocks: func(m *orderHandlerMocks) {
				m.orderRepo.On("FindByID", mock.Anything, "ghost").Return(nil, order.ErrOrderNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newOrderHandlerMocks()
			tt.setupMocks(m)
			handler := newOrderHandler(t, m)

			req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+tt.orderID+"/approve", bytes.NewReader([]byte("{}")))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("order_id")
			c.SetParamValues(tt.orderID)

			invokeHandler(t, e, c, handler.ApproveOrder)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestOrderHandler_RejectOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*orderHandlerMocks)
		expectedStatus int
	}{
		{
			name: "正常系: メモ付きで却下",
			body: map[string]interface{}{
				"admin_note": "invalid screenshot",
			},
			setupMocks: func(m *orderHandlerMocks) {
				m.orderRepo.On("FindByID", mock.Anything, "order-1").Return(pendingOrder("order-1", "user123", order.KindDeposit), nil)
				m.txManager.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				m.orderRepo.On("Transition", mock.Anything, mock.Anything, "order-1", order.StatusRejected, "invalid screenshot").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: メモなしは400",
			body:           map[string]interface{}{},
			setupMocks:     func(m *orderHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newOrderHandlerMocks()
			tt.setupMocks(m)
			handler := newOrderHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/admin/orders/order-1/reject", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("order_id")
			c.SetParamValues("order-1")

			invokeHandler(t, e, c, handler.RejectOrder)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
