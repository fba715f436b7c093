package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	ledgerapp "ledger-server/internal/application/ledger"
	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/reward"
	"ledger-server/internal/domain/service"
	"ledger-server/internal/domain/settings"
	"ledger-server/internal/domain/store"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
	restmiddleware "ledger-server/internal/presentation/rest/middleware"
)

type ledgerHandlerMocks struct {
	accountRepo  *MockAccountRepository
	giftRepo     *MockGiftRepository
	agencyRepo   *MockAgencyRepository
	tierRepo     *MockTierRepository
	itemRepo     *MockStoreItemRepository
	settingsRepo *MockSettingsRepository
	store        *MockStore
	publisher    *MockSnapshotPublisher
}

func newLedgerHandler(t *testing.T, m *ledgerHandlerMocks) *LedgerHandler {
	t.Helper()

	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	appService := ledgerapp.NewLedgerApplicationService(
		m.accountRepo,
		m.giftRepo,
		m.agencyRepo,
		m.tierRepo,
		m.itemRepo,
		m.settingsRepo,
		m.store,
		service.NewSettlementService(),
		m.publisher,
		logger,
		metrics,
	)
	return NewLedgerHandler(appService)
}

func newLedgerHandlerMocks() *ledgerHandlerMocks {
	return &ledgerHandlerMocks{
		accountRepo:  new(MockAccountRepository),
		giftRepo:     new(MockGiftRepository),
		agencyRepo:   new(MockAgencyRepository),
		tierRepo:     new(MockTierRepository),
		itemRepo:     new(MockStoreItemRepository),
		settingsRepo: new(MockSettingsRepository),
		store:        new(MockStore),
		publisher:    new(MockSnapshotPublisher),
	}
}

func coinAccount(id string, coins int64) *account.Account {
	return account.MustReconstruct(id, 0, coins, 0, 0, 0, 0, 0, 0, "", "", account.NewRoleSet(), nil, 1)
}

// invokeHandler エラーハンドリングミドルウェアを通してハンドラーを実行
func invokeHandler(t *testing.T, e *echo.Echo, c echo.Context, h echo.HandlerFunc) {
	t.Helper()

	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	handlerFunc := restmiddleware.ErrorHandlerMiddleware(logger)(h)
	if err := handlerFunc(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func TestLedgerHandler_GetBalance(t *testing.T) {
	tests := []struct {
		name           string
		tokenAccountID string
		paramAccountID string
		setupMocks     func(*ledgerHandlerMocks)
		expectedStatus int
	}{
		{
			name:           "正常系: 自分の残高取得成功",
			tokenAccountID: "user123",
			paramAccountID: "user123",
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 1000), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: account_idがトークンにない",
			tokenAccountID: "",
			paramAccountID: "user123",
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "異常系: 他アカウントの残高は取得不可",
			tokenAccountID: "user123",
			paramAccountID: "other456",
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "異常系: アカウントが存在しない",
			tokenAccountID: "user123",
			paramAccountID: "user123",
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(nil, account.ErrAccountNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newLedgerHandlerMocks()
			tt.setupMocks(m)
			handler := newLedgerHandler(t, m)

			req := httptest.NewRequest(http.MethodGet, "/accounts/"+tt.paramAccountID+"/balance", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("account_id")
			c.SetParamValues(tt.paramAccountID)
			if tt.tokenAccountID != "" {
				c.Set("account_id", tt.tokenAccountID)
			}

			invokeHandler(t, e, c, handler.GetBalance)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rec.Body.Bytes(), &response)
				require.NoError(t, err)
				assert.Equal(t, "user123", response["account_id"])
				assert.Equal(t, "1000", response["coins"])
			}
		})
	}
}

func TestLedgerHandler_TransferGift(t *testing.T) {
	tests := []struct {
		name           string
		tokenAccountID string
		body           map[string]interface{}
		setupMocks     func(*ledgerHandlerMocks)
		expectedStatus int
	}{
		{
			name:           "正常系: ギフト送信成功",
			tokenAccountID: "sender1",
			body: map[string]interface{}{
				"idempotency_key": "gift-1",
				"gift_id":         "rose",
				"quantity":        2,
				"recipient_ids":   []string{"host1"},
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "sender1").Return(coinAccount("sender1", 1000), nil)
				m.accountRepo.On("FindByID", mock.Anything, "host1").Return(coinAccount("host1", 0), nil)
				m.giftRepo.On("FindByID", mock.Anything, "rose").Return(gift.MustNewGift("rose", "Rose", 100, "rose.png", "sparkle", 5), nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
				m.store.On("Apply", mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 残高不足は409",
			tokenAccountID: "sender1",
			body: map[string]interface{}{
				"gift_id":       "rose",
				"quantity":      1,
				"recipient_ids": []string{"host1"},
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "sender1").Return(coinAccount("sender1", 50), nil)
				m.accountRepo.On("FindByID", mock.Anything, "host1").Return(coinAccount("host1", 0), nil)
				m.giftRepo.On("FindByID", mock.Anything, "rose").Return(gift.MustNewGift("rose", "Rose", 100, "rose.png", "sparkle", 5), nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "異常系: win_amountが数値でない",
			tokenAccountID: "sender1",
			body: map[string]interface{}{
				"gift_id":       "rose",
				"quantity":      1,
				"recipient_ids": []string{"host1"},
				"win_amount":    "abc",
			},
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: トークンなしは401",
			tokenAccountID: "",
			body:           map[string]interface{}{},
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newLedgerHandlerMocks()
			tt.setupMocks(m)
			handler := newLedgerHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/gifts/transfer", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.tokenAccountID != "" {
				c.Set("account_id", tt.tokenAccountID)
			}

			invokeHandler(t, e, c, handler.TransferGift)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rec.Body.Bytes(), &response)
				require.NoError(t, err)
				assert.Equal(t, "200", response["gross_value"])
			}
		})
	}
}

func TestLedgerHandler_ExchangeDiamonds(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*ledgerHandlerMocks)
		expectedStatus int
	}{
		{
			name: "正常系: ダイヤをコインへ交換",
			body: map[string]interface{}{
				"idempotency_key": "ex-1",
				"amount":          "100",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				acct := account.MustReconstruct("user123", 0, 0, 500, 0, 0, 0, 0, 0, "", "", account.NewRoleSet(), nil, 1)
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(acct, nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
				m.store.On("Apply", mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: ダイヤ不足は409",
			body: map[string]interface{}{
				"amount": "1000",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				acct := account.MustReconstruct("user123", 0, 0, 10, 0, 0, 0, 0, 0, "", "", account.NewRoleSet(), nil, 1)
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(acct, nil)
				m.settingsRepo.On("Load", mock.Anything).Return(settings.DefaultEconomySettings(), nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "異常系: amountが数値でない",
			body: map[string]interface{}{
				"amount": "xyz",
			},
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newLedgerHandlerMocks()
			tt.setupMocks(m)
			handler := newLedgerHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/exchange/diamonds", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set("account_id", "user123")

			invokeHandler(t, e, c, handler.ExchangeDiamonds)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestLedgerHandler_GrantBalance(t *testing.T) {
	tests := []struct {
		name           string
		paramAccountID string
		body           map[string]interface{}
		setupMocks     func(*ledgerHandlerMocks)
		expectedStatus int
	}{
		{
			name:           "正常系: コインを付与",
			paramAccountID: "user123",
			body: map[string]interface{}{
				"idempotency_key": "grant-1",
				"field":           "coins",
				"delta":           "500",
				"reason":          "campaign reward",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 100), nil)
				m.store.On("Apply", mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: deltaが数値でない",
			paramAccountID: "user123",
			body: map[string]interface{}{
				"field": "coins",
				"delta": "lots",
			},
			setupMocks:     func(m *ledgerHandlerMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: アカウントが存在しない",
			paramAccountID: "ghost",
			body: map[string]interface{}{
				"field": "coins",
				"delta": "500",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "ghost").Return(nil, account.ErrAccountNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newLedgerHandlerMocks()
			tt.setupMocks(m)
			handler := newLedgerHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/admin/accounts/"+tt.paramAccountID+"/grant", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("account_id")
			c.SetParamValues(tt.paramAccountID)

			invokeHandler(t, e, c, handler.GrantBalance)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestLedgerHandler_PurchaseStoreItem(t *testing.T) {
	tests := []struct {
		name           string
		tokenAccountID string
		body           map[string]interface{}
		setupMocks     func(*ledgerHandlerMocks)
		expectedStatus int
		expectedCoins  string
	}{
		{
			name:           "正常系: カタログ価格でアイテムを購入",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"idempotency_key": "store-1",
				"item_id":         "entry_comet",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 2000), nil)
				m.itemRepo.On("FindByID", mock.Anything, "entry_comet").
					Return(store.MustNewItem("entry_comet", "Comet Entry", 1500, reward.Entry{ItemID: "entry_comet", Days: 30}), nil)
				m.store.On("Apply", mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedCoins:  "-1500",
		},
		{
			name:           "正常系: クライアントが指定した価格と報酬は無視される",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"idempotency_key": "store-2",
				"item_id":         "entry_comet",
				"price_coins":     "1",
				"reward_kind":     "coin",
				"reward_value":    "1000000",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 2000), nil)
				m.itemRepo.On("FindByID", mock.Anything, "entry_comet").
					Return(store.MustNewItem("entry_comet", "Comet Entry", 1500, reward.Entry{ItemID: "entry_comet", Days: 30}), nil)
				m.store.On("Apply", mock.Anything, mock.AnythingOfType("*ledger.Batch")).Return(nil)
				m.publisher.On("PublishSnapshot", mock.Anything, mock.AnythingOfType("*account.Account")).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedCoins:  "-1500",
		},
		{
			name:           "異常系: カタログにないアイテムは404",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"item_id": "mystery_box",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 2000), nil)
				m.itemRepo.On("FindByID", mock.Anything, "mystery_box").Return(nil, store.ErrItemNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "異常系: コイン残高不足は409",
			tokenAccountID: "user123",
			body: map[string]interface{}{
				"item_id": "entry_comet",
			},
			setupMocks: func(m *ledgerHandlerMocks) {
				m.accountRepo.On("FindByID", mock.Anything, "user123").Return(coinAccount("user123", 100), nil)
				m.itemRepo.On("FindByID", mock.Anything, "entry_comet").
					Return(store.MustNewItem("entry_comet", "Comet Entry", 1500, reward.Entry{ItemID: "entry_comet", Days: 30}), nil)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			m := newLedgerHandlerMocks()
			tt.setupMocks(m)
			handler := newLedgerHandler(t, m)

			bodyBytes, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/store/purchase", bytes.NewReader(bodyBytes))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.tokenAccountID != "" {
				c.Set("account_id", tt.tokenAccountID)
			}

			invokeHandler(t, e, c, handler.PurchaseStoreItem)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]interface{}
				err := json.Unmarshal(rec.Body.Bytes(), &response)
				require.NoError(t, err)
				assert.Equal(t, tt.body["item_id"], response["item_id"])
				delta := response["delta"].(map[string]interface{})
				assert.Equal(t, tt.expectedCoins, delta["coins"])
			}
		})
	}
}
