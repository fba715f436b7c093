package rest

import (
	adminapp "ledger-server/internal/application/admin"
	authapp "ledger-server/internal/application/auth"
	historyapp "ledger-server/internal/application/history"
	ledgerapp "ledger-server/internal/application/ledger"
	orderapp "ledger-server/internal/application/order"
	"ledger-server/internal/infrastructure/config"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
	"ledger-server/internal/presentation/rest/handler"
	restmiddleware "ledger-server/internal/presentation/rest/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	authHandler    *handler.AuthHandler
	ledgerHandler  *handler.LedgerHandler
	orderHandler   *handler.OrderHandler
	historyHandler *handler.HistoryHandler
	adminHandler   *handler.AdminHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	authService *authapp.AuthApplicationService,
	ledgerService *ledgerapp.LedgerApplicationService,
	orderService *orderapp.OrderApplicationService,
	historyService *historyapp.HistoryApplicationService,
	adminService *adminapp.AdminApplicationService,
) (*Router, error) {
	e := echo.New()

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	authHandler := handler.NewAuthHandler(authService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	orderHandler := handler.NewOrderHandler(orderService)
	historyHandler := handler.NewHistoryHandler(historyService)
	adminHandler := handler.NewAdminHandler(adminService)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, authHandler, ledgerHandler, orderHandler, historyHandler, adminHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:           e,
		authHandler:    authHandler,
		ledgerHandler:  ledgerHandler,
		orderHandler:   orderHandler,
		historyHandler: historyHandler,
		adminHandler:   adminHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// CORS設定
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // 本番環境では適切に設定
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	authHandler *handler.AuthHandler,
	ledgerHandler *handler.LedgerHandler,
	orderHandler *handler.OrderHandler,
	historyHandler *handler.HistoryHandler,
	adminHandler *handler.AdminHandler,
) {
	// API v1グループ
	api := e.Group("/api/v1")

	// 認証トークン発行エンドポイント（認証不要）
	api.POST("/auth/token", authHandler.GenerateToken)

	// 認証が必要なエンドポイント
	authGroup := api.Group("", restmiddleware.AuthMiddleware(&cfg.JWT, logger))

	// 台帳関連エンドポイント
	authGroup.POST("/gifts/transfer", ledgerHandler.TransferGift)
	authGroup.POST("/exchange/diamonds", ledgerHandler.ExchangeDiamonds)
	authGroup.POST("/exchange/salary", ledgerHandler.ExchangeSalary)
	authGroup.POST("/agency/transfer", ledgerHandler.AgencyTransfer)
	authGroup.POST("/vip/purchase", ledgerHandler.PurchaseVipTier)
	authGroup.POST("/store/purchase", ledgerHandler.PurchaseStoreItem)

	// 注文関連エンドポイント
	authGroup.POST("/orders", orderHandler.CreateOrder)
	authGroup.GET("/orders", orderHandler.ListOrders)

	// アカウント参照エンドポイント
	authGroup.GET("/accounts/:account_id/balance", ledgerHandler.GetBalance)
	authGroup.GET("/accounts/:account_id/entries", historyHandler.GetEntryHistory)
	authGroup.GET("/accounts/:account_id/gifts", historyHandler.GetGiftHistory)

	// 管理APIエンドポイント（APIキー認証）
	adminGroup := api.Group("/admin", restmiddleware.APIKeyMiddleware(&cfg.Admin, logger))
	adminGroup.GET("/orders", orderHandler.ListOrdersAdmin)
	adminGroup.POST("/orders/:order_id/approve", orderHandler.ApproveOrder)
	adminGroup.POST("/orders/:order_id/reject", orderHandler.RejectOrder)
	adminGroup.GET("/settings", adminHandler.GetSettings)
	adminGroup.PUT("/settings", adminHandler.UpdateSettings)
	adminGroup.POST("/accounts", adminHandler.CreateAccount)
	adminGroup.POST("/agencies", adminHandler.CreateAgency)
	adminGroup.GET("/accounts/:account_id/balance", ledgerHandler.GetBalanceAdmin)
	adminGroup.GET("/accounts/:account_id/entries", historyHandler.GetEntryHistoryAdmin)
	adminGroup.GET("/accounts/:account_id/gifts", historyHandler.GetGiftHistoryAdmin)
	adminGroup.POST("/accounts/:account_id/grant", ledgerHandler.GrantBalance)
	adminGroup.PUT("/accounts/:account_id/roles", adminHandler.UpdateRoles)
	adminGroup.PUT("/accounts/:account_id/custom_rates", adminHandler.SetCustomRate)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
