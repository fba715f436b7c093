package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "ledger-server/internal/application/admin"
	authapp "ledger-server/internal/application/auth"
	historyapp "ledger-server/internal/application/history"
	ledgerapp "ledger-server/internal/application/ledger"
	orderapp "ledger-server/internal/application/order"
	"ledger-server/internal/domain/service"
	"ledger-server/internal/infrastructure/config"
	"ledger-server/internal/infrastructure/mq"
	"ledger-server/internal/infrastructure/notify"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
	"ledger-server/internal/infrastructure/persistence/mysql"
	"ledger-server/internal/job"
	"ledger-server/internal/presentation/rest"
	"ledger-server/pkg/idgen"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("ledger-server")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("ledger-server")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// リポジトリの初期化
	accountRepo := mysql.NewAccountRepository(db)
	giftRepo := mysql.NewGiftRepository(db)
	giftEventRepo := mysql.NewGiftEventRepository(db)
	agencyRepo := mysql.NewAgencyRepository(db)
	tierRepo := mysql.NewVipTierRepository(db)
	storeItemRepo := mysql.NewStoreItemRepository(db)
	settingsRepo := mysql.NewSettingsRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	entryRepo := mysql.NewEntryRepository(db)
	outboxRepo := mysql.NewOutboxRepository(db)

	// ストアとトランザクションマネージャーの初期化
	store := mysql.NewBatchStore(db)
	txManager := mysql.NewTransactionManager(db)

	// スナップショット配信の初期化（Redisが有効な場合のみ）
	var ledgerPublisher ledgerapp.SnapshotPublisher
	var orderPublisher orderapp.SnapshotPublisher
	if cfg.Redis.Enabled {
		redisClient, err := notify.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		snapshotPublisher := notify.NewSnapshotPublisher(redisClient, cfg.Redis.SnapshotChannel)
		ledgerPublisher = snapshotPublisher
		orderPublisher = snapshotPublisher
	}

	// アウトボックスリレーの初期化（Kafkaが有効な場合のみ）
	relayCtx, relayCancel := context.WithCancel(context.Background())
	defer relayCancel()
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(&cfg.Kafka)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Printf("Error closing Kafka producer: %v", err)
			}
		}()

		relay := job.NewOutboxRelay(
			outboxRepo,
			producer,
			logger,
			metrics,
			cfg.Kafka.RelayInterval,
			cfg.Kafka.RelayBatch,
		)
		go relay.Run(relayCtx)
	}

	// 注文ID生成器の初期化
	orderIDGen, err := idgen.NewSnowflake(cfg.Server.WorkerID)
	if err != nil {
		log.Fatalf("Failed to create ID generator: %v", err)
	}

	// ドメインサービスの初期化
	settlement := service.NewSettlementService()

	// アプリケーションサービスの初期化
	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)

	ledgerAppService := ledgerapp.NewLedgerApplicationService(
		accountRepo,
		giftRepo,
		agencyRepo,
		tierRepo,
		storeItemRepo,
		settingsRepo,
		store,
		settlement,
		ledgerPublisher,
		logger,
		metrics,
	)

	orderAppService := orderapp.NewOrderApplicationService(
		orderRepo,
		accountRepo,
		settingsRepo,
		txManager,
		store,
		settlement,
		orderIDGen,
		orderPublisher,
		logger,
		metrics,
	)

	historyAppService := historyapp.NewHistoryApplicationService(
		entryRepo,
		giftEventRepo,
		logger,
		metrics,
	)

	adminAppService := adminapp.NewAdminApplicationService(
		accountRepo,
		agencyRepo,
		settingsRepo,
		logger,
		metrics,
	)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		authAppService,
		ledgerAppService,
		orderAppService,
		historyAppService,
		adminAppService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// サーバーアドレスの設定
	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		log.Printf("REST API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	// アウトボックスリレーを停止してからサーバーを閉じる
	relayCancel()

	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down REST API server: %v", err)
	}

	log.Println("Server stopped")
}
