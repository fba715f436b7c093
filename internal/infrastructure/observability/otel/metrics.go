package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 台帳バッチ適用数（種別ごと）
	TransferCount metric.Int64Counter

	// 注文ステータス遷移数
	OrderTransitionCount metric.Int64Counter

	// アカウント残高の分布
	AccountBalance metric.Int64Gauge

	// マイナス残高の発生件数（同時デビット競合の観測）
	NegativeBalanceCount metric.Int64Counter

	// スナップショット配信数
	SnapshotPublishCount metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	transferCount, err := meter.Int64Counter(
		"ledger_transfers_total",
		metric.WithDescription("Total number of applied ledger batches"),
	)
	if err != nil {
		return nil, err
	}

	orderTransitionCount, err := meter.Int64Counter(
		"order_transitions_total",
		metric.WithDescription("Total number of order status transitions"),
	)
	if err != nil {
		return nil, err
	}

	accountBalance, err := meter.Int64Gauge(
		"account_balance",
		metric.WithDescription("Account balance by field"),
	)
	if err != nil {
		return nil, err
	}

	negativeBalanceCount, err := meter.Int64Counter(
		"negative_balance_total",
		metric.WithDescription("Total number of negative balance occurrences"),
	)
	if err != nil {
		return nil, err
	}

	snapshotPublishCount, err := meter.Int64Counter(
		"snapshot_publishes_total",
		metric.WithDescription("Total number of account snapshot publishes"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TransferCount:        transferCount,
		OrderTransitionCount: orderTransitionCount,
		AccountBalance:       accountBalance,
		NegativeBalanceCount: negativeBalanceCount,
		SnapshotPublishCount: snapshotPublishCount,
		RequestCount:         requestCount,
		ResponseTime:         responseTime,
		ErrorCount:           errorCount,
	}, nil
}

// RecordTransfer 台帳バッチの適用を記録
func (m *Metrics) RecordTransfer(ctx context.Context, kind string) {
	m.TransferCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
		),
	)
}

// RecordOrderTransition 注文ステータス遷移を記録
func (m *Metrics) RecordOrderTransition(ctx context.Context, kind, status string) {
	m.OrderTransitionCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordAccountBalance アカウント残高を記録
func (m *Metrics) RecordAccountBalance(ctx context.Context, accountID, field string, balance int64) {
	m.AccountBalance.Record(ctx, balance,
		metric.WithAttributes(
			attribute.String("account_id", accountID),
			attribute.String("field", field),
		),
	)
}

// RecordNegativeBalance マイナス残高の発生を記録
func (m *Metrics) RecordNegativeBalance(ctx context.Context, accountID, field string) {
	m.NegativeBalanceCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("account_id", accountID),
			attribute.String("field", field),
		),
	)
}

// RecordSnapshotPublish スナップショット配信を記録
func (m *Metrics) RecordSnapshotPublish(ctx context.Context, result string) {
	m.SnapshotPublishCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("result", result),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
