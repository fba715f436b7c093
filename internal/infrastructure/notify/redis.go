package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ledger-server/internal/infrastructure/config"
)

// NewRedisClient 新しいRedisクライアントを作成
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// snapshotPayload ワイヤ上のアカウントスナップショット表現
type snapshotPayload struct {
	AccountID      string           `json:"account_id"`
	BalanceCents   int64            `json:"balance_cents"`
	Coins          int64            `json:"coins"`
	Diamonds       int64            `json:"diamonds"`
	Wealth         int64            `json:"wealth"`
	Charm          int64            `json:"charm"`
	AgencyBalance  int64            `json:"agency_balance"`
	RechargePoints int64            `json:"recharge_points"`
	VipLevel       int              `json:"vip_level"`
	Frame          string           `json:"frame"`
	AgencyID       string           `json:"agency_id"`
	Roles          string           `json:"roles"`
	CustomRates    map[string]int64 `json:"custom_rates,omitempty"`
	Version        int              `json:"version"`
	PublishedAt    time.Time        `json:"published_at"`
}
