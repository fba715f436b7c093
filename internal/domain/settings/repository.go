package settings

import (
	"context"
)

// SettingsRepository 経済設定リポジトリインターフェース
type SettingsRepository interface {
	// Load 経済設定を取得（未設定なら既定値を返す）
	Load(ctx context.Context) (*EconomySettings, error)

	// Save 経済設定を保存
	Save(ctx context.Context, settings *EconomySettings) error
}
