package settings

import (
	"errors"
)

var (
	// ErrSettingsNotFound 設定が見つからないエラー
	ErrSettingsNotFound = errors.New("economy settings not found")
	// ErrInvalidRatio 比率が範囲外エラー
	ErrInvalidRatio = errors.New("invalid ratio")
	// ErrInvalidRate レートが無効エラー
	ErrInvalidRate = errors.New("invalid rate")
)

const (
	// DefaultProductionRatioPercent 既定の生産比率（%）
	DefaultProductionRatioPercent = 70
	// DefaultDiamondToCoinNum ダイヤ->コイン換算の分子（既定 1/2）
	DefaultDiamondToCoinNum = 1
	// DefaultDiamondToCoinDen ダイヤ->コイン換算の分母
	DefaultDiamondToCoinDen = 2
	// DefaultSalaryUnitDiamonds 給与変換の単位（ダイヤ）
	DefaultSalaryUnitDiamonds = 70_000
	// DefaultSalaryUnitPayout 給与変換の単位あたり支払い（エージェンシー残高）
	DefaultSalaryUnitPayout = 80_000
	// DefaultAnnouncementThreshold 全体アナウンスの閾値（コイン）
	DefaultAnnouncementThreshold = 10_000
	// DefaultUsdToCoinRate USD1あたりの既定コイン数
	DefaultUsdToCoinRate = 100
)

// EconomySettings 経済設定エンティティ（管理者が変更するシングルトン）
type EconomySettings struct {
	productionRatioPercent int   // ギフト額の何%が受信者のダイヤになるか
	diamondToCoinNum       int64 // ダイヤ->コイン換算比（分子/分母）
	diamondToCoinDen       int64
	salaryUnitDiamonds     int64 // 給与変換: このダイヤ数ごとに
	salaryUnitPayout       int64 // このエージェンシー残高を支払う
	announcementThreshold  int64 // 送信額または当選額がこの値以上なら全体アナウンス
	usdToCoinRate          int64 // USD1あたりのコイン数（商品注文の既定換算）
}

// NewEconomySettings 新しいEconomySettingsを作成
func NewEconomySettings(
	productionRatioPercent int,
	diamondToCoinNum, diamondToCoinDen int64,
	salaryUnitDiamonds, salaryUnitPayout int64,
	announcementThreshold int64,
	usdToCoinRate int64,
) (*EconomySettings, error) {
	if productionRatioPercent < 0 || productionRatioPercent > 100 {
		return nil, ErrInvalidRatio
	}
	if diamondToCoinNum <= 0 || diamondToCoinDen <= 0 {
		return nil, ErrInvalidRate
	}
	if salaryUnitDiamonds <= 0 || salaryUnitPayout <= 0 {
		return nil, ErrInvalidRate
	}
	if announcementThreshold < 0 || usdToCoinRate <= 0 {
		return nil, ErrInvalidRate
	}
	return &EconomySettings{
		productionRatioPercent: productionRatioPercent,
		diamondToCoinNum:       diamondToCoinNum,
		diamondToCoinDen:       diamondToCoinDen,
		salaryUnitDiamonds:     salaryUnitDiamonds,
		salaryUnitPayout:       salaryUnitPayout,
		announcementThreshold:  announcementThreshold,
		usdToCoinRate:          usdToCoinRate,
	}, nil
}

// DefaultEconomySettings 既定値のEconomySettingsを返す
func DefaultEconomySettings() *EconomySettings {
	s, _ := NewEconomySettings(
		DefaultProductionRatioPercent,
		DefaultDiamondToCoinNum, DefaultDiamondToCoinDen,
		DefaultSalaryUnitDiamonds, DefaultSalaryUnitPayout,
		DefaultAnnouncementThreshold,
		DefaultUsdToCoinRate,
	)
	return s
}

// ProductionRatioPercent 生産比率（%）を返す
func (s *EconomySettings) ProductionRatioPercent() int {
	return s.productionRatioPercent
}

// DiamondToCoinNum ダイヤ->コイン換算比の分子を返す
func (s *EconomySettings) DiamondToCoinNum() int64 {
	return s.diamondToCoinNum
}

// DiamondToCoinDen ダイヤ->コイン換算比の分母を返す
func (s *EconomySettings) DiamondToCoinDen() int64 {
	return s.diamondToCoinDen
}

// SalaryUnitDiamonds 給与変換の単位（ダイヤ）を返す
func (s *EconomySettings) SalaryUnitDiamonds() int64 {
	return s.salaryUnitDiamonds
}

// SalaryUnitPayout 給与変換の単位あたり支払いを返す
func (s *EconomySettings) SalaryUnitPayout() int64 {
	return s.salaryUnitPayout
}

// EarnedShare ギフト額に生産比率を適用した受信者の獲得ダイヤを返す（切り捨て）
func (s *EconomySettings) EarnedShare(recipientCredit int64) int64 {
	return recipientCredit * int64(s.productionRatioPercent) / 100
}

// DiamondsToCoins ダイヤ数に換算レートを適用したコイン数を返す（切り捨て）
func (s *EconomySettings) DiamondsToCoins(diamonds int64) int64 {
	return diamonds * s.diamondToCoinNum / s.diamondToCoinDen
}

// SalaryToAgencyBalance 給与ダイヤに変換レートを適用したエージェンシー残高を返す（切り捨て）
func (s *EconomySettings) SalaryToAgencyBalance(diamonds int64) int64 {
	return diamonds * s.salaryUnitPayout / s.salaryUnitDiamonds
}

// AnnouncementThreshold 全体アナウンスの閾値を返す
func (s *EconomySettings) AnnouncementThreshold() int64 {
	return s.announcementThreshold
}

// UsdToCoinRate USD1あたりのコイン数を返す
func (s *EconomySettings) UsdToCoinRate() int64 {
	return s.usdToCoinRate
}

// MustNewEconomySettings テスト用ヘルパー: NewEconomySettingsを呼び出し、エラーが発生した場合はpanicする
func MustNewEconomySettings(
	productionRatioPercent int,
	diamondToCoinNum, diamondToCoinDen int64,
	salaryUnitDiamonds, salaryUnitPayout int64,
	announcementThreshold int64,
	usdToCoinRate int64,
) *EconomySettings {
	s, err := NewEconomySettings(productionRatioPercent, diamondToCoinNum, diamondToCoinDen, salaryUnitDiamonds, salaryUnitPayout, announcementThreshold, usdToCoinRate)
	if err != nil {
		panic(err)
	}
	return s
}
