package gift

import (
	"regexp"
)

var giftIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// MaxUnitCost ギフト単価の上限
const MaxUnitCost = 10_000_000_000

// MaxQuantity 1回の送信で扱う個数の上限
// MaxUnitCost×MaxQuantityがint64に収まる範囲で総額の乗算を安全に保つ。
const MaxQuantity = 100_000

// Gift ギフトカタログエンティティ
type Gift struct {
	giftID        string
	name          string
	unitCost      int64 // コイン建て単価
	icon          string
	animationType string
	duration      int // アニメーション秒数
}

// NewGift 新しいGiftエンティティを作成
func NewGift(giftID, name string, unitCost int64, icon, animationType string, duration int) (*Gift, error) {
	if !giftIDRegex.MatchString(giftID) {
		return nil, ErrInvalidGiftID
	}
	if name == "" {
		return nil, ErrInvalidGift
	}
	if unitCost <= 0 || unitCost > MaxUnitCost {
		return nil, ErrInvalidUnitCost
	}
	if duration <= 0 {
		duration = 5
	}
	return &Gift{
		giftID:        giftID,
		name:          name,
		unitCost:      unitCost,
		icon:          icon,
		animationType: animationType,
		duration:      duration,
	}, nil
}

// GiftID ギフトIDを返す
func (g *Gift) GiftID() string {
	return g.giftID
}

// Name ギフト名を返す
func (g *Gift) Name() string {
	return g.name
}

// UnitCost 単価を返す
func (g *Gift) UnitCost() int64 {
	return g.unitCost
}

// Icon アイコンURLを返す
func (g *Gift) Icon() string {
	return g.icon
}

// AnimationType アニメーション種別を返す
func (g *Gift) AnimationType() string {
	return g.animationType
}

// Duration アニメーション秒数を返す
func (g *Gift) Duration() int {
	return g.duration
}

// MustNewGift テスト用ヘルパー: NewGiftを呼び出し、エラーが発生した場合はpanicする
func MustNewGift(giftID, name string, unitCost int64, icon, animationType string, duration int) *Gift {
	g, err := NewGift(giftID, name, unitCost, icon, animationType, duration)
	if err != nil {
		panic(err)
	}
	return g
}
