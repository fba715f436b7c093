package store

import (
	"regexp"

	"ledger-server/internal/domain/reward"
)

var itemIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// MaxPriceCoins アイテム価格の上限
const MaxPriceCoins = 10_000_000_000

// Item ストアカタログエンティティ
// 価格と報酬はサーバー側のカタログが持ち、クライアントからは受け取らない。
type Item struct {
	itemID     string
	name       string
	priceCoins int64
	reward     reward.Reward // nilの場合はアイテムIDをそのまま付与
}

// NewItem 新しいItemエンティティを作成
func NewItem(itemID, name string, priceCoins int64, rw reward.Reward) (*Item, error) {
	if !itemIDRegex.MatchString(itemID) {
		return nil, ErrInvalidItemID
	}
	if name == "" {
		return nil, ErrInvalidItem
	}
	if priceCoins <= 0 || priceCoins > MaxPriceCoins {
		return nil, ErrInvalidPrice
	}
	if rw != nil {
		if err := reward.Validate(rw); err != nil {
			return nil, err
		}
	}
	return &Item{
		itemID:     itemID,
		name:       name,
		priceCoins: priceCoins,
		reward:     rw,
	}, nil
}

// MustNewItem テスト用のItem作成ヘルパー（エラー時はパニック）
func MustNewItem(itemID, name string, priceCoins int64, rw reward.Reward) *Item {
	item, err := NewItem(itemID, name, priceCoins, rw)
	if err != nil {
		panic(err)
	}
	return item
}

// ItemID アイテムIDを返す
func (i *Item) ItemID() string {
	return i.itemID
}

// Name アイテム名を返す
func (i *Item) Name() string {
	return i.name
}

// PriceCoins 価格（コイン建て）を返す
func (i *Item) PriceCoins() int64 {
	return i.priceCoins
}

// Reward アイテムが付与する報酬を返す
func (i *Item) Reward() reward.Reward {
	return i.reward
}
