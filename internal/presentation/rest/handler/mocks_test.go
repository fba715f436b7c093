package handler

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/order"
	"ledger-server/internal/domain/settings"
	"ledger-server/internal/domain/store"
	"ledger-server/internal/domain/vip"
)

// MockAccountRepository モックアカウントリポジトリ
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, accountID string) (*account.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateRoles(ctx context.Context, accountID string, roles account.RoleSet) error {
	args := m.Called(ctx, accountID, roles)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateCustomRate(ctx context.Context, accountID, productID string, rate int64) error {
	args := m.Called(ctx, accountID, productID, rate)
	return args.Error(0)
}

// MockGiftRepository モックギフトリポジトリ
type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) FindByID(ctx context.Context, giftID string) (*gift.Gift, error) {
	args := m.Called(ctx, giftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gift.Gift), args.Error(1)
}

// MockAgencyRepository モックエージェンシーリポジトリ
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) FindByID(ctx context.Context, agencyID string) (*agency.Agency, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agency.Agency), args.Error(1)
}

func (m *MockAgencyRepository) Create(ctx context.Context, a *agency.Agency) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// MockTierRepository モックVIPティアリポジトリ
type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) FindByID(ctx context.Context, tierID string) (*vip.Tier, error) {
	args := m.Called(ctx, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vip.Tier), args.Error(1)
}

// MockStoreItemRepository モックストアアイテムリポジトリ
type MockStoreItemRepository struct {
	mock.Mock
}

func (m *MockStoreItemRepository) FindByID(ctx context.Context, itemID string) (*store.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Item), args.Error(1)
}

// MockSettingsRepository モック経済設定リポジトリ
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Load(ctx context.Context) (*settings.EconomySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.EconomySettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.EconomySettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockStore モックアカウントストア
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Apply(ctx context.Context, batch *ledger.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockOrderRepository モック注文リポジトリ
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateTx(ctx context.Context, tx *sql.Tx, o *order.Order) error {
	args := m.Called(ctx, tx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*order.Order, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status, limit, offset int) ([]*order.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Transition(ctx context.Context, tx *sql.Tx, orderID string, status order.Status, note string) error {
	args := m.Called(ctx, tx, orderID, status, note)
	return args.Error(0)
}

// MockTransactionManager モックトランザクションマネージャー
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	args := m.Called(ctx, fn)
	if fn != nil {
		return fn(nil)
	}
	return args.Error(0)
}

// MockTxStore モックトランザクション対応ストア
type MockTxStore struct {
	mock.Mock
}

func (m *MockTxStore) Apply(ctx context.Context, batch *ledger.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockTxStore) ApplyTx(ctx context.Context, tx *sql.Tx, batch *ledger.Batch) error {
	args := m.Called(ctx, tx, batch)
	return args.Error(0)
}

// MockEntryRepository モック台帳エントリリポジトリ
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByEntryID(ctx context.Context, entryID string) (*ledger.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

// MockEventRepository モックギフトイベントリポジトリ
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*gift.Event, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*gift.Event), args.Error(1)
}

// MockSnapshotPublisher モックスナップショット配信
type MockSnapshotPublisher struct {
	mock.Mock
}

func (m *MockSnapshotPublisher) PublishSnapshot(ctx context.Context, acct *account.Account) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

// stubIDGenerator 固定IDを返すジェネレーター
type stubIDGenerator struct {
	id string
}

func (s *stubIDGenerator) NextID() string {
	return s.id
}
