package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
)

// AccountRepository MySQL実装のAccountRepository
type AccountRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewAccountRepository 新しいAccountRepositoryを作成
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{
		db:     db,
		tracer: otel.Tracer("account-repository"),
	}
}

// FindByID アカウントIDでアカウントを取得
func (r *AccountRepository) FindByID(ctx context.Context, accountID string) (*account.Account, error) {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "accounts"),
	)

	query := `
		SELECT account_id, balance_cents, coins, diamonds, wealth, charm,
		       agency_balance, recharge_points, vip_level, frame, agency_id, roles, version
		FROM accounts
		WHERE account_id = ?
	`

	var (
		dbAccountID    string
		balanceCents   int64
		coins          int64
		diamonds       int64
		wealth         int64
		charm          int64
		agencyBalance  int64
		rechargePoints int64
		vipLevel       int
		frame          string
		agencyID       string
		roles          string
		version        int
	)

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&dbAccountID,
		&balanceCents,
		&coins,
		&diamonds,
		&wealth,
		&charm,
		&agencyBalance,
		&rechargePoints,
		&vipLevel,
		&frame,
		&agencyID,
		&roles,
		&version,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "account not found")
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	roleSet, err := account.ParseRoleSet(roles)
	if err != nil {
		return nil, fmt.Errorf("invalid roles column: %w", err)
	}

	customRates, err := r.loadCustomRates(ctx, accountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(otelcodes.Ok, "account found")

	acct, err := account.Reconstruct(
		dbAccountID,
		balanceCents, coins, diamonds, wealth, charm, agencyBalance, rechargePoints,
		vipLevel,
		frame,
		agencyID,
		roleSet,
		customRates,
		version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct account entity: %w", err)
	}

	return acct, nil
}

// Create 新しいアカウントを作成（残高はすべてゼロ）
func (r *AccountRepository) Create(ctx context.Context, acct *account.Account) error {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", acct.AccountID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "accounts"),
	)

	query := `
		INSERT INTO accounts (account_id, agency_id, roles)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		acct.AccountID(),
		acct.AgencyID(),
		acct.Roles().String(),
	)

	if err != nil {
		if isDuplicateKeyError(err) {
			span.SetStatus(otelcodes.Ok, "account already exists")
			return account.ErrAccountAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create account: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "account created")
	return nil
}

// UpdateRoles ロール集合を更新
func (r *AccountRepository) UpdateRoles(ctx context.Context, accountID string, roles account.RoleSet) error {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.UpdateRoles")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "accounts"),
	)

	query := `
		UPDATE accounts
		SET roles = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, roles.String(), accountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update roles: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		span.SetStatus(otelcodes.Ok, "account not found")
		return account.ErrAccountNotFound
	}

	span.SetStatus(otelcodes.Ok, "roles updated")
	return nil
}

// UpdateCustomRate 商品個別のコイン換算レートを設定
func (r *AccountRepository) UpdateCustomRate(ctx context.Context, accountID, productID string, rate int64) error {
	ctx, span := r.tracer.Start(ctx, "AccountRepository.UpdateCustomRate")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.account_id", accountID),
		attribute.String("db.product_id", productID),
		attribute.Int64("db.rate", rate),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "account_custom_rates"),
	)

	query := `
		INSERT INTO account_custom_rates (account_id, product_id, rate)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			rate = VALUES(rate),
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, accountID, productID, rate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update custom rate: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "custom rate updated")
	return nil
}

// loadCustomRates 商品個別レートの上書きを読み込む
func (r *AccountRepository) loadCustomRates(ctx context.Context, accountID string) (map[string]int64, error) {
	query := `
		SELECT product_id, rate
		FROM account_custom_rates
		WHERE account_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]int64)
	for rows.Next() {
		var productID string
		var rate int64
		if err := rows.Scan(&productID, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan custom rate: %w", err)
		}
		rates[productID] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate custom rates: %w", err)
	}

	return rates, nil
}
