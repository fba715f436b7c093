package admin

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/settings"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// AdminApplicationService 管理アプリケーションサービス
// 経済設定の変更とアカウント・エージェンシーの台帳外メタデータ管理を担う。
// 残高の変更はここでは行わない（LedgerApplicationService.GrantBalanceを使う）。
type AdminApplicationService struct {
	accountRepo  account.AccountRepository
	agencyRepo   agency.AgencyRepository
	settingsRepo settings.SettingsRepository
	logger       *otelinfra.Logger
	metrics      *otelinfra.Metrics
	tracer       trace.Tracer
}

// NewAdminApplicationService 新しいAdminApplicationServiceを作成
func NewAdminApplicationService(
	accountRepo account.AccountRepository,
	agencyRepo agency.AgencyRepository,
	settingsRepo settings.SettingsRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *AdminApplicationService {
	return &AdminApplicationService{
		accountRepo:  accountRepo,
		agencyRepo:   agencyRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
		metrics:      metrics,
		tracer:       otel.Tracer("admin-service"),
	}
}

// GetSettings 経済設定を取得
func (s *AdminApplicationService) GetSettings(ctx context.Context) (*SettingsView, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.GetSettings")
	defer span.End()

	economy, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "settings_load_failed", "Failed to load settings", err)
	}

	return toSettingsView(economy), nil
}

// UpdateSettings 経済設定を更新
// レートや比率の検証はドメインのコンストラクタに委ねる。
func (s *AdminApplicationService) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*SettingsView, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.UpdateSettings")
	defer span.End()

	span.SetAttributes(
		attribute.Int("production_ratio_percent", req.ProductionRatioPercent),
		attribute.Int64("announcement_threshold", req.AnnouncementThreshold),
	)

	economy, err := settings.NewEconomySettings(
		req.ProductionRatioPercent,
		req.DiamondToCoinNum, req.DiamondToCoinDen,
		req.SalaryUnitDiamonds, req.SalaryUnitPayout,
		req.AnnouncementThreshold,
		req.UsdToCoinRate,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Invalid economy settings", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, economy); err != nil {
		return nil, s.fail(ctx, span, "settings_save_failed", "Failed to save settings", err)
	}

	s.logger.Info(ctx, "Economy settings updated", map[string]interface{}{
		"production_ratio_percent": req.ProductionRatioPercent,
		"announcement_threshold":   req.AnnouncementThreshold,
	})
	span.SetStatus(otelcodes.Ok, "settings updated")

	return toSettingsView(economy), nil
}

// CreateAccount 新しいアカウントを作成（残高はすべてゼロ）
func (s *AdminApplicationService) CreateAccount(ctx context.Context, req *CreateAccountRequest) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.CreateAccount")
	defer span.End()

	span.SetAttributes(attribute.String("account_id", req.AccountID))

	roles, err := parseRoles(req.Roles)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	acct, err := account.NewAccount(req.AccountID, roles)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := s.accountRepo.Create(ctx, acct); err != nil {
		return s.fail(ctx, span, "account_create_failed", "Failed to create account", err)
	}

	s.logger.Info(ctx, "Account created", map[string]interface{}{
		"account_id": req.AccountID,
		"roles":      roles.String(),
	})
	span.SetStatus(otelcodes.Ok, "account created")
	return nil
}

// CreateAgency 新しいエージェンシーを作成
func (s *AdminApplicationService) CreateAgency(ctx context.Context, req *CreateAgencyRequest) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.CreateAgency")
	defer span.End()

	span.SetAttributes(
		attribute.String("agency_id", req.AgencyID),
		attribute.String("agent_account_id", req.AgentAccountID),
	)

	ag, err := agency.NewAgency(req.AgencyID, req.Name, req.AgentAccountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := s.agencyRepo.Create(ctx, ag); err != nil {
		return s.fail(ctx, span, "agency_create_failed", "Failed to create agency", err)
	}

	s.logger.Info(ctx, "Agency created", map[string]interface{}{
		"agency_id":        req.AgencyID,
		"agent_account_id": req.AgentAccountID,
	})
	span.SetStatus(otelcodes.Ok, "agency created")
	return nil
}

// UpdateRoles アカウントのロール集合を置き換える
func (s *AdminApplicationService) UpdateRoles(ctx context.Context, req *UpdateRolesRequest) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.UpdateRoles")
	defer span.End()

	span.SetAttributes(attribute.String("account_id", req.AccountID))

	roles, err := parseRoles(req.Roles)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := s.accountRepo.UpdateRoles(ctx, req.AccountID, roles); err != nil {
		return s.fail(ctx, span, "roles_update_failed", "Failed to update roles", err)
	}

	s.logger.Info(ctx, "Roles updated", map[string]interface{}{
		"account_id": req.AccountID,
		"roles":      roles.String(),
	})
	span.SetStatus(otelcodes.Ok, "roles updated")
	return nil
}

// SetCustomRate 商品個別のコイン換算レートを設定
func (s *AdminApplicationService) SetCustomRate(ctx context.Context, req *SetCustomRateRequest) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.SetCustomRate")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.String("product_id", req.ProductID),
		attribute.Int64("rate", req.Rate),
	)

	if req.Rate <= 0 {
		err := settings.ErrInvalidRate
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}

	if err := s.accountRepo.UpdateCustomRate(ctx, req.AccountID, req.ProductID, req.Rate); err != nil {
		return s.fail(ctx, span, "custom_rate_update_failed", "Failed to set custom rate", err)
	}

	s.logger.Info(ctx, "Custom rate set", map[string]interface{}{
		"account_id": req.AccountID,
		"product_id": req.ProductID,
		"rate":       req.Rate,
	})
	span.SetStatus(otelcodes.Ok, "custom rate set")
	return nil
}

func (s *AdminApplicationService) fail(ctx context.Context, span trace.Span, errorType, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.logger.Error(ctx, message, err, nil)
	s.metrics.RecordError(ctx, errorType)
	return fmt.Errorf("%s: %w", message, err)
}

func parseRoles(roles []string) (account.RoleSet, error) {
	rs := account.NewRoleSet()
	for _, r := range roles {
		role, err := account.NewRole(r)
		if err != nil {
			return nil, err
		}
		rs.Add(role)
	}
	return rs, nil
}

func toSettingsView(economy *settings.EconomySettings) *SettingsView {
	return &SettingsView{
		ProductionRatioPercent: economy.ProductionRatioPercent(),
		DiamondToCoinNum:       economy.DiamondToCoinNum(),
		DiamondToCoinDen:       economy.DiamondToCoinDen(),
		SalaryUnitDiamonds:     economy.SalaryUnitDiamonds(),
		SalaryUnitPayout:       economy.SalaryUnitPayout(),
		AnnouncementThreshold:  economy.AnnouncementThreshold(),
		UsdToCoinRate:          economy.UsdToCoinRate(),
	}
}
