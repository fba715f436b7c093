package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/agency"
)

// AgencyRepository MySQL実装のAgencyRepository
type AgencyRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewAgencyRepository 新しいAgencyRepositoryを作成
func NewAgencyRepository(db *DB) *AgencyRepository {
	return &AgencyRepository{
		db:     db,
		tracer: otel.Tracer("agency-repository"),
	}
}

// FindByID エージェンシーIDでエージェンシーを取得
func (r *AgencyRepository) FindByID(ctx context.Context, agencyID string) (*agency.Agency, error) {
	ctx, span := r.tracer.Start(ctx, "AgencyRepository.FindByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.agency_id", agencyID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "agencies"),
	)

	query := `
		SELECT agency_id, name, agent_account_id, total_production
		FROM agencies
		WHERE agency_id = ?
	`

	var (
		dbAgencyID      string
		name            string
		agentAccountID  string
		totalProduction int64
	)

	err := r.db.QueryRowContext(ctx, query, agencyID).Scan(
		&dbAgencyID,
		&name,
		&agentAccountID,
		&totalProduction,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "agency not found")
		return nil, agency.ErrAgencyNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find agency: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "agency found")
	return agency.ReconstructAgency(dbAgencyID, name, agentAccountID, totalProduction), nil
}

// Create 新しいエージェンシーを作成
func (r *AgencyRepository) Create(ctx context.Context, a *agency.Agency) error {
	ctx, span := r.tracer.Start(ctx, "AgencyRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.agency_id", a.AgencyID()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "agencies"),
	)

	query := `
		INSERT INTO agencies (agency_id, name, agent_account_id, total_production)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.AgencyID(),
		a.Name(),
		a.AgentAccountID(),
		a.TotalProduction(),
	)

	if err != nil {
		if isDuplicateKeyError(err) {
			span.SetStatus(otelcodes.Ok, "agency already exists")
			return agency.ErrAgencyAlreadyExists
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to create agency: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "agency created")
	return nil
}
