package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

const submissionColumns = `
	id, tenant_id, submission_number, status, clearance_status,
	insured, coverages, locations, loss_history, clearance_matches,
	appetite_score, winnability_score, quality_score,
	producer_id, underwriter_id, underwriter_name, assigned_at, received_at,
	decline_reason, quoted_premium, quoted_currency,
	clearance_override_reason, clearance_overridden_by,
	policy_effective, policy_expiration,
	version, created_at, updated_at`

// SubmissionRepo implements port.SubmissionRepository and port.ClearanceLookup.
type SubmissionRepo struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepo creates a new PostgreSQL-backed submission repository.
func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// Save upserts the submission with an optimistic version check. A brand-new
// aggregate inserts at its current version; an existing row only updates when
// the stored version still matches the version the aggregate was loaded at,
// and the stored version advances by one. A lost race surfaces as
// valueobject.ErrConflict.
func (r *SubmissionRepo) Save(ctx context.Context, s model.Submission) error {
	insuredJSON, err := json.Marshal(toInsuredRecord(s.Insured()))
	if err != nil {
		return fmt.Errorf("marshal insured: %w", err)
	}
	coveragesJSON, err := json.Marshal(toCoverageRecords(s.Coverages()))
	if err != nil {
		return fmt.Errorf("marshal coverages: %w", err)
	}
	locationsJSON, err := json.Marshal(toLocationRecords(s.Locations()))
	if err != nil {
		return fmt.Errorf("marshal locations: %w", err)
	}
	lossesJSON, err := json.Marshal(toLossRecords(s.LossHistory()))
	if err != nil {
		return fmt.Errorf("marshal loss history: %w", err)
	}
	matchesJSON, err := json.Marshal(toMatchRecords(s.ClearanceMatches()))
	if err != nil {
		return fmt.Errorf("marshal clearance matches: %w", err)
	}

	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (id) DO UPDATE SET
			status                    = EXCLUDED.status,
			clearance_status          = EXCLUDED.clearance_status,
			insured                   = EXCLUDED.insured,
			coverages                 = EXCLUDED.coverages,
			locations                 = EXCLUDED.locations,
			loss_history              = EXCLUDED.loss_history,
			clearance_matches         = EXCLUDED.clearance_matches,
			appetite_score            = EXCLUDED.appetite_score,
			winnability_score         = EXCLUDED.winnability_score,
			quality_score             = EXCLUDED.quality_score,
			underwriter_id            = EXCLUDED.underwriter_id,
			underwriter_name          = EXCLUDED.underwriter_name,
			assigned_at               = EXCLUDED.assigned_at,
			received_at               = EXCLUDED.received_at,
			decline_reason            = EXCLUDED.decline_reason,
			quoted_premium            = EXCLUDED.quoted_premium,
			quoted_currency           = EXCLUDED.quoted_currency,
			clearance_override_reason = EXCLUDED.clearance_override_reason,
			clearance_overridden_by   = EXCLUDED.clearance_overridden_by,
			policy_effective          = EXCLUDED.policy_effective,
			policy_expiration         = EXCLUDED.policy_expiration,
			version                   = submissions.version + 1,
			updated_at                = EXCLUDED.updated_at
		WHERE submissions.version = EXCLUDED.version
	`
	tag, err := r.pool.Exec(ctx, query,
		s.ID(), s.TenantID(), s.SubmissionNumber(),
		s.Status().String(), s.ClearanceStatus().String(),
		insuredJSON, coveragesJSON, locationsJSON, lossesJSON, matchesJSON,
		s.AppetiteScore(), s.WinnabilityScore(), s.QualityScore(),
		s.ProducerID(), s.UnderwriterID(), s.UnderwriterName(),
		s.AssignedAt(), s.ReceivedAt(),
		s.DeclineReason(), s.QuotedPremium(), s.QuotedCurrency(),
		s.ClearanceOverrideReason(), s.ClearanceOverriddenBy(),
		s.PolicyEffective(), s.PolicyExpiration(),
		s.Version(), s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save submission %s: %w", s.ID(), valueobject.ErrConflict)
	}
	return nil
}

// FindByID retrieves a submission by ID within the tenant.
func (r *SubmissionRepo) FindByID(ctx context.Context, tenantID, id string) (model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE tenant_id = $1 AND id = $2`
	row := r.pool.QueryRow(ctx, query, tenantID, id)
	s, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Submission{}, fmt.Errorf("submission %s: %w", id, valueobject.ErrNotFound)
	}
	return s, err
}

// FindBySubmissionNumber retrieves a submission by its business number.
func (r *SubmissionRepo) FindBySubmissionNumber(ctx context.Context, tenantID, number string) (model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE tenant_id = $1 AND submission_number = $2`
	row := r.pool.QueryRow(ctx, query, tenantID, number)
	s, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Submission{}, fmt.Errorf("submission number %s: %w", number, valueobject.ErrNotFound)
	}
	return s, err
}

// NextSubmissionNumber advances the tenant's counter and formats a number.
func (r *SubmissionRepo) NextSubmissionNumber(ctx context.Context, tenantID string) (string, error) {
	query := `
		INSERT INTO submission_counters (tenant_id, counter)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET counter = submission_counters.counter + 1
		RETURNING counter
	`
	var counter int64
	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(&counter); err != nil {
		return "", fmt.Errorf("next submission number: %w", err)
	}
	return fmt.Sprintf("SUB-%d-%06d", time.Now().UTC().Year(), counter), nil
}

// ClearedSubmissions returns the tenant's submissions that passed clearance,
// the corpus a new candidate is matched against.
func (r *SubmissionRepo) ClearedSubmissions(ctx context.Context, tenantID string) ([]model.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE tenant_id = $1 AND clearance_status IN ('PASSED', 'OVERRIDDEN')
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query cleared submissions: %w", err)
	}
	defer rows.Close()

	var result []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanSubmission(sc scannable) (model.Submission, error) {
	var (
		id, tenantID, submissionNumber string
		statusStr, clearanceStr        string

		insuredJSON, coveragesJSON, locationsJSON []byte
		lossesJSON, matchesJSON                   []byte

		appetiteScore, winnabilityScore, qualityScore *int

		producerID, underwriterID, underwriterName string
		assignedAt, receivedAt                     *time.Time

		declineReason, quotedCurrency string
		quotedPremium                 decimal.Decimal

		overrideReason, overriddenBy      string
		policyEffective, policyExpiration *time.Time

		version              int
		createdAt, updatedAt time.Time
	)

	err := sc.Scan(
		&id, &tenantID, &submissionNumber, &statusStr, &clearanceStr,
		&insuredJSON, &coveragesJSON, &locationsJSON, &lossesJSON, &matchesJSON,
		&appetiteScore, &winnabilityScore, &qualityScore,
		&producerID, &underwriterID, &underwriterName, &assignedAt, &receivedAt,
		&declineReason, &quotedPremium, &quotedCurrency,
		&overrideReason, &overriddenBy,
		&policyEffective, &policyExpiration,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Submission{}, fmt.Errorf("scan submission: %w", err)
	}

	status, err := valueobject.NewSubmissionStatus(statusStr)
	if err != nil {
		return model.Submission{}, fmt.Errorf("parse submission status: %w", err)
	}
	clearance, err := valueobject.NewClearanceStatus(clearanceStr)
	if err != nil {
		return model.Submission{}, fmt.Errorf("parse clearance status: %w", err)
	}

	var insuredRec insuredRecord
	if err := json.Unmarshal(insuredJSON, &insuredRec); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal insured: %w", err)
	}
	var coverageRecs []coverageRecord
	if err := json.Unmarshal(coveragesJSON, &coverageRecs); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal coverages: %w", err)
	}
	var locationRecs []locationRecord
	if err := json.Unmarshal(locationsJSON, &locationRecs); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal locations: %w", err)
	}
	var lossRecs []lossRecord
	if err := json.Unmarshal(lossesJSON, &lossRecs); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal loss history: %w", err)
	}
	var matchRecs []matchRecord
	if err := json.Unmarshal(matchesJSON, &matchRecs); err != nil {
		return model.Submission{}, fmt.Errorf("unmarshal clearance matches: %w", err)
	}
	matches, err := fromMatchRecords(matchRecs)
	if err != nil {
		return model.Submission{}, err
	}

	return model.ReconstructSubmission(model.SubmissionState{
		ID:                      id,
		TenantID:                tenantID,
		SubmissionNumber:        submissionNumber,
		Status:                  status,
		ClearanceStatus:         clearance,
		Insured:                 fromInsuredRecord(insuredRec),
		Coverages:               fromCoverageRecords(coverageRecs),
		Locations:               fromLocationRecords(locationRecs),
		LossHistory:             fromLossRecords(lossRecs),
		Matches:                 matches,
		AppetiteScore:           appetiteScore,
		WinnabilityScore:        winnabilityScore,
		QualityScore:            qualityScore,
		ProducerID:              producerID,
		UnderwriterID:           underwriterID,
		UnderwriterName:         underwriterName,
		AssignedAt:              assignedAt,
		ReceivedAt:              receivedAt,
		DeclineReason:           declineReason,
		QuotedPremium:           quotedPremium,
		QuotedCurrency:          quotedCurrency,
		ClearanceOverrideReason: overrideReason,
		ClearanceOverriddenBy:   overriddenBy,
		PolicyEffective:         policyEffective,
		PolicyExpiration:        policyExpiration,
		Version:                 version,
		CreatedAt:               createdAt,
		UpdatedAt:               updatedAt,
	}), nil
}
