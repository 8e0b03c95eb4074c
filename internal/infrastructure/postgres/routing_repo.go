package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// RoutingRuleRepo implements port.RoutingRuleRepository.
type RoutingRuleRepo struct {
	pool *pgxpool.Pool
}

// NewRoutingRuleRepo creates a new PostgreSQL-backed routing rule repository.
func NewRoutingRuleRepo(pool *pgxpool.Pool) *RoutingRuleRepo {
	return &RoutingRuleRepo{pool: pool}
}

// poolEntry and conditionsRecord are the stored JSONB shapes.
type poolEntry struct {
	UnderwriterID   string `json:"underwriter_id"`
	UnderwriterName string `json:"underwriter_name"`
}

type conditionsRecord struct {
	CoverageTypes    []string `json:"coverage_types,omitempty"`
	States           []string `json:"states,omitempty"`
	NAICSPrefixes    []string `json:"naics_prefixes,omitempty"`
	MinAppetiteScore *int     `json:"min_appetite_score,omitempty"`
	MinQualityScore  *int     `json:"min_quality_score,omitempty"`
}

// FindActiveByTenant loads a tenant's active routing rules ordered by
// priority descending then creation time ascending.
func (r *RoutingRuleRepo) FindActiveByTenant(ctx context.Context, tenantID string) ([]model.RoutingRule, error) {
	query := `
		SELECT id, tenant_id, name, description, priority, status, strategy,
		       target_underwriter_id, target_underwriter_name, target_team_id,
		       underwriter_pool, conditions, created_at, updated_at
		FROM routing_rules
		WHERE tenant_id = $1 AND status = 'ACTIVE'
		ORDER BY priority DESC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query routing rules: %w", err)
	}
	defer rows.Close()

	var rules []model.RoutingRule
	for rows.Next() {
		var (
			rule                     model.RoutingRule
			statusStr, strategyStr   string
			poolJSON, conditionsJSON []byte
		)
		err := rows.Scan(
			&rule.ID, &rule.TenantID, &rule.Name, &rule.Description,
			&rule.Priority, &statusStr, &strategyStr,
			&rule.TargetUnderwriterID, &rule.TargetUnderwriterName, &rule.TargetTeamID,
			&poolJSON, &conditionsJSON, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan routing rule: %w", err)
		}

		rule.Status, err = valueobject.GuidelineStatusFromString(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse routing rule status: %w", err)
		}
		rule.Strategy, err = valueobject.RoutingStrategyFromString(strategyStr)
		if err != nil {
			return nil, fmt.Errorf("parse routing strategy: %w", err)
		}

		var entries []poolEntry
		if err := json.Unmarshal(poolJSON, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal underwriter pool: %w", err)
		}
		for _, e := range entries {
			rule.UnderwriterPool = append(rule.UnderwriterPool, model.RoutingTarget{
				UnderwriterID:   e.UnderwriterID,
				UnderwriterName: e.UnderwriterName,
			})
		}

		var cond conditionsRecord
		if err := json.Unmarshal(conditionsJSON, &cond); err != nil {
			return nil, fmt.Errorf("unmarshal routing conditions: %w", err)
		}
		rule.Conditions = model.RoutingConditions{
			CoverageTypes:    cond.CoverageTypes,
			States:           cond.States,
			NAICSPrefixes:    cond.NAICSPrefixes,
			MinAppetiteScore: cond.MinAppetiteScore,
			MinQualityScore:  cond.MinQualityScore,
		}

		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// PairingRepo implements port.PairingRepository.
type PairingRepo struct {
	pool *pgxpool.Pool
}

// NewPairingRepo creates a new PostgreSQL-backed pairing repository.
func NewPairingRepo(pool *pgxpool.Pool) *PairingRepo {
	return &PairingRepo{pool: pool}
}

// FindActiveByProducer loads the active pairings for a producer.
func (r *PairingRepo) FindActiveByProducer(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error) {
	query := `
		SELECT id, tenant_id, producer_id, producer_name,
		       underwriter_id, underwriter_name, priority, active,
		       effective_from, effective_to, coverage_types, created_at, updated_at
		FROM producer_underwriter_pairings
		WHERE tenant_id = $1 AND producer_id = $2 AND active
		ORDER BY priority DESC
	`
	rows, err := r.pool.Query(ctx, query, tenantID, producerID)
	if err != nil {
		return nil, fmt.Errorf("query pairings: %w", err)
	}
	defer rows.Close()

	var pairings []model.ProducerUnderwriterPairing
	for rows.Next() {
		var (
			p            model.ProducerUnderwriterPairing
			coverageJSON []byte
		)
		err := rows.Scan(
			&p.ID, &p.TenantID, &p.ProducerID, &p.ProducerName,
			&p.UnderwriterID, &p.UnderwriterName, &p.Priority, &p.Active,
			&p.EffectiveFrom, &p.EffectiveTo, &coverageJSON, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pairing: %w", err)
		}
		if err := json.Unmarshal(coverageJSON, &p.CoverageTypes); err != nil {
			return nil, fmt.Errorf("unmarshal pairing coverage types: %w", err)
		}
		pairings = append(pairings, p)
	}
	return pairings, rows.Err()
}

// RoutingDecisionRepo implements port.RoutingDecisionRepository.
type RoutingDecisionRepo struct {
	pool *pgxpool.Pool
}

// NewRoutingDecisionRepo creates a new PostgreSQL-backed decision repository.
func NewRoutingDecisionRepo(pool *pgxpool.Pool) *RoutingDecisionRepo {
	return &RoutingDecisionRepo{pool: pool}
}

// Save persists a routing decision (insert only; decisions are immutable).
func (r *RoutingDecisionRepo) Save(ctx context.Context, d model.RoutingDecision) error {
	historyJSON, err := json.Marshal(d.History)
	if err != nil {
		return fmt.Errorf("marshal decision history: %w", err)
	}

	query := `
		INSERT INTO routing_decisions (
			id, tenant_id, submission_id, matched_rule_id, matched_pairing_id,
			strategy, underwriter_id, underwriter_name, team_id, manual_queue, reason,
			appetite_score, winnability_score, quality_score, decided_at, history
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = r.pool.Exec(ctx, query,
		d.ID, d.TenantID, d.SubmissionID, d.MatchedRuleID, d.MatchedPairingID,
		d.Strategy.String(), d.UnderwriterID, d.UnderwriterName, d.TeamID,
		d.ManualQueue, d.Reason,
		d.AppetiteScoreAtDecision, d.WinnabilityScoreAtDecision, d.QualityScoreAtDecision,
		d.DecidedAt, historyJSON,
	)
	if err != nil {
		return fmt.Errorf("save routing decision: %w", err)
	}
	return nil
}

// FindBySubmissionID loads all decisions for a submission, most recent first.
func (r *RoutingDecisionRepo) FindBySubmissionID(ctx context.Context, tenantID, submissionID string) ([]model.RoutingDecision, error) {
	query := `
		SELECT id, tenant_id, submission_id, matched_rule_id, matched_pairing_id,
		       strategy, underwriter_id, underwriter_name, team_id, manual_queue, reason,
		       appetite_score, winnability_score, quality_score, decided_at, history
		FROM routing_decisions
		WHERE tenant_id = $1 AND submission_id = $2
		ORDER BY decided_at DESC
	`
	rows, err := r.pool.Query(ctx, query, tenantID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("query routing decisions: %w", err)
	}
	defer rows.Close()

	var decisions []model.RoutingDecision
	for rows.Next() {
		var (
			d           model.RoutingDecision
			strategyStr string
			historyJSON []byte
		)
		err := rows.Scan(
			&d.ID, &d.TenantID, &d.SubmissionID, &d.MatchedRuleID, &d.MatchedPairingID,
			&strategyStr, &d.UnderwriterID, &d.UnderwriterName, &d.TeamID,
			&d.ManualQueue, &d.Reason,
			&d.AppetiteScoreAtDecision, &d.WinnabilityScoreAtDecision, &d.QualityScoreAtDecision,
			&d.DecidedAt, &historyJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan routing decision: %w", err)
		}
		d.Strategy, err = valueobject.RoutingStrategyFromString(strategyStr)
		if err != nil {
			return nil, fmt.Errorf("parse routing strategy: %w", err)
		}
		if err := json.Unmarshal(historyJSON, &d.History); err != nil {
			return nil, fmt.Errorf("unmarshal decision history: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
