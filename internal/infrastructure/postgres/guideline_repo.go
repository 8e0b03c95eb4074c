package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
	pkgpostgres "github.com/clearline/submission-engine/pkg/postgres"
)

// GuidelineRepo implements port.GuidelineRepository.
type GuidelineRepo struct {
	pool *pgxpool.Pool
}

// NewGuidelineRepo creates a new PostgreSQL-backed guideline repository.
func NewGuidelineRepo(pool *pgxpool.Pool) *GuidelineRepo {
	return &GuidelineRepo{pool: pool}
}

// FindActiveByTenant loads a tenant's active guidelines with their rules.
// Guidelines and rules are read inside one transaction so the rule set
// matches the guideline rows even while an admin is editing them.
func (r *GuidelineRepo) FindActiveByTenant(ctx context.Context, tenantID string) ([]model.UnderwritingGuideline, error) {
	var guidelines []model.UnderwritingGuideline
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		guidelines, err = r.queryGuidelines(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		for i := range guidelines {
			guidelines[i].Rules, err = r.loadRules(ctx, tx, guidelines[i].ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guidelines, nil
}

func (r *GuidelineRepo) queryGuidelines(ctx context.Context, q pkgpostgres.Querier, tenantID string) ([]model.UnderwritingGuideline, error) {
	query := `
		SELECT id, tenant_id, name, status, description,
		       coverage_types, states, naics_codes,
		       effective_from, expires_at, created_at, updated_at
		FROM underwriting_guidelines
		WHERE tenant_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query guidelines: %w", err)
	}
	defer rows.Close()

	var guidelines []model.UnderwritingGuideline
	for rows.Next() {
		var (
			g                                   model.UnderwritingGuideline
			statusStr                           string
			coverageJSON, statesJSON, naicsJSON []byte
		)
		err := rows.Scan(
			&g.ID, &g.TenantID, &g.Name, &statusStr, &g.Description,
			&coverageJSON, &statesJSON, &naicsJSON,
			&g.EffectiveFrom, &g.ExpiresAt, &g.CreatedAt, &g.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan guideline: %w", err)
		}

		g.Status, err = valueobject.GuidelineStatusFromString(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse guideline status: %w", err)
		}
		if err := json.Unmarshal(coverageJSON, &g.CoverageTypes); err != nil {
			return nil, fmt.Errorf("unmarshal coverage types: %w", err)
		}
		if err := json.Unmarshal(statesJSON, &g.States); err != nil {
			return nil, fmt.Errorf("unmarshal states: %w", err)
		}
		if err := json.Unmarshal(naicsJSON, &g.NAICSCodes); err != nil {
			return nil, fmt.Errorf("unmarshal naics codes: %w", err)
		}
		guidelines = append(guidelines, g)
	}
	return guidelines, rows.Err()
}

func (r *GuidelineRepo) loadRules(ctx context.Context, q pkgpostgres.Querier, guidelineID string) ([]model.GuidelineRule, error) {
	query := `
		SELECT id, name, rule_type, action, priority,
		       score_adjustment, pricing_modifier, message, condition
		FROM guideline_rules
		WHERE guideline_id = $1
		ORDER BY priority ASC
	`
	rows, err := q.Query(ctx, query, guidelineID)
	if err != nil {
		return nil, fmt.Errorf("query guideline rules: %w", err)
	}
	defer rows.Close()

	var rules []model.GuidelineRule
	for rows.Next() {
		var (
			rule               model.GuidelineRule
			typeStr, actionStr string
			conditionJSON      []byte
		)
		err := rows.Scan(
			&rule.ID, &rule.Name, &typeStr, &actionStr, &rule.Priority,
			&rule.ScoreAdjustment, &rule.PricingModifier, &rule.Message, &conditionJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan guideline rule: %w", err)
		}

		rule.Type, err = valueobject.RuleTypeFromString(typeStr)
		if err != nil {
			return nil, fmt.Errorf("parse rule type: %w", err)
		}
		rule.Action, err = valueobject.RuleActionFromString(actionStr)
		if err != nil {
			return nil, fmt.Errorf("parse rule action: %w", err)
		}

		var spec conditionSpec
		if err := json.Unmarshal(conditionJSON, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal rule condition: %w", err)
		}
		rule.Condition, err = compileCondition(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}

		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// conditionSpec is the stored form of a rule predicate: a comparison of one
// named submission attribute against a number, or a textual check.
type conditionSpec struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator,omitempty"`
	Number   float64 `json:"number,omitempty"`
	Text     string  `json:"text,omitempty"`
}

// compileCondition turns a stored spec into an executable predicate. Unknown
// fields or operators fail loading rather than silently never triggering.
func compileCondition(spec conditionSpec) (model.RuleCondition, error) {
	switch spec.Field {
	case "total_insured_value":
		return compileDecimalCondition(spec, func(s model.Submission) decimal.Decimal {
			return s.TotalInsuredValue()
		})
	case "annual_revenue":
		return compileDecimalCondition(spec, func(s model.Submission) decimal.Decimal {
			return s.Insured().AnnualRevenue
		})
	case "total_incurred":
		return compileDecimalCondition(spec, func(s model.Submission) decimal.Decimal {
			total := decimal.Zero
			for _, l := range s.LossHistory() {
				total = total.Add(l.IncurredAmount())
			}
			return total
		})
	case "years_in_business":
		return compileIntCondition(spec, func(s model.Submission) int {
			return s.Insured().YearsInBusiness
		})
	case "employee_count":
		return compileIntCondition(spec, func(s model.Submission) int {
			return s.Insured().EmployeeCount
		})
	case "loss_count":
		return compileIntCondition(spec, func(s model.Submission) int {
			return len(s.LossHistory())
		})
	case "location_count":
		return compileIntCondition(spec, func(s model.Submission) int {
			return len(s.Locations())
		})
	case "has_coverage":
		coverageType := spec.Text
		return func(s model.Submission) bool {
			return s.HasCoverage(coverageType)
		}, nil
	case "state":
		state := spec.Text
		return func(s model.Submission) bool {
			return strings.EqualFold(s.Insured().MailingAddress.State, state)
		}, nil
	case "naics_prefix":
		prefix := spec.Text
		return func(s model.Submission) bool {
			return prefix != "" && strings.HasPrefix(s.Insured().NAICSCode, prefix)
		}, nil
	default:
		return nil, fmt.Errorf("unknown condition field %q", spec.Field)
	}
}

func compileDecimalCondition(spec conditionSpec, extract func(model.Submission) decimal.Decimal) (model.RuleCondition, error) {
	threshold := decimal.NewFromFloat(spec.Number)
	cmp, err := decimalComparator(spec.Operator)
	if err != nil {
		return nil, err
	}
	return func(s model.Submission) bool {
		return cmp(extract(s), threshold)
	}, nil
}

func compileIntCondition(spec conditionSpec, extract func(model.Submission) int) (model.RuleCondition, error) {
	threshold := int(spec.Number)
	cmp, err := intComparator(spec.Operator)
	if err != nil {
		return nil, err
	}
	return func(s model.Submission) bool {
		return cmp(extract(s), threshold)
	}, nil
}

func decimalComparator(op string) (func(a, b decimal.Decimal) bool, error) {
	switch op {
	case "lt":
		return func(a, b decimal.Decimal) bool { return a.LessThan(b) }, nil
	case "lte":
		return func(a, b decimal.Decimal) bool { return a.LessThanOrEqual(b) }, nil
	case "gt":
		return func(a, b decimal.Decimal) bool { return a.GreaterThan(b) }, nil
	case "gte":
		return func(a, b decimal.Decimal) bool { return a.GreaterThanOrEqual(b) }, nil
	case "eq":
		return func(a, b decimal.Decimal) bool { return a.Equal(b) }, nil
	default:
		return nil, fmt.Errorf("unknown condition operator %q", op)
	}
}

func intComparator(op string) (func(a, b int) bool, error) {
	switch op {
	case "lt":
		return func(a, b int) bool { return a < b }, nil
	case "lte":
		return func(a, b int) bool { return a <= b }, nil
	case "gt":
		return func(a, b int) bool { return a > b }, nil
	case "gte":
		return func(a, b int) bool { return a >= b }, nil
	case "eq":
		return func(a, b int) bool { return a == b }, nil
	default:
		return nil, fmt.Errorf("unknown condition operator %q", op)
	}
}
