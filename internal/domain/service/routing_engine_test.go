package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

var routeNow = time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)

type mockPairingRepo struct {
	findFunc func(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error)
}

func (m *mockPairingRepo) FindActiveByProducer(ctx context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID, producerID)
	}
	return nil, nil
}

type mockRuleRepo struct {
	findFunc func(ctx context.Context, tenantID string) ([]model.RoutingRule, error)
}

func (m *mockRuleRepo) FindActiveByTenant(ctx context.Context, tenantID string) ([]model.RoutingRule, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, tenantID)
	}
	return nil, nil
}

// memRotationStore advances an in-memory counter per (tenant, rule). The
// first call for a rule returns 0, matching the durable store.
type memRotationStore struct {
	positions map[string]int
}

func newMemRotationStore() *memRotationStore {
	return &memRotationStore{positions: make(map[string]int)}
}

func (m *memRotationStore) Next(_ context.Context, tenantID, ruleID string, poolSize int) (int, error) {
	if poolSize <= 0 {
		return 0, fmt.Errorf("pool size must be positive, got %d", poolSize)
	}
	key := tenantID + "/" + ruleID
	pos := m.positions[key]
	m.positions[key]++
	return pos % poolSize, nil
}

func routableSubmission(producerID string) model.Submission {
	return model.ReconstructSubmission(model.SubmissionState{
		ID:               "sub-1",
		TenantID:         "tenant-1",
		SubmissionNumber: "SUB-2026-000001",
		Status:           valueobject.SubmissionStatusReceived,
		ClearanceStatus:  valueobject.ClearanceStatusPassed,
		ProducerID:       producerID,
		Insured: model.InsuredParty{
			Name:           "Acme Manufacturing",
			MailingAddress: model.Address{State: "CA"},
			NAICSCode:      "332710",
		},
		Coverages: []model.Coverage{{
			ID:             "cov-1",
			Type:           model.CoverageProperty,
			RequestedLimit: decimal.NewFromInt(2_000_000),
		}},
		Version:   1,
		CreatedAt: routeNow,
		UpdatedAt: routeNow,
	})
}

func activeRule(id, name string, priority int, strategy valueobject.RoutingStrategy) model.RoutingRule {
	return model.RoutingRule{
		ID:        id,
		TenantID:  "tenant-1",
		Name:      name,
		Priority:  priority,
		Status:    valueobject.GuidelineStatusActive,
		Strategy:  strategy,
		CreatedAt: routeNow.Add(-24 * time.Hour),
	}
}

func TestRoutingEngine_Resolve(t *testing.T) {
	t.Run("producer pairing wins over rules", func(t *testing.T) {
		pairings := &mockPairingRepo{
			findFunc: func(_ context.Context, tenantID, producerID string) ([]model.ProducerUnderwriterPairing, error) {
				assert.Equal(t, "tenant-1", tenantID)
				assert.Equal(t, "prod-1", producerID)
				return []model.ProducerUnderwriterPairing{{
					ID:              "pair-1",
					ProducerID:      "prod-1",
					ProducerName:    "Marsh West",
					UnderwriterID:   "uw-9",
					UnderwriterName: "Dana Reyes",
					Active:          true,
				}}, nil
			},
		}
		directRule := activeRule("rule-1", "property direct", 100, valueobject.RoutingStrategyDirect)
		directRule.TargetUnderwriterID = "uw-1"
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{directRule}, nil
			},
		}
		engine := service.NewRoutingEngine(pairings, rules, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission("prod-1"), routeNow)

		require.NoError(t, err)
		assert.Equal(t, "pair-1", decision.MatchedPairingID)
		assert.Empty(t, decision.MatchedRuleID)
		assert.Equal(t, "uw-9", decision.UnderwriterID)
		assert.Equal(t, `producer pairing "Marsh West"`, decision.Reason)
		assert.True(t, decision.Assigned())
	})

	t.Run("pairing ties break by priority then most recent effective-from", func(t *testing.T) {
		older := routeNow.Add(-60 * 24 * time.Hour)
		newer := routeNow.Add(-10 * 24 * time.Hour)
		pairings := &mockPairingRepo{
			findFunc: func(context.Context, string, string) ([]model.ProducerUnderwriterPairing, error) {
				return []model.ProducerUnderwriterPairing{
					{ID: "pair-low", ProducerID: "prod-1", UnderwriterID: "uw-low", Priority: 1, Active: true},
					{ID: "pair-old", ProducerID: "prod-1", UnderwriterID: "uw-old", Priority: 5, Active: true, EffectiveFrom: &older},
					{ID: "pair-new", ProducerID: "prod-1", UnderwriterID: "uw-new", Priority: 5, Active: true, EffectiveFrom: &newer},
				}, nil
			},
		}
		engine := service.NewRoutingEngine(pairings, &mockRuleRepo{}, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission("prod-1"), routeNow)

		require.NoError(t, err)
		assert.Equal(t, "pair-new", decision.MatchedPairingID)
		assert.Equal(t, "uw-new", decision.UnderwriterID)
	})

	t.Run("expired and non-covering pairings are skipped", func(t *testing.T) {
		past := routeNow.Add(-time.Hour)
		pairings := &mockPairingRepo{
			findFunc: func(context.Context, string, string) ([]model.ProducerUnderwriterPairing, error) {
				return []model.ProducerUnderwriterPairing{
					{ID: "pair-expired", ProducerID: "prod-1", UnderwriterID: "uw-1", Active: true, EffectiveTo: &past},
					{ID: "pair-wc", ProducerID: "prod-1", UnderwriterID: "uw-2", Active: true, CoverageTypes: []string{model.CoverageWorkersComp}},
				}, nil
			},
		}
		engine := service.NewRoutingEngine(pairings, &mockRuleRepo{}, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission("prod-1"), routeNow)

		require.NoError(t, err)
		assert.Empty(t, decision.MatchedPairingID)
		assert.True(t, decision.ManualQueue)
		assert.Equal(t, "no matching rule", decision.Reason)
	})

	t.Run("direct rule assigns its target", func(t *testing.T) {
		rule := activeRule("rule-1", "CA property desk", 50, valueobject.RoutingStrategyDirect)
		rule.TargetUnderwriterID = "uw-3"
		rule.TargetUnderwriterName = "Priya Nair"
		rule.Conditions = model.RoutingConditions{States: []string{"CA"}}
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{rule}, nil
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)

		require.NoError(t, err)
		assert.Equal(t, "rule-1", decision.MatchedRuleID)
		assert.Equal(t, "uw-3", decision.UnderwriterID)
		assert.Equal(t, `rule "CA property desk" direct assignment`, decision.Reason)
		assert.False(t, decision.ManualQueue)
	})

	t.Run("round robin walks the pool in order", func(t *testing.T) {
		rule := activeRule("rule-rr", "shared desk", 50, valueobject.RoutingStrategyRoundRobin)
		rule.UnderwriterPool = []model.RoutingTarget{
			{UnderwriterID: "uw-1", UnderwriterName: "One"},
			{UnderwriterID: "uw-2", UnderwriterName: "Two"},
			{UnderwriterID: "uw-3", UnderwriterName: "Three"},
		}
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{rule}, nil
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		var assigned []string
		for i := 0; i < 4; i++ {
			decision, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)
			require.NoError(t, err)
			assigned = append(assigned, decision.UnderwriterID)
			assert.Equal(t, fmt.Sprintf(`rule "shared desk" round-robin position %d`, i), decision.Reason)
		}

		assert.Equal(t, []string{"uw-1", "uw-2", "uw-3", "uw-1"}, assigned)
	})

	t.Run("empty rotation pool falls back to the manual queue", func(t *testing.T) {
		rule := activeRule("rule-rr", "unstaffed desk", 50, valueobject.RoutingStrategyRoundRobin)
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{rule}, nil
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)

		require.NoError(t, err)
		assert.Equal(t, "rule-rr", decision.MatchedRuleID)
		assert.True(t, decision.ManualQueue)
		assert.Equal(t, `rule "unstaffed desk" has an empty rotation pool`, decision.Reason)
		assert.False(t, decision.Assigned())
	})

	t.Run("rule ties break by priority then earliest creation", func(t *testing.T) {
		early := activeRule("rule-early", "early", 50, valueobject.RoutingStrategyDirect)
		early.TargetUnderwriterID = "uw-early"
		early.CreatedAt = routeNow.Add(-48 * time.Hour)
		late := activeRule("rule-late", "late", 50, valueobject.RoutingStrategyDirect)
		late.TargetUnderwriterID = "uw-late"
		late.CreatedAt = routeNow.Add(-1 * time.Hour)
		low := activeRule("rule-low", "low", 10, valueobject.RoutingStrategyDirect)
		low.TargetUnderwriterID = "uw-low"
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{low, late, early}, nil
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)

		require.NoError(t, err)
		assert.Equal(t, "rule-early", decision.MatchedRuleID)
		assert.Equal(t, "uw-early", decision.UnderwriterID)
	})

	t.Run("non-matching conditions fall through to the queue", func(t *testing.T) {
		threshold := 80
		rule := activeRule("rule-1", "high appetite only", 50, valueobject.RoutingStrategyDirect)
		rule.TargetUnderwriterID = "uw-1"
		rule.Conditions = model.RoutingConditions{MinAppetiteScore: &threshold}
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return []model.RoutingRule{rule}, nil
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		// The submission carries no appetite score, so the set threshold fails.
		decision, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)

		require.NoError(t, err)
		assert.Empty(t, decision.MatchedRuleID)
		assert.True(t, decision.ManualQueue)
		assert.Equal(t, "no matching rule", decision.Reason)
	})

	t.Run("repository errors surface", func(t *testing.T) {
		rules := &mockRuleRepo{
			findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
				return nil, errors.New("connection reset")
			},
		}
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, newMemRotationStore())

		_, err := engine.Resolve(context.Background(), routableSubmission(""), routeNow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find routing rules")
	})

	t.Run("decision snapshots scores at decision time", func(t *testing.T) {
		sub := routableSubmission("")
		sub, err := sub.SetScores(intPtr(72), intPtr(64), intPtr(88), routeNow)
		require.NoError(t, err)
		engine := service.NewRoutingEngine(&mockPairingRepo{}, &mockRuleRepo{}, newMemRotationStore())

		decision, err := engine.Resolve(context.Background(), sub, routeNow)

		require.NoError(t, err)
		require.NotNil(t, decision.AppetiteScoreAtDecision)
		assert.Equal(t, 72, *decision.AppetiteScoreAtDecision)
		require.NotNil(t, decision.QualityScoreAtDecision)
		assert.Equal(t, 88, *decision.QualityScoreAtDecision)
	})
}

func intPtr(v int) *int { return &v }
