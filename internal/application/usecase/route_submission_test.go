package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/application/usecase"
	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/service"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

func directRuleRepo(underwriterID, underwriterName string) *mockRuleRepo {
	return &mockRuleRepo{
		findFunc: func(context.Context, string) ([]model.RoutingRule, error) {
			return []model.RoutingRule{{
				ID:                    "rule-1",
				TenantID:              "tenant-1",
				Name:                  "property desk",
				Priority:              10,
				Status:                valueobject.GuidelineStatusActive,
				Strategy:              valueobject.RoutingStrategyDirect,
				TargetUnderwriterID:   underwriterID,
				TargetUnderwriterName: underwriterName,
			}}, nil
		},
	}
}

func TestRouteSubmissionUseCase_Execute(t *testing.T) {
	req := dto.RouteSubmissionRequest{TenantID: "tenant-1", SubmissionID: "sub-1"}

	newUseCase := func(repo *mockSubmissionRepo, rules *mockRuleRepo, decisions *mockDecisionRepo, publisher *mockPublisher) *usecase.RouteSubmissionUseCase {
		engine := service.NewRoutingEngine(&mockPairingRepo{}, rules, &mockRotationStore{})
		return usecase.NewRouteSubmissionUseCase(repo, engine, decisions, publisher, testLogger())
	}

	t.Run("records the decision without assigning by default", func(t *testing.T) {
		repo := &mockSubmissionRepo{
			findByIDFunc: findByIDReturning(submissionInStatus(valueobject.SubmissionStatusReceived)),
		}
		decisions := &mockDecisionRepo{}
		publisher := &mockPublisher{}
		uc := newUseCase(repo, directRuleRepo("uw-3", "Priya Nair"), decisions, publisher)

		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "uw-3", resp.UnderwriterID)
		assert.Equal(t, `rule "property desk" direct assignment`, resp.Reason)
		require.Len(t, decisions.saved, 1)
		assert.Empty(t, repo.saved, "assignment must be opt-in")
		assert.Equal(t, []string{"submission.routed"}, publisher.eventTypes())
	})

	t.Run("auto-assign applies the resolved underwriter", func(t *testing.T) {
		repo := &mockSubmissionRepo{
			findByIDFunc: findByIDReturning(submissionInStatus(valueobject.SubmissionStatusReceived)),
		}
		publisher := &mockPublisher{}
		uc := newUseCase(repo, directRuleRepo("uw-3", "Priya Nair"), &mockDecisionRepo{}, publisher)

		autoReq := req
		autoReq.AutoAssign = true
		resp, err := uc.Execute(context.Background(), autoReq)

		require.NoError(t, err)
		assert.Equal(t, "uw-3", resp.UnderwriterID)
		require.Len(t, repo.saved, 1)
		assert.Equal(t, "uw-3", repo.lastSaved().UnderwriterID())
		assert.True(t, repo.lastSaved().Status().Equal(valueobject.SubmissionStatusInReview))
		assert.Contains(t, publisher.eventTypes(), "submission.assigned")
	})

	t.Run("manual queue fallback never assigns", func(t *testing.T) {
		repo := &mockSubmissionRepo{
			findByIDFunc: findByIDReturning(submissionInStatus(valueobject.SubmissionStatusReceived)),
		}
		decisions := &mockDecisionRepo{}
		uc := newUseCase(repo, &mockRuleRepo{}, decisions, &mockPublisher{})

		autoReq := req
		autoReq.AutoAssign = true
		resp, err := uc.Execute(context.Background(), autoReq)

		require.NoError(t, err)
		assert.True(t, resp.ManualQueue)
		assert.Equal(t, "no matching rule", resp.Reason)
		assert.Empty(t, repo.saved)
		require.Len(t, decisions.saved, 1)
	})

	t.Run("decision save failure aborts before assignment", func(t *testing.T) {
		repo := &mockSubmissionRepo{
			findByIDFunc: findByIDReturning(submissionInStatus(valueobject.SubmissionStatusReceived)),
		}
		decisions := &mockDecisionRepo{
			saveFunc: func(context.Context, model.RoutingDecision) error {
				return errors.New("insert failed")
			},
		}
		uc := newUseCase(repo, directRuleRepo("uw-3", "Priya Nair"), decisions, &mockPublisher{})

		autoReq := req
		autoReq.AutoAssign = true
		_, err := uc.Execute(context.Background(), autoReq)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save routing decision")
		assert.Empty(t, repo.saved)
	})
}
