package usecase

import (
	"context"
	"log/slog"

	"github.com/clearline/submission-engine/internal/application/dto"
	"github.com/clearline/submission-engine/internal/domain/model"
	"github.com/clearline/submission-engine/internal/domain/port"
)

func toSubmissionResponse(s model.Submission) dto.SubmissionResponse {
	matches := make([]dto.ClearanceMatchView, 0, len(s.ClearanceMatches()))
	for _, m := range s.ClearanceMatches() {
		matches = append(matches, dto.ClearanceMatchView{
			MatchedSubmissionID:     m.MatchedSubmissionID,
			MatchedSubmissionNumber: m.MatchedSubmissionNumber,
			MatchType:               m.Type.String(),
			Confidence:              m.Confidence,
			Details:                 m.Details,
		})
	}

	return dto.SubmissionResponse{
		ID:               s.ID(),
		TenantID:         s.TenantID(),
		SubmissionNumber: s.SubmissionNumber(),
		Status:           s.Status().String(),
		ClearanceStatus:  s.ClearanceStatus().String(),
		InsuredName:      s.Insured().Name,
		TaxID:            s.Insured().TaxID,
		State:            s.Insured().MailingAddress.State,
		ProducerID:       s.ProducerID(),
		UnderwriterID:    s.UnderwriterID(),
		UnderwriterName:  s.UnderwriterName(),
		AppetiteScore:    s.AppetiteScore(),
		WinnabilityScore: s.WinnabilityScore(),
		QualityScore:     s.QualityScore(),
		DeclineReason:    s.DeclineReason(),
		QuotedPremium:    s.QuotedPremium(),
		QuotedCurrency:   s.QuotedCurrency(),
		ClearanceMatches: matches,
		ReceivedAt:       s.ReceivedAt(),
		AssignedAt:       s.AssignedAt(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

// publishEvents drains the aggregate's queued events after a successful save.
// A dispatch failure is logged and swallowed: it must never undo an already
// committed state change.
func publishEvents(ctx context.Context, logger *slog.Logger, publisher port.EventPublisher, s model.Submission) {
	evts := s.DomainEvents()
	if len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Error("failed to publish domain events",
			"submission_id", s.ID(),
			"tenant_id", s.TenantID(),
			"event_count", len(evts),
			"error", err,
		)
	}
}
