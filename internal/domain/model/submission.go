package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearline/submission-engine/internal/domain/event"
	"github.com/clearline/submission-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Submission aggregate root
// ---------------------------------------------------------------------------

// Submission is an immutable aggregate. Every mutation returns a new copy;
// a failed operation returns the receiver unchanged.
type Submission struct {
	id               string
	tenantID         string
	submissionNumber string
	status           valueobject.SubmissionStatus
	clearanceStatus  valueobject.ClearanceStatus

	insured     InsuredParty
	coverages   []Coverage
	locations   []ExposureLocation
	lossHistory []LossRecord
	matches     []ClearanceMatch

	appetiteScore    *int
	winnabilityScore *int
	qualityScore     *int

	producerID      string
	underwriterID   string
	underwriterName string
	assignedAt      *time.Time

	receivedAt              *time.Time
	declineReason           string
	quotedPremium           decimal.Decimal
	quotedCurrency          string
	clearanceOverrideReason string
	clearanceOverriddenBy   string

	policyEffective  *time.Time
	policyExpiration *time.Time

	version      int
	createdAt    time.Time
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewSubmission creates a brand-new submission in DRAFT status with an
// unchecked clearance state.
func NewSubmission(tenantID, submissionNumber, insuredName, producerID string, now time.Time) (Submission, error) {
	if tenantID == "" {
		return Submission{}, fmt.Errorf("%w: tenant ID is required", valueobject.ErrValidation)
	}
	if submissionNumber == "" {
		return Submission{}, fmt.Errorf("%w: submission number is required", valueobject.ErrValidation)
	}
	if strings.TrimSpace(insuredName) == "" {
		return Submission{}, fmt.Errorf("%w: insured name is required", valueobject.ErrValidation)
	}

	id := uuid.New().String()
	s := Submission{
		id:               id,
		tenantID:         tenantID,
		submissionNumber: submissionNumber,
		status:           valueobject.SubmissionStatusDraft,
		clearanceStatus:  valueobject.ClearanceStatusNotChecked,
		insured:          InsuredParty{Name: strings.TrimSpace(insuredName)},
		producerID:       producerID,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}

	s.domainEvents = append(s.domainEvents, event.NewSubmissionCreated(
		id, tenantID, submissionNumber, s.insured.Name,
	))
	return s, nil
}

// SubmissionState carries every persisted field of a submission so that
// repositories can rebuild the aggregate without side-effects.
type SubmissionState struct {
	ID                      string
	TenantID                string
	SubmissionNumber        string
	Status                  valueobject.SubmissionStatus
	ClearanceStatus         valueobject.ClearanceStatus
	Insured                 InsuredParty
	Coverages               []Coverage
	Locations               []ExposureLocation
	LossHistory             []LossRecord
	Matches                 []ClearanceMatch
	AppetiteScore           *int
	WinnabilityScore        *int
	QualityScore            *int
	ProducerID              string
	UnderwriterID           string
	UnderwriterName         string
	AssignedAt              *time.Time
	ReceivedAt              *time.Time
	DeclineReason           string
	QuotedPremium           decimal.Decimal
	QuotedCurrency          string
	ClearanceOverrideReason string
	ClearanceOverriddenBy   string
	PolicyEffective         *time.Time
	PolicyExpiration        *time.Time
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ReconstructSubmission rebuilds an aggregate from persistence without side-effects.
func ReconstructSubmission(st SubmissionState) Submission {
	return Submission{
		id:                      st.ID,
		tenantID:                st.TenantID,
		submissionNumber:        st.SubmissionNumber,
		status:                  st.Status,
		clearanceStatus:         st.ClearanceStatus,
		insured:                 st.Insured,
		coverages:               st.Coverages,
		locations:               st.Locations,
		lossHistory:             st.LossHistory,
		matches:                 st.Matches,
		appetiteScore:           st.AppetiteScore,
		winnabilityScore:        st.WinnabilityScore,
		qualityScore:            st.QualityScore,
		producerID:              st.ProducerID,
		underwriterID:           st.UnderwriterID,
		underwriterName:         st.UnderwriterName,
		assignedAt:              st.AssignedAt,
		receivedAt:              st.ReceivedAt,
		declineReason:           st.DeclineReason,
		quotedPremium:           st.QuotedPremium,
		quotedCurrency:          st.QuotedCurrency,
		clearanceOverrideReason: st.ClearanceOverrideReason,
		clearanceOverriddenBy:   st.ClearanceOverriddenBy,
		policyEffective:         st.PolicyEffective,
		policyExpiration:        st.PolicyExpiration,
		version:                 st.Version,
		createdAt:               st.CreatedAt,
		updatedAt:               st.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// MarkAsReceived transitions DRAFT -> RECEIVED.
func (s Submission) MarkAsReceived(now time.Time) (Submission, error) {
	if !s.status.Equal(valueobject.SubmissionStatusDraft) {
		return s, valueobject.ErrInvalidStatusTransition
	}
	next := s
	next.status = valueobject.SubmissionStatusReceived
	next.receivedAt = &now
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionReceived(
		s.id, s.tenantID, s.submissionNumber,
	))
	return next, nil
}

// CompleteClearance records the result of the clearance check. An empty match
// set passes clearance and moves a draft on to RECEIVED; any matches fail it
// and force PENDING_CLEARANCE regardless of the current pre-terminal status.
func (s Submission) CompleteClearance(matches []ClearanceMatch, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	next := s
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)

	if len(matches) == 0 {
		next.clearanceStatus = valueobject.ClearanceStatusPassed
		if next.status.Equal(valueobject.SubmissionStatusDraft) {
			next.status = valueobject.SubmissionStatusReceived
			next.receivedAt = &now
		}
		next.domainEvents = append(next.domainEvents, event.NewClearancePassed(s.id, s.tenantID))
		return next, nil
	}

	next.clearanceStatus = valueobject.ClearanceStatusFailed
	next.status = valueobject.SubmissionStatusPendingClearance
	next.matches = append(copyMatches(s.matches), matches...)
	next.domainEvents = append(next.domainEvents, event.NewClearanceFailed(s.id, s.tenantID, len(matches)))
	return next, nil
}

// OverrideClearance clears a failed clearance. Valid only from PENDING_CLEARANCE.
func (s Submission) OverrideClearance(reason, actorID string, now time.Time) (Submission, error) {
	if !s.status.Equal(valueobject.SubmissionStatusPendingClearance) {
		return s, valueobject.ErrOverrideRequiresClearance
	}
	if strings.TrimSpace(reason) == "" {
		return s, fmt.Errorf("%w: override reason is required", valueobject.ErrValidation)
	}
	if actorID == "" {
		return s, fmt.Errorf("%w: override actor is required", valueobject.ErrValidation)
	}
	next := s
	next.clearanceStatus = valueobject.ClearanceStatusOverridden
	next.status = valueobject.SubmissionStatusReceived
	next.clearanceOverrideReason = reason
	next.clearanceOverriddenBy = actorID
	if next.receivedAt == nil {
		next.receivedAt = &now
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewClearanceOverridden(s.id, s.tenantID, reason, actorID))
	return next, nil
}

// AssignToUnderwriter assigns the submission and transitions to IN_REVIEW.
// Reassignment of an in-review submission is permitted and leaves the status
// unchanged.
func (s Submission) AssignToUnderwriter(underwriterID, underwriterName string, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrCannotAssignClosed
	}
	if s.clearanceStatus.Blocks() {
		return s, valueobject.ErrClearanceBlocksAssignment
	}
	if underwriterID == "" {
		return s, fmt.Errorf("%w: underwriter ID is required", valueobject.ErrValidation)
	}
	if !s.status.Equal(valueobject.SubmissionStatusReceived) &&
		!s.status.Equal(valueobject.SubmissionStatusInReview) {
		return s, valueobject.ErrInvalidStatusTransition
	}
	next := s
	next.underwriterID = underwriterID
	next.underwriterName = underwriterName
	next.assignedAt = &now
	next.status = valueobject.SubmissionStatusInReview
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionAssigned(
		s.id, s.tenantID, underwriterID, underwriterName,
	))
	return next, nil
}

// RequestInformation transitions RECEIVED/IN_REVIEW -> PENDING_INFORMATION.
func (s Submission) RequestInformation(message string, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if strings.TrimSpace(message) == "" {
		return s, fmt.Errorf("%w: information request message is required", valueobject.ErrValidation)
	}
	if !s.status.Equal(valueobject.SubmissionStatusReceived) &&
		!s.status.Equal(valueobject.SubmissionStatusInReview) {
		return s, valueobject.ErrInvalidStatusTransition
	}
	next := s
	next.status = valueobject.SubmissionStatusPendingInformation
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewInformationRequested(s.id, s.tenantID, message))
	return next, nil
}

// Quote records a quoted premium and transitions to QUOTED. Requires a
// non-empty underwriter assignment.
func (s Submission) Quote(premium decimal.Decimal, currency string, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if s.underwriterID == "" {
		return s, valueobject.ErrQuoteRequiresUnderwriter
	}
	if premium.LessThanOrEqual(decimal.Zero) {
		return s, fmt.Errorf("%w: quoted premium must be positive", valueobject.ErrValidation)
	}
	if !s.status.CanTransitionTo(valueobject.SubmissionStatusQuoted) {
		return s, valueobject.ErrInvalidStatusTransition
	}
	if currency == "" {
		currency = "USD"
	}
	next := s
	next.status = valueobject.SubmissionStatusQuoted
	next.quotedPremium = premium
	next.quotedCurrency = currency
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionQuoted(s.id, s.tenantID, premium, currency))
	return next, nil
}

// Decline transitions any non-terminal status to DECLINED.
func (s Submission) Decline(reason string, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if strings.TrimSpace(reason) == "" {
		return s, fmt.Errorf("%w: decline reason is required", valueobject.ErrValidation)
	}
	next := s
	next.status = valueobject.SubmissionStatusDeclined
	next.declineReason = reason
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionDeclined(s.id, s.tenantID, reason))
	return next, nil
}

// Bind transitions QUOTED -> BOUND.
func (s Submission) Bind(now time.Time) (Submission, error) {
	if !s.status.Equal(valueobject.SubmissionStatusQuoted) {
		return s, valueobject.ErrBindRequiresQuote
	}
	next := s
	next.status = valueobject.SubmissionStatusBound
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionBound(
		s.id, s.tenantID, s.quotedPremium, s.quotedCurrency,
	))
	return next, nil
}

// Withdraw transitions any non-terminal status to WITHDRAWN.
func (s Submission) Withdraw(reason string, now time.Time) (Submission, error) {
	if s.status == valueobject.SubmissionStatusBound {
		return s, valueobject.ErrCannotWithdrawBound
	}
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	next := s
	next.status = valueobject.SubmissionStatusWithdrawn
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionWithdrawn(s.id, s.tenantID, reason))
	return next, nil
}

// Expire transitions any non-terminal status to EXPIRED.
func (s Submission) Expire(reason string, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	next := s
	next.status = valueobject.SubmissionStatusExpired
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewSubmissionExpired(s.id, s.tenantID, reason))
	return next, nil
}

// ---------------------------------------------------------------------------
// Enrichment mutators (no status transitions, no events)
// ---------------------------------------------------------------------------

// SetInsured replaces the insured party details.
func (s Submission) SetInsured(insured InsuredParty, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if strings.TrimSpace(insured.Name) == "" {
		return s, fmt.Errorf("%w: insured name is required", valueobject.ErrValidation)
	}
	next := s
	next.insured = insured
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// AddCoverage appends a requested coverage.
func (s Submission) AddCoverage(c Coverage, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if c.Type == "" {
		return s, fmt.Errorf("%w: coverage type is required", valueobject.ErrValidation)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	next := s
	next.coverages = append(copyCoverages(s.coverages), c)
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// AddLocation appends an exposure location.
func (s Submission) AddLocation(l ExposureLocation, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	next := s
	next.locations = append(copyLocations(s.locations), l)
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// AddLossRecord appends a loss-history entry.
func (s Submission) AddLossRecord(r LossRecord, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	next := s
	next.lossHistory = append(copyLosses(s.lossHistory), r)
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// SetScores records the computed appetite, winnability, and data-quality
// scores. Nil pointers leave the corresponding score untouched.
func (s Submission) SetScores(appetite, winnability, quality *int, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	for _, sc := range []*int{appetite, winnability, quality} {
		if sc != nil && (*sc < 0 || *sc > 100) {
			return s, fmt.Errorf("%w: scores must be between 0 and 100", valueobject.ErrValidation)
		}
	}
	next := s
	if appetite != nil {
		v := *appetite
		next.appetiteScore = &v
	}
	if winnability != nil {
		v := *winnability
		next.winnabilityScore = &v
	}
	if quality != nil {
		v := *quality
		next.qualityScore = &v
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// SetPolicyDates records the requested policy effective window.
func (s Submission) SetPolicyDates(effective, expiration time.Time, now time.Time) (Submission, error) {
	if s.status.IsTerminal() {
		return s, valueobject.ErrSubmissionClosed
	}
	if !expiration.After(effective) {
		return s, fmt.Errorf("%w: policy expiration must be after effective date", valueobject.ErrValidation)
	}
	next := s
	next.policyEffective = &effective
	next.policyExpiration = &expiration
	next.updatedAt = now
	next.domainEvents = copyEvents(s.domainEvents)
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (s Submission) ID() string                                    { return s.id }
func (s Submission) TenantID() string                              { return s.tenantID }
func (s Submission) SubmissionNumber() string                      { return s.submissionNumber }
func (s Submission) Status() valueobject.SubmissionStatus          { return s.status }
func (s Submission) ClearanceStatus() valueobject.ClearanceStatus  { return s.clearanceStatus }
func (s Submission) Insured() InsuredParty                         { return s.insured }
func (s Submission) ProducerID() string                            { return s.producerID }
func (s Submission) UnderwriterID() string                         { return s.underwriterID }
func (s Submission) UnderwriterName() string                       { return s.underwriterName }
func (s Submission) AssignedAt() *time.Time                        { return s.assignedAt }
func (s Submission) ReceivedAt() *time.Time                        { return s.receivedAt }
func (s Submission) DeclineReason() string                         { return s.declineReason }
func (s Submission) QuotedPremium() decimal.Decimal                { return s.quotedPremium }
func (s Submission) QuotedCurrency() string                        { return s.quotedCurrency }
func (s Submission) ClearanceOverrideReason() string               { return s.clearanceOverrideReason }
func (s Submission) ClearanceOverriddenBy() string                 { return s.clearanceOverriddenBy }
func (s Submission) AppetiteScore() *int                           { return s.appetiteScore }
func (s Submission) WinnabilityScore() *int                        { return s.winnabilityScore }
func (s Submission) QualityScore() *int                            { return s.qualityScore }
func (s Submission) PolicyEffective() *time.Time                   { return s.policyEffective }
func (s Submission) PolicyExpiration() *time.Time                  { return s.policyExpiration }
func (s Submission) Version() int                                  { return s.version }
func (s Submission) CreatedAt() time.Time                          { return s.createdAt }
func (s Submission) UpdatedAt() time.Time                          { return s.updatedAt }
func (s Submission) DomainEvents() []event.DomainEvent             { return s.domainEvents }

// Coverages returns a read-only view of the requested coverages.
func (s Submission) Coverages() []Coverage { return copyCoverages(s.coverages) }

// Locations returns a read-only view of the exposure locations.
func (s Submission) Locations() []ExposureLocation { return copyLocations(s.locations) }

// LossHistory returns a read-only view of the loss records.
func (s Submission) LossHistory() []LossRecord { return copyLosses(s.lossHistory) }

// ClearanceMatches returns a read-only view of the recorded duplicate matches.
func (s Submission) ClearanceMatches() []ClearanceMatch { return copyMatches(s.matches) }

// TotalInsuredValue sums the TIV across all exposure locations.
func (s Submission) TotalInsuredValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.locations {
		total = total.Add(l.TotalInsuredValue())
	}
	return total
}

// HasCoverage reports whether a coverage of the given type was requested.
func (s Submission) HasCoverage(coverageType string) bool {
	for _, c := range s.coverages {
		if c.Type == coverageType {
			return true
		}
	}
	return false
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (s Submission) ClearEvents() Submission {
	next := s
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}

func copyCoverages(src []Coverage) []Coverage {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Coverage, len(src))
	copy(dst, src)
	return dst
}

func copyLocations(src []ExposureLocation) []ExposureLocation {
	if len(src) == 0 {
		return nil
	}
	dst := make([]ExposureLocation, len(src))
	copy(dst, src)
	return dst
}

func copyLosses(src []LossRecord) []LossRecord {
	if len(src) == 0 {
		return nil
	}
	dst := make([]LossRecord, len(src))
	copy(dst, src)
	return dst
}

func copyMatches(src []ClearanceMatch) []ClearanceMatch {
	if len(src) == 0 {
		return nil
	}
	dst := make([]ClearanceMatch, len(src))
	copy(dst, src)
	return dst
}
