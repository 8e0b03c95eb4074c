package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/clearline/submission-engine/internal/domain/port"
)

// StubPolicyService is a development/test adapter that issues deterministic
// policy identifiers derived from the submission ID.
// It implements port.PolicyService.
type StubPolicyService struct{}

// NewStubPolicyService creates a new stub adapter.
func NewStubPolicyService() *StubPolicyService {
	return &StubPolicyService{}
}

// CreatePolicy returns deterministic identifiers based on a hash of the
// submission ID. This allows repeatable test scenarios.
func (s *StubPolicyService) CreatePolicy(_ context.Context, req port.CreatePolicyRequest) (port.CreatePolicyResult, error) {
	if req.SubmissionID == "" {
		return port.CreatePolicyResult{}, fmt.Errorf("submission ID is required")
	}

	h := sha256.Sum256([]byte(req.SubmissionID))
	num := binary.BigEndian.Uint32(h[:4])

	return port.CreatePolicyResult{
		ExternalPolicyID: fmt.Sprintf("pol_%08x", num),
		PolicyNumber:     fmt.Sprintf("CL-%07d", num%10000000),
	}, nil
}
