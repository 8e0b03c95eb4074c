package events

import (
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "agg-123"
	tenantID := "tenant-456"

	before := time.Now().UTC()
	event := NewBaseEvent("SubmissionReceived", aggregateID, "Submission", tenantID)
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "SubmissionReceived" {
		t.Errorf("expected event type %q, got %q", "SubmissionReceived", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Submission" {
		t.Errorf("expected aggregate type %q, got %q", "Submission", event.AggregateType())
	}

	if event.TenantID() != tenantID {
		t.Errorf("expected tenant ID %v, got %v", tenantID, event.TenantID())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurred-at between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("SubmissionQuoted", "agg-1", "Submission", "tenant-1")
	b := NewBaseEvent("SubmissionQuoted", "agg-1", "Submission", "tenant-1")

	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs for separate events")
	}
}
