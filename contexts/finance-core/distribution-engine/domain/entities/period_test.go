package entities_test

import (
	"testing"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
)

func TestPeriodIsHalfOpen(t *testing.T) {
	period := entities.MonthPeriod(2025, time.June)

	if !period.Contains(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("period start must be inclusive")
	}
	if !period.Contains(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("last instant of the month must be inside")
	}
	if period.Contains(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("period end must be exclusive")
	}
}

func TestPeriodContainsNormalizesToUTC(t *testing.T) {
	period := entities.MonthPeriod(2025, time.June)
	offset := time.FixedZone("UTC+10", 10*3600)

	// 2025-07-01T08:00+10:00 is 2025-06-30T22:00Z.
	local := time.Date(2025, 7, 1, 8, 0, 0, 0, offset)
	if !period.Contains(local) {
		t.Fatalf("containment must be evaluated in UTC")
	}
}

func TestParseMonth(t *testing.T) {
	period, err := entities.ParseMonth("2025-02")
	if err != nil {
		t.Fatalf("parse month failed: %v", err)
	}
	if period.Month() != "2025-02" {
		t.Fatalf("expected round trip 2025-02, got %s", period.Month())
	}
	if !period.End.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected period end %v", period.End)
	}

	if _, err := entities.ParseMonth("2025-2"); err == nil {
		t.Fatalf("expected error for malformed month key")
	}
}

func TestPeriodOf(t *testing.T) {
	period := entities.PeriodOf(time.Date(2025, 6, 17, 15, 4, 5, 0, time.UTC))
	if period.Month() != "2025-06" {
		t.Fatalf("expected 2025-06, got %s", period.Month())
	}
}
