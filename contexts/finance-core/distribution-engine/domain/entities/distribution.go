package entities

import (
	"fmt"
	"time"
)

type DistributionStatus string

const (
	DistributionStatusInProgress DistributionStatus = "in_progress"
	DistributionStatusConfirmed  DistributionStatus = "confirmed"
)

// DistributionRecord is a derived artifact. Recomputing a month replaces
// every record for that (copany, month) pair; records carry no identity
// across recomputations.
type DistributionRecord struct {
	ID                  string
	CopanyID            string
	ToUser              string
	Status              DistributionStatus
	ContributionPercent float64
	Amount              float64
	Currency            string
	EvidenceURL         string
	Month               string
	CreatedAt           time.Time
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusInReview  TransactionStatus = "in_review"
)

// Transaction is the engine's read model of a ledger entry. Only confirmed
// transactions inside a period window participate in net income.
type Transaction struct {
	ID         string
	CopanyID   string
	Type       TransactionType
	Amount     float64
	Currency   string
	Status     TransactionStatus
	OccurredAt time.Time
}

type IssueLevel string

const (
	IssueLevelNone IssueLevel = "none"
	IssueLevelC    IssueLevel = "C"
	IssueLevelB    IssueLevel = "B"
	IssueLevelA    IssueLevel = "A"
	IssueLevelS    IssueLevel = "S"
)

type IssueState string

const (
	IssueStateTodo       IssueState = "todo"
	IssueStateInProgress IssueState = "in_progress"
	IssueStateInReview   IssueState = "in_review"
	IssueStateDone       IssueState = "done"
	IssueStateCanceled   IssueState = "canceled"
)

// Issue is the engine's read model of a work item. Assignee is empty when
// unassigned; ClosedAt is nil until the issue reaches done.
type Issue struct {
	ID       string
	CopanyID string
	Assignee string
	Level    IssueLevel
	State    IssueState
	ClosedAt *time.Time
}

// Contributor is a copany membership. Contribution is the baseline weight
// used only by the baseline-split zero-score policy.
type Contributor struct {
	CopanyID     string
	UserID       string
	Name         string
	Contribution float64
}

// Period is a half-open UTC window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// PeriodOf returns the calendar-month period containing t.
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return MonthPeriod(t.Year(), t.Month())
}

// ParseMonth builds the period for a "YYYY-MM" key.
func ParseMonth(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, fmt.Errorf("parse month key %q: %w", key, err)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

func (p Period) Month() string {
	return p.Start.UTC().Format("2006-01")
}

func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start) && t.Before(p.End)
}
