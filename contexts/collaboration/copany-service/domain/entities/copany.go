package entities

import "time"

type Copany struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contributor is a copany membership. Contribution is a baseline weight the
// distribution engine may fall back to when no scored work exists.
type Contributor struct {
	CopanyID     string
	UserID       string
	Name         string
	Contribution float64
	JoinedAt     time.Time
}

type IssueLevel string

const (
	IssueLevelNone IssueLevel = "none"
	IssueLevelC    IssueLevel = "C"
	IssueLevelB    IssueLevel = "B"
	IssueLevelA    IssueLevel = "A"
	IssueLevelS    IssueLevel = "S"
)

func ValidIssueLevel(level IssueLevel) bool {
	switch level {
	case IssueLevelNone, IssueLevelC, IssueLevelB, IssueLevelA, IssueLevelS:
		return true
	default:
		return false
	}
}

type IssueState string

const (
	IssueStateTodo       IssueState = "todo"
	IssueStateInProgress IssueState = "in_progress"
	IssueStateInReview   IssueState = "in_review"
	IssueStateDone       IssueState = "done"
	IssueStateCanceled   IssueState = "canceled"
)

func ValidIssueState(state IssueState) bool {
	switch state {
	case IssueStateTodo, IssueStateInProgress, IssueStateInReview, IssueStateDone, IssueStateCanceled:
		return true
	default:
		return false
	}
}

// Issue is a unit of work. ClosedAt is stamped when the issue reaches done
// and cleared if it leaves done; the distribution engine scores only done,
// assigned, closed issues.
type Issue struct {
	ID        string
	CopanyID  string
	Title     string
	Assignee  string
	Level     IssueLevel
	State     IssueState
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
