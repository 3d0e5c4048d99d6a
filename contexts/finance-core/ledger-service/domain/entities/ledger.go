package entities

import "time"

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

// Transaction is a ledger entry. Once confirmed it is immutable for
// calculation purposes; only in-review entries accept edits.
type Transaction struct {
	ID          string
	CopanyID    string
	Type        TransactionType
	Amount      float64
	Currency    string
	Status      TransactionStatus
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

// AppRevenueEntry is externally reported income for one copany month, e.g.
// an app-store payout report. One entry per (copany, month, source).
type AppRevenueEntry struct {
	ID        string
	CopanyID  string
	Month     string
	Amount    float64
	Currency  string
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
