package services

import (
	"math"
	"sort"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
)

// levelScores maps an issue difficulty level to its contribution score.
// The table is monotonically increasing with level severity and is the
// single source of truth wherever contribution is scored.
var levelScores = map[entities.IssueLevel]int{
	entities.IssueLevelNone: 0,
	entities.IssueLevelC:    5,
	entities.IssueLevelB:    20,
	entities.IssueLevelA:    60,
	entities.IssueLevelS:    200,
}

func LevelScore(level entities.IssueLevel) int {
	return levelScores[level]
}

// ScoreIssues accumulates contribution scores per assignee. Only issues that
// are done, assigned, and closed at or before cutoff count; a zero cutoff
// disables the closed-at bound. Missing assignees read as 0.
func ScoreIssues(issues []entities.Issue, cutoff time.Time) map[string]int {
	scores := make(map[string]int)
	for _, issue := range issues {
		if issue.State != entities.IssueStateDone {
			continue
		}
		if issue.Assignee == "" || issue.ClosedAt == nil {
			continue
		}
		if !cutoff.IsZero() && issue.ClosedAt.UTC().After(cutoff.UTC()) {
			continue
		}
		scores[issue.Assignee] += levelScores[issue.Level]
	}
	return scores
}

// ZeroScorePolicy selects who receives a period's proceeds when no completed
// issue produced a contribution score.
type ZeroScorePolicy string

const (
	// ZeroScoreOwnerTakesAll allocates 100% to the copany owner.
	ZeroScoreOwnerTakesAll ZeroScorePolicy = "owner_takes_all"
	// ZeroScoreBaselineSplit splits by the contributors' baseline
	// contribution weights, falling back to owner-takes-all when those
	// weights also sum to zero.
	ZeroScoreBaselineSplit ZeroScorePolicy = "baseline_split"
)

type ComputeInput struct {
	CopanyID     string
	Period       entities.Period
	Transactions []entities.Transaction
	Issues       []entities.Issue
	Contributors []entities.Contributor
	OwnerID      string
	// ExtraIncome is externally reported income for the period (app-store
	// revenue converted to the period currency), added before net income.
	ExtraIncome     float64
	ZeroScorePolicy ZeroScorePolicy
}

type ComputeResult struct {
	Records   []entities.DistributionRecord
	NetIncome float64
	Currency  string
}

// Compute derives the distribution records for one period. It is a pure
// function: persistence, month enumeration, and the skip policy live in the
// application layer around it.
func Compute(in ComputeInput) ComputeResult {
	var totalIncome, totalExpense float64
	for _, tx := range in.Transactions {
		if tx.Status != entities.TransactionStatusConfirmed {
			continue
		}
		if !in.Period.Contains(tx.OccurredAt) {
			continue
		}
		switch tx.Type {
		case entities.TransactionTypeIncome:
			totalIncome += tx.Amount
		case entities.TransactionTypeExpense:
			totalExpense += tx.Amount
		}
	}
	currency := PeriodCurrency(in.Transactions, in.Period)

	netIncome := totalIncome + in.ExtraIncome - totalExpense
	month := in.Period.Month()

	scores := ScoreIssues(in.Issues, in.Period.End)
	totalScore := 0
	for _, score := range scores {
		totalScore += score
	}

	if totalScore == 0 {
		return ComputeResult{
			Records:   zeroScoreRecords(in, netIncome, currency, month),
			NetIncome: netIncome,
			Currency:  currency,
		}
	}

	records := make([]entities.DistributionRecord, 0, len(in.Contributors))
	for _, contributor := range in.Contributors {
		ratio := float64(scores[contributor.UserID]) / float64(totalScore)
		records = append(records, newRecord(in, contributor.UserID, ratio, netIncome, currency, month))
	}
	return ComputeResult{Records: records, NetIncome: netIncome, Currency: currency}
}

func zeroScoreRecords(in ComputeInput, netIncome float64, currency, month string) []entities.DistributionRecord {
	if in.ZeroScorePolicy == ZeroScoreBaselineSplit {
		totalWeight := 0.0
		for _, contributor := range in.Contributors {
			totalWeight += contributor.Contribution
		}
		if totalWeight > 0 {
			records := make([]entities.DistributionRecord, 0, len(in.Contributors))
			for _, contributor := range in.Contributors {
				ratio := contributor.Contribution / totalWeight
				records = append(records, newRecord(in, contributor.UserID, ratio, netIncome, currency, month))
			}
			return records
		}
	}
	// Absent any measurable contribution the period's proceeds default to
	// the copany owner, however many contributors exist.
	return []entities.DistributionRecord{newRecord(in, in.OwnerID, 1, netIncome, currency, month)}
}

func newRecord(in ComputeInput, toUser string, ratio, netIncome float64, currency, month string) entities.DistributionRecord {
	amount := round2(netIncome * ratio)
	if netIncome <= 0 {
		// Records still exist for traceability; there is nothing to pay out.
		amount = 0
	}
	status := entities.DistributionStatusInProgress
	if toUser == in.OwnerID {
		status = entities.DistributionStatusConfirmed
	}
	return entities.DistributionRecord{
		CopanyID:            in.CopanyID,
		ToUser:              toUser,
		Status:              status,
		ContributionPercent: ratio * 100,
		Amount:              amount,
		Currency:            currency,
		Month:               month,
	}
}

// PeriodCurrency picks the settlement currency for a period: the first
// confirmed income transaction's currency, else the first confirmed
// transaction's, else USD. Intra-period multi-currency transactions are not
// converted.
func PeriodCurrency(transactions []entities.Transaction, period entities.Period) string {
	firstCurrency, firstIncomeCurrency := "", ""
	for _, tx := range transactions {
		if tx.Status != entities.TransactionStatusConfirmed || !period.Contains(tx.OccurredAt) {
			continue
		}
		if firstCurrency == "" {
			firstCurrency = tx.Currency
		}
		if firstIncomeCurrency == "" && tx.Type == entities.TransactionTypeIncome {
			firstIncomeCurrency = tx.Currency
		}
	}
	if firstIncomeCurrency != "" {
		return firstIncomeCurrency
	}
	if firstCurrency != "" {
		return firstCurrency
	}
	return "USD"
}

// round2 rounds half away from zero to two decimal places, applied per
// record at creation time, never before aggregation.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// skipEpsilon guards settled history: any surviving record paying more than
// a cent means the month must not be silently recomputed.
const skipEpsilon = 0.01

// ShouldSkipReplace reports whether a month's stored records protect it from
// the bulk recompute path. The single-month interactive path never consults
// this.
func ShouldSkipReplace(existing []entities.DistributionRecord) bool {
	for _, record := range existing {
		if math.Abs(record.Amount) > skipEpsilon {
			return true
		}
	}
	return false
}

// EnumerateMonths lists the distinct UTC calendar months present in either
// the transaction timestamps or the external revenue month keys, ascending.
func EnumerateMonths(transactions []entities.Transaction, revenueMonths []string) []string {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		seen[tx.OccurredAt.UTC().Format("2006-01")] = struct{}{}
	}
	for _, month := range revenueMonths {
		if month != "" {
			seen[month] = struct{}{}
		}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
