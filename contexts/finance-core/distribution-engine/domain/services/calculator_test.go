package services_test

import (
	"math"
	"testing"
	"time"

	"copany/contexts/finance-core/distribution-engine/domain/entities"
	"copany/contexts/finance-core/distribution-engine/domain/services"
)

func closedAt(t time.Time) *time.Time {
	return &t
}

func june2025() entities.Period {
	return entities.MonthPeriod(2025, time.June)
}

func confirmedIncome(copanyID string, amount float64, occurredAt time.Time) entities.Transaction {
	return entities.Transaction{
		ID:         "tx-" + occurredAt.Format("20060102-150405"),
		CopanyID:   copanyID,
		Type:       entities.TransactionTypeIncome,
		Amount:     amount,
		Currency:   "USD",
		Status:     entities.TransactionStatusConfirmed,
		OccurredAt: occurredAt,
	}
}

func TestScoreIssuesFilters(t *testing.T) {
	cutoff := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	inWindow := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	afterCutoff := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	issues := []entities.Issue{
		{Assignee: "alice", Level: entities.IssueLevelA, State: entities.IssueStateDone, ClosedAt: closedAt(inWindow)},
		{Assignee: "alice", Level: entities.IssueLevelC, State: entities.IssueStateDone, ClosedAt: closedAt(inWindow)},
		// not done
		{Assignee: "alice", Level: entities.IssueLevelS, State: entities.IssueStateInProgress, ClosedAt: closedAt(inWindow)},
		// unassigned
		{Assignee: "", Level: entities.IssueLevelS, State: entities.IssueStateDone, ClosedAt: closedAt(inWindow)},
		// closed after cutoff
		{Assignee: "bob", Level: entities.IssueLevelB, State: entities.IssueStateDone, ClosedAt: closedAt(afterCutoff)},
		// never closed
		{Assignee: "bob", Level: entities.IssueLevelB, State: entities.IssueStateDone},
	}

	scores := services.ScoreIssues(issues, cutoff)
	if scores["alice"] != 65 {
		t.Fatalf("expected alice score 65, got %d", scores["alice"])
	}
	if scores["bob"] != 0 {
		t.Fatalf("expected bob score 0, got %d", scores["bob"])
	}
}

func TestScoreIssuesZeroCutoffDisablesBound(t *testing.T) {
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	issues := []entities.Issue{
		{Assignee: "alice", Level: entities.IssueLevelB, State: entities.IssueStateDone, ClosedAt: closedAt(future)},
	}
	scores := services.ScoreIssues(issues, time.Time{})
	if scores["alice"] != 20 {
		t.Fatalf("expected alice score 20 with zero cutoff, got %d", scores["alice"])
	}
}

func TestLevelScoreTable(t *testing.T) {
	cases := map[entities.IssueLevel]int{
		entities.IssueLevelNone: 0,
		entities.IssueLevelC:    5,
		entities.IssueLevelB:    20,
		entities.IssueLevelA:    60,
		entities.IssueLevelS:    200,
	}
	for level, want := range cases {
		if got := services.LevelScore(level); got != want {
			t.Fatalf("level %s: expected %d, got %d", level, want, got)
		}
	}
}

func TestComputeProportionalSplit(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	done := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 1000, occurred)},
		Issues: []entities.Issue{
			{CopanyID: "cop-1", Assignee: "owner", Level: entities.IssueLevelA, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
			{CopanyID: "cop-1", Assignee: "bob", Level: entities.IssueLevelB, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
		},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "owner"},
			{CopanyID: "cop-1", UserID: "bob"},
		},
		OwnerID: "owner",
	})

	if result.NetIncome != 1000 {
		t.Fatalf("expected net income 1000, got %f", result.NetIncome)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	byUser := make(map[string]entities.DistributionRecord)
	for _, record := range result.Records {
		byUser[record.ToUser] = record
	}
	if byUser["owner"].Amount != 750 {
		t.Fatalf("expected owner amount 750, got %f", byUser["owner"].Amount)
	}
	if byUser["bob"].Amount != 250 {
		t.Fatalf("expected bob amount 250, got %f", byUser["bob"].Amount)
	}
	if byUser["owner"].ContributionPercent != 75 {
		t.Fatalf("expected owner percent 75, got %f", byUser["owner"].ContributionPercent)
	}
	if byUser["owner"].Status != entities.DistributionStatusConfirmed {
		t.Fatalf("owner record should be auto-confirmed, got %s", byUser["owner"].Status)
	}
	if byUser["bob"].Status != entities.DistributionStatusInProgress {
		t.Fatalf("non-owner record should start in progress, got %s", byUser["bob"].Status)
	}
	if byUser["bob"].Month != "2025-06" {
		t.Fatalf("expected month 2025-06, got %s", byUser["bob"].Month)
	}
}

func TestComputeZeroScoreOwnerTakesAll(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 500, occurred)},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "owner"},
			{CopanyID: "cop-1", UserID: "bob"},
		},
		OwnerID:         "owner",
		ZeroScorePolicy: services.ZeroScoreOwnerTakesAll,
	})

	if len(result.Records) != 1 {
		t.Fatalf("expected single owner record, got %d", len(result.Records))
	}
	record := result.Records[0]
	if record.ToUser != "owner" || record.Amount != 500 {
		t.Fatalf("expected owner to take 500, got %s / %f", record.ToUser, record.Amount)
	}
	if record.ContributionPercent != 100 {
		t.Fatalf("expected 100 percent, got %f", record.ContributionPercent)
	}
	if record.Status != entities.DistributionStatusConfirmed {
		t.Fatalf("expected confirmed owner record, got %s", record.Status)
	}
}

func TestComputeZeroScoreBaselineSplit(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 400, occurred)},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "owner", Contribution: 3},
			{CopanyID: "cop-1", UserID: "bob", Contribution: 1},
		},
		OwnerID:         "owner",
		ZeroScorePolicy: services.ZeroScoreBaselineSplit,
	})

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	byUser := make(map[string]float64)
	for _, record := range result.Records {
		byUser[record.ToUser] = record.Amount
	}
	if byUser["owner"] != 300 || byUser["bob"] != 100 {
		t.Fatalf("expected 300/100 baseline split, got %f/%f", byUser["owner"], byUser["bob"])
	}
}

func TestComputeZeroScoreBaselineSplitFallsBackToOwner(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 400, occurred)},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "owner"},
			{CopanyID: "cop-1", UserID: "bob"},
		},
		OwnerID:         "owner",
		ZeroScorePolicy: services.ZeroScoreBaselineSplit,
	})

	if len(result.Records) != 1 || result.Records[0].ToUser != "owner" {
		t.Fatalf("expected owner fallback when baseline weights sum to zero, got %+v", result.Records)
	}
}

func TestComputeNegativeNetIncomeZeroesAmounts(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	expense := entities.Transaction{
		ID:         "tx-exp",
		CopanyID:   "cop-1",
		Type:       entities.TransactionTypeExpense,
		Amount:     900,
		Currency:   "USD",
		Status:     entities.TransactionStatusConfirmed,
		OccurredAt: occurred,
	}

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 100, occurred), expense},
		Issues: []entities.Issue{
			{CopanyID: "cop-1", Assignee: "bob", Level: entities.IssueLevelB, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
		},
		Contributors: []entities.Contributor{{CopanyID: "cop-1", UserID: "bob"}},
		OwnerID:      "owner",
	})

	if result.NetIncome != -800 {
		t.Fatalf("expected net income -800, got %f", result.NetIncome)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected record for traceability, got %d", len(result.Records))
	}
	if result.Records[0].Amount != 0 {
		t.Fatalf("expected zero amount on negative net income, got %f", result.Records[0].Amount)
	}
	if result.Records[0].ContributionPercent != 100 {
		t.Fatalf("percentages still reflect contribution, got %f", result.Records[0].ContributionPercent)
	}
}

func TestComputeIgnoresUnconfirmedAndOutOfPeriodTransactions(t *testing.T) {
	period := june2025()
	inPeriod := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	pending := confirmedIncome("cop-1", 999, inPeriod)
	pending.Status = entities.TransactionStatusInReview

	result := services.Compute(services.ComputeInput{
		CopanyID: "cop-1",
		Period:   period,
		Transactions: []entities.Transaction{
			confirmedIncome("cop-1", 100, inPeriod),
			confirmedIncome("cop-1", 500, july),
			pending,
		},
		OwnerID: "owner",
	})

	if result.NetIncome != 100 {
		t.Fatalf("expected net income 100, got %f", result.NetIncome)
	}
}

func TestComputeExtraIncomeAddsBeforeNet(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 100, occurred)},
		OwnerID:      "owner",
		ExtraIncome:  250,
	})

	if result.NetIncome != 350 {
		t.Fatalf("expected net income 350 with extra income, got %f", result.NetIncome)
	}
}

func TestComputeRoundingStaysWithinTolerance(t *testing.T) {
	period := june2025()
	occurred := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	// Three equal scores over 100.00 leave a cent of rounding drift.
	result := services.Compute(services.ComputeInput{
		CopanyID:     "cop-1",
		Period:       period,
		Transactions: []entities.Transaction{confirmedIncome("cop-1", 100, occurred)},
		Issues: []entities.Issue{
			{CopanyID: "cop-1", Assignee: "a", Level: entities.IssueLevelC, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
			{CopanyID: "cop-1", Assignee: "b", Level: entities.IssueLevelC, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
			{CopanyID: "cop-1", Assignee: "c", Level: entities.IssueLevelC, State: entities.IssueStateDone, ClosedAt: closedAt(done)},
		},
		Contributors: []entities.Contributor{
			{CopanyID: "cop-1", UserID: "a"},
			{CopanyID: "cop-1", UserID: "b"},
			{CopanyID: "cop-1", UserID: "c"},
		},
		OwnerID: "a",
	})

	total := 0.0
	for _, record := range result.Records {
		if record.Amount != 33.33 {
			t.Fatalf("expected each share rounded to 33.33, got %f", record.Amount)
		}
		total += record.Amount
	}
	if math.Abs(total-result.NetIncome) > 0.01*float64(len(result.Records)) {
		t.Fatalf("rounding drift %f exceeds tolerance", math.Abs(total-result.NetIncome))
	}
}

func TestPeriodCurrencyPrefersFirstConfirmedIncome(t *testing.T) {
	period := june2025()
	first := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	expense := entities.Transaction{
		Type: entities.TransactionTypeExpense, Amount: 10, Currency: "EUR",
		Status: entities.TransactionStatusConfirmed, OccurredAt: first,
	}
	income := entities.Transaction{
		Type: entities.TransactionTypeIncome, Amount: 10, Currency: "JPY",
		Status: entities.TransactionStatusConfirmed, OccurredAt: second,
	}

	if got := services.PeriodCurrency([]entities.Transaction{expense, income}, period); got != "JPY" {
		t.Fatalf("expected first income currency JPY, got %s", got)
	}
	if got := services.PeriodCurrency([]entities.Transaction{expense}, period); got != "EUR" {
		t.Fatalf("expected first confirmed currency EUR, got %s", got)
	}
	if got := services.PeriodCurrency(nil, period); got != "USD" {
		t.Fatalf("expected USD default, got %s", got)
	}
}

func TestShouldSkipReplace(t *testing.T) {
	if services.ShouldSkipReplace(nil) {
		t.Fatalf("empty month must not be skipped")
	}
	zeroOnly := []entities.DistributionRecord{{Amount: 0}, {Amount: 0.01}}
	if services.ShouldSkipReplace(zeroOnly) {
		t.Fatalf("amounts at or below a cent must not protect the month")
	}
	settled := []entities.DistributionRecord{{Amount: 0}, {Amount: 12.5}}
	if !services.ShouldSkipReplace(settled) {
		t.Fatalf("a settled amount must protect the month")
	}
	negative := []entities.DistributionRecord{{Amount: -3.4}}
	if !services.ShouldSkipReplace(negative) {
		t.Fatalf("negative settled amounts also protect the month")
	}
}

func TestEnumerateMonths(t *testing.T) {
	transactions := []entities.Transaction{
		{OccurredAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{OccurredAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{OccurredAt: time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)},
	}
	months := services.EnumerateMonths(transactions, []string{"2025-02", "2025-03", ""})
	want := []string{"2025-01", "2025-02", "2025-03"}
	if len(months) != len(want) {
		t.Fatalf("expected %v, got %v", want, months)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, months)
		}
	}
}
