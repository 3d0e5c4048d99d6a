package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecomputeResponse struct {
	Month       string  `json:"month"`
	NetIncome   float64 `json:"net_income"`
	Currency    string  `json:"currency"`
	RecordCount int     `json:"record_count"`
}

type DistributionRecordDTO struct {
	ID                  string  `json:"id"`
	CopanyID            string  `json:"copany_id"`
	ToUser              string  `json:"to_user"`
	Status              string  `json:"status"`
	ContributionPercent float64 `json:"contribution_percent"`
	Amount              float64 `json:"amount"`
	Currency            string  `json:"currency"`
	EvidenceURL         string  `json:"evidence_url,omitempty"`
	Month               string  `json:"distribution_month"`
	CreatedAt           string  `json:"created_at"`
}

type ListRecordsResponse struct {
	Records []DistributionRecordDTO `json:"records"`
}

type MonthSummaryResponse struct {
	Month            string  `json:"month"`
	Currency         string  `json:"currency"`
	TotalDistributed float64 `json:"total_distributed"`
	RecordCount      int     `json:"record_count"`
	ConfirmedCount   int     `json:"confirmed_count"`
}
