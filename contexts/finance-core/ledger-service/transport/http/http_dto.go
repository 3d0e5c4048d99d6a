package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordTransactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	OccurredAt  string  `json:"occurred_at"`
}

type AmendTransactionRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type UpsertAppRevenueRequest struct {
	Month    string  `json:"month"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
}

type TransactionDTO struct {
	ID          string  `json:"id"`
	CopanyID    string  `json:"copany_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	OccurredAt  string  `json:"occurred_at"`
	ConfirmedAt string  `json:"confirmed_at,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
}

type AppRevenueDTO struct {
	ID       string  `json:"id"`
	CopanyID string  `json:"copany_id"`
	Month    string  `json:"month"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
}

type ListAppRevenueResponse struct {
	Entries []AppRevenueDTO `json:"entries"`
}
