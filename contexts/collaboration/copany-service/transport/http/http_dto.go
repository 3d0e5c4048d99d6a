package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCopanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddContributorRequest struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

type CreateIssueRequest struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Level    string `json:"level"`
}

type UpdateIssueRequest struct {
	State    string `json:"state,omitempty"`
	Assignee string `json:"assignee,omitempty"`
	Level    string `json:"level,omitempty"`
}

type CopanyDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ListCopaniesResponse struct {
	Copanies []CopanyDTO `json:"copanies"`
}

type ContributorDTO struct {
	CopanyID     string  `json:"copany_id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name,omitempty"`
	Contribution float64 `json:"contribution"`
	JoinedAt     string  `json:"joined_at"`
}

type ListContributorsResponse struct {
	Contributors []ContributorDTO `json:"contributors"`
}

type IssueDTO struct {
	ID        string `json:"id"`
	CopanyID  string `json:"copany_id"`
	Title     string `json:"title"`
	Assignee  string `json:"assignee,omitempty"`
	Level     string `json:"level"`
	State     string `json:"state"`
	ClosedAt  string `json:"closed_at,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListIssuesResponse struct {
	Issues []IssueDTO `json:"issues"`
}
