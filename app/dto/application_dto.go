package dto

type SubmitApplicationRequest struct {
	JobID        string  `json:"job_id" validate:"required" example:"2b1e4c1e-8f5d-4a57-9c39-7b7c7d9d2f10"`
	Name         string  `json:"name" validate:"required,min=2,max=100" example:"Jane Doe"`
	Email        string  `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=32" example:"+15551234567"`
	ResumeURL    string  `json:"resume_url" validate:"required,url,max=1024" example:"https://example.com/cv.pdf"`
	PortfolioURL *string `json:"portfolio_url,omitempty" validate:"omitempty,url,max=1024"`
	Experience   *string `json:"experience,omitempty" validate:"omitempty,max=5000"`
	CoverLetter  string  `json:"cover_letter" validate:"required,min=50,max=5000"`
}

type SubmitApplicationResponse struct {
	UUID        string `json:"id"`
	Status      string `json:"status" example:"pending"`
	SubmittedAt string `json:"submitted_at"`
}

// UpdateApplicationRequest sets review fields. A present status stamps the reviewer.
type UpdateApplicationRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending reviewing shortlisted rejected hired" example:"shortlisted"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type JobSummaryDTO struct {
	UUID       string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department"`
}

type ApplicationDTO struct {
	UUID         string         `json:"id"`
	Job          *JobSummaryDTO `json:"job,omitempty"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        *string        `json:"phone,omitempty"`
	ResumeURL    string         `json:"resume_url"`
	PortfolioURL *string        `json:"portfolio_url,omitempty"`
	Experience   *string        `json:"experience,omitempty"`
	CoverLetter  string         `json:"cover_letter"`
	Status       string         `json:"status"`
	Notes        *string        `json:"notes,omitempty"`
	ReviewedBy   *string        `json:"reviewed_by,omitempty"`
	ReviewedAt   *string        `json:"reviewed_at,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

type ListApplicationsRequest struct {
	JobID  string `query:"job_id" json:"job_id,omitempty"`
	Status string `query:"status" json:"status,omitempty"`
	Email  string `query:"email" json:"email,omitempty"`
	PaginationRequest
}

type ListApplicationsResponse struct {
	Applications []ApplicationDTO `json:"applications"`
	Pagination   PaginationDTO    `json:"pagination"`
}

type ApplicationStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
