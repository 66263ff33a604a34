package dto

import "time"

type CreateJobRequest struct {
	Title               string     `json:"title" validate:"required,max=200" example:"Senior Game Designer"`
	Department          string     `json:"department" validate:"required,max=100" example:"Design"`
	Location            string     `json:"location" validate:"required,max=100" example:"Remote"`
	Type                string     `json:"type" validate:"required,oneof=Full-time Part-time Contract Internship" example:"Full-time"`
	ExperienceLevel     string     `json:"experience_level" validate:"required,max=64" example:"Senior"`
	Description         string     `json:"description" validate:"required,max=20000"`
	Requirements        []string   `json:"requirements" validate:"required,min=1,dive,required,max=500"`
	Benefits            []string   `json:"benefits" validate:"required,min=1,dive,required,max=500"`
	SalaryMin           *int64     `json:"salary_min,omitempty" validate:"omitempty,gte=0" example:"90000"`
	SalaryMax           *int64     `json:"salary_max,omitempty" validate:"omitempty,gte=0" example:"120000"`
	Currency            *string    `json:"currency,omitempty" validate:"omitempty,len=3,uppercase" example:"USD"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty" example:"2024-03-01T00:00:00Z"`
	Status              *string    `json:"status,omitempty" validate:"omitempty,oneof=active inactive closed" example:"active"`
}

// UpdateJobRequest is a partial update; nil fields are left unchanged
type UpdateJobRequest struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Department          *string    `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	Location            *string    `json:"location,omitempty" validate:"omitempty,min=1,max=100"`
	Type                *string    `json:"type,omitempty" validate:"omitempty,oneof=Full-time Part-time Contract Internship"`
	ExperienceLevel     *string    `json:"experience_level,omitempty" validate:"omitempty,min=1,max=64"`
	Description         *string    `json:"description,omitempty" validate:"omitempty,min=1,max=20000"`
	Requirements        []string   `json:"requirements,omitempty" validate:"omitempty,dive,required,max=500"`
	Benefits            []string   `json:"benefits,omitempty" validate:"omitempty,dive,required,max=500"`
	SalaryMin           *int64     `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax           *int64     `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	Currency            *string    `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Status              *string    `json:"status,omitempty" validate:"omitempty,oneof=active inactive closed"`
}

type JobDTO struct {
	UUID                string   `json:"id" example:"2b1e4c1e-8f5d-4a57-9c39-7b7c7d9d2f10"`
	Title               string   `json:"title"`
	Department          string   `json:"department"`
	Location            string   `json:"location"`
	Type                string   `json:"type"`
	ExperienceLevel     string   `json:"experience_level"`
	Description         string   `json:"description"`
	Requirements        []string `json:"requirements"`
	Benefits            []string `json:"benefits"`
	SalaryMin           *int64   `json:"salary_min,omitempty"`
	SalaryMax           *int64   `json:"salary_max,omitempty"`
	Currency            string   `json:"currency"`
	ApplicationDeadline *string  `json:"application_deadline,omitempty"`
	Status              string   `json:"status"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

type ListJobsRequest struct {
	Status     string `query:"status" json:"status,omitempty"`
	Department string `query:"department" json:"department,omitempty"`
	Type       string `query:"type" json:"type,omitempty"`
	PaginationRequest
}

type ListJobsResponse struct {
	Jobs       []JobDTO      `json:"jobs"`
	Pagination PaginationDTO `json:"pagination"`
}

type DeleteJobResponse struct {
	DeletedApplications int64 `json:"deleted_applications" example:"3"`
}
