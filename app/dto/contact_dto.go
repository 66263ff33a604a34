package dto

import "time"

type SubmitContactRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100" example:"Sam Lee"`
	Organization string   `json:"organization" validate:"required,max=200" example:"Acme Games"`
	Email        string   `json:"email" validate:"required,email,max=255" example:"sam@acme.example"`
	Phone        string   `json:"phone" validate:"required,max=32" example:"+15551234567"`
	Website      *string  `json:"website,omitempty" validate:"omitempty,url,max=1024"`
	Services     []string `json:"services" validate:"required,min=1,dive,required,max=100"`
	Message      *string  `json:"message,omitempty" validate:"omitempty,max=5000"`
}

type SubmitContactResponse struct {
	UUID        string `json:"id"`
	Status      string `json:"status" example:"new"`
	SubmittedAt string `json:"submitted_at"`
}

type UpdateContactRequest struct {
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=new contacted in-progress completed closed"`
	Priority     *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	AssignedTo   *string    `json:"assigned_to,omitempty" validate:"omitempty,max=100"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
}

type ContactDTO struct {
	UUID         string   `json:"id"`
	Name         string   `json:"name"`
	Organization string   `json:"organization"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Website      *string  `json:"website,omitempty"`
	Services     []string `json:"services"`
	Message      *string  `json:"message,omitempty"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	Notes        *string  `json:"notes,omitempty"`
	AssignedTo   *string  `json:"assigned_to,omitempty"`
	FollowUpDate *string  `json:"follow_up_date,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ListContactsRequest struct {
	Status   string `query:"status" json:"status,omitempty"`
	Priority string `query:"priority" json:"priority,omitempty"`
	PaginationRequest
}

type ListContactsResponse struct {
	Contacts   []ContactDTO  `json:"contacts"`
	Pagination PaginationDTO `json:"pagination"`
}

type ContactStatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}
