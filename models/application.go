package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// ApplicationStatuses lists every status in workflow order
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewing,
	ApplicationStatusShortlisted,
	ApplicationStatusRejected,
	ApplicationStatusHired,
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewing, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusHired:
		return true
	}
	return false
}

// NotifiesApplicant reports whether moving into s sends the applicant an email
func (s ApplicationStatus) NotifiesApplicant() bool {
	switch s {
	case ApplicationStatusShortlisted, ApplicationStatusRejected, ApplicationStatusHired:
		return true
	}
	return false
}

// Application is one applicant's submission for one job posting.
// (job_id, email) is unique.
type Application struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uk_applications_uuid" json:"uuid"`
	JobID        uint              `gorm:"not null;uniqueIndex:uk_applications_job_email,priority:1;index:idx_applications_job_id" json:"job_id"`
	Job          *JobPosting       `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	Email        string            `gorm:"size:255;not null;uniqueIndex:uk_applications_job_email,priority:2" json:"email"`
	Phone        *string           `gorm:"size:32" json:"phone,omitempty"`
	ResumeURL    string            `gorm:"size:1024;not null" json:"resume_url"`
	PortfolioURL *string           `gorm:"size:1024" json:"portfolio_url,omitempty"`
	Experience   *string           `gorm:"type:text" json:"experience,omitempty"`
	CoverLetter  string            `gorm:"type:text;not null" json:"cover_letter"`
	Status       ApplicationStatus `gorm:"size:16;not null;index:idx_applications_status" json:"status"`
	Notes        *string           `gorm:"type:text" json:"notes,omitempty"`
	ReviewedByID *uint             `json:"reviewed_by_id,omitempty"`
	ReviewedBy   *Admin            `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time         `gorm:"index:idx_applications_created_at" json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// BeforeCreate ensures UUID and status are set
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationStatusPending
	}
	return nil
}

// ApplicationFilter represents filter criteria for application queries
type ApplicationFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	JobID  *uint
	Email  *string
	Status *ApplicationStatus
}
