package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// JobStatus is the publication state of a posting
type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusInactive JobStatus = "inactive"
	JobStatusClosed   JobStatus = "closed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusActive, JobStatusInactive, JobStatusClosed:
		return true
	}
	return false
}

type JobPosting struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	UUID                uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uk_job_postings_uuid" json:"uuid"`
	Title               string                      `gorm:"size:200;not null" json:"title"`
	Department          string                      `gorm:"size:100;not null;index:idx_job_postings_department" json:"department"`
	Location            string                      `gorm:"size:100;not null" json:"location"`
	Type                JobType                     `gorm:"size:32;not null;index:idx_job_postings_type" json:"type"`
	ExperienceLevel     string                      `gorm:"size:64;not null" json:"experience_level"`
	Description         string                      `gorm:"type:text;not null" json:"description"`
	Requirements        datatypes.JSONSlice[string] `json:"requirements"`
	Benefits            datatypes.JSONSlice[string] `json:"benefits"`
	SalaryMin           *int64                      `json:"salary_min,omitempty"`
	SalaryMax           *int64                      `json:"salary_max,omitempty"`
	Currency            string                      `gorm:"size:8;not null" json:"currency"`
	ApplicationDeadline *time.Time                  `gorm:"index:idx_job_postings_deadline" json:"application_deadline,omitempty"`
	Status              JobStatus                   `gorm:"size:16;not null;index:idx_job_postings_status" json:"status"`
	CreatedAt           time.Time                   `gorm:"index:idx_job_postings_created_at" json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// BeforeCreate ensures UUID and defaults are set
func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.UUID == uuid.Nil {
		j.UUID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}
	if j.Currency == "" {
		j.Currency = "USD"
	}
	return nil
}

// AcceptsApplications reports whether the posting is active and its deadline has not passed
func (j *JobPosting) AcceptsApplications(now time.Time) bool {
	if j.Status != JobStatusActive {
		return false
	}
	return j.ApplicationDeadline == nil || !j.ApplicationDeadline.Before(now)
}

// JobPostingFilter represents filter criteria for job posting queries
type JobPostingFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	Status         *JobStatus
	Department     *string
	Type           *JobType
	DeadlineBefore *time.Time
}
