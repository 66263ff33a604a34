package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContactStatus is the triage state of a contact lead
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusContacted  ContactStatus = "contacted"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusCompleted  ContactStatus = "completed"
	ContactStatusClosed     ContactStatus = "closed"
)

var ContactStatuses = []ContactStatus{
	ContactStatusNew,
	ContactStatusContacted,
	ContactStatusInProgress,
	ContactStatusCompleted,
	ContactStatusClosed,
}

func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusInProgress,
		ContactStatusCompleted, ContactStatusClosed:
		return true
	}
	return false
}

// ContactPriority ranks a lead for follow-up
type ContactPriority string

const (
	ContactPriorityLow    ContactPriority = "low"
	ContactPriorityMedium ContactPriority = "medium"
	ContactPriorityHigh   ContactPriority = "high"
	ContactPriorityUrgent ContactPriority = "urgent"
)

var ContactPriorities = []ContactPriority{
	ContactPriorityLow,
	ContactPriorityMedium,
	ContactPriorityHigh,
	ContactPriorityUrgent,
}

func (p ContactPriority) IsValid() bool {
	switch p {
	case ContactPriorityLow, ContactPriorityMedium, ContactPriorityHigh, ContactPriorityUrgent:
		return true
	}
	return false
}

type ContactLead struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uk_contact_leads_uuid" json:"uuid"`
	Name         string                      `gorm:"size:100;not null" json:"name"`
	Organization string                      `gorm:"size:200;not null" json:"organization"`
	Email        string                      `gorm:"size:255;not null;index:idx_contact_leads_email_created,priority:1" json:"email"`
	Phone        string                      `gorm:"size:32;not null" json:"phone"`
	Website      *string                     `gorm:"size:1024" json:"website,omitempty"`
	Services     datatypes.JSONSlice[string] `json:"services"`
	Message      *string                     `gorm:"type:text" json:"message,omitempty"`
	Status       ContactStatus               `gorm:"size:16;not null;index:idx_contact_leads_status" json:"status"`
	Priority     ContactPriority             `gorm:"size:16;not null;index:idx_contact_leads_priority" json:"priority"`
	Notes        *string                     `gorm:"type:text" json:"notes,omitempty"`
	AssignedTo   *string                     `gorm:"size:100" json:"assigned_to,omitempty"`
	FollowUpDate *time.Time                  `json:"follow_up_date,omitempty"`
	CreatedAt    time.Time                   `gorm:"index:idx_contact_leads_email_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (ContactLead) TableName() string {
	return "contact_leads"
}

// BeforeCreate ensures UUID and triage defaults are set
func (c *ContactLead) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContactStatusNew
	}
	if c.Priority == "" {
		c.Priority = ContactPriorityMedium
	}
	return nil
}

// ContactLeadFilter represents filter criteria for contact lead queries
type ContactLeadFilter struct {
	ID           *uint
	UUID         *uuid.UUID
	Email        *string
	Status       *ContactStatus
	Priority     *ContactPriority
	CreatedAfter *time.Time
}
