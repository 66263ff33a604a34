package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdmin_IsLocked(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&Admin{}).IsLocked(now))
	assert.True(t, (&Admin{LockedUntil: &future}).IsLocked(now))
	assert.False(t, (&Admin{LockedUntil: &past}).IsLocked(now))
	assert.False(t, (&Admin{LockedUntil: &now}).IsLocked(now), "lock ends exactly at locked_until")
}

func TestAdminRole_IsValid(t *testing.T) {
	assert.True(t, AdminRoleAdmin.IsValid())
	assert.True(t, AdminRoleSuperAdmin.IsValid())
	assert.False(t, AdminRole("root").IsValid())
	assert.True(t, (&Admin{Role: AdminRoleSuperAdmin}).IsSuperAdmin())
}

func TestApplicationStatus(t *testing.T) {
	tests := []struct {
		status   ApplicationStatus
		valid    bool
		notifies bool
	}{
		{ApplicationStatusPending, true, false},
		{ApplicationStatusReviewing, true, false},
		{ApplicationStatusShortlisted, true, true},
		{ApplicationStatusRejected, true, true},
		{ApplicationStatusHired, true, true},
		{ApplicationStatus("archived"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.notifies, tt.status.NotifiesApplicant())
		})
	}
}

func TestJobPosting_AcceptsApplications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name     string
		job      JobPosting
		expected bool
	}{
		{"active without deadline", JobPosting{Status: JobStatusActive}, true},
		{"active with future deadline", JobPosting{Status: JobStatusActive, ApplicationDeadline: &tomorrow}, true},
		{"active with deadline now", JobPosting{Status: JobStatusActive, ApplicationDeadline: &now}, true},
		{"active with past deadline", JobPosting{Status: JobStatusActive, ApplicationDeadline: &yesterday}, false},
		{"inactive", JobPosting{Status: JobStatusInactive}, false},
		{"closed", JobPosting{Status: JobStatusClosed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.job.AcceptsApplications(now))
		})
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, JobTypeInternship.IsValid())
	assert.False(t, JobType("Freelance").IsValid())
	assert.True(t, JobStatusClosed.IsValid())
	assert.False(t, JobStatus("draft").IsValid())
	assert.True(t, ContactStatusContacted.IsValid())
	assert.False(t, ContactStatus("spam").IsValid())
	assert.True(t, ContactPriorityUrgent.IsValid())
	assert.False(t, ContactPriority("critical").IsValid())
}
