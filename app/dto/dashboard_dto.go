package dto

type DashboardTotalsDTO struct {
	Jobs                int64 `json:"jobs"`
	ActiveJobs          int64 `json:"active_jobs"`
	Applications        int64 `json:"applications"`
	PendingApplications int64 `json:"pending_applications"`
	Contacts            int64 `json:"contacts"`
	NewContacts         int64 `json:"new_contacts"`
}

type DashboardResponse struct {
	Totals             DashboardTotalsDTO `json:"totals"`
	RecentApplications []ApplicationDTO   `json:"recent_applications"`
	RecentContacts     []ContactDTO       `json:"recent_contacts"`
	GeneratedAt        string             `json:"generated_at"`
}
