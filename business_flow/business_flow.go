// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ClientMetadata holds client information attached to auth log lines
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// AdminIdentity is the authenticated caller, passed explicitly from the
// transport layer into every admin operation
type AdminIdentity struct {
	AdminID  uint
	UUID     string
	Username string
	Role     models.AdminRole
}

func (i *AdminIdentity) IsSuperAdmin() bool {
	return i != nil && i.Role == models.AdminRoleSuperAdmin
}

// AuthPolicy controls the failed-login lockout. BcryptCost sizes the hash
// compared against when the username does not exist.
type AuthPolicy struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	BcryptCost        int
}

func (p AuthPolicy) withDefaults() AuthPolicy {
	if p.MaxFailedAttempts <= 0 {
		p.MaxFailedAttempts = utils.DefaultMaxFailedLogins
	}
	if p.LockoutDuration <= 0 {
		p.LockoutDuration = utils.DefaultLockoutDuration
	}
	return p
}

func parseIdentifier(id string) (uuid.UUID, error) {
	parsed, err := utils.ParseUUID(id)
	if err != nil {
		return uuid.Nil, NewBusinessError("INVALID_IDENTIFIER", "Invalid identifier", ErrInvalidIdentifier)
	}
	return parsed, nil
}

// normalizePage clamps page and limit and returns the row offset
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

func toPagination(page, limit int, total int64) dto.PaginationDTO {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return dto.PaginationDTO{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ToAdminDTO converts an admin model to its API shape. The hash never leaves the store.
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		UUID:        admin.UUID.String(),
		Username:    admin.Username,
		Email:       admin.Email,
		Role:        string(admin.Role),
		IsActive:    admin.IsActive,
		LastLoginAt: utils.FormatTimePtr(admin.LastLoginAt),
		CreatedAt:   admin.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToJobDTO(job models.JobPosting) dto.JobDTO {
	return dto.JobDTO{
		UUID:                job.UUID.String(),
		Title:               job.Title,
		Department:          job.Department,
		Location:            job.Location,
		Type:                string(job.Type),
		ExperienceLevel:     job.ExperienceLevel,
		Description:         job.Description,
		Requirements:        nonNil(job.Requirements),
		Benefits:            nonNil(job.Benefits),
		SalaryMin:           job.SalaryMin,
		SalaryMax:           job.SalaryMax,
		Currency:            job.Currency,
		ApplicationDeadline: utils.FormatTimePtr(job.ApplicationDeadline),
		Status:              string(job.Status),
		CreatedAt:           job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           job.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToApplicationDTO(app models.Application) dto.ApplicationDTO {
	out := dto.ApplicationDTO{
		UUID:         app.UUID.String(),
		Name:         app.Name,
		Email:        app.Email,
		Phone:        app.Phone,
		ResumeURL:    app.ResumeURL,
		PortfolioURL: app.PortfolioURL,
		Experience:   app.Experience,
		CoverLetter:  app.CoverLetter,
		Status:       string(app.Status),
		Notes:        app.Notes,
		ReviewedAt:   utils.FormatTimePtr(app.ReviewedAt),
		CreatedAt:    app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    app.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if app.Job != nil {
		out.Job = &dto.JobSummaryDTO{
			UUID:       app.Job.UUID.String(),
			Title:      app.Job.Title,
			Department: app.Job.Department,
		}
	}
	if app.ReviewedBy != nil {
		out.ReviewedBy = utils.ToPtr(app.ReviewedBy.Username)
	}
	return out
}

func ToContactDTO(lead models.ContactLead) dto.ContactDTO {
	return dto.ContactDTO{
		UUID:         lead.UUID.String(),
		Name:         lead.Name,
		Organization: lead.Organization,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Website:      lead.Website,
		Services:     nonNil(lead.Services),
		Message:      lead.Message,
		Status:       string(lead.Status),
		Priority:     string(lead.Priority),
		Notes:        lead.Notes,
		AssignedTo:   lead.AssignedTo,
		FollowUpDate: utils.FormatTimePtr(lead.FollowUpDate),
		CreatedAt:    lead.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    lead.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toApplicationDTOs(apps []*models.Application) []dto.ApplicationDTO {
	return lo.Map(apps, func(a *models.Application, _ int) dto.ApplicationDTO { return ToApplicationDTO(*a) })
}

func toContactDTOs(leads []*models.ContactLead) []dto.ContactDTO {
	return lo.Map(leads, func(l *models.ContactLead, _ int) dto.ContactDTO { return ToContactDTO(*l) })
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
