// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
)

type contextKey string

const TxContextKey contextKey = "tx"

var (
	// ErrDuplicateEntry is returned when a unique constraint rejects a write
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrDuplicateIdentity is returned when an admin username or email is already taken
	ErrDuplicateIdentity = errors.New("admin username or email already exists")
)

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AdminRepository is the credential store. It owns password hashing and the
// atomic failed-login counter.
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	RegisterFailedLogin(ctx context.Context, adminID uint, threshold int, lockUntil, now time.Time) error
	RegisterSuccessfulLogin(ctx context.Context, adminID uint, at time.Time) error
}

// JobPostingRepository defines operations for job postings
type JobPostingRepository interface {
	Repository[models.JobPosting, models.JobPostingFilter]
	ByUUID(ctx context.Context, uuid string) (*models.JobPosting, error)
	Update(ctx context.Context, job *models.JobPosting) error
	DeleteWithApplications(ctx context.Context, jobID uint) (deletedApplications int64, err error)
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// ApplicationRepository defines operations for applications
type ApplicationRepository interface {
	Repository[models.Application, models.ApplicationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
}

// ContactLeadRepository defines operations for contact leads
type ContactLeadRepository interface {
	Repository[models.ContactLead, models.ContactLeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.ContactLead, error)
	Update(ctx context.Context, lead *models.ContactLead) error
	DeleteByID(ctx context.Context, id uint) (bool, error)
	CountByStatus(ctx context.Context) (map[models.ContactStatus]int64, error)
	CountByPriority(ctx context.Context) (map[models.ContactPriority]int64, error)
}
