package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/utils"
	"gorm.io/gorm"
)

// JobPostingRepositoryImpl implements JobPostingRepository interface
type JobPostingRepositoryImpl struct {
	*BaseRepository[models.JobPosting, models.JobPostingFilter]
}

// NewJobPostingRepository creates a new job posting repository
func NewJobPostingRepository(db *gorm.DB) JobPostingRepository {
	return &JobPostingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.JobPosting, models.JobPostingFilter](db),
	}
}

// ByUUID retrieves a job posting by UUID
func (r *JobPostingRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.JobPosting, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	jobs, err := r.ByFilter(ctx, models.JobPostingFilter{UUID: &parsedUUID}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// DeleteWithApplications removes the posting and every application filed
// against it in one transaction. It returns how many applications went.
func (r *JobPostingRepositoryImpl) DeleteWithApplications(ctx context.Context, jobID uint) (int64, error) {
	var deleted int64
	err := WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		tx := r.getDB(txCtx)

		res := tx.Where("job_id = ?", jobID).Delete(&models.Application{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete applications of job %d: %w", jobID, res.Error)
		}
		deleted = res.RowsAffected

		res = tx.Delete(&models.JobPosting{}, jobID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete job %d: %w", jobID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// CloseExpired flips active postings whose deadline is before now to closed
func (r *JobPostingRepositoryImpl) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.JobPosting{}).
		Where("status = ?", models.JobStatusActive).
		Where("application_deadline IS NOT NULL AND application_deadline < ?", now).
		Updates(map[string]any{
			"status":     models.JobStatusClosed,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to close expired jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *JobPostingRepositoryImpl) applyFilter(query *gorm.DB, filter models.JobPostingFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DeadlineBefore != nil {
		query = query.Where("application_deadline IS NOT NULL AND application_deadline < ?", *filter.DeadlineBefore)
	}
	return query
}

// ByFilter retrieves job postings based on filter criteria
func (r *JobPostingRepositoryImpl) ByFilter(ctx context.Context, filter models.JobPostingFilter, orderBy string, limit, offset int) ([]*models.JobPosting, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.JobPosting{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC, id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var jobs []*models.JobPosting
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Count returns the number of job postings matching the filter
func (r *JobPostingRepositoryImpl) Count(ctx context.Context, filter models.JobPostingFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.JobPosting{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any job posting matching the filter exists
func (r *JobPostingRepositoryImpl) Exists(ctx context.Context, filter models.JobPostingFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
