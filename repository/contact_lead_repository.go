package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/utils"
	"gorm.io/gorm"
)

// ContactLeadRepositoryImpl implements ContactLeadRepository interface
type ContactLeadRepositoryImpl struct {
	*BaseRepository[models.ContactLead, models.ContactLeadFilter]
}

// NewContactLeadRepository creates a new contact lead repository
func NewContactLeadRepository(db *gorm.DB) ContactLeadRepository {
	return &ContactLeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ContactLead, models.ContactLeadFilter](db),
	}
}

// ByUUID retrieves a contact lead by UUID
func (r *ContactLeadRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.ContactLead, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	leads, err := r.ByFilter(ctx, models.ContactLeadFilter{UUID: &parsedUUID}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return leads[0], nil
}

func (r *ContactLeadRepositoryImpl) CountByStatus(ctx context.Context) (map[models.ContactStatus]int64, error) {
	var rows []struct {
		Status models.ContactStatus
		Count  int64
	}
	err := r.getDB(ctx).Model(&models.ContactLead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts by status: %w", err)
	}

	counts := make(map[models.ContactStatus]int64, len(models.ContactStatuses))
	for _, s := range models.ContactStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *ContactLeadRepositoryImpl) CountByPriority(ctx context.Context) (map[models.ContactPriority]int64, error) {
	var rows []struct {
		Priority models.ContactPriority
		Count    int64
	}
	err := r.getDB(ctx).Model(&models.ContactLead{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts by priority: %w", err)
	}

	counts := make(map[models.ContactPriority]int64, len(models.ContactPriorities))
	for _, p := range models.ContactPriorities {
		counts[p] = 0
	}
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ContactLeadRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContactLeadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	return query
}

// ByFilter retrieves contact leads based on filter criteria
func (r *ContactLeadRepositoryImpl) ByFilter(ctx context.Context, filter models.ContactLeadFilter, orderBy string, limit, offset int) ([]*models.ContactLead, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ContactLead{}), filter)

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

	var leads []*models.ContactLead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of contact leads matching the filter
func (r *ContactLeadRepositoryImpl) Count(ctx context.Context, filter models.ContactLeadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ContactLead{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contact lead matching the filter exists
func (r *ContactLeadRepositoryImpl) Exists(ctx context.Context, filter models.ContactLeadFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
