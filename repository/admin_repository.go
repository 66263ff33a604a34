// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements AdminRepository interface
type AdminRepositoryImpl struct {
	*BaseRepository[models.Admin, models.AdminFilter]
	bcryptCost int
}

// NewAdminRepository creates a new admin repository. bcryptCost below
// bcrypt.MinCost falls back to bcrypt.DefaultCost.
func NewAdminRepository(db *gorm.DB, bcryptCost int) AdminRepository {
	return &AdminRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Admin, models.AdminFilter](db),
		bcryptCost:     bcryptCost,
	}
}

// ByUUID retrieves an admin by UUID
func (r *AdminRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Admin, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.AdminFilter{UUID: &parsedUUID}
	return r.first(ctx, filter)
}

// ByUsername retrieves an admin by exact, case-sensitive username
func (r *AdminRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	filter := models.AdminFilter{Username: &username}
	return r.first(ctx, filter)
}

// ByEmail retrieves an admin by email, compared case-insensitively
func (r *AdminRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	normalized := utils.NormalizeEmail(email)
	filter := models.AdminFilter{Email: &normalized}
	return r.first(ctx, filter)
}

func (r *AdminRepositoryImpl) first(ctx context.Context, filter models.AdminFilter) (*models.Admin, error) {
	admins, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, nil
	}
	return admins[0], nil
}

// Create inserts a new admin. A non-empty Password is hashed; otherwise
// PasswordHash is stored as given.
func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *models.Admin) (err error) {
	if admin == nil {
		return errors.New("admin payload is nil")
	}
	admin.Email = utils.NormalizeEmail(admin.Email)
	if admin.Password == "" && admin.PasswordHash == "" {
		return errors.New("admin password is required")
	}

	taken, err := r.identityTaken(ctx, admin.Username, admin.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateIdentity
	}

	if err := r.hashPassword(admin); err != nil {
		return err
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finish(db, shouldCommit, err) }()

	if err = db.Create(admin).Error; err != nil {
		if errors.Is(translateError(err), ErrDuplicateEntry) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// Update persists profile fields. The password hash changes only when a new
// plaintext Password is supplied. Login counters are left to
// RegisterFailedLogin and RegisterSuccessfulLogin.
func (r *AdminRepositoryImpl) Update(ctx context.Context, admin *models.Admin) (err error) {
	if admin == nil {
		return errors.New("admin payload is nil")
	}
	if admin.ID == 0 {
		return errors.New("admin ID is required for update")
	}
	admin.Email = utils.NormalizeEmail(admin.Email)

	taken, err := r.identityTaken(ctx, admin.Username, admin.Email, admin.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateIdentity
	}

	updates := map[string]any{
		"username":   admin.Username,
		"email":      admin.Email,
		"role":       admin.Role,
		"updated_at": utils.UTCNow(),
	}
	if admin.IsActive != nil {
		updates["is_active"] = *admin.IsActive
	}
	if admin.Password != "" {
		if err := r.hashPassword(admin); err != nil {
			return err
		}
		updates["password_hash"] = admin.PasswordHash
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { err = finish(db, shouldCommit, err) }()

	if err = db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		if errors.Is(translateError(err), ErrDuplicateEntry) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to update admin %d: %w", admin.ID, err)
	}
	return nil
}

// Save creates the admin when it has no ID and updates it otherwise
func (r *AdminRepositoryImpl) Save(ctx context.Context, admin *models.Admin) error {
	if admin != nil && admin.ID != 0 {
		return r.Update(ctx, admin)
	}
	return r.Create(ctx, admin)
}

// SaveBatch creates admins one by one so each gets hashed and checked
func (r *AdminRepositoryImpl) SaveBatch(ctx context.Context, admins []*models.Admin) error {
	return WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		for _, admin := range admins {
			if err := r.Create(txCtx, admin); err != nil {
				return err
			}
		}
		return nil
	})
}

// RegisterFailedLogin counts one failed attempt in a single UPDATE. Every
// right-hand side reads the pre-update row, so concurrent attempts cannot
// observe a stale counter. Reaching threshold locks the account until
// lockUntil and restarts the counter. Attempts that land while the account
// is already locked are not counted against the next window.
func (r *AdminRepositoryImpl) RegisterFailedLogin(ctx context.Context, adminID uint, threshold int, lockUntil, now time.Time) error {
	db := r.getDB(ctx)
	res := db.Model(&models.Admin{}).
		Where("id = ?", adminID).
		Where("locked_until IS NULL OR locked_until <= ?", now).
		Updates(map[string]any{
			"failed_attempts": gorm.Expr("CASE WHEN failed_attempts + 1 >= ? THEN 0 ELSE failed_attempts + 1 END", threshold),
			"locked_until":    gorm.Expr("CASE WHEN failed_attempts + 1 >= ? THEN ? ELSE locked_until END", threshold, lockUntil),
			"updated_at":      now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to register failed login for admin %d: %w", adminID, res.Error)
	}
	return nil
}

// RegisterSuccessfulLogin clears the counter and lock and stamps last_login_at
func (r *AdminRepositoryImpl) RegisterSuccessfulLogin(ctx context.Context, adminID uint, at time.Time) error {
	db := r.getDB(ctx)
	res := db.Model(&models.Admin{}).Where("id = ?", adminID).Updates(map[string]any{
		"failed_attempts": 0,
		"locked_until":    nil,
		"last_login_at":   at,
		"updated_at":      at,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to register login for admin %d: %w", adminID, res.Error)
	}
	return nil
}

func (r *AdminRepositoryImpl) hashPassword(admin *models.Admin) error {
	if admin.Password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), r.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.PasswordHash = string(hash)
	admin.Password = ""
	return nil
}

func (r *AdminRepositoryImpl) identityTaken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var count int64
	query := r.getDB(ctx).Model(&models.Admin{}).Where("(username = ? OR email = ?)", username, email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check admin identity: %w", err)
	}
	return count > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *AdminRepositoryImpl) applyFilter(query *gorm.DB, filter models.AdminFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Username != nil {
		query = query.Where("username = ?", *filter.Username)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves admins based on filter criteria
func (r *AdminRepositoryImpl) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Admin{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var admins []*models.Admin
	if err := query.Find(&admins).Error; err != nil {
		return nil, err
	}

	return admins, nil
}

// Count returns the number of admins matching the filter
func (r *AdminRepositoryImpl) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Admin{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any admin matching the filter exists
func (r *AdminRepositoryImpl) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
