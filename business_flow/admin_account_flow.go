package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminConfig describes the super-admin created on first start
type DefaultAdminConfig struct {
	Username string
	Email    string
	Password string
}

// AdminAccountFlow manages administrator accounts
type AdminAccountFlow interface {
	Profile(ctx context.Context, identity *AdminIdentity) (*dto.AdminDTO, error)
	UpdateProfile(ctx context.Context, identity *AdminIdentity, req *dto.UpdateAdminProfileRequest) (*dto.AdminDTO, error)
	Create(ctx context.Context, identity *AdminIdentity, req *dto.CreateAdminRequest) (*dto.AdminDTO, error)
	List(ctx context.Context, identity *AdminIdentity) (*dto.ListAdminsResponse, error)
	SetActive(ctx context.Context, identity *AdminIdentity, id string, active bool) (*dto.AdminDTO, error)
	// Provision creates an account without a caller. It backs the CLI.
	Provision(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminDTO, error)
	EnsureDefaultAdmin(ctx context.Context, cfg DefaultAdminConfig) (created bool, err error)
}

type AdminAccountFlowImpl struct {
	adminRepo repository.AdminRepository
}

func NewAdminAccountFlow(adminRepo repository.AdminRepository) AdminAccountFlow {
	return &AdminAccountFlowImpl{adminRepo: adminRepo}
}

func (f *AdminAccountFlowImpl) Profile(ctx context.Context, identity *AdminIdentity) (*dto.AdminDTO, error) {
	admin, err := f.self(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := ToAdminDTO(*admin)
	return &out, nil
}

// UpdateProfile changes the caller's email or password. Setting a password
// requires the current one.
func (f *AdminAccountFlowImpl) UpdateProfile(ctx context.Context, identity *AdminIdentity, req *dto.UpdateAdminProfileRequest) (*dto.AdminDTO, error) {
	if err := ValidateUpdateAdminProfileRequest(req); err != nil {
		return nil, err
	}
	admin, err := f.self(ctx, identity)
	if err != nil {
		return nil, err
	}

	if req.NewPassword != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
			return nil, NewBusinessError("INCORRECT_PASSWORD", "Current password is incorrect", ErrIncorrectPassword)
		}
		admin.Password = *req.NewPassword
	}
	if req.Email != nil {
		admin.Email = utils.NormalizeEmail(*req.Email)
	}

	if err := f.adminRepo.Update(ctx, admin); err != nil {
		return nil, f.mapWriteError(err, "ADMIN_UPDATE_FAILED", "Failed to update profile")
	}
	admin.Password = ""

	log.WithFields(log.Fields{
		"admin_uuid":       admin.UUID.String(),
		"password_changed": req.NewPassword != nil,
	}).Info("Admin profile updated")

	out := ToAdminDTO(*admin)
	return &out, nil
}

func (f *AdminAccountFlowImpl) Create(ctx context.Context, identity *AdminIdentity, req *dto.CreateAdminRequest) (*dto.AdminDTO, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	out, err := f.Provision(ctx, req)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"admin_uuid": out.UUID, "created_by": identity.Username}).Info("Admin account created")
	return out, nil
}

func (f *AdminAccountFlowImpl) Provision(ctx context.Context, req *dto.CreateAdminRequest) (*dto.AdminDTO, error) {
	if err := ValidateCreateAdminRequest(req); err != nil {
		return nil, err
	}

	role := models.AdminRoleAdmin
	if req.Role != "" {
		role = models.AdminRole(req.Role)
	}
	admin := &models.Admin{
		Username: strings.TrimSpace(req.Username),
		Email:    utils.NormalizeEmail(req.Email),
		Password: req.Password,
		Role:     role,
		IsActive: utils.ToPtr(true),
	}
	if err := f.adminRepo.Create(ctx, admin); err != nil {
		return nil, f.mapWriteError(err, "ADMIN_CREATE_FAILED", "Failed to create admin account")
	}
	admin.Password = ""

	out := ToAdminDTO(*admin)
	return &out, nil
}

func (f *AdminAccountFlowImpl) List(ctx context.Context, identity *AdminIdentity) (*dto.ListAdminsResponse, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	admins, err := f.adminRepo.ByFilter(ctx, models.AdminFilter{}, "created_at ASC, id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LIST_FAILED", "Failed to list admin accounts", err)
	}
	return &dto.ListAdminsResponse{
		Admins: lo.Map(admins, func(a *models.Admin, _ int) dto.AdminDTO { return ToAdminDTO(*a) }),
	}, nil
}

// SetActive enables or disables an account. Callers cannot disable themselves.
func (f *AdminAccountFlowImpl) SetActive(ctx context.Context, identity *AdminIdentity, id string, active bool) (*dto.AdminDTO, error) {
	if err := requireSuperAdmin(identity); err != nil {
		return nil, err
	}
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}

	admin, err := f.adminRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !active && admin.ID == identity.AdminID {
		return nil, NewBusinessError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account", ErrCannotDeactivateSelf)
	}

	admin.IsActive = utils.ToPtr(active)
	if err := f.adminRepo.Update(ctx, admin); err != nil {
		return nil, f.mapWriteError(err, "ADMIN_UPDATE_FAILED", "Failed to update admin account")
	}

	log.WithFields(log.Fields{
		"admin_uuid": admin.UUID.String(),
		"is_active":  active,
		"changed_by": identity.Username,
	}).Info("Admin account status changed")

	out := ToAdminDTO(*admin)
	return &out, nil
}

// EnsureDefaultAdmin creates a super-admin when no account exists yet
func (f *AdminAccountFlowImpl) EnsureDefaultAdmin(ctx context.Context, cfg DefaultAdminConfig) (bool, error) {
	count, err := f.adminRepo.Count(ctx, models.AdminFilter{})
	if err != nil {
		return false, NewBusinessError("ADMIN_COUNT_FAILED", "Failed to count admin accounts", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = f.Provision(ctx, &dto.CreateAdminRequest{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     string(models.AdminRoleSuperAdmin),
	})
	if err != nil {
		return false, err
	}

	log.WithFields(log.Fields{"username": cfg.Username}).Warn("Default super-admin created; change its password")
	return true, nil
}

func (f *AdminAccountFlowImpl) self(ctx context.Context, identity *AdminIdentity) (*models.Admin, error) {
	if identity == nil {
		return nil, NewBusinessError("UNAUTHORIZED", "Authentication required", ErrUnauthorized)
	}
	admin, err := f.adminRepo.ByUUID(ctx, identity.UUID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	return admin, nil
}

func (f *AdminAccountFlowImpl) mapWriteError(err error, code, message string) error {
	if errors.Is(err, repository.ErrDuplicateIdentity) {
		return NewBusinessError("DUPLICATE_IDENTITY", "Username or email already exists", ErrDuplicateIdentity)
	}
	return NewBusinessError(code, message, err)
}

func requireSuperAdmin(identity *AdminIdentity) error {
	if identity == nil {
		return NewBusinessError("UNAUTHORIZED", "Authentication required", ErrUnauthorized)
	}
	if !identity.IsSuperAdmin() {
		return NewBusinessError("FORBIDDEN", "Super-admin role required", ErrForbidden)
	}
	return nil
}
