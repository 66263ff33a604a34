package businessflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/services"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var adminLoginAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_login_attempts_total",
		Help: "Admin login attempts by outcome",
	},
	[]string{"outcome"},
)

// AdminAuthFlow authenticates administrators and verifies their session tokens
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*AdminIdentity, error)
}

// AdminAuthFlowImpl enforces the lockout policy around bcrypt credential checks
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
	policy       AuthPolicy
	clock        utils.Clock

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, tokenService services.TokenService, policy AuthPolicy, clock utils.Clock) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
		policy:       policy.withDefaults(),
		clock:        clock.OrUTCNow(),
	}
}

func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if err := ValidateLoginRequest(req); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = NewClientMetadata("", "")
	}
	logger := log.WithFields(log.Fields{
		"username":   req.Username,
		"ip_address": metadata.IPAddress,
		"request_id": metadata.RequestID,
	})

	now := af.clock()

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		// keep response time in line with the known-username path
		_ = bcrypt.CompareHashAndPassword(af.getDummyHash(), []byte(req.Password))
		adminLoginAttempts.WithLabelValues("unknown_user").Inc()
		logger.Info("Admin login rejected: unknown username")
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}

	if admin.IsLocked(now) {
		adminLoginAttempts.WithLabelValues("locked").Inc()
		logger.WithField("locked_until", admin.LockedUntil).Warn("Admin login rejected: account locked")
		return nil, NewBusinessError("ACCOUNT_LOCKED", "Account is temporarily locked due to too many failed login attempts", ErrAccountLocked)
	}

	if !utils.IsTrue(admin.IsActive) {
		adminLoginAttempts.WithLabelValues("deactivated").Inc()
		logger.Info("Admin login rejected: account deactivated")
		return nil, NewBusinessError("ACCOUNT_DEACTIVATED", "Account is deactivated", ErrAccountDeactivated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		lockUntil := now.Add(af.policy.LockoutDuration)
		if regErr := af.adminRepo.RegisterFailedLogin(ctx, admin.ID, af.policy.MaxFailedAttempts, lockUntil, now); regErr != nil {
			return nil, NewBusinessError("LOGIN_FAILED", "Failed to record login attempt", regErr)
		}
		adminLoginAttempts.WithLabelValues("bad_password").Inc()
		logger.Info("Admin login rejected: incorrect password")
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}

	if err := af.adminRepo.RegisterSuccessfulLogin(ctx, admin.ID, now); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Failed to record login", err)
	}

	token, expiresAt, err := af.tokenService.GenerateAdminToken(admin.UUID.String(), admin.Username, string(admin.Role))
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate token", err)
	}

	admin.FailedAttempts = 0
	admin.LockedUntil = nil
	admin.LastLoginAt = &now

	adminLoginAttempts.WithLabelValues("success").Inc()
	logger.Info("Admin logged in")

	return &dto.AdminLoginResponse{
		Admin: ToAdminDTO(*admin),
		Session: dto.AdminSessionDTO{
			Token:     token,
			ExpiresIn: int(af.tokenService.TTL().Seconds()),
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
			TokenType: "Bearer",
		},
	}, nil
}

// VerifyToken validates the token and re-reads the account so deactivation
// takes effect before the token expires
func (af *AdminAuthFlowImpl) VerifyToken(ctx context.Context, token string) (*AdminIdentity, error) {
	if token == "" {
		return nil, NewBusinessError("TOKEN_MISSING", "Authentication token is required", ErrUnauthorized)
	}

	claims, err := af.tokenService.ValidateAdminToken(token)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			return nil, NewBusinessError("TOKEN_EXPIRED", "Token has expired", ErrUnauthorized)
		}
		return nil, NewBusinessError("TOKEN_INVALID", "Invalid token", ErrUnauthorized)
	}

	if _, err := utils.ParseUUID(claims.AdminUUID); err != nil {
		return nil, NewBusinessError("TOKEN_INVALID", "Invalid token", ErrUnauthorized)
	}
	admin, err := af.adminRepo.ByUUID(ctx, claims.AdminUUID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin account no longer exists", ErrUnauthorized)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ACCOUNT_DEACTIVATED", "Account is deactivated", ErrUnauthorized)
	}

	return &AdminIdentity{
		AdminID:  admin.ID,
		UUID:     admin.UUID.String(),
		Username: admin.Username,
		Role:     admin.Role,
	}, nil
}

func (af *AdminAuthFlowImpl) getDummyHash() []byte {
	af.dummyOnce.Do(func() {
		cost := af.policy.BcryptCost
		if cost < bcrypt.MinCost {
			cost = bcrypt.DefaultCost
		}
		af.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	})
	return af.dummyHash
}
