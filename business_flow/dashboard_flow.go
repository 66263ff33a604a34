package businessflow

import (
	"context"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/services"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	log "github.com/sirupsen/logrus"
)

const (
	dashboardCacheKey = "dashboard:overview"
	dashboardRecent   = 5
)

// DashboardFlow aggregates counts for the admin landing page
type DashboardFlow interface {
	Overview(ctx context.Context) (*dto.DashboardResponse, error)
}

type DashboardFlowImpl struct {
	jobRepo     repository.JobPostingRepository
	appRepo     repository.ApplicationRepository
	contactRepo repository.ContactLeadRepository
	cache       services.StatsCache
	clock       utils.Clock
}

func NewDashboardFlow(
	jobRepo repository.JobPostingRepository,
	appRepo repository.ApplicationRepository,
	contactRepo repository.ContactLeadRepository,
	cache services.StatsCache,
	clock utils.Clock,
) DashboardFlow {
	return &DashboardFlowImpl{
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		contactRepo: contactRepo,
		cache:       cache,
		clock:       clock.OrUTCNow(),
	}
}

func (f *DashboardFlowImpl) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	if f.cache != nil {
		var cached dto.DashboardResponse
		found, err := f.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			log.WithError(err).Warn("Dashboard cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	var (
		totals dto.DashboardTotalsDTO
		err    error
	)
	if totals.Jobs, err = f.jobRepo.Count(ctx, models.JobPostingFilter{}); err != nil {
		return nil, f.statsError(err)
	}
	if totals.ActiveJobs, err = f.jobRepo.Count(ctx, models.JobPostingFilter{Status: utils.ToPtr(models.JobStatusActive)}); err != nil {
		return nil, f.statsError(err)
	}
	if totals.Applications, err = f.appRepo.Count(ctx, models.ApplicationFilter{}); err != nil {
		return nil, f.statsError(err)
	}
	if totals.PendingApplications, err = f.appRepo.Count(ctx, models.ApplicationFilter{Status: utils.ToPtr(models.ApplicationStatusPending)}); err != nil {
		return nil, f.statsError(err)
	}
	if totals.Contacts, err = f.contactRepo.Count(ctx, models.ContactLeadFilter{}); err != nil {
		return nil, f.statsError(err)
	}
	if totals.NewContacts, err = f.contactRepo.Count(ctx, models.ContactLeadFilter{Status: utils.ToPtr(models.ContactStatusNew)}); err != nil {
		return nil, f.statsError(err)
	}

	apps, err := f.appRepo.ByFilter(ctx, models.ApplicationFilter{}, "", dashboardRecent, 0)
	if err != nil {
		return nil, f.statsError(err)
	}
	leads, err := f.contactRepo.ByFilter(ctx, models.ContactLeadFilter{}, "", dashboardRecent, 0)
	if err != nil {
		return nil, f.statsError(err)
	}

	resp := &dto.DashboardResponse{
		Totals:             totals,
		RecentApplications: toApplicationDTOs(apps),
		RecentContacts:     toContactDTOs(leads),
		GeneratedAt:        f.clock().UTC().Format(time.RFC3339),
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, dashboardCacheKey, resp); err != nil {
			log.WithError(err).Warn("Dashboard cache write failed")
		}
	}
	return resp, nil
}

func (f *DashboardFlowImpl) statsError(err error) error {
	return NewBusinessError("DASHBOARD_FAILED", "Failed to build dashboard", err)
}

// invalidateDashboard drops the cached overview after a mutation. Cache
// failures are logged only; the snapshot expires on its own.
func invalidateDashboard(ctx context.Context, cache services.StatsCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, dashboardCacheKey); err != nil {
		log.WithError(err).Warn("Dashboard cache invalidation failed")
	}
}
