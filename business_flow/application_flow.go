package businessflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/services"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	log "github.com/sirupsen/logrus"
)

// ApplicationFlow handles job applications from submission through review
type ApplicationFlow interface {
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	List(ctx context.Context, req *dto.ListApplicationsRequest) (*dto.ListApplicationsResponse, error)
	Get(ctx context.Context, id string) (*dto.ApplicationDTO, error)
	Update(ctx context.Context, identity *AdminIdentity, id string, req *dto.UpdateApplicationRequest) (*dto.ApplicationDTO, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*dto.ApplicationStatsResponse, error)
	ExportJobApplications(ctx context.Context, jobID string) (filename string, content []byte, err error)
}

type ApplicationFlowImpl struct {
	appRepo  repository.ApplicationRepository
	jobRepo  repository.JobPostingRepository
	notifier services.NotificationService
	cache    services.StatsCache
	clock    utils.Clock
}

func NewApplicationFlow(
	appRepo repository.ApplicationRepository,
	jobRepo repository.JobPostingRepository,
	notifier services.NotificationService,
	cache services.StatsCache,
	clock utils.Clock,
) ApplicationFlow {
	return &ApplicationFlowImpl{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		notifier: notifier,
		cache:    cache,
		clock:    clock.OrUTCNow(),
	}
}

// Submit files an application against an open posting. One application per
// (job, email) is accepted.
func (f *ApplicationFlowImpl) Submit(ctx context.Context, req *dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	if err := ValidateSubmitApplicationRequest(req); err != nil {
		return nil, err
	}
	if _, err := parseIdentifier(req.JobID); err != nil {
		return nil, err
	}

	job, err := f.jobRepo.ByUUID(ctx, req.JobID)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
	}
	if job == nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
	}
	if !job.AcceptsApplications(f.clock()) {
		return nil, NewBusinessError("JOB_NOT_ACCEPTING", "This position is no longer accepting applications", ErrJobNotAccepting)
	}

	email := utils.NormalizeEmail(req.Email)
	exists, err := f.appRepo.Exists(ctx, models.ApplicationFilter{JobID: &job.ID, Email: &email})
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to check existing applications", err)
	}
	if exists {
		return nil, NewBusinessError("DUPLICATE_APPLICATION", "You have already applied for this position", ErrDuplicateSubmission)
	}

	app := &models.Application{
		JobID:        job.ID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        utils.TrimPtr(req.Phone),
		ResumeURL:    strings.TrimSpace(req.ResumeURL),
		PortfolioURL: utils.TrimPtr(req.PortfolioURL),
		Experience:   utils.TrimPtr(req.Experience),
		CoverLetter:  req.CoverLetter,
		Status:       models.ApplicationStatusPending,
	}
	if err := f.appRepo.Save(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, NewBusinessError("DUPLICATE_APPLICATION", "You have already applied for this position", ErrDuplicateSubmission)
		}
		return nil, NewBusinessError("APPLICATION_CREATE_FAILED", "Failed to submit application", err)
	}
	invalidateDashboard(ctx, f.cache)

	f.notifier.NotifyApplicationReceived(services.ApplicationReceivedEvent{
		ApplicationUUID: app.UUID.String(),
		ApplicantName:   app.Name,
		ApplicantEmail:  app.Email,
		JobTitle:        job.Title,
		Department:      job.Department,
	})

	log.WithFields(log.Fields{
		"application_uuid": app.UUID.String(),
		"job_uuid":         job.UUID.String(),
	}).Info("Application submitted")

	return &dto.SubmitApplicationResponse{
		UUID:        app.UUID.String(),
		Status:      string(app.Status),
		SubmittedAt: app.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (f *ApplicationFlowImpl) List(ctx context.Context, req *dto.ListApplicationsRequest) (*dto.ListApplicationsResponse, error) {
	if req == nil {
		req = &dto.ListApplicationsRequest{}
	}

	var filter models.ApplicationFilter
	if req.JobID != "" {
		if _, err := parseIdentifier(req.JobID); err != nil {
			return nil, err
		}
		job, err := f.jobRepo.ByUUID(ctx, req.JobID)
		if err != nil {
			return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
		}
		if job == nil {
			return nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
		}
		filter.JobID = &job.ID
	}
	if req.Status != "" {
		status := models.ApplicationStatus(req.Status)
		if !status.IsValid() {
			return nil, newValidationError("status", "status must be one of: pending reviewing shortlisted rejected hired")
		}
		filter.Status = &status
	}
	if req.Email != "" {
		filter.Email = utils.ToPtr(utils.NormalizeEmail(req.Email))
	}

	page, limit, offset := normalizePage(req.Page, req.Limit)

	total, err := f.appRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to count applications", err)
	}
	apps, err := f.appRepo.ByFilter(ctx, filter, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LIST_FAILED", "Failed to list applications", err)
	}

	return &dto.ListApplicationsResponse{
		Applications: toApplicationDTOs(apps),
		Pagination:   toPagination(page, limit, total),
	}, nil
}

func (f *ApplicationFlowImpl) Get(ctx context.Context, id string) (*dto.ApplicationDTO, error) {
	app, err := f.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToApplicationDTO(*app)
	return &out, nil
}

// Update applies review changes. An explicit status stamps the reviewer and
// time and, for shortlisted, rejected and hired, notifies the applicant once
// the change is stored.
func (f *ApplicationFlowImpl) Update(ctx context.Context, identity *AdminIdentity, id string, req *dto.UpdateApplicationRequest) (*dto.ApplicationDTO, error) {
	if identity == nil {
		return nil, NewBusinessError("UNAUTHORIZED", "Authentication required", ErrUnauthorized)
	}
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}
	if err := ValidateUpdateApplicationRequest(req); err != nil {
		return nil, err
	}

	app, err := f.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	var newStatus *models.ApplicationStatus
	if req.Status != nil {
		status := models.ApplicationStatus(*req.Status)
		newStatus = &status
		now := f.clock()
		reviewer := identity.AdminID
		app.Status = status
		app.ReviewedByID = &reviewer
		app.ReviewedAt = &now
		app.ReviewedBy = nil
	}
	if req.Notes != nil {
		app.Notes = utils.TrimPtr(req.Notes)
	}

	if err := f.appRepo.Update(ctx, app); err != nil {
		return nil, NewBusinessError("APPLICATION_UPDATE_FAILED", "Failed to update application", err)
	}
	invalidateDashboard(ctx, f.cache)

	if newStatus != nil {
		app.ReviewedBy = &models.Admin{ID: identity.AdminID, Username: identity.Username}
		log.WithFields(log.Fields{
			"application_uuid": app.UUID.String(),
			"status":           *newStatus,
			"reviewed_by":      identity.Username,
		}).Info("Application status updated")

		if newStatus.NotifiesApplicant() {
			jobTitle := ""
			if app.Job != nil {
				jobTitle = app.Job.Title
			}
			f.notifier.NotifyApplicationStatusChanged(services.ApplicationStatusChangedEvent{
				ApplicationUUID: app.UUID.String(),
				ApplicantName:   app.Name,
				ApplicantEmail:  app.Email,
				JobTitle:        jobTitle,
				Status:          *newStatus,
			})
		}
	}

	out := ToApplicationDTO(*app)
	return &out, nil
}

func (f *ApplicationFlowImpl) Delete(ctx context.Context, id string) error {
	app, err := f.lookup(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := f.appRepo.DeleteByID(ctx, app.ID)
	if err != nil {
		return NewBusinessError("APPLICATION_DELETE_FAILED", "Failed to delete application", err)
	}
	if !deleted {
		return NewBusinessError("APPLICATION_NOT_FOUND", "Application not found", ErrApplicationNotFound)
	}
	invalidateDashboard(ctx, f.cache)
	return nil
}

func (f *ApplicationFlowImpl) Stats(ctx context.Context) (*dto.ApplicationStatsResponse, error) {
	counts, err := f.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_STATS_FAILED", "Failed to compute application statistics", err)
	}

	resp := &dto.ApplicationStatsResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, n := range counts {
		resp.ByStatus[string(status)] = n
		resp.Total += n
	}
	return resp, nil
}

func (f *ApplicationFlowImpl) lookup(ctx context.Context, id string) (*models.Application, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}
	app, err := f.appRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("APPLICATION_LOOKUP_FAILED", "Failed to lookup application", err)
	}
	if app == nil {
		return nil, NewBusinessError("APPLICATION_NOT_FOUND", "Application not found", ErrApplicationNotFound)
	}
	return app, nil
}
