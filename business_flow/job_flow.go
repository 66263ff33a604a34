package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/services"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// JobFlow manages the job posting catalog
type JobFlow interface {
	Create(ctx context.Context, req *dto.CreateJobRequest) (*dto.JobDTO, error)
	Update(ctx context.Context, id string, req *dto.UpdateJobRequest) (*dto.JobDTO, error)
	// Get returns one posting. publicOnly hides postings that are not active.
	Get(ctx context.Context, id string, publicOnly bool) (*dto.JobDTO, error)
	List(ctx context.Context, req *dto.ListJobsRequest, publicOnly bool) (*dto.ListJobsResponse, error)
	Delete(ctx context.Context, id string) (*dto.DeleteJobResponse, error)
	CloseExpired(ctx context.Context) (int64, error)
}

type JobFlowImpl struct {
	jobRepo repository.JobPostingRepository
	cache   services.StatsCache
	clock   utils.Clock
}

func NewJobFlow(jobRepo repository.JobPostingRepository, cache services.StatsCache, clock utils.Clock) JobFlow {
	return &JobFlowImpl{
		jobRepo: jobRepo,
		cache:   cache,
		clock:   clock.OrUTCNow(),
	}
}

func (f *JobFlowImpl) Create(ctx context.Context, req *dto.CreateJobRequest) (*dto.JobDTO, error) {
	if err := ValidateCreateJobRequest(req); err != nil {
		return nil, err
	}

	job := &models.JobPosting{
		Title:               strings.TrimSpace(req.Title),
		Department:          strings.TrimSpace(req.Department),
		Location:            strings.TrimSpace(req.Location),
		Type:                models.JobType(req.Type),
		ExperienceLevel:     strings.TrimSpace(req.ExperienceLevel),
		Description:         req.Description,
		Requirements:        req.Requirements,
		Benefits:            req.Benefits,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		Currency:            utils.DefaultCurrency,
		ApplicationDeadline: utils.TimeToUTCPtr(req.ApplicationDeadline),
		Status:              models.JobStatusActive,
	}
	if req.Currency != nil {
		job.Currency = *req.Currency
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}

	if err := f.jobRepo.Save(ctx, job); err != nil {
		return nil, NewBusinessError("JOB_CREATE_FAILED", "Failed to create job posting", err)
	}
	invalidateDashboard(ctx, f.cache)

	log.WithFields(log.Fields{"job_uuid": job.UUID.String(), "title": job.Title}).Info("Job posting created")
	out := ToJobDTO(*job)
	return &out, nil
}

func (f *JobFlowImpl) Update(ctx context.Context, id string, req *dto.UpdateJobRequest) (*dto.JobDTO, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}
	if err := ValidateUpdateJobRequest(req); err != nil {
		return nil, err
	}

	job, err := f.jobRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
	}
	if job == nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Department != nil {
		job.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Type != nil {
		job.Type = models.JobType(*req.Type)
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = strings.TrimSpace(*req.ExperienceLevel)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Benefits != nil {
		job.Benefits = req.Benefits
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.Currency != nil {
		job.Currency = *req.Currency
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = utils.TimeToUTCPtr(req.ApplicationDeadline)
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}

	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return nil, newValidationError("salary_min", "salary_min must not exceed salary_max")
	}

	if err := f.jobRepo.Update(ctx, job); err != nil {
		return nil, NewBusinessError("JOB_UPDATE_FAILED", "Failed to update job posting", err)
	}
	invalidateDashboard(ctx, f.cache)

	out := ToJobDTO(*job)
	return &out, nil
}

func (f *JobFlowImpl) Get(ctx context.Context, id string, publicOnly bool) (*dto.JobDTO, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}

	job, err := f.jobRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
	}
	if job == nil || (publicOnly && job.Status != models.JobStatusActive) {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
	}

	out := ToJobDTO(*job)
	return &out, nil
}

func (f *JobFlowImpl) List(ctx context.Context, req *dto.ListJobsRequest, publicOnly bool) (*dto.ListJobsResponse, error) {
	if req == nil {
		req = &dto.ListJobsRequest{}
	}

	var filter models.JobPostingFilter
	if publicOnly {
		filter.Status = utils.ToPtr(models.JobStatusActive)
	} else if req.Status != "" {
		status := models.JobStatus(req.Status)
		if !status.IsValid() {
			return nil, newValidationError("status", "status must be one of: active inactive closed")
		}
		filter.Status = &status
	}
	if req.Type != "" {
		jobType := models.JobType(req.Type)
		if !jobType.IsValid() {
			return nil, newValidationError("type", "type must be one of: Full-time Part-time Contract Internship")
		}
		filter.Type = &jobType
	}
	if req.Department != "" {
		filter.Department = utils.ToPtr(req.Department)
	}

	page, limit, offset := normalizePage(req.Page, req.Limit)

	total, err := f.jobRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("JOB_LIST_FAILED", "Failed to count job postings", err)
	}
	jobs, err := f.jobRepo.ByFilter(ctx, filter, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("JOB_LIST_FAILED", "Failed to list job postings", err)
	}

	return &dto.ListJobsResponse{
		Jobs:       lo.Map(jobs, func(j *models.JobPosting, _ int) dto.JobDTO { return ToJobDTO(*j) }),
		Pagination: toPagination(page, limit, total),
	}, nil
}

// Delete removes the posting together with all of its applications
func (f *JobFlowImpl) Delete(ctx context.Context, id string) (*dto.DeleteJobResponse, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}

	job, err := f.jobRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("JOB_LOOKUP_FAILED", "Failed to lookup job posting", err)
	}
	if job == nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job posting not found", ErrJobNotFound)
	}

	deleted, err := f.jobRepo.DeleteWithApplications(ctx, job.ID)
	if err != nil {
		return nil, NewBusinessError("JOB_DELETE_FAILED", "Failed to delete job posting", err)
	}
	invalidateDashboard(ctx, f.cache)

	log.WithFields(log.Fields{
		"job_uuid":             job.UUID.String(),
		"deleted_applications": deleted,
	}).Info("Job posting deleted")

	return &dto.DeleteJobResponse{DeletedApplications: deleted}, nil
}

// CloseExpired closes active postings whose application deadline has passed
func (f *JobFlowImpl) CloseExpired(ctx context.Context) (int64, error) {
	closed, err := f.jobRepo.CloseExpired(ctx, f.clock())
	if err != nil {
		return 0, NewBusinessError("JOB_EXPIRY_FAILED", "Failed to close expired job postings", err)
	}
	if closed > 0 {
		invalidateDashboard(ctx, f.cache)
	}
	return closed, nil
}
