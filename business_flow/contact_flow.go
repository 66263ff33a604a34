package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/services"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// ContactFlow handles contact-form leads
type ContactFlow interface {
	Submit(ctx context.Context, req *dto.SubmitContactRequest) (*dto.SubmitContactResponse, error)
	List(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error)
	Get(ctx context.Context, id string) (*dto.ContactDTO, error)
	Update(ctx context.Context, id string, req *dto.UpdateContactRequest) (*dto.ContactDTO, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*dto.ContactStatsResponse, error)
}

type ContactFlowImpl struct {
	contactRepo  repository.ContactLeadRepository
	notifier     services.NotificationService
	cache        services.StatsCache
	clock        utils.Clock
	dedupeWindow time.Duration
}

func NewContactFlow(contactRepo repository.ContactLeadRepository, notifier services.NotificationService, cache services.StatsCache, clock utils.Clock) ContactFlow {
	return &ContactFlowImpl{
		contactRepo:  contactRepo,
		notifier:     notifier,
		cache:        cache,
		clock:        clock.OrUTCNow(),
		dedupeWindow: utils.ContactDedupeWindow,
	}
}

// Submit stores a new lead unless the same email submitted one within the dedupe window
func (f *ContactFlowImpl) Submit(ctx context.Context, req *dto.SubmitContactRequest) (*dto.SubmitContactResponse, error) {
	if err := ValidateSubmitContactRequest(req); err != nil {
		return nil, err
	}

	now := f.clock()
	email := utils.NormalizeEmail(req.Email)
	since := now.Add(-f.dedupeWindow)

	recent, err := f.contactRepo.Exists(ctx, models.ContactLeadFilter{Email: &email, CreatedAfter: &since})
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to check recent submissions", err)
	}
	if recent {
		return nil, NewBusinessError("DUPLICATE_CONTACT", "You have already submitted a request recently. Please wait 24 hours before submitting again.", ErrDuplicateSubmission)
	}

	offered := lo.Map(req.Services, func(s string, _ int) string { return strings.TrimSpace(s) })
	lead := &models.ContactLead{
		Name:         strings.TrimSpace(req.Name),
		Organization: strings.TrimSpace(req.Organization),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Website:      utils.TrimPtr(req.Website),
		Services:     offered,
		Message:      utils.TrimPtr(req.Message),
		Status:       models.ContactStatusNew,
		Priority:     models.ContactPriorityMedium,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.contactRepo.Save(ctx, lead); err != nil {
		return nil, NewBusinessError("CONTACT_CREATE_FAILED", "Failed to submit contact request", err)
	}
	invalidateDashboard(ctx, f.cache)

	f.notifier.NotifyContactReceived(contactReceivedEvent(lead))

	log.WithFields(log.Fields{
		"lead_uuid":    lead.UUID.String(),
		"organization": lead.Organization,
	}).Info("Contact lead submitted")

	return &dto.SubmitContactResponse{
		UUID:        lead.UUID.String(),
		Status:      string(lead.Status),
		SubmittedAt: lead.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (f *ContactFlowImpl) List(ctx context.Context, req *dto.ListContactsRequest) (*dto.ListContactsResponse, error) {
	if req == nil {
		req = &dto.ListContactsRequest{}
	}

	var filter models.ContactLeadFilter
	if req.Status != "" {
		status := models.ContactStatus(req.Status)
		if !status.IsValid() {
			return nil, newValidationError("status", "status must be one of: new contacted in-progress completed closed")
		}
		filter.Status = &status
	}
	if req.Priority != "" {
		priority := models.ContactPriority(req.Priority)
		if !priority.IsValid() {
			return nil, newValidationError("priority", "priority must be one of: low medium high urgent")
		}
		filter.Priority = &priority
	}

	page, limit, offset := normalizePage(req.Page, req.Limit)

	total, err := f.contactRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to count contacts", err)
	}
	leads, err := f.contactRepo.ByFilter(ctx, filter, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LIST_FAILED", "Failed to list contacts", err)
	}

	return &dto.ListContactsResponse{
		Contacts:   toContactDTOs(leads),
		Pagination: toPagination(page, limit, total),
	}, nil
}

func (f *ContactFlowImpl) Get(ctx context.Context, id string) (*dto.ContactDTO, error) {
	lead, err := f.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToContactDTO(*lead)
	return &out, nil
}

// Update changes triage fields. It never sends notifications.
func (f *ContactFlowImpl) Update(ctx context.Context, id string, req *dto.UpdateContactRequest) (*dto.ContactDTO, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}
	if err := ValidateUpdateContactRequest(req); err != nil {
		return nil, err
	}

	lead, err := f.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		lead.Status = models.ContactStatus(*req.Status)
	}
	if req.Priority != nil {
		lead.Priority = models.ContactPriority(*req.Priority)
	}
	if req.Notes != nil {
		lead.Notes = utils.TrimPtr(req.Notes)
	}
	if req.AssignedTo != nil {
		lead.AssignedTo = utils.TrimPtr(req.AssignedTo)
	}
	if req.FollowUpDate != nil {
		lead.FollowUpDate = utils.TimeToUTCPtr(req.FollowUpDate)
	}

	if err := f.contactRepo.Update(ctx, lead); err != nil {
		return nil, NewBusinessError("CONTACT_UPDATE_FAILED", "Failed to update contact", err)
	}
	invalidateDashboard(ctx, f.cache)

	out := ToContactDTO(*lead)
	return &out, nil
}

func (f *ContactFlowImpl) Delete(ctx context.Context, id string) error {
	lead, err := f.lookup(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := f.contactRepo.DeleteByID(ctx, lead.ID)
	if err != nil {
		return NewBusinessError("CONTACT_DELETE_FAILED", "Failed to delete contact", err)
	}
	if !deleted {
		return NewBusinessError("CONTACT_NOT_FOUND", "Contact not found", ErrContactNotFound)
	}
	invalidateDashboard(ctx, f.cache)
	return nil
}

func (f *ContactFlowImpl) Stats(ctx context.Context) (*dto.ContactStatsResponse, error) {
	byStatus, err := f.contactRepo.CountByStatus(ctx)
	if err != nil {
		return nil, NewBusinessError("CONTACT_STATS_FAILED", "Failed to compute contact statistics", err)
	}
	byPriority, err := f.contactRepo.CountByPriority(ctx)
	if err != nil {
		return nil, NewBusinessError("CONTACT_STATS_FAILED", "Failed to compute contact statistics", err)
	}

	resp := &dto.ContactStatsResponse{
		ByStatus:   lo.MapKeys(byStatus, func(_ int64, k models.ContactStatus) string { return string(k) }),
		ByPriority: lo.MapKeys(byPriority, func(_ int64, k models.ContactPriority) string { return string(k) }),
	}
	resp.Total = lo.Sum(lo.Values(byStatus))
	return resp, nil
}

func (f *ContactFlowImpl) lookup(ctx context.Context, id string) (*models.ContactLead, error) {
	if _, err := parseIdentifier(id); err != nil {
		return nil, err
	}
	lead, err := f.contactRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("CONTACT_LOOKUP_FAILED", "Failed to lookup contact", err)
	}
	if lead == nil {
		return nil, NewBusinessError("CONTACT_NOT_FOUND", "Contact not found", ErrContactNotFound)
	}
	return lead, nil
}

func contactReceivedEvent(lead *models.ContactLead) services.ContactReceivedEvent {
	return services.ContactReceivedEvent{
		LeadUUID:     lead.UUID.String(),
		Name:         lead.Name,
		Organization: lead.Organization,
		Email:        lead.Email,
		Phone:        lead.Phone,
		Services:     lead.Services,
		Message:      deref(lead.Message),
	}
}
