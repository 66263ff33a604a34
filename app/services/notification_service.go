package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/asaskevich/EventBus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// Event bus topics
const (
	TopicApplicationReceived      = "application:received"
	TopicApplicationStatusChanged = "application:status_changed"
	TopicContactReceived          = "contact:received"
)

const defaultSendTimeout = 15 * time.Second

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Notification emails by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

type ApplicationReceivedEvent struct {
	ApplicationUUID string
	ApplicantName   string
	ApplicantEmail  string
	JobTitle        string
	Department      string
}

type ApplicationStatusChangedEvent struct {
	ApplicationUUID string
	ApplicantName   string
	ApplicantEmail  string
	JobTitle        string
	Status          models.ApplicationStatus
}

type ContactReceivedEvent struct {
	LeadUUID     string
	Name         string
	Organization string
	Email        string
	Phone        string
	Services     []string
	Message      string
}

// NotificationService dispatches notification emails without blocking the caller.
// Delivery failures are logged and counted, never returned.
type NotificationService interface {
	NotifyApplicationReceived(event ApplicationReceivedEvent)
	NotifyApplicationStatusChanged(event ApplicationStatusChangedEvent)
	NotifyContactReceived(event ContactReceivedEvent)
	// Wait blocks until every published notification has been handled
	Wait()
}

// NotificationConfig configures recipients and per-send timeouts
type NotificationConfig struct {
	AdminEmail  string
	CompanyName string
	SendTimeout time.Duration
}

// NotificationServiceImpl implements NotificationService on an async event bus
type NotificationServiceImpl struct {
	bus    EventBus.Bus
	mailer Mailer
	cfg    NotificationConfig
	logger *logrus.Logger
}

// NewNotificationService subscribes the mail handlers on bus
func NewNotificationService(bus EventBus.Bus, mailer Mailer, cfg NotificationConfig, logger *logrus.Logger) (NotificationService, error) {
	if bus == nil {
		return nil, errors.New("event bus is nil")
	}
	if mailer == nil {
		return nil, errors.New("mailer is nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Our Studio"
	}

	s := &NotificationServiceImpl{bus: bus, mailer: mailer, cfg: cfg, logger: logger}

	subscriptions := map[string]any{
		TopicApplicationReceived:      s.onApplicationReceived,
		TopicApplicationStatusChanged: s.onApplicationStatusChanged,
		TopicContactReceived:          s.onContactReceived,
	}
	for topic, fn := range subscriptions {
		if err := bus.SubscribeAsync(topic, fn, false); err != nil {
			return nil, fmt.Errorf("failed to subscribe %s: %w", topic, err)
		}
	}
	return s, nil
}

func (s *NotificationServiceImpl) NotifyApplicationReceived(event ApplicationReceivedEvent) {
	s.bus.Publish(TopicApplicationReceived, event)
}

func (s *NotificationServiceImpl) NotifyApplicationStatusChanged(event ApplicationStatusChangedEvent) {
	if !event.Status.NotifiesApplicant() {
		return
	}
	s.bus.Publish(TopicApplicationStatusChanged, event)
}

func (s *NotificationServiceImpl) NotifyContactReceived(event ContactReceivedEvent) {
	s.bus.Publish(TopicContactReceived, event)
}

func (s *NotificationServiceImpl) Wait() {
	s.bus.WaitAsync()
}

func (s *NotificationServiceImpl) onApplicationReceived(event ApplicationReceivedEvent) {
	company := esc(s.cfg.CompanyName)
	job := esc(event.JobTitle)

	s.send("application_confirmation", event.ApplicantEmail,
		fmt.Sprintf("Application Received - %s", event.JobTitle),
		paragraphs(
			fmt.Sprintf("Dear %s,", esc(event.ApplicantName)),
			fmt.Sprintf("Thank you for applying for the %s position at %s. We have received your application and our team will review it shortly.", job, company),
			"We will contact you if your profile matches our requirements.",
			fmt.Sprintf("Best regards,<br>The %s Team", company),
		))

	if s.cfg.AdminEmail == "" {
		return
	}
	s.send("application_admin_alert", s.cfg.AdminEmail,
		fmt.Sprintf("New Application: %s", event.JobTitle),
		paragraphs(
			fmt.Sprintf("A new application was submitted for %s (%s).", job, esc(event.Department)),
			fmt.Sprintf("Applicant: %s &lt;%s&gt;", esc(event.ApplicantName), esc(event.ApplicantEmail)),
			fmt.Sprintf("Reference: %s", esc(event.ApplicationUUID)),
		))
}

func (s *NotificationServiceImpl) onApplicationStatusChanged(event ApplicationStatusChangedEvent) {
	company := esc(s.cfg.CompanyName)
	job := esc(event.JobTitle)
	greeting := fmt.Sprintf("Dear %s,", esc(event.ApplicantName))
	signature := fmt.Sprintf("Best regards,<br>The %s Team", company)

	var subject string
	var body []string
	switch event.Status {
	case models.ApplicationStatusShortlisted:
		subject = fmt.Sprintf("Good news about your application for %s", event.JobTitle)
		body = []string{greeting,
			fmt.Sprintf("We are pleased to let you know that you have been shortlisted for the %s position.", job),
			"Our team will reach out soon to schedule the next steps.",
			signature}
	case models.ApplicationStatusRejected:
		subject = fmt.Sprintf("Update on your application for %s", event.JobTitle)
		body = []string{greeting,
			fmt.Sprintf("Thank you for your interest in the %s position. After careful consideration we have decided to move forward with other candidates.", job),
			"We encourage you to apply for future openings.",
			signature}
	case models.ApplicationStatusHired:
		subject = fmt.Sprintf("Welcome to %s!", s.cfg.CompanyName)
		body = []string{greeting,
			fmt.Sprintf("Congratulations! We are delighted to offer you the %s position.", job),
			"Our team will contact you with onboarding details.",
			signature}
	default:
		return
	}

	s.send("application_"+string(event.Status), event.ApplicantEmail, subject, paragraphs(body...))
}

func (s *NotificationServiceImpl) onContactReceived(event ContactReceivedEvent) {
	company := esc(s.cfg.CompanyName)

	s.send("contact_confirmation", event.Email,
		fmt.Sprintf("Thank you for contacting %s", s.cfg.CompanyName),
		paragraphs(
			fmt.Sprintf("Dear %s,", esc(event.Name)),
			"Thank you for reaching out. We have received your inquiry and will get back to you within 24 hours.",
			fmt.Sprintf("Best regards,<br>The %s Team", company),
		))

	if s.cfg.AdminEmail == "" {
		return
	}
	lines := []string{
		fmt.Sprintf("New inquiry from %s (%s).", esc(event.Name), esc(event.Organization)),
		fmt.Sprintf("Email: %s", esc(event.Email)),
		fmt.Sprintf("Phone: %s", esc(event.Phone)),
		fmt.Sprintf("Services: %s", esc(strings.Join(event.Services, ", "))),
	}
	if event.Message != "" {
		lines = append(lines, fmt.Sprintf("Message: %s", esc(event.Message)))
	}
	s.send("contact_admin_alert", s.cfg.AdminEmail,
		fmt.Sprintf("New Contact Inquiry: %s", event.Organization),
		paragraphs(lines...))
}

// send makes exactly one delivery attempt under its own timeout
func (s *NotificationServiceImpl) send(kind, to, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			notificationsTotal.WithLabelValues(kind, "failed").Inc()
			s.logger.WithFields(logrus.Fields{"kind": kind, "panic": r}).Error("Mailer panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SendTimeout)
	defer cancel()

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		notificationsTotal.WithLabelValues(kind, "failed").Inc()
		s.logger.WithFields(logrus.Fields{
			"kind":       kind,
			"to":         to,
			"error":      err.Error(),
			"error_type": "notification",
		}).Warn("Failed to send notification email")
		return
	}
	notificationsTotal.WithLabelValues(kind, "sent").Inc()
}

// paragraphs wraps each line in <p>. Lines must already be escaped.
func paragraphs(lines ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, line := range lines {
		b.WriteString("<p>" + line + "</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

var esc = html.EscapeString
