package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/amirphl/studio-hiring-api/models"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminEmail = "hiring@studio.test"

func createTestNotifier(t *testing.T, mailer *testingutil.FakeMailer) NotificationService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	n, err := NewNotificationService(EventBus.New(), mailer, NotificationConfig{
		AdminEmail:  testAdminEmail,
		CompanyName: "Pixel Forge",
	}, logger)
	require.NoError(t, err)
	return n
}

func TestNewNotificationService_RequiresDependencies(t *testing.T) {
	_, err := NewNotificationService(nil, &testingutil.FakeMailer{}, NotificationConfig{}, nil)
	assert.Error(t, err)

	_, err = NewNotificationService(EventBus.New(), nil, NotificationConfig{}, nil)
	assert.Error(t, err)
}

func TestNotificationService_ApplicationReceived(t *testing.T) {
	mailer := &testingutil.FakeMailer{}
	n := createTestNotifier(t, mailer)

	n.NotifyApplicationReceived(ApplicationReceivedEvent{
		ApplicationUUID: "a1",
		ApplicantName:   "Jamie",
		ApplicantEmail:  "jamie@example.com",
		JobTitle:        "Gameplay Engineer",
		Department:      "Engineering",
	})
	n.Wait()

	sent := mailer.Sent()
	require.Len(t, sent, 2)

	toApplicant := mailer.SentTo("jamie@example.com")
	require.Len(t, toApplicant, 1)
	assert.Equal(t, "Application Received - Gameplay Engineer", toApplicant[0].Subject)
	assert.Contains(t, toApplicant[0].Body, "Pixel Forge")

	toAdmin := mailer.SentTo(testAdminEmail)
	require.Len(t, toAdmin, 1)
	assert.Equal(t, "New Application: Gameplay Engineer", toAdmin[0].Subject)
}

func TestNotificationService_StatusChanged(t *testing.T) {
	tests := []struct {
		status       models.ApplicationStatus
		expectSend   bool
		subjectMatch string
	}{
		{status: models.ApplicationStatusPending},
		{status: models.ApplicationStatusReviewing},
		{status: models.ApplicationStatusShortlisted, expectSend: true, subjectMatch: "Good news"},
		{status: models.ApplicationStatusRejected, expectSend: true, subjectMatch: "Update on your application"},
		{status: models.ApplicationStatusHired, expectSend: true, subjectMatch: "Welcome to Pixel Forge"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			mailer := &testingutil.FakeMailer{}
			n := createTestNotifier(t, mailer)

			n.NotifyApplicationStatusChanged(ApplicationStatusChangedEvent{
				ApplicationUUID: "a1",
				ApplicantName:   "Jamie",
				ApplicantEmail:  "jamie@example.com",
				JobTitle:        "Gameplay Engineer",
				Status:          tt.status,
			})
			n.Wait()

			sent := mailer.Sent()
			if !tt.expectSend {
				assert.Empty(t, sent)
				return
			}
			require.Len(t, sent, 1)
			assert.Equal(t, "jamie@example.com", sent[0].To)
			assert.Contains(t, sent[0].Subject, tt.subjectMatch)
		})
	}
}

func TestNotificationService_ContactReceived(t *testing.T) {
	mailer := &testingutil.FakeMailer{}
	n := createTestNotifier(t, mailer)

	n.NotifyContactReceived(ContactReceivedEvent{
		LeadUUID:     "c1",
		Name:         "Sam",
		Organization: "Acme Games",
		Email:        "sam@acme.test",
		Phone:        "+15551234567",
		Services:     []string{"Game Development", "Porting"},
		Message:      "Need a port",
	})
	n.Wait()

	require.Len(t, mailer.SentTo("sam@acme.test"), 1)
	toAdmin := mailer.SentTo(testAdminEmail)
	require.Len(t, toAdmin, 1)
	assert.Equal(t, "New Contact Inquiry: Acme Games", toAdmin[0].Subject)
	assert.Contains(t, toAdmin[0].Body, "Game Development, Porting")
	assert.Contains(t, toAdmin[0].Body, "Need a port")
}

func TestNotificationService_EscapesUserInput(t *testing.T) {
	mailer := &testingutil.FakeMailer{}
	n := createTestNotifier(t, mailer)

	n.NotifyContactReceived(ContactReceivedEvent{
		Name:         "<script>alert(1)</script>",
		Organization: "Acme & Co",
		Email:        "sam@acme.test",
		Services:     []string{"Art"},
	})
	n.Wait()

	for _, mail := range mailer.Sent() {
		assert.NotContains(t, mail.Body, "<script>")
	}
	toAdmin := mailer.SentTo(testAdminEmail)
	require.Len(t, toAdmin, 1)
	assert.Contains(t, toAdmin[0].Body, "&lt;script&gt;")
	assert.Contains(t, toAdmin[0].Body, "Acme &amp; Co")
}

func TestNotificationService_MailerFailureIsSwallowed(t *testing.T) {
	mailer := &testingutil.FakeMailer{Err: errors.New("smtp down")}
	n := createTestNotifier(t, mailer)

	assert.NotPanics(t, func() {
		n.NotifyApplicationReceived(ApplicationReceivedEvent{
			ApplicantName:  "Jamie",
			ApplicantEmail: "jamie@example.com",
			JobTitle:       "Gameplay Engineer",
		})
		n.Wait()
	})

	// one attempt per recipient, no retries
	assert.Len(t, mailer.Sent(), 2)
}

func TestNotificationService_NoAdminEmail(t *testing.T) {
	mailer := &testingutil.FakeMailer{}
	n, err := NewNotificationService(EventBus.New(), mailer, NotificationConfig{}, nil)
	require.NoError(t, err)

	n.NotifyApplicationReceived(ApplicationReceivedEvent{
		ApplicantName:  "Jamie",
		ApplicantEmail: "jamie@example.com",
		JobTitle:       "Gameplay Engineer",
	})
	n.Wait()

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.True(t, strings.Contains(sent[0].Body, "Our Studio"))
}
