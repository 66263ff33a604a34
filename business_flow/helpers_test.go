package businessflow_test

import (
	"testing"
	"time"

	"github.com/amirphl/studio-hiring-api/app/services"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hiringInbox = "hiring@studio.test"

var testStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// flowEnv wires repositories, a fake mailer and a manual clock over one test database
type flowEnv struct {
	db       *testingutil.TestDB
	fixtures *testingutil.TestFixtures
	clock    *testingutil.ManualClock
	mailer   *testingutil.FakeMailer
	notifier services.NotificationService

	admins   repository.AdminRepository
	jobs     repository.JobPostingRepository
	apps     repository.ApplicationRepository
	contacts repository.ContactLeadRepository
}

func newFlowEnv(t *testing.T, db *testingutil.TestDB) *flowEnv {
	t.Helper()

	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)

	mailer := &testingutil.FakeMailer{}
	notifier, err := services.NewNotificationService(EventBus.New(), mailer, services.NotificationConfig{
		AdminEmail:  hiringInbox,
		CompanyName: "Pixel Forge",
	}, quiet)
	require.NoError(t, err)

	return &flowEnv{
		db:       db,
		fixtures: testingutil.NewTestFixtures(db),
		clock:    testingutil.NewManualClock(testStart),
		mailer:   mailer,
		notifier: notifier,
		admins:   repository.NewAdminRepository(db.DB, testingutil.TestBcryptCost),
		jobs:     repository.NewJobPostingRepository(db.DB),
		apps:     repository.NewApplicationRepository(db.DB),
		contacts: repository.NewContactLeadRepository(db.DB),
	}
}

func identityOf(admin *models.Admin) *businessflow.AdminIdentity {
	return &businessflow.AdminIdentity{
		AdminID:  admin.ID,
		UUID:     admin.UUID.String(),
		Username: admin.Username,
		Role:     admin.Role,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	be, ok := businessflow.AsBusinessError(err)
	require.True(t, ok, "expected a business error, got %v", err)
	assert.Equal(t, code, be.Code)
}
