package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TestPassword = "TestPass123!"
	// TestBcryptCost keeps hashing fast in tests
	TestBcryptCost = bcrypt.MinCost
	// ValidCoverLetter satisfies the cover letter length rule
	ValidCoverLetter = "I have shipped three titles as a gameplay programmer and would love to bring that experience to your studio team."
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAdmin stores an active admin whose password is TestPassword
func (tf *TestFixtures) CreateTestAdmin(username string, role models.AdminRole) (*models.Admin, error) {
	repo := repository.NewAdminRepository(tf.DB.DB, TestBcryptCost)
	admin := &models.Admin{
		Username: username,
		Email:    fmt.Sprintf("%s@studio.test", strings.ToLower(username)),
		Password: TestPassword,
		Role:     role,
		IsActive: utils.ToPtr(true),
	}
	if err := repo.Create(context.Background(), admin); err != nil {
		return nil, fmt.Errorf("failed to create admin %s: %w", username, err)
	}
	admin.Password = ""
	return admin, nil
}

// CreateTestJob stores an active full-time posting with no deadline
func (tf *TestFixtures) CreateTestJob(title string) (*models.JobPosting, error) {
	job := &models.JobPosting{
		Title:           title,
		Department:      "Engineering",
		Location:        "Remote",
		Type:            models.JobTypeFullTime,
		ExperienceLevel: "Senior",
		Description:     "Build gameplay systems.",
		Requirements:    []string{"Go", "SQL"},
		Benefits:        []string{"Remote work"},
		Currency:        utils.DefaultCurrency,
		Status:          models.JobStatusActive,
	}
	if err := tf.DB.DB.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job %s: %w", title, err)
	}
	return job, nil
}

// CreateTestApplication stores a pending application for job
func (tf *TestFixtures) CreateTestApplication(job *models.JobPosting, email string) (*models.Application, error) {
	app := &models.Application{
		JobID:       job.ID,
		Name:        "Jamie Doe",
		Email:       email,
		ResumeURL:   "https://cv.example.com/" + uuid.NewString(),
		CoverLetter: ValidCoverLetter,
		Status:      models.ApplicationStatusPending,
	}
	if err := tf.DB.DB.Create(app).Error; err != nil {
		return nil, fmt.Errorf("failed to create application for %s: %w", email, err)
	}
	return app, nil
}

// CreateTestContact stores a new contact lead created at createdAt
func (tf *TestFixtures) CreateTestContact(email string, createdAt time.Time) (*models.ContactLead, error) {
	lead := &models.ContactLead{
		Name:         "Sam Lee",
		Organization: "Acme Games",
		Email:        email,
		Phone:        "+15551234567",
		Services:     []string{"Game Development"},
		Status:       models.ContactStatusNew,
		Priority:     models.ContactPriorityMedium,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact %s: %w", email, err)
	}
	return lead, nil
}

// ManualClock is a settable clock for time-dependent tests
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.UTC()}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Clock adapts the manual clock to utils.Clock
func (c *ManualClock) Clock() utils.Clock {
	return c.Now
}
