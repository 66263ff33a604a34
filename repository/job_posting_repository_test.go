package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestJobPostingRepository_DeleteWithApplications(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(db)
		jobs := repository.NewJobPostingRepository(db.DB)
		apps := repository.NewApplicationRepository(db.DB)
		ctx := context.Background()

		doomed, err := fixtures.CreateTestJob("Level Designer")
		require.NoError(t, err)
		kept, err := fixtures.CreateTestJob("Technical Artist")
		require.NoError(t, err)

		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			_, err := fixtures.CreateTestApplication(doomed, email)
			require.NoError(t, err)
		}
		survivor, err := fixtures.CreateTestApplication(kept, "a@example.com")
		require.NoError(t, err)

		deleted, err := jobs.DeleteWithApplications(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		gone, err := jobs.ByID(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		remaining, err := apps.ByFilter(ctx, models.ApplicationFilter{}, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, survivor.ID, remaining[0].ID)

		t.Run("MissingJob", func(t *testing.T) {
			_, err := jobs.DeleteWithApplications(ctx, doomed.ID)
			assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestJobPostingRepository_CloseExpired(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(db)
		jobs := repository.NewJobPostingRepository(db.DB)
		ctx := context.Background()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		expired, err := fixtures.CreateTestJob("Expired")
		require.NoError(t, err)
		expired.ApplicationDeadline = utils.ToPtr(now.Add(-time.Hour))
		require.NoError(t, jobs.Update(ctx, expired))

		open, err := fixtures.CreateTestJob("Open")
		require.NoError(t, err)
		open.ApplicationDeadline = utils.ToPtr(now.Add(time.Hour))
		require.NoError(t, jobs.Update(ctx, open))

		noDeadline, err := fixtures.CreateTestJob("Evergreen")
		require.NoError(t, err)

		inactive, err := fixtures.CreateTestJob("Paused")
		require.NoError(t, err)
		inactive.Status = models.JobStatusInactive
		inactive.ApplicationDeadline = utils.ToPtr(now.Add(-time.Hour))
		require.NoError(t, jobs.Update(ctx, inactive))

		closed, err := jobs.CloseExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), closed)

		expectStatus := map[uint]models.JobStatus{
			expired.ID:    models.JobStatusClosed,
			open.ID:       models.JobStatusActive,
			noDeadline.ID: models.JobStatusActive,
			inactive.ID:   models.JobStatusInactive,
		}
		for id, status := range expectStatus {
			job, err := jobs.ByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, status, job.Status, "job %d", id)
		}

		again, err := jobs.CloseExpired(ctx, now)
		require.NoError(t, err)
		assert.Zero(t, again)

		return nil
	})
	require.NoError(t, err)
}

func TestApplicationRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(db)
		apps := repository.NewApplicationRepository(db.DB)
		ctx := context.Background()

		job, err := fixtures.CreateTestJob("Gameplay Engineer")
		require.NoError(t, err)
		app, err := fixtures.CreateTestApplication(job, "jamie@example.com")
		require.NoError(t, err)

		t.Run("UniqueJobEmail", func(t *testing.T) {
			dup := &models.Application{
				JobID:       job.ID,
				Name:        "Jamie Again",
				Email:       "jamie@example.com",
				ResumeURL:   "https://cv.example.com/2",
				CoverLetter: testingutil.ValidCoverLetter,
			}
			assert.ErrorIs(t, apps.Save(ctx, dup), repository.ErrDuplicateEntry)
		})

		t.Run("ByUUIDPreloadsJob", func(t *testing.T) {
			found, err := apps.ByUUID(ctx, app.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			require.NotNil(t, found.Job)
			assert.Equal(t, "Gameplay Engineer", found.Job.Title)
		})

		t.Run("CountByStatusFillsZeros", func(t *testing.T) {
			counts, err := apps.CountByStatus(ctx)
			require.NoError(t, err)
			assert.Len(t, counts, len(models.ApplicationStatuses))
			assert.Equal(t, int64(1), counts[models.ApplicationStatusPending])
			assert.Equal(t, int64(0), counts[models.ApplicationStatusHired])
		})

		t.Run("DeleteByID", func(t *testing.T) {
			deleted, err := apps.DeleteByID(ctx, app.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			deleted, err = apps.DeleteByID(ctx, app.ID)
			require.NoError(t, err)
			assert.False(t, deleted)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestContactLeadRepository_CreatedAfter(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(db)
		leads := repository.NewContactLeadRepository(db.DB)
		ctx := context.Background()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		_, err := fixtures.CreateTestContact("sam@acme.test", now.Add(-30*time.Hour))
		require.NoError(t, err)

		email := "sam@acme.test"
		since := now.Add(-24 * time.Hour)
		exists, err := leads.Exists(ctx, models.ContactLeadFilter{Email: &email, CreatedAfter: &since})
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = fixtures.CreateTestContact("sam@acme.test", now.Add(-time.Hour))
		require.NoError(t, err)
		exists, err = leads.Exists(ctx, models.ContactLeadFilter{Email: &email, CreatedAfter: &since})
		require.NoError(t, err)
		assert.True(t, exists)

		byPriority, err := leads.CountByPriority(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), byPriority[models.ContactPriorityMedium])

		return nil
	})
	require.NoError(t, err)
}
