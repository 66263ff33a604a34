package businessflow_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/models"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newApplicationFlow(env *flowEnv) businessflow.ApplicationFlow {
	return businessflow.NewApplicationFlow(env.apps, env.jobs, env.notifier, nil, env.clock.Clock())
}

func submitRequest(job *models.JobPosting, email string) *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		JobID:       job.UUID.String(),
		Name:        "Jamie Doe",
		Email:       email,
		ResumeURL:   "https://cv.example.com/jamie.pdf",
		CoverLetter: testingutil.ValidCoverLetter,
	}
}

func TestApplicationSubmit(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		flow := newApplicationFlow(env)
		ctx := context.Background()

		designer, err := env.fixtures.CreateTestJob("Game Designer")
		require.NoError(t, err)
		artist, err := env.fixtures.CreateTestJob("Concept Artist")
		require.NoError(t, err)

		t.Run("Success", func(t *testing.T) {
			resp, err := flow.Submit(ctx, submitRequest(designer, "Jamie@Example.com"))
			require.NoError(t, err)
			assert.Equal(t, "pending", resp.Status)
			_, err = uuid.Parse(resp.UUID)
			assert.NoError(t, err)

			env.notifier.Wait()
			applicant := env.mailer.SentTo("jamie@example.com")
			require.Len(t, applicant, 1)
			assert.Contains(t, applicant[0].Subject, "Game Designer")
			require.Len(t, env.mailer.SentTo(hiringInbox), 1)
		})

		t.Run("DuplicateSameJobAndEmail", func(t *testing.T) {
			env.mailer.Reset()
			_, err := flow.Submit(ctx, submitRequest(designer, "jamie@example.com"))
			requireCode(t, err, "DUPLICATE_APPLICATION")
			assert.True(t, errors.Is(err, businessflow.ErrDuplicateSubmission))

			env.notifier.Wait()
			assert.Empty(t, env.mailer.Sent())
		})

		t.Run("SameEmailOtherJob", func(t *testing.T) {
			_, err := flow.Submit(ctx, submitRequest(artist, "jamie@example.com"))
			assert.NoError(t, err)
		})

		t.Run("OtherEmailSameJob", func(t *testing.T) {
			_, err := flow.Submit(ctx, submitRequest(designer, "casey@example.com"))
			assert.NoError(t, err)
		})

		t.Run("UnknownJob", func(t *testing.T) {
			req := submitRequest(designer, "new@example.com")
			req.JobID = uuid.NewString()
			_, err := flow.Submit(ctx, req)
			requireCode(t, err, "JOB_NOT_FOUND")
			assert.True(t, businessflow.IsNotFound(err))
		})

		t.Run("MalformedJobID", func(t *testing.T) {
			req := submitRequest(designer, "new@example.com")
			req.JobID = "not-a-uuid"
			_, err := flow.Submit(ctx, req)
			requireCode(t, err, "INVALID_IDENTIFIER")
		})

		t.Run("ShortCoverLetter", func(t *testing.T) {
			req := submitRequest(designer, "new@example.com")
			req.CoverLetter = "Too short"
			_, err := flow.Submit(ctx, req)
			require.True(t, businessflow.IsValidationFailed(err))
			fields := businessflow.ValidationFields(err)
			require.Len(t, fields, 1)
			assert.Equal(t, "cover_letter", fields[0].Field)
		})

		t.Run("InvalidEmailAndResume", func(t *testing.T) {
			req := submitRequest(designer, "not-an-email")
			req.ResumeURL = "cv.pdf"
			_, err := flow.Submit(ctx, req)
			fields := businessflow.ValidationFields(err)
			names := make([]string, 0, len(fields))
			for _, f := range fields {
				names = append(names, f.Field)
			}
			assert.ElementsMatch(t, []string{"email", "resume_url"}, names)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestApplicationSubmit_ClosedPostings(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		flow := newApplicationFlow(env)
		ctx := context.Background()

		closed, err := env.fixtures.CreateTestJob("Closed Role")
		require.NoError(t, err)
		closed.Status = models.JobStatusClosed
		require.NoError(t, env.jobs.Update(ctx, closed))

		expired, err := env.fixtures.CreateTestJob("Expired Role")
		require.NoError(t, err)
		expired.ApplicationDeadline = utils.ToPtr(testStart.Add(-time.Minute))
		require.NoError(t, env.jobs.Update(ctx, expired))

		for _, job := range []*models.JobPosting{closed, expired} {
			_, err := flow.Submit(ctx, submitRequest(job, "jamie@example.com"))
			requireCode(t, err, "JOB_NOT_ACCEPTING")
			assert.True(t, businessflow.IsJobNotAccepting(err))
		}

		count, err := env.apps.Count(ctx, models.ApplicationFilter{})
		require.NoError(t, err)
		assert.Zero(t, count)

		return nil
	})
	require.NoError(t, err)
}

func TestApplicationSubmit_MailerFailure(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		env.mailer.Err = errors.New("smtp unavailable")
		flow := newApplicationFlow(env)
		ctx := context.Background()

		job, err := env.fixtures.CreateTestJob("Producer")
		require.NoError(t, err)

		resp, err := flow.Submit(ctx, submitRequest(job, "jamie@example.com"))
		require.NoError(t, err)
		env.notifier.Wait()

		stored, err := env.apps.ByUUID(ctx, resp.UUID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Len(t, env.mailer.Sent(), 2)

		return nil
	})
	require.NoError(t, err)
}

func TestApplicationUpdate(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		flow := newApplicationFlow(env)
		ctx := context.Background()

		reviewer, err := env.fixtures.CreateTestAdmin("reviewer", models.AdminRoleAdmin)
		require.NoError(t, err)
		job, err := env.fixtures.CreateTestJob("Gameplay Engineer")
		require.NoError(t, err)
		app, err := env.fixtures.CreateTestApplication(job, "jamie@example.com")
		require.NoError(t, err)
		id := app.UUID.String()

		t.Run("RequiresIdentity", func(t *testing.T) {
			_, err := flow.Update(ctx, nil, id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("reviewing")})
			requireCode(t, err, "UNAUTHORIZED")
		})

		t.Run("InvalidStatus", func(t *testing.T) {
			_, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("archived")})
			assert.True(t, businessflow.IsValidationFailed(err))
		})

		t.Run("ReviewingIsSilent", func(t *testing.T) {
			out, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("reviewing")})
			require.NoError(t, err)
			assert.Equal(t, "reviewing", out.Status)

			env.notifier.Wait()
			assert.Empty(t, env.mailer.Sent())
		})

		t.Run("NotesOnlyKeepsReviewStamp", func(t *testing.T) {
			before, err := env.apps.ByID(ctx, app.ID)
			require.NoError(t, err)

			env.clock.Advance(time.Hour)
			out, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Notes: utils.ToPtr("  strong portfolio ")})
			require.NoError(t, err)
			require.NotNil(t, out.Notes)
			assert.Equal(t, "strong portfolio", *out.Notes)

			after, err := env.apps.ByID(ctx, app.ID)
			require.NoError(t, err)
			assert.True(t, before.ReviewedAt.Equal(*after.ReviewedAt))
		})

		t.Run("HiredStampsReviewerAndNotifiesOnce", func(t *testing.T) {
			env.mailer.Reset()
			env.clock.Advance(time.Hour)
			hiredAt := env.clock.Now()

			out, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("hired")})
			require.NoError(t, err)
			assert.Equal(t, "hired", out.Status)
			require.NotNil(t, out.ReviewedBy)
			assert.Equal(t, "reviewer", *out.ReviewedBy)

			stored, err := env.apps.ByID(ctx, app.ID)
			require.NoError(t, err)
			require.NotNil(t, stored.ReviewedByID)
			assert.Equal(t, reviewer.ID, *stored.ReviewedByID)
			require.NotNil(t, stored.ReviewedAt)
			assert.True(t, stored.ReviewedAt.Equal(hiredAt))

			env.notifier.Wait()
			sent := env.mailer.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, "jamie@example.com", sent[0].To)
			assert.Contains(t, sent[0].Body, "Gameplay Engineer")
		})

		t.Run("HiredPersistsWhenMailerFails", func(t *testing.T) {
			_, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("shortlisted")})
			require.NoError(t, err)
			env.notifier.Wait()

			env.mailer.Reset()
			env.mailer.Err = errors.New("smtp unavailable")
			defer func() { env.mailer.Err = nil }()

			out, err := flow.Update(ctx, identityOf(reviewer), id, &dto.UpdateApplicationRequest{Status: utils.ToPtr("hired")})
			require.NoError(t, err)
			assert.Equal(t, "hired", out.Status)

			stored, err := env.apps.ByID(ctx, app.ID)
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStatusHired, stored.Status)

			env.notifier.Wait()
			assert.Len(t, env.mailer.SentTo("jamie@example.com"), 1)
		})

		t.Run("NotFound", func(t *testing.T) {
			_, err := flow.Update(ctx, identityOf(reviewer), uuid.NewString(), &dto.UpdateApplicationRequest{Status: utils.ToPtr("hired")})
			requireCode(t, err, "APPLICATION_NOT_FOUND")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestApplicationExport(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		flow := newApplicationFlow(env)
		ctx := context.Background()

		job, err := env.fixtures.CreateTestJob("Senior Game Designer")
		require.NoError(t, err)
		for _, email := range []string{"a@example.com", "b@example.com"} {
			_, err := env.fixtures.CreateTestApplication(job, email)
			require.NoError(t, err)
		}

		filename, data, err := flow.ExportJobApplications(ctx, job.UUID.String())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, "applications_"))
		assert.True(t, strings.HasSuffix(filename, "_20260302.xlsx"))

		xl, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		rows, err := xl.GetRows(xl.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "name", rows[0][1])
		assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, []string{rows[1][2], rows[2][2]})

		t.Run("UnknownJob", func(t *testing.T) {
			_, _, err := flow.ExportJobApplications(ctx, uuid.NewString())
			requireCode(t, err, "JOB_NOT_FOUND")
		})

		return nil
	})
	require.NoError(t, err)
}
