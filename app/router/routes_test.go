package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/studio-hiring-api/app/handlers"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	"github.com/amirphl/studio-hiring-api/app/router"
	"github.com/amirphl/studio-hiring-api/app/services"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/models"
	"github.com/amirphl/studio-hiring-api/repository"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	app      *fiber.App
	fixtures *testingutil.TestFixtures
	mailer   *testingutil.FakeMailer
	notifier services.NotificationService
}

func newTestServer(t *testing.T, db *testingutil.TestDB) *testServer {
	t.Helper()

	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)

	admins := repository.NewAdminRepository(db.DB, testingutil.TestBcryptCost)
	jobs := repository.NewJobPostingRepository(db.DB)
	apps := repository.NewApplicationRepository(db.DB)
	contacts := repository.NewContactLeadRepository(db.DB)

	tokens, err := services.NewTokenService(time.Hour, "studio-api", "studio-admin", false, "", "",
		"test-secret-key-for-jwt-signing-32-chars", nil)
	require.NoError(t, err)

	mailer := &testingutil.FakeMailer{}
	notifier, err := services.NewNotificationService(EventBus.New(), mailer, services.NotificationConfig{AdminEmail: "hiring@studio.test"}, quiet)
	require.NoError(t, err)

	authFlow := businessflow.NewAdminAuthFlow(admins, tokens, businessflow.AuthPolicy{BcryptCost: testingutil.TestBcryptCost}, nil)
	accountFlow := businessflow.NewAdminAccountFlow(admins)
	jobFlow := businessflow.NewJobFlow(jobs, nil, nil)
	appFlow := businessflow.NewApplicationFlow(apps, jobs, notifier, nil, nil)
	contactFlow := businessflow.NewContactFlow(contacts, notifier, nil, nil)
	dashboardFlow := businessflow.NewDashboardFlow(jobs, apps, contacts, nil, nil)

	r := router.NewFiberRouter(router.Config{Version: "test", DocsEnabled: true}, router.Handlers{
		Auth:        handlers.NewAdminAuthHandler(authFlow, handlers.CookieConfig{}),
		Account:     handlers.NewAdminAccountHandler(accountFlow, dashboardFlow),
		Job:         handlers.NewJobHandler(jobFlow, appFlow),
		Application: handlers.NewApplicationHandler(appFlow),
		Contact:     handlers.NewContactHandler(contactFlow),
	}, middleware.NewAuthMiddleware(authFlow))
	r.SetupRoutes()

	return &testServer{
		app:      r.GetApp(),
		fixtures: testingutil.NewTestFixtures(db),
		mailer:   mailer,
		notifier: notifier,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp, out := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": testingutil.TestPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, out.Message)

	var data struct {
		Session struct {
			Token string `json:"token"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	return data.Session.Token
}

func TestRoutes_PublicAndAuth(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		srv := newTestServer(t, db)

		_, err := srv.fixtures.CreateTestAdmin("root", models.AdminRoleSuperAdmin)
		require.NoError(t, err)
		_, err = srv.fixtures.CreateTestAdmin("editor", models.AdminRoleAdmin)
		require.NoError(t, err)

		t.Run("Health", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodGet, "/api/v1/health", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, out.Success)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})

		t.Run("LoginSetsHTTPOnlyCookie", func(t *testing.T) {
			resp, _ := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": "root",
				"password": testingutil.TestPassword,
			}, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var session *http.Cookie
			for _, c := range resp.Cookies() {
				if c.Name == utils.AdminTokenCookie {
					session = c
				}
			}
			require.NotNil(t, session)
			assert.True(t, session.HttpOnly)
			assert.NotEmpty(t, session.Value)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": "root",
				"password": "nope",
			}, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_CREDENTIALS", out.Error.Code)
		})

		t.Run("AdminRoutesNeedToken", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodGet, "/api/v1/admin/jobs", nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "TOKEN_MISSING", out.Error.Code)

			resp, out = srv.do(t, http.MethodGet, "/api/v1/admin/jobs", nil, "bogus")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "TOKEN_INVALID", out.Error.Code)
		})

		t.Run("BearerWinsOverStaleCookie", func(t *testing.T) {
			token := srv.login(t, "root")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/profile", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			req.AddCookie(&http.Cookie{Name: utils.AdminTokenCookie, Value: "stale"})
			resp, err := srv.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})

		t.Run("CookieAlone", func(t *testing.T) {
			token := srv.login(t, "root")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/profile", nil)
			req.AddCookie(&http.Cookie{Name: utils.AdminTokenCookie, Value: token})
			resp, err := srv.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/profile", nil)
			req.AddCookie(&http.Cookie{Name: utils.AdminTokenCookie, Value: "stale"})
			resp, err = srv.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})

		t.Run("AccountsAreSuperAdminOnly", func(t *testing.T) {
			editorToken := srv.login(t, "editor")
			resp, out := srv.do(t, http.MethodGet, "/api/v1/admin/accounts", nil, editorToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "FORBIDDEN", out.Error.Code)

			rootToken := srv.login(t, "root")
			resp, _ = srv.do(t, http.MethodGet, "/api/v1/admin/accounts", nil, rootToken)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})

		t.Run("UnknownRoute", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodGet, "/api/v1/nope", nil, "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", out.Error.Code)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRoutes_HiringLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		srv := newTestServer(t, db)

		_, err := srv.fixtures.CreateTestAdmin("root", models.AdminRoleSuperAdmin)
		require.NoError(t, err)
		token := srv.login(t, "root")

		resp, out := srv.do(t, http.MethodPost, "/api/v1/admin/jobs", map[string]any{
			"title":            "Tools Programmer",
			"department":       "Engineering",
			"location":         "Remote",
			"type":             "Full-time",
			"experience_level": "Senior",
			"description":      "Build the editor.",
			"requirements":     []string{"Go"},
			"benefits":         []string{"Remote"},
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, out.Message)

		var job struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &job))

		t.Run("PublicListing", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodGet, "/api/v1/jobs", nil, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(out.Data), "Tools Programmer")

			resp, _ = srv.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID, nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})

		application := map[string]any{
			"job_id":       job.ID,
			"name":         "Jamie Doe",
			"email":        "jamie@example.com",
			"resume_url":   "https://cv.example.com/jamie.pdf",
			"cover_letter": testingutil.ValidCoverLetter,
		}

		t.Run("SubmitApplication", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodPost, "/api/v1/applications", application, "")
			require.Equal(t, http.StatusCreated, resp.StatusCode, out.Message)

			resp, out = srv.do(t, http.MethodPost, "/api/v1/applications", application, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "DUPLICATE_APPLICATION", out.Error.Code)

			srv.notifier.Wait()
			assert.Len(t, srv.mailer.SentTo("jamie@example.com"), 1)
		})

		t.Run("ValidationErrorsListFields", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodPost, "/api/v1/contacts", map[string]any{"name": "S"}, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", out.Error.Code)
		})

		t.Run("DeleteJobCascades", func(t *testing.T) {
			resp, out := srv.do(t, http.MethodDelete, "/api/v1/admin/jobs/"+job.ID, nil, token)
			require.Equal(t, http.StatusOK, resp.StatusCode, out.Message)
			assert.JSONEq(t, `{"deleted_applications":1}`, string(out.Data))

			resp, _ = srv.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID, nil, "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRoutes_SwaggerDocumentCoversRoutes(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		srv := newTestServer(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/swagger.json", nil)
		resp, err := srv.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc struct {
			Swagger  string                    `json:"swagger"`
			BasePath string                    `json:"basePath"`
			Paths    map[string]map[string]any `json:"paths"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Equal(t, "2.0", doc.Swagger)
		assert.Equal(t, "/api/v1", doc.BasePath)

		for _, route := range srv.app.GetRoutes(true) {
			if route.Method == http.MethodHead || !strings.HasPrefix(route.Path, "/api/v1/") || route.Path == "/api/v1/swagger.json" {
				continue
			}
			path := strings.TrimSuffix(strings.TrimPrefix(route.Path, "/api/v1"), "/")
			path = strings.ReplaceAll(path, ":id", "{id}")
			ops, ok := doc.Paths[path]
			if assert.True(t, ok, "undocumented path %s", path) {
				assert.Contains(t, ops, strings.ToLower(route.Method), "undocumented %s %s", route.Method, path)
			}
		}

		return nil
	})
	require.NoError(t, err)
}
