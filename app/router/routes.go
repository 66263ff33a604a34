// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/amirphl/studio-hiring-api/app/dto"
	"github.com/amirphl/studio-hiring-api/app/handlers"
	"github.com/amirphl/studio-hiring-api/app/middleware"
	"github.com/amirphl/studio-hiring-api/docs"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/swag"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown(timeout time.Duration) error
	GetApp() *fiber.App
}

// Config holds the transport settings the router needs
type Config struct {
	AppName         string
	Version         string
	AllowOrigins    []string
	GlobalRateLimit int
	AuthRateLimit   int
	RateWindow      time.Duration
	BodyLimit       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MetricsEnabled  bool
	MetricsPath     string
	AccessLog       bool
	DocsEnabled     bool
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "Studio Hiring API"
	}
	if c.GlobalRateLimit <= 0 {
		c.GlobalRateLimit = 300
	}
	if c.AuthRateLimit <= 0 {
		c.AuthRateLimit = 20
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = 1 * 1024 * 1024
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	return c
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth        handlers.AdminAuthHandlerInterface
	Account     handlers.AdminAccountHandlerInterface
	Job         handlers.JobHandlerInterface
	Application handlers.ApplicationHandlerInterface
	Contact     handlers.ContactHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      Config
	handlers Handlers
	auth     *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg Config, h Handlers, auth *middleware.AuthMiddleware) Router {
	cfg = cfg.withDefaults()
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		auth:     auth,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	if r.cfg.MetricsEnabled {
		r.app.Get(r.cfg.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")
	api.Get("/health", r.healthCheck)

	// API documentation (non-production only)
	if r.cfg.DocsEnabled {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		log.Info("API documentation enabled")
	}

	api.Use(rateLimiter(r.cfg.GlobalRateLimit, r.cfg.RateWindow, func(c fiber.Ctx) bool {
		return c.Path() == "/api/v1/health"
	}))

	// Public
	api.Get("/jobs", r.handlers.Job.ListPublic)
	api.Get("/jobs/:id", r.handlers.Job.GetPublic)
	api.Post("/applications", r.handlers.Application.Submit)
	api.Post("/contacts", r.handlers.Contact.Submit)

	// Auth endpoints with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(rateLimiter(r.cfg.AuthRateLimit, r.cfg.RateWindow, nil))
	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/logout", r.handlers.Auth.Logout)
	auth.Get("/verify", r.handlers.Auth.Verify)

	admin := api.Group("/admin", r.auth.AdminAuthenticate())
	admin.Get("/profile", r.handlers.Account.Profile)
	admin.Put("/profile", r.handlers.Account.UpdateProfile)
	admin.Get("/dashboard", r.handlers.Account.Dashboard)

	accounts := admin.Group("/accounts", middleware.RequireSuperAdmin())
	accounts.Get("/", r.handlers.Account.ListAccounts)
	accounts.Post("/", r.handlers.Account.CreateAccount)
	accounts.Patch("/:id/status", r.handlers.Account.SetAccountStatus)

	admin.Get("/jobs", r.handlers.Job.List)
	admin.Post("/jobs", r.handlers.Job.Create)
	admin.Get("/jobs/:id", r.handlers.Job.Get)
	admin.Put("/jobs/:id", r.handlers.Job.Update)
	admin.Delete("/jobs/:id", r.handlers.Job.Delete)
	admin.Get("/jobs/:id/applications/export", r.handlers.Job.ExportApplications)

	admin.Get("/applications", r.handlers.Application.List)
	admin.Get("/applications/stats", r.handlers.Application.Stats)
	admin.Get("/applications/:id", r.handlers.Application.Get)
	admin.Patch("/applications/:id", r.handlers.Application.Update)
	admin.Delete("/applications/:id", r.handlers.Application.Delete)

	admin.Get("/contacts", r.handlers.Contact.List)
	admin.Get("/contacts/stats", r.handlers.Contact.Stats)
	admin.Get("/contacts/:id", r.handlers.Contact.Get)
	admin.Patch("/contacts/:id", r.handlers.Contact.Update)
	admin.Delete("/contacts/:id", r.handlers.Contact.Delete)

	r.app.Use(r.notFoundHandler)

	log.Info("Routes configured successfully")
}

func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: generateRequestID,
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.WithFields(log.Fields{
				"error_type": "panic",
				"request_id": requestid.FromContext(c),
				"path":       c.Path(),
				"method":     c.Method(),
				"ip":         c.IP(),
			}).Errorf("Recovered from panic: %v", e)
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		ContentSecurityPolicy:     "default-src 'none'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-site",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	if len(r.cfg.AllowOrigins) > 0 {
		r.app.Use(cors.New(cors.Config{
			AllowOrigins: r.cfg.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Type",
				"Accept",
				"Authorization",
				"X-Requested-With",
				"X-Request-ID",
			},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           utils.CORSMaxAge,
		}))
	}

	if r.cfg.AccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","status":${status},"latency":"${latency}","bytes_out":${bytesSent}}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}))
	}

	if r.cfg.MetricsEnabled {
		r.app.Use(middleware.Metrics())
	}
}

func rateLimiter(max int, window time.Duration, next func(c fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error:   dto.ErrorDetail{Code: "RATE_LIMIT_EXCEEDED"},
			})
		},
		Next: next,
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.WithField("address", address).Info("Starting server")
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

func (r *FiberRouter) Shutdown(timeout time.Duration) error {
	return r.app.ShutdownWithTimeout(timeout)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Version,
		},
	})
}

func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		log.WithError(err).Error("Failed to render Swagger document")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error:   dto.ErrorDetail{Code: "SWAGGER_LOAD_ERROR"},
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// errorHandler catches errors that escape handlers, such as fiber routing errors
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"
	errCode := "INTERNAL_ERROR"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
		errCode = "HTTP_ERROR"
	}
	if code >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"error_type": errCode,
			"status":     code,
			"request_id": requestid.FromContext(c),
		}).WithError(err).Error("Unhandled request error")
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: errCode,
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(utils.UTCNow().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}
