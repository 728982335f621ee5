// Package server contains HTTP and WebSocket handlers for the community API.
package server

import (
	"context"
	"fmt"
	"time"

	_ "studentvoice/docs" // swagger docs
	"studentvoice/internal/auth"
	"studentvoice/internal/bootstrap"
	"studentvoice/internal/config"
	"studentvoice/internal/featureflags"
	"studentvoice/internal/gateway/facepp"
	"studentvoice/internal/gateway/gemini"
	"studentvoice/internal/middleware"
	"studentvoice/internal/models"
	"studentvoice/internal/notifications"
	"studentvoice/internal/repository"
	"studentvoice/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tokens         *auth.Manager
	limiter        *middleware.RateLimiter
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager

	postService         *service.PostService
	commentService      *service.CommentService
	userService         *service.UserService
	pointsService       *service.PointsService
	mentorService       *service.MentorService
	verificationService *service.VerificationService
	scheduleService     *service.ScheduleService
	surveyService       *service.SurveyService
}

// Option overrides an outbound gateway, mainly for tests.
type Option func(*gateways)

type gateways struct {
	generator service.TextGenerator
	faces     service.FaceComparer
}

// WithTextGenerator replaces the Gemini client used by the mentor.
func WithTextGenerator(g service.TextGenerator) Option {
	return func(gw *gateways) { gw.generator = g }
}

// WithFaceComparer replaces the Face++ client used for verification.
func WithFaceComparer(f service.FaceComparer) Option {
	return func(gw *gateways) { gw.faces = f }
}

// NewServer connects the database and Redis, then builds the server.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemo})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient, opts...)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, token revocation and pub/sub are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires config and database")
	}

	gw := gateways{
		generator: gemini.New(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		}),
		faces: facepp.New(facepp.Config{
			APIKey:     cfg.FaceppAPIKey,
			APISecret:  cfg.FaceppAPISecret,
			CompareURL: cfg.FaceppCompareURL,
		}),
	}
	for _, opt := range opts {
		opt(&gw)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)

	tokens := auth.NewManager(cfg.JWTSecret)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("studentvoice-api"),
		tokens:         tokens,
		limiter:        middleware.NewRateLimiter(redisClient, cfg.Env),
		notifier:       notifications.NewNotifier(redisClient),
		hub:            notifications.NewHub(),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),

		postService:         service.NewPostService(postRepo, pointsRepo, redisClient),
		commentService:      service.NewCommentService(commentRepo, postRepo, pointsRepo, redisClient),
		userService:         service.NewUserService(userRepo, pointsRepo, tokens),
		pointsService:       service.NewPointsService(pointsRepo),
		mentorService:       service.NewMentorService(gw.generator, mentorRepo, userRepo, pointsRepo),
		verificationService: service.NewVerificationService(gw.faces, userRepo, cfg.FaceMatchThreshold),
		scheduleService:     service.NewScheduleService(gw.generator, mentorRepo, scheduleRepo, userRepo, pointsRepo),
		surveyService:       service.NewSurveyService(surveyRepo, userRepo, pointsRepo, redisClient),
	}
	return server, nil
}

// NewApp builds a Fiber app with the API error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "StudentVoice API",
		BodyLimit: 12 * 1024 * 1024, // two base64 photos
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request, user and trace IDs into the request context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", middleware.OptionalAuth(s.tokens), s.GetFeatureFlags)

	required := middleware.AuthRequired(s.tokens, s.redis)

	// Users
	users := api.Group("/user")
	users.Post("/login", s.limiter.Handler("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	users.Post("/userlogin", s.limiter.Handler("register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	users.Post("/logout", required, s.Logout)
	users.Get("/getme", required, s.GetMe)
	users.Post("/verify", required, s.featureFlags.Require(featureflags.FlagFaceVerification),
		s.limiter.Handler("verify", 5, time.Hour, middleware.FailClosed), s.VerifyIdentity)

	// Posts and comments
	posts := api.Group("/post")
	posts.Get("/allpostlist", middleware.OptionalAuth(s.tokens), s.ListPosts)
	posts.Post("/postcreate", required,
		s.limiter.Handler("create_post", 10, time.Minute, middleware.FailOpen), s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Post("/:id/like", required, s.ToggleLike)
	posts.Get("/:id/comment", s.ListComments)
	posts.Post("/:id/comment", required,
		s.limiter.Handler("create_comment", 20, time.Minute, middleware.FailOpen), s.CreateComment)

	// AI mentor
	ai := api.Group("/ai", required, s.featureFlags.Require(featureflags.FlagAIMentor))
	ask := s.limiter.Handler("mentor", 20, time.Hour, middleware.FailOpen)
	ai.Post("/ask", ask, s.AskMentor)
	ai.Post("/ai-mentor", ask, s.AskMentor)
	ai.Get("/history", s.MentorHistory)
	ai.Post("/schedule", ask, s.CreateSchedule)
	ai.Get("/schedule", s.ListSchedules)
	ai.Delete("/schedule/:id", s.DeleteSchedule)

	// College surveys
	questions := api.Group("/questions")
	questions.Get("/allcollege", s.ListColleges)
	questions.Get("/", middleware.OptionalAuth(s.tokens), s.ListQuestions)
	questions.Get("/result/:college", s.SurveyResults)
	questions.Post("/:id/answer", required, s.AnswerQuestion)
	api.Get("/surveys", s.ListSurveys)

	api.Get("/points/:userId", s.GetPoints)

	// Realtime feed events
	api.Get("/ws", required, s.WebSocketFeedHandler())
}

// Start builds the app, wires the hub to Redis and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if err := s.StartRealtime(ctx); err != nil {
		middleware.Logger.Error("failed to start realtime wiring", "error", err)
	}

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// StartRealtime subscribes the hub to the Redis notifier until ctx ends.
// Without Redis events are delivered straight to the hub.
func (s *Server) StartRealtime(ctx context.Context) error {
	if !s.notifier.Enabled() {
		return nil
	}
	return s.hub.StartWiring(ctx, s.notifier)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", "hub", s.hub.Name(), "error", err)
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
