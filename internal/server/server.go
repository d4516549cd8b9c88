// Package server contains HTTP and WebSocket handlers for the application's
// API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"identify/internal/cache"
	"identify/internal/config"
	"identify/internal/database"
	"identify/internal/featureflags"
	"identify/internal/middleware"
	"identify/internal/models"
	"identify/internal/notifications"
	"identify/internal/repository"
	"identify/internal/service"

	_ "identify/docs" // swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	userSvc    *service.UserService
	postSvc    *service.PostService
	commentSvc *service.CommentService
	mediaSvc   *service.MediaService

	notifier *notifications.Notifier
	hub      *notifications.Hub
	flags    *featureflags.Manager
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if _, err := database.ConnectRead(cfg); err != nil {
		return nil, fmt.Errorf("read replica connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	middleware.InitMiddleware(cfg)

	server := NewServerWithDeps(cfg, db, redisClient)
	return server, nil
}

// NewServerWithDeps wires a server from pre-built dependencies. Tests use
// this to swap in sqlite and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	server := &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		flags:  featureflags.NewManager(cfg.FeatureFlags),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	mediaSvc := service.NewMediaService(mediaRepo, cfg)
	server.mediaSvc = mediaSvc
	server.userSvc = service.NewUserService(userRepo, postRepo, commentRepo, mediaSvc, server.generateToken)
	server.postSvc = service.NewPostService(postRepo, labelRepo, mediaSvc, server.publishEvent)
	server.commentSvc = service.NewCommentService(commentRepo, postRepo, userRepo, server.flags, server.publishEvent)

	return server
}

// publishEvent pushes one activity event into Redis. Best effort.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishEvent(ctx, eventType, payload); err != nil {
		middleware.Logger.Warn("event publish failed", "event_type", eventType, "error", err)
	}
}

// SetupMiddleware configures the Fiber middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())

	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	prom := middleware.InitMetrics("identify-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(middleware.MetricsMiddleware(prom))

	// Global rate limit, per client IP.
	app.Use(limiter.New(limiter.Config{
		Max:        200,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.HealthLive)
	app.Get("/health/ready", s.HealthReady)

	// Uploaded media is served straight from disk.
	app.Static("/media", s.mediaSvc.UploadDir())

	api := app.Group("/api")

	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "IDentify API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/check-nickname", s.CheckNickname)
	auth.Get("/check-email", s.CheckEmail)

	posts := api.Group("/posts")
	posts.Get("/main", s.GetMainPosts)
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Get("/tag/:tagId", s.GetLabelPosts)
	posts.Post("/create", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:postId/comments", s.GetComments)
	posts.Post("/:postId/comments", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:postId", s.GetPost)

	comments := api.Group("/comments", middleware.AuthRequired)
	comments.Post("/:commentId/upvote", s.UpvoteComment)
	comments.Post("/:commentId/downvote", s.DownvoteComment)

	users := api.Group("/users")
	users.Get("/:userId/profile", s.GetProfile)
	users.Put("/:userId/profile", middleware.AuthRequired, s.UpdateProfile)
	users.Put("/:userId/profile-picture", middleware.AuthRequired, s.UpdateProfilePicture)
	users.Get("/:userId/mini", s.GetMiniProfile)
	users.Get("/:userId/nickname", s.GetNickname)

	ws := api.Group("/ws", middleware.WebSocketAuthRequired)
	ws.Get("/", s.WebsocketHandler())
}

// HealthLive reports process liveness.
func (s *Server) HealthLive(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
}

// HealthReady reports readiness of the database and Redis.
func (s *Server) HealthReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// generateToken creates a signed JWT for the given user.
func (s *Server) generateToken(userID uint, nickname string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"nickname": nickname,
		"iss":      "identify-api",
		"aud":      "identify-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks.
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// App builds a configured Fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "IDentify API",
		BodyLimit: 32 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fiberErr, ok := err.(*fiber.Error); ok {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// StartFeedWiring connects the live feed hub to the Redis subscriber.
func (s *Server) StartFeedWiring(ctx context.Context) {
	if s.hub == nil || s.notifier == nil {
		return
	}
	go func() {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			middleware.Logger.Error("feed hub wiring failed", "error", err)
		}
	}()
}

// Start wires the hub and serves until the listener fails.
func (s *Server) Start() error {
	app := s.App()
	s.StartFeedWiring(context.Background())

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully releases the server's resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Warn("feed hub shutdown", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Warn("closing sql db", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Warn("closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
