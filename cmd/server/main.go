package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/mustaphalimar/prepilot/internal/config"
	"github.com/mustaphalimar/prepilot/internal/database"
	"github.com/mustaphalimar/prepilot/internal/handlers"
	"github.com/mustaphalimar/prepilot/internal/identity"
	"github.com/mustaphalimar/prepilot/internal/middleware"
	"github.com/mustaphalimar/prepilot/internal/services"
	"github.com/mustaphalimar/prepilot/internal/utils"
)

func main() {
	// Local development convenience; missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	app := newApp(cfg, db, verifier)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on %s (env=%s mode=%s)", cfg.Addr, cfg.Env, cfg.Mode)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// newVerifier picks the credential verifier for the configured provider.
func newVerifier(cfg *config.Config) (identity.Verifier, error) {
	switch cfg.IdentityProvider {
	case "authorizer":
		return identity.NewAuthorizerVerifier(cfg.AuthzClientID, cfg.AuthzURL, cfg.ClientOrigin)
	default:
		return identity.NewTokenVerifier(cfg.IdentitySecret), nil
	}
}

// newApp wires middleware, handlers, and routes.
func newApp(cfg *config.Config, db *gorm.DB, verifier identity.Verifier) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "prepilot",
		ErrorHandler: handlers.ErrorHandler(cfg.Env),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientOrigin,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	prometheus := fiberprometheus.New("prepilot")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	users := &services.UserService{DB: db}
	plans := &services.PlanService{DB: db}
	tasks := &services.TaskService{DB: db}

	healthHandler := &handlers.HealthHandler{
		Environment: cfg.Env,
		Version:     cfg.Version,
		StartedAt:   time.Now(),
	}
	webhookHandler := &handlers.WebhookHandler{
		DB:     db,
		Users:  users,
		Secret: cfg.WebhookSecret,
		Env:    cfg.Env,
	}
	userHandler := &handlers.UserHandler{Users: users}
	planHandler := &handlers.StudyPlanHandler{Plans: plans, Tasks: tasks}
	taskHandler := &handlers.StudyTaskHandler{Tasks: tasks, Plans: plans}

	bridge := &middleware.AuthBridge{Verifier: verifier, Users: users}

	// Liveness probe for load balancers; the real health check lives
	// under /v1.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	v1 := app.Group("/v1")
	v1.Get("/health", healthHandler.Status)
	v1.Post("/webhooks/identity", webhookHandler.Handle)

	if cfg.Mode == config.ModeDemo {
		// Production serves the waitlist surface; everything except
		// health answers 503.
		v1.Use(handlers.Waitlist())
	} else {
		v1.Use(bridge.Middleware())

		v1.Post("/user/initialize", middleware.RequireUser(), userHandler.Initialize)
		v1.Get("/user/profile", middleware.RequireUser(), userHandler.Profile)

		spg := v1.Group("/study-plans", middleware.RequireUser())
		spg.Get("/", planHandler.List)
		spg.Post("/", planHandler.Create)
		spg.Get("/:id", planHandler.Get)
		spg.Delete("/:id", planHandler.Delete)
		spg.Get("/:id/tasks", planHandler.ListTasks)

		stg := v1.Group("/study-tasks", middleware.RequireUser())
		stg.Get("/", taskHandler.List)
		stg.Post("/", taskHandler.Create)
		stg.Get("/:id", taskHandler.Get)
		stg.Put("/:id", taskHandler.Update)
		stg.Patch("/:id/status", taskHandler.UpdateStatus)
		stg.Delete("/:id", taskHandler.Delete)
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Resource not found")
	})

	return app
}
