package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dzemat-platform/cache"
	"dzemat-platform/handlers"
	"dzemat-platform/middleware"
	"dzemat-platform/models"
	"dzemat-platform/services"
	"dzemat-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatal("failed to build logger:", err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	return logger
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	logger := newLogger()
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL environment variable not set")
	}
	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		logger.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		logger.Fatal("failed to initialize R2 client", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Surfaces unique violations as gorm.ErrDuplicatedKey, which the
		// check-in path relies on.
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.ActivityLog{},
		&models.PointSettings{},
		&models.Badge{},
		&models.UserBadge{},
		&models.CertificateTemplate{},
		&models.UserCertificate{},
		&models.Event{},
		&models.EventRSVP{},
		&models.EventCheckIn{},
		&models.WorkGroup{},
		&models.WorkGroupMember{},
		&models.Task{},
		&models.Contribution{},
		&models.Announcement{},
		&models.Listing{},
		&models.Vaktija{},
		&models.Message{},
	); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if err := utils.EnsureUploadDir(); err != nil {
		logger.Fatal("failed to ensure upload dir", zap.Error(err))
	}

	feedCache := cache.New(logger)
	mailer := services.NewMailer(logger)

	badgeService := services.NewBadgeService(db, logger)
	pointsService := services.NewPointsService(db, logger, badgeService)
	taskService := services.NewTaskService(db, logger, pointsService)
	contributionService := services.NewContributionService(db, logger, pointsService)
	eventService := services.NewEventService(db, logger, pointsService)
	certificateService := services.NewCertificateService(db, logger, mailer)
	feedService := services.NewFeedService(db, feedCache, logger)
	pushService := services.NewPushService(db, logger)
	uploadService := services.NewUploadService(logger)
	announcementService := services.NewAnnouncementService(db, logger, pushService)
	authService := services.NewAuthService(db, logger, secret)
	vaktijaService := services.NewVaktijaService(db, logger)
	messageService := services.NewMessageService(db, logger)
	shopService := services.NewShopService(db, logger)

	announcementService.StartPublishScheduler()

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB, uploads are images only
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		logger.Warn("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Tenant-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Every request below this line runs in the context of exactly one
	// community.
	app.Use(middleware.TenantMiddleware(db, logger))

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupProfileRoutes(app, authService, secret)
	handlers.SetupPointsRoutes(app, pointsService, badgeService, secret)
	handlers.SetupCertificateRoutes(app, certificateService, pushService, secret)
	handlers.SetupEventRoutes(app, eventService, secret)
	handlers.SetupTaskRoutes(app, taskService, secret)
	handlers.SetupContributionRoutes(app, contributionService, secret)
	handlers.SetupFeedRoutes(app, feedService, secret)
	handlers.SetupAnnouncementRoutes(app, announcementService, secret)
	handlers.SetupShopRoutes(app, shopService, secret)
	handlers.SetupMessageRoutes(app, messageService, secret)
	handlers.SetupVaktijaRoutes(app, vaktijaService, secret)
	handlers.SetupUploadRoutes(app, uploadService, secret)

	app.Static("/uploads", "./uploads")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}
	logger.Info("🚀 dzemat platform listening", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
