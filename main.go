package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"couple-diary-system/handlers"
	"couple-diary-system/models"
	"couple-diary-system/services"
	"couple-diary-system/utils"
	"couple-diary-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 2 * 1024 * 1024, // JSON bodies plus the odd SVG upload
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Encounter{},
		&models.EncounterRating{},
		&models.ProposedEncounter{},
		&models.Comment{},
		&models.Message{},
		&models.Notification{},
		&models.UserStats{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.PositionIcon{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	dispatcher := services.NewDispatcherFromEnv()
	authService := services.NewAuthService(db, jwtSecret)
	notificationService := services.NewNotificationService(db, dispatcher)
	gamificationService := services.NewGamificationService(db)
	challengeService := services.NewChallengeService(db, gamificationService, notificationService)
	partnerService := services.NewPartnerService(db, notificationService, gamificationService)
	encounterService := services.NewEncounterService(db, gamificationService, notificationService, challengeService)
	socialService := services.NewSocialService(db, gamificationService, notificationService)

	if err := gamificationService.SeedCatalogs(); err != nil {
		log.Fatal("failed to seed achievement/challenge catalogs:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reminderWorker := workers.NewStreakReminderWorker(db, notificationService)
	reminderWorker.Start(ctx)

	challengeService.StartWeeklyScheduler()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupPartnerRoutes(app, authService, partnerService)
	handlers.SetupEncounterRoutes(app, authService, encounterService)
	handlers.SetupSocialRoutes(app, authService, socialService)
	handlers.SetupNotificationRoutes(app, authService, notificationService)
	handlers.SetupGamificationRoutes(app, authService, gamificationService, challengeService)
	handlers.SetupAdminRoutes(app, authService, db)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Streak Reminder Worker running")
	log.Println("✅ Weekly challenge scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
