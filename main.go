package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"presale-backend/config"
	"presale-backend/handlers"
	"presale-backend/middleware"
	"presale-backend/models"
	"presale-backend/services"
	"presale-backend/utils"
	"presale-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error: ", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "presale-backend",
	})

	// First-touch attribution capture runs before everything else so the
	// cookie lands regardless of which page the visitor hits.
	app.Use(middleware.AttributionMiddleware(cfg))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Wallet-Address",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Referrer{},
		&models.Conversion{},
		&models.PresaleRoundMirror{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	referralService := services.NewReferralService(db, cfg)
	conversionService := services.NewConversionService(db, referralService)
	exportService := services.NewExportService(db)
	presaleService := services.NewPresaleService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PresaleReaderURL != "" {
		presaleSync := workers.NewPresaleSyncClient(db, cfg)
		go workers.PollRounds(ctx, presaleSync, cfg.PresalePollEvery)
	} else {
		log.Println("⚠️  PRESALE_READER_URL not set — round mirror disabled")
	}

	if cfg.SnapshotsEnabled() {
		if err := utils.InitR2(cfg); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		exportService.StartSnapshotScheduler()
	} else {
		log.Println("⚠️  R2 not configured — conversion snapshots disabled")
	}

	handlers.SetupReferralRoutes(app, referralService, conversionService)
	handlers.SetupPresaleRoutes(app, presaleService)
	handlers.SetupExportRoutes(app, exportService, cfg)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on %s", cfg.ListenAddr)
	log.Println("✅ Attribution middleware active (first-touch, 30-day cookie)")
	log.Printf("✅ CORS configured for origins: %s", cfg.AllowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
