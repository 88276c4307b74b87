package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

const startupTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := config.LoadSSMParameters(ctx, cfg); err != nil {
		fmt.Printf("Error loading SSM parameters: %v\n", err)
		os.Exit(1)
	}

	production := config.IsProduction(cfg)
	config.SetupLogger(config.GetString(cfg, "LOG_LEVEL", "info"), production)

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// gen_random_uuid() backs every uuid primary key
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		log.Fatal().Err(err).Msg("Error enabling pgcrypto extension")
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		if err := models.GenerateColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	if config.GetBool(cfg, "AUTO_MIGRATE", !production) {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		log.Info().Msg("Database schema migrated")
	}

	currentDB := database.New(db)

	svc, err := buildServices(ctx, cfg, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// postgresDSN prefers DATABASE_URL and otherwise assembles a DSN from the DB_* keys.
func postgresDSN(cfg map[string]string) string {
	if url := config.GetString(cfg, "DATABASE_URL", ""); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(cfg, "DB_HOST", "localhost"),
		config.GetString(cfg, "DB_USER", "postgres"),
		config.GetString(cfg, "DB_PASSWORD", ""),
		config.GetString(cfg, "DB_NAME", "portfolio"),
		config.GetString(cfg, "DB_PORT", "5432"),
		config.GetString(cfg, "DB_SSLMODE", "disable"),
	)
}

func openDatabase(cfg map[string]string) (*gorm.DB, error) {
	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(cfg),
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  postgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// List and dashboard reads go to the replica when one is configured.
	if replica := config.GetString(cfg, "DATABASE_REPLICA_URL", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Msg("Read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

func buildCache(ctx context.Context, cfg map[string]string) cache.Store {
	url := config.GetString(cfg, "REDIS_URL", "")
	if url == "" {
		return cache.NewNoop()
	}
	store, err := cache.NewRedis(ctx, url, "portfolio:")
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		return cache.NewNoop()
	}
	log.Info().Msg("Redis cache connected")
	return store
}

// buildImageHost returns a nil interface when S3 is not configured so the
// gallery service reports uploads as disabled.
func buildImageHost(ctx context.Context, cfg map[string]string) services.ImageHost {
	host, err := storage.NewS3ImageHost(ctx, storage.S3ConfigFrom(cfg))
	if err != nil {
		log.Warn().Err(err).Msg("S3 image hosting disabled")
		return nil
	}
	return host
}

func buildServices(ctx context.Context, cfg map[string]string, db database.Database) (api.Services, error) {
	secret := config.GetString(cfg, "JWT_SECRET", "")
	if secret == "" {
		return api.Services{}, fmt.Errorf("JWT_SECRET is required")
	}

	store := buildCache(ctx, cfg)
	settings := services.NewSettingsService(db.SettingsRepo(), store)
	notifier := services.NewEmailNotifier(cfg)

	auth := services.NewAuthService(db.UserRepo(), settings, secret,
		time.Duration(config.GetInt(cfg, "JWT_TTL_HOURS", 24))*time.Hour)

	adminEmail := strings.TrimSpace(config.GetString(cfg, "ADMIN_EMAIL", ""))
	adminPassword := config.GetString(cfg, "ADMIN_PASSWORD", "")
	if adminEmail != "" && adminPassword != "" {
		if err := auth.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
			return api.Services{}, fmt.Errorf("ensure admin user: %w", err)
		}
	}

	return api.Services{
		Stories:    services.NewStoryService(db.StoryRepo(), settings, store),
		Engagement: services.NewEngagementService(db.StoryRepo(), db.CommentRepo(), db.LikeRepo(), db.GalleryRepo(), settings, notifier),
		Moderation: services.NewModerationService(db.CommentRepo()),
		Gallery:    services.NewGalleryService(db.GalleryRepo(), settings, buildImageHost(ctx, cfg)),
		Settings:   settings,
		Auth:       auth,
		Dashboard:  services.NewDashboardService(db.StoryRepo(), db.CommentRepo(), db.LikeRepo(), db.GalleryRepo()),
		Database:   db,
	}, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
