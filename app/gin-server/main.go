package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mockmate/backend/config"
	"github.com/mockmate/backend/internal/api/handlers"
	"github.com/mockmate/backend/internal/api/routes"
	"github.com/mockmate/backend/internal/cache"
	"github.com/mockmate/backend/internal/logger"
	"github.com/mockmate/backend/internal/models"
	"github.com/mockmate/backend/internal/providers/llm"
	mongorepo "github.com/mockmate/backend/internal/repositories/mongo"
	pgrepo "github.com/mockmate/backend/internal/repositories/postgres"
	"github.com/mockmate/backend/internal/services"
	"github.com/mockmate/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	appCfg, err := config.LoadApp()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	l := logger.New()

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.PostgresDB.AutoMigrate(
		&models.User{},
		&models.InterviewResultRecord{},
		&models.CVFile{},
	); err != nil {
		log.Fatalf("PostgreSQL migration error: %v", err)
	}

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	ctx := context.Background()

	provider, err := llm.New(ctx, llm.Config{
		Provider:  appCfg.LLMProvider,
		APIKey:    appCfg.GeminiAPIKey,
		ProjectID: appCfg.GCPProject,
		Location:  appCfg.GCPLocation,
		Model:     appCfg.LLMModel,
	})
	if err != nil {
		log.Fatalf("LLM provider init error: %v", err)
	}
	defer provider.Close()

	// stores
	redisCache := cache.NewRedisCache(config.RedisClient)
	profiles := services.NewCVProfileStore(redisCache, appCfg.CVSessionTTL)
	sessions := mongorepo.NewSessionRepo(config.MongoDatabase(), appCfg.InterviewSessionTTL)
	results := pgrepo.NewResultsRepo(config.PostgresDB)
	users := pgrepo.NewUserRepo(config.PostgresDB)
	cvFiles := pgrepo.NewCVFileRepo(config.PostgresDB)

	// CV archival is optional; without a bucket uploads just skip it
	var uploader storage.Uploader
	if appCfg.GCSBucket != "" {
		gcsUp, err := storage.NewGCSUploader(ctx, appCfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcsUp.Close()
		uploader = gcsUp
	}

	// services
	evaluator := services.NewEvaluator(provider, sessions, results, l)
	interviewSvc := services.NewInterviewService(provider, profiles, sessions, results, evaluator, l)
	cvSvc := services.NewCVService(provider, profiles, cvFiles, uploader, l)
	authSvc := services.NewAuthService(users, appCfg.JWTSecret, appCfg.JWTExpiry)
	oauthSvc := services.NewOAuthService(users, authSvc, appCfg.GoogleOAuthID, appCfg.GoogleOAuthSecret, appCfg.GoogleOAuthRedirect)
	userSvc := services.NewUserService(results, users, provider, l)

	r := gin.New()
	r.Use(gin.Recovery())

	routes.Register(r, routes.Deps{
		Log:         l,
		JWTSecret:   appCfg.JWTSecret,
		LLMProvider: appCfg.LLMProvider,
		Interview:   handlers.NewInterviewHandler(interviewSvc),
		CV:          handlers.NewCVHandler(cvSvc),
		Auth:        handlers.NewAuthHandler(authSvc, oauthSvc),
		User:        handlers.NewUserHandler(userSvc),
	})

	l.WithField("port", appCfg.Port).Info("server starting")
	if err := r.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
