package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hireloop/hireloop/config"
	"github.com/hireloop/hireloop/internal/api/handlers"
	"github.com/hireloop/hireloop/internal/api/middleware"
	"github.com/hireloop/hireloop/internal/api/routes"
	"github.com/hireloop/hireloop/internal/cache"
	"github.com/hireloop/hireloop/internal/events"
	"github.com/hireloop/hireloop/internal/logger"
	"github.com/hireloop/hireloop/internal/models"
	"github.com/hireloop/hireloop/internal/providers/llm"
	mongorepo "github.com/hireloop/hireloop/internal/repositories/mongo"
	pgrepo "github.com/hireloop/hireloop/internal/repositories/postgres"
	"github.com/hireloop/hireloop/internal/services"
	"github.com/hireloop/hireloop/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logg := logger.New()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	fmt.Println("MongoDB connected")

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.PostgresDB.AutoMigrate(&models.Candidate{}, &models.TranscriptEntry{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	fmt.Println("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	fmt.Println("Redis connected")

	ctx := context.Background()

	// LLM provider is optional; without it every service falls back to
	// its deterministic path.
	var provider llm.Provider
	if projectID := os.Getenv("GCP_PROJECT"); projectID != "" {
		p, err := llm.NewVertexGemini(ctx, projectID, os.Getenv("GCP_LOCATION"), os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("Vertex AI init error: %v", err)
		}
		defer p.Close()
		provider = p
		fmt.Println("Vertex AI connected")
	} else {
		logg.Warn("GCP_PROJECT not set, running with deterministic fallbacks only")
	}

	// Resume file archival is optional too.
	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		uploader = up
		fmt.Println("GCS connected")
	}

	interviewRepo := mongorepo.NewInterviewRepo(config.MongoDatabase())
	candidateRepo := pgrepo.NewCandidateRepo(config.PostgresDB)
	transcriptRepo := pgrepo.NewTranscriptRepo(config.PostgresDB)

	redisCache := cache.NewRedisCache(config.RedisClient)
	publisher := events.NewRedisPublisher(config.RedisClient)

	questionSvc := services.NewQuestionService(provider, logg)
	scoringSvc := services.NewScoringService(provider, logg)
	summarySvc := services.NewSummaryService(provider, logg)
	extractionSvc := services.NewExtractionService(provider, logg)

	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Interviews:  interviewRepo,
		Candidates:  candidateRepo,
		Transcripts: transcriptRepo,
		Questions:   questionSvc,
		Scorer:      scoringSvc,
		Aggregator:  summarySvc,
		Cache:       redisCache,
		Events:      publisher,
		Logger:      logg,
	})
	resumptionSvc := services.NewResumptionService(interviewRepo, redisCache, logg)
	candidateSvc := services.NewCandidateService(candidateRepo, extractionSvc, uploader, logg)

	r := gin.New()
	r.Use(middleware.RequestLogger(logg), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc, resumptionSvc),
		Candidate: handlers.NewCandidateHandler(candidateSvc),
		WS:        handlers.NewWSHandler(interviewSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
