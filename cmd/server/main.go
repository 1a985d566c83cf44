package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forgefit/coach-engine/internal/api"
	"forgefit/coach-engine/internal/config"
	"forgefit/coach-engine/internal/flags"
	"forgefit/coach-engine/internal/generation"
	"forgefit/coach-engine/internal/repository/mongo"
	"forgefit/coach-engine/internal/service"
	"forgefit/coach-engine/internal/storage"
	"forgefit/coach-engine/internal/validation"
	"forgefit/coach-engine/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coach Engine Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureGenerationJobIndexes(ctx, appDB.Collection("generation_jobs"))
		mongo.EnsureFeatureFlagIndexes(ctx, appDB.Collection("feature_flags"))
		mongo.EnsureFlagOverrideIndexes(ctx, appDB.Collection("user_flag_overrides"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Artifact Archive ---
	var archive storage.ArtifactArchive
	if cfg.Archive.BucketName != "" {
		log.Println("Initializing artifact archive...")
		archive, err = storage.NewS3Archive(cfg.Archive)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 archive: %v", err)
		}
	} else {
		log.Println("No archive bucket configured; program export disabled.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	jobRepo := mongo.NewMongoGenerationJobRepository(appDB)
	flagRepo := mongo.NewMongoFeatureFlagRepository(appDB)
	overrideRepo := mongo.NewMongoFlagOverrideRepository(appDB)

	// --- Initialize Core Components ---
	log.Println("Initializing services...")
	flagRouter := flags.NewRouter(flagRepo, overrideRepo)
	generator := generation.NewHTTPGenerator(cfg.Generator)
	guardian := validation.NewGuardian(cfg.Validator)
	retryPolicy := generation.RetryPolicy{
		MaxAttempts: cfg.Generator.MaxAttempts,
		BaseDelay:   cfg.Generator.BaseDelay,
		Multiplier:  cfg.Generator.BackoffMultiplier,
	}

	dispatcher := worker.NewDispatcher(cfg.Worker)
	generationService := service.NewGenerationService(jobRepo, flagRouter, generator, guardian, archive, dispatcher, retryPolicy)
	flagService := service.NewFlagService(flagRepo, overrideRepo)

	// --- Start Background Workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx, generationService)
	watchdog := worker.NewWatchdog(jobRepo, cfg.Worker)
	go watchdog.Start(workerCtx)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, generationService, flagService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	// Let in-flight generation work finish before tearing down.
	dispatcher.Stop()
	cancelWorkers()

	log.Println("Server exiting.")
}
