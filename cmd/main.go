package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/classbridge/classbridge-backend/internal/db"
	"github.com/classbridge/classbridge-backend/internal/http/handlers"
	"github.com/classbridge/classbridge-backend/internal/middleware"
	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/realtime/bus"
	"github.com/classbridge/classbridge-backend/internal/repos"
	"github.com/classbridge/classbridge-backend/internal/server"
	"github.com/classbridge/classbridge-backend/internal/services"
	"github.com/classbridge/classbridge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	profileRepo := repos.NewProfileRepo(thePG, log)
	syllabusRepo := repos.NewSyllabusRepo(thePG, log)
	noteRepo := repos.NewNoteRepo(thePG, log)
	assignmentRepo := repos.NewAssignmentRepo(thePG, log)
	assignmentFileRepo := repos.NewAssignmentFileRepo(thePG, log)
	submissionRepo := repos.NewSubmissionRepo(thePG, log)
	activityRepo := repos.NewActivityRepo(thePG, log)

	// SSE hub and redis bus
	log.Info("Setting up SSE hub...")
	sseHub := realtime.NewSSEHub(log)
	sseBus, busErr := bus.NewRedisBus(log)
	if busErr != nil {
		log.Warn("Redis bus unavailable, falling back to local broadcast", "error", busErr)
		sseBus = nil
	} else {
		if fErr := sseBus.StartForwarder(context.Background(), sseHub.Broadcast); fErr != nil {
			log.Warn("Failed to start bus forwarder", "error", fErr)
		}
		defer sseBus.Close()
	}

	// Services
	log.Info("Setting up services...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	notifier := services.NewChangeNotifier(log, sseHub, sseBus)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, profileRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	profileService := services.NewProfileService(thePG, log, userRepo, userTokenRepo, profileRepo)
	activityService := services.NewActivityService(thePG, log, activityRepo, notifier)
	syllabusService := services.NewSyllabusService(thePG, log, syllabusRepo, bucketService, activityService, notifier)
	noteService := services.NewNoteService(thePG, log, noteRepo, bucketService, activityService, notifier)
	assignmentService := services.NewAssignmentService(thePG, log, assignmentRepo, assignmentFileRepo, submissionRepo, bucketService, activityService, notifier)
	submissionService := services.NewSubmissionService(thePG, log, submissionRepo, assignmentRepo, bucketService, activityService, notifier)

	// Handlers
	log.Info("Setting up handlers...")
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	syllabusHandler := handlers.NewSyllabusHandler(syllabusService)
	notesHandler := handlers.NewNotesHandler(noteService)
	assignmentsHandler := handlers.NewAssignmentsHandler(assignmentService)
	submissionsHandler := handlers.NewSubmissionsHandler(submissionService)
	activityHandler := handlers.NewActivityHandler(activityService)
	realtimeHandler := handlers.NewRealtimeHandler(log, sseHub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		HealthHandler:      healthHandler,
		ProfileHandler:     profileHandler,
		SyllabusHandler:    syllabusHandler,
		NotesHandler:       notesHandler,
		AssignmentsHandler: assignmentsHandler,
		SubmissionsHandler: submissionsHandler,
		ActivityHandler:    activityHandler,
		RealtimeHandler:    realtimeHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
