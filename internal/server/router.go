package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/classbridge/classbridge-backend/internal/http/handlers"
	"github.com/classbridge/classbridge-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	HealthHandler      *handlers.HealthHandler
	ProfileHandler     *handlers.ProfileHandler
	SyllabusHandler    *handlers.SyllabusHandler
	NotesHandler       *handlers.NotesHandler
	AssignmentsHandler *handlers.AssignmentsHandler
	SubmissionsHandler *handlers.SubmissionsHandler
	ActivityHandler    *handlers.ActivityHandler
	RealtimeHandler    *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Profile
	protected.GET("/profile", cfg.ProfileHandler.GetMe)
	protected.PATCH("/profile", cfg.ProfileHandler.Update)
	protected.DELETE("/profile", cfg.ProfileHandler.DeleteAccount)

	// Syllabus
	protected.POST("/syllabus", cfg.SyllabusHandler.Upload)
	protected.GET("/syllabus", cfg.SyllabusHandler.List)
	protected.DELETE("/syllabus/:id", cfg.SyllabusHandler.Delete)

	// Notes
	protected.POST("/notes", cfg.NotesHandler.Upload)
	protected.GET("/notes", cfg.NotesHandler.List)
	protected.DELETE("/notes/:id", cfg.NotesHandler.Delete)

	// Assignments
	protected.POST("/assignments", cfg.AssignmentsHandler.Create)
	protected.GET("/assignments", cfg.AssignmentsHandler.List)
	protected.DELETE("/assignments/:id", cfg.AssignmentsHandler.Delete)
	protected.POST("/assignments/delete-expired", cfg.AssignmentsHandler.DeleteExpired)

	// Submissions
	protected.POST("/submissions", cfg.SubmissionsHandler.Submit)
	protected.GET("/submissions", cfg.SubmissionsHandler.ListMine)
	protected.GET("/submissions/subject", cfg.SubmissionsHandler.ListForSubject)
	protected.POST("/submissions/:id/grade", cfg.SubmissionsHandler.Grade)
	protected.DELETE("/submissions/:id", cfg.SubmissionsHandler.Delete)

	// Activity feed
	protected.GET("/activities", cfg.ActivityHandler.MyFeed)
	protected.GET("/activities/subject", cfg.ActivityHandler.SubjectFeed)
	protected.GET("/activities/recent", cfg.ActivityHandler.RecentFeed)

	// SSE
	protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
	protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)

	return router
}
