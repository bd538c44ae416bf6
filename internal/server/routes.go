package server

import (
	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/internal/domains/readiness"
	"github.com/xpanvictor/mockmate/internal/domains/user"
	"github.com/xpanvictor/mockmate/internal/handlers"
	"github.com/xpanvictor/mockmate/internal/handlers/websocket"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/stt"
)

// Dependencies carries everything the HTTP layer needs
type Dependencies struct {
	Configs          *config.Settings
	Logger           *Logger.Logger
	UserService      user.UserService
	InterviewService interview.InterviewService
	AnswerService    answer.AnswerService
	ReadinessService readiness.Service
	Transcriber      stt.Transcriber

	// set during route initialization, closed on shutdown
	SessionHandler *websocket.SessionHandler
}

func NewServerDependencies(
	cfg *config.Settings,
	logger *Logger.Logger,
	userService user.UserService,
	interviewService interview.InterviewService,
	answerService answer.AnswerService,
	readinessService readiness.Service,
	transcriber stt.Transcriber,
) Dependencies {
	return Dependencies{
		Configs:          cfg,
		Logger:           logger,
		UserService:      userService,
		InterviewService: interviewService,
		AnswerService:    answerService,
		ReadinessService: readinessService,
		Transcriber:      transcriber,
	}
}

// InitializeRoutes wires middleware and all route groups onto the engine.
// Returns the live session handler so the caller can close it on shutdown.
func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep *Dependencies) {
	r.Use(handlers.CORSMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))

	userHandler := handlers.NewUserHandler(dep.UserService, dep.Logger)
	interviewHandler := handlers.NewInterviewHandler(dep.InterviewService, dep.Logger)
	answerHandler := handlers.NewAnswerHandler(dep.AnswerService, dep.Logger)
	readinessHandler := handlers.NewReadinessHandler(dep.ReadinessService)
	sessionHandler := websocket.NewSessionHandler(
		dep.Logger,
		dep.InterviewService,
		dep.AnswerService,
		dep.UserService,
		dep.Transcriber,
		cfg,
	)
	dep.SessionHandler = sessionHandler

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", readinessHandler.Health)
	r.GET("/readiness", readinessHandler.Readiness)

	auth := r.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/refresh", userHandler.RefreshToken)
	}

	authed := r.Group("/")
	authed.Use(handlers.AuthMiddleware(dep.UserService, dep.Logger))
	{
		authed.GET("/user/profile", userHandler.GetProfile)

		authed.POST("/interviews", interviewHandler.Create)
		authed.GET("/interviews", interviewHandler.List)
		authed.GET("/interviews/:mockId", interviewHandler.Get)
		authed.DELETE("/interviews/:mockId", interviewHandler.Delete)
		authed.GET("/interviews/:mockId/feedback", answerHandler.Feedback)
	}

	// session transport authenticates via query token during the upgrade
	sessionHandler.RegisterRoutes(r)
}
