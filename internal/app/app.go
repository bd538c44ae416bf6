package app

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/internal/domains/readiness"
	"github.com/xpanvictor/mockmate/internal/domains/user"
	"github.com/xpanvictor/mockmate/internal/models/processor"
	answerRepo "github.com/xpanvictor/mockmate/internal/repository/answer"
	interviewRepo "github.com/xpanvictor/mockmate/internal/repository/interview"
	userRepo "github.com/xpanvictor/mockmate/internal/repository/user"
	"github.com/xpanvictor/mockmate/internal/server"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"github.com/xpanvictor/mockmate/pkg/stt"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config      *config.Settings
	Logger      *Logger.Logger
	DB          *gorm.DB
	RC          *redis.Client
	Processor   processor.Processor
	Transcriber stt.Transcriber
	// repos
	UserRepo      user.UserRepository
	InterviewRepo interview.InterviewRepository
	AnswerRepo    answer.AnswerRepository
	ServerDeps    server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context) error {
	// 1. generative processor and transcriber
	factory := NewProcessorFactory(a.Config, a.Logger)

	p, err := factory.CreateProcessor(ctx)
	if err != nil {
		return err
	}
	a.Processor = p

	transcriber, err := factory.CreateTranscriber(ctx)
	if err != nil {
		return err
	}
	a.Transcriber = transcriber

	// 2. repositories
	a.UserRepo = userRepo.NewGormUserRepo(a.DB)
	a.InterviewRepo = interviewRepo.NewGormInterviewRepo(a.DB, a.RC, a.Config.Session.InterviewTTL())
	a.AnswerRepo = answerRepo.NewGormAnswerRepo(a.DB)

	// JWT settings from config
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}

	tokenTTLHours := a.Config.Auth.TokenTTLHours
	if tokenTTLHours == 0 {
		tokenTTLHours = 24
	}
	tokenTTL := time.Duration(tokenTTLHours) * time.Hour

	// 3. services
	userService := user.NewUserService(a.UserRepo, a.Logger, jwtSecret, tokenTTL)
	interviewService := interview.NewInterviewService(a.InterviewRepo, a.Processor, a.Logger, a.Config.Session.QuestionCount)
	answerService := answer.NewAnswerService(a.AnswerRepo, a.Processor, a.Logger)
	readinessService := readiness.NewService(a.Config, a.DB, a.RC, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		a.Config,
		a.Logger,
		userService,
		interviewService,
		answerService,
		readinessService,
		a.Transcriber,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases the processor and transcriber clients
func (a *App) Close() {
	if closer, ok := a.Processor.(interface{ Close() error }); ok {
		closer.Close()
	}
	if closer, ok := a.Transcriber.(interface{ Close() error }); ok {
		closer.Close()
	}
}
