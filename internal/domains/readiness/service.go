// Package readiness runs dependency diagnostics for the database, cache,
// processor credentials and the speech endpoint.
package readiness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/pkg/Logger"
	"gorm.io/gorm"
)

// Check is one diagnostic result.
type Check struct {
	Name    string `json:"name"`
	Pass    bool   `json:"pass"`
	Message string `json:"message"`
}

// Report is the full diagnostic output.
type Report struct {
	Checks    []Check   `json:"checks"`
	CheckedAt time.Time `json:"checked_at"`
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as plain text, one line per check.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Service runs readiness diagnostics against the live dependencies.
type Service interface {
	Run(ctx context.Context) Report
}

type service struct {
	cfg    *config.Settings
	db     *gorm.DB
	redis  *redis.Client
	client *http.Client
	logger *Logger.Logger
}

func NewService(cfg *config.Settings, db *gorm.DB, redisClient *redis.Client, logger *Logger.Logger) Service {
	return &service{
		cfg:    cfg,
		db:     db,
		redis:  redisClient,
		client: &http.Client{Timeout: 2 * time.Second},
		logger: logger,
	}
}

func (s *service) Run(ctx context.Context) Report {
	checks := []Check{
		s.checkDB(ctx),
		s.checkRedis(),
		s.checkProcessor(),
		s.checkSpeech(ctx),
	}
	report := Report{Checks: checks, CheckedAt: time.Now()}
	if !report.OK() {
		s.logger.Warnf("readiness degraded:\n%s", report.String())
	}
	return report
}

func (s *service) checkDB(ctx context.Context) Check {
	if s.db == nil {
		return Check{Name: "database", Pass: false, Message: "no database connection"}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return Check{Name: "database", Pass: false, Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Check{Name: "database", Pass: false, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	stats := sqlDB.Stats()
	return Check{Name: "database", Pass: true, Message: fmt.Sprintf("%d open connections", stats.OpenConnections)}
}

func (s *service) checkRedis() Check {
	if s.redis == nil {
		return Check{Name: "redis", Pass: false, Message: "no redis connection"}
	}
	if err := s.redis.Ping().Err(); err != nil {
		return Check{Name: "redis", Pass: false, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return Check{Name: "redis", Pass: true, Message: "pong"}
}

func (s *service) checkProcessor() Check {
	provider := strings.TrimSpace(s.cfg.Processor.Provider)
	switch provider {
	case "", "gemini":
		if strings.TrimSpace(s.cfg.Processor.GeminiAPIKey) == "" {
			return Check{Name: "processor", Pass: false, Message: "gemini api key is empty"}
		}
		return Check{Name: "processor", Pass: true, Message: "gemini key configured"}
	case "openai":
		if strings.TrimSpace(s.cfg.Processor.OpenAIAPIKey) == "" {
			return Check{Name: "processor", Pass: false, Message: "openai api key is empty"}
		}
		return Check{Name: "processor", Pass: true, Message: "openai key configured"}
	default:
		return Check{Name: "processor", Pass: false, Message: fmt.Sprintf("unknown provider %q", provider)}
	}
}

// checkSpeech probes the speech endpoint. A session can still run with speech
// down, so the endpoint being unset passes with a note.
func (s *service) checkSpeech(ctx context.Context) Check {
	base := strings.TrimSpace(s.cfg.Speech.TTSBaseURL)
	if base == "" {
		return Check{Name: "speech", Pass: true, Message: "speech endpoint not configured, playback disabled"}
	}

	url := strings.TrimRight(base, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Check{Name: "speech", Pass: false, Message: err.Error()}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Check{Name: "speech", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "speech", Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url)}
	}
	return Check{Name: "speech", Pass: true, Message: fmt.Sprintf("ready at %s", url)}
}
