package readiness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/mockmate/internal/config"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

func testSettings() *config.Settings {
	return &config.Settings{
		Processor: config.ProcessorConfig{Provider: "gemini", GeminiAPIKey: "key"},
	}
}

func findCheck(t *testing.T, report Report, name string) Check {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("no check named %s in %+v", name, report.Checks)
	return Check{}
}

func TestReportDegradedWithoutConnections(t *testing.T) {
	svc := NewService(testSettings(), nil, nil, Logger.New(true))
	report := svc.Run(context.Background())

	assert.False(t, report.OK())
	assert.False(t, findCheck(t, report, "database").Pass)
	assert.False(t, findCheck(t, report, "redis").Pass)
}

func TestProcessorKeyChecks(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.ProcessorConfig
		pass bool
	}{
		{"gemini configured", config.ProcessorConfig{Provider: "gemini", GeminiAPIKey: "k"}, true},
		{"gemini missing key", config.ProcessorConfig{Provider: "gemini"}, false},
		{"default provider uses gemini", config.ProcessorConfig{GeminiAPIKey: "k"}, true},
		{"openai configured", config.ProcessorConfig{Provider: "openai", OpenAIAPIKey: "k"}, true},
		{"openai missing key", config.ProcessorConfig{Provider: "openai"}, false},
		{"unknown provider", config.ProcessorConfig{Provider: "llama"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &service{cfg: &config.Settings{Processor: tc.cfg}}
			check := svc.checkProcessor()
			assert.Equal(t, tc.pass, check.Pass, check.Message)
		})
	}
}

func TestSpeechCheckProbesHealthEndpoint(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	cfg := testSettings()
	cfg.Speech.TTSBaseURL = upstream.URL
	svc := NewService(cfg, nil, nil, Logger.New(true))

	check := svc.(*service).checkSpeech(context.Background())
	require.True(t, check.Pass, check.Message)
	assert.Equal(t, "/health", gotPath)
}

func TestSpeechCheckFailsOnServerError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	cfg := testSettings()
	cfg.Speech.TTSBaseURL = upstream.URL
	svc := NewService(cfg, nil, nil, Logger.New(true))

	check := svc.(*service).checkSpeech(context.Background())
	assert.False(t, check.Pass)
}

func TestSpeechUnsetPassesWithNote(t *testing.T) {
	svc := NewService(testSettings(), nil, nil, Logger.New(true))
	check := svc.(*service).checkSpeech(context.Background())
	assert.True(t, check.Pass)
}

func TestReportString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "database", Pass: true, Message: "2 open connections"},
		{Name: "redis", Pass: false, Message: "ping failed"},
	}}
	out := report.String()
	assert.Contains(t, out, "[OK] database")
	assert.Contains(t, out, "[FAIL] redis")
	assert.False(t, report.OK())
}
