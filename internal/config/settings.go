package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int64  `mapstructure:"token_ttl_hours"`
}

// ProcessorConfig selects and configures the generative provider used for
// question generation, transcription and feedback scoring.
type ProcessorConfig struct {
	Provider     string `mapstructure:"provider"` // "gemini" or "openai"
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	OpenAIModel  string `mapstructure:"openai_model"`
}

type SpeechConfig struct {
	TTSBaseURL string  `mapstructure:"tts_base_url"`
	Voice      string  `mapstructure:"voice"`
	Rate       float32 `mapstructure:"rate"`
	Pitch      float32 `mapstructure:"pitch"`
}

// SessionConfig carries the per-question budgets of a live interview session.
type SessionConfig struct {
	AnswerBudgetSecs  int   `mapstructure:"answer_budget_secs"`
	InterviewTTLMins  int64 `mapstructure:"interview_ttl_mins"`
	QuestionCount     int   `mapstructure:"question_count"`
	MinAnswerChars    int   `mapstructure:"min_answer_chars"`
	CaptureBufferSize int   `mapstructure:"capture_buffer_size"`
}

func (s SessionConfig) AnswerBudget() int {
	if s.AnswerBudgetSecs <= 0 {
		return 300
	}
	return s.AnswerBudgetSecs
}

func (s SessionConfig) InterviewTTL() time.Duration {
	if s.InterviewTTLMins <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.InterviewTTLMins) * time.Minute
}

type Settings struct {
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Processor ProcessorConfig `mapstructure:"processor"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Session   SessionConfig   `mapstructure:"session"`
	Port      int             `mapstructure:"port"`
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug" default:"false"`
}

func Load() (*Settings, error) {
	// Load settings from a configuration file or environment variables
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
