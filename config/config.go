package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisHistoryDB int    `mapstructure:"REDIS_HISTORY_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`
	HistoryWindow  int    `mapstructure:"HISTORY_WINDOW"`

	// Language model configuration.
	LLMProvider    string        `mapstructure:"LLM_PROVIDER"`
	LLMModel       string        `mapstructure:"LLM_MODEL"`
	LLMTimeout     time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMTemperature float32       `mapstructure:"LLM_TEMPERATURE"`
	GeminiAPIKey   string        `mapstructure:"GEMINI_API_KEY"`
	GroqAPIKey     string        `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL    string        `mapstructure:"GROQ_BASE_URL"`

	// Retrieval configuration.
	EmbeddingModel      string `mapstructure:"EMBEDDING_MODEL"`
	VectorIndex         string `mapstructure:"VECTOR_INDEX"`
	VectorNumCandidates int    `mapstructure:"VECTOR_NUM_CANDIDATES"`
	IngestAsync         bool   `mapstructure:"INGEST_ASYNC"`
}

var AppConfig Config

// defaults is the single table of recognized keys and their default values.
var defaults = map[string]interface{}{
	"APP_PORT":              "8080",
	"ENV":                   "development",
	"LOG_LEVEL":             "info",
	"MAX_REQUESTS_PER_MIN":  100,
	"DATABASE_URL":          "mongodb://localhost:27017",
	"DATABASE_NAME":         "ragchat",
	"JWT_SECRET":            "",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_HISTORY_DB":      0,
	"REDIS_QUEUE_DB":        1,
	"HISTORY_WINDOW":        20,
	"LLM_PROVIDER":          "gemini",
	"LLM_MODEL":             "",
	"LLM_TIMEOUT":           "30s",
	"LLM_TEMPERATURE":       0.2,
	"GEMINI_API_KEY":        "",
	"GROQ_API_KEY":          "",
	"GROQ_BASE_URL":         "https://api.groq.com/openai/v1",
	"EMBEDDING_MODEL":       "text-embedding-004",
	"VECTOR_INDEX":          "chunk_vector_index",
	"VECTOR_NUM_CANDIDATES": 100,
	"INGEST_ASYNC":          true,
}

// Load builds a Config from the given viper instance. Callers that need an
// isolated configuration (tests, tools) pass a fresh viper.New().
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.applyModelDefaults()
	return cfg, nil
}

// LoadConfig populates AppConfig from the global viper instance.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func (c *Config) applyModelDefaults() {
	if c.LLMModel != "" {
		return
	}
	switch c.LLMProvider {
	case "groq":
		c.LLMModel = "llama-3.3-70b-versatile"
	default:
		c.LLMModel = "gemini-1.5-pro"
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
