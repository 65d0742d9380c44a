package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	Analysis   AnalysisConfig
	Redis      RedisConfig
	LLM        LLMConfig
	RateLimit  RateLimitConfig
	Validation ValidationConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
	Development  bool
	AllowOrigins string
}

type CatalogConfig struct {
	// Path to a conditions JSON file. Empty selects the embedded catalog.
	Path string
}

type AnalysisConfig struct {
	TopN              int
	SessionTTLMinutes int
}

func (c AnalysisConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type ValidationConfig struct {
	MaxTextLength int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

// Load reads config.yaml (if any), then SYMPTOM_CHECKER_* environment
// variables. A local .env file is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/symptom-checker")

	v.SetEnvPrefix("SYMPTOM_CHECKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis.topN must be positive, got %d", c.Analysis.TopN)
	}
	if c.Analysis.SessionTTLMinutes <= 0 {
		return fmt.Errorf("analysis.sessionTTLMinutes must be positive, got %d", c.Analysis.SessionTTLMinutes)
	}
	if c.Validation.MaxTextLength <= 0 {
		return fmt.Errorf("validation.maxTextLength must be positive, got %d", c.Validation.MaxTextLength)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.development", false)
	v.SetDefault("server.allowOrigins", "*")

	v.SetDefault("catalog.path", "")

	v.SetDefault("analysis.topN", 3)
	v.SetDefault("analysis.sessionTTLMinutes", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.maxTokens", 800)
	v.SetDefault("llm.timeoutSec", 30)

	v.SetDefault("rateLimit.requestsPerMinute", 60)

	v.SetDefault("validation.maxTextLength", 5000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}
