package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the psyplex backend
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	History    HistoryConfig    `mapstructure:"history"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Services   ServicesConfig   `mapstructure:"services"`
	Session    SessionConfig    `mapstructure:"session"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// HistoryConfig controls the browsing-history ingestion pipeline.
// DBPath overrides the per-OS Chrome profile lookup; OutputDir is where
// history.csv / history.json and the annotated tables are written.
type HistoryConfig struct {
	DBPath    string `mapstructure:"db_path"`
	OutputDir string `mapstructure:"output_dir"`
}

func (h HistoryConfig) Validate() error {
	if strings.TrimSpace(h.OutputDir) == "" {
		return fmt.Errorf("history.output_dir must not be empty")
	}
	return nil
}

// ClassifierConfig points at the persisted URL classification model.
type ClassifierConfig struct {
	ModelPath string `mapstructure:"model_path"`
}

// LLMConfig contains chat and embedding provider settings
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"` // groq
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
	EmbeddingKey   string        `mapstructure:"embedding_key"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
}

func (l LLMConfig) Validate() error {
	if l.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be >= 0")
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2]")
	}
	return nil
}

// ServicesConfig names the external collaborator services
type ServicesConfig struct {
	UserAPIBase   string        `mapstructure:"user_api_base"`
	DomainAPIBase string        `mapstructure:"domain_api_base"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SessionConfig controls the chat session store
type SessionConfig struct {
	Store    string        `mapstructure:"store"` // inmemory or redis
	TTL      time.Duration `mapstructure:"ttl"`
	Capacity int           `mapstructure:"capacity"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

func (s SessionConfig) Validate() error {
	switch s.Store {
	case "", "inmemory", "redis":
	default:
		return fmt.Errorf("session.store must be inmemory or redis, got %q", s.Store)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("session.capacity must be > 0")
	}
	if s.Store == "redis" {
		if strings.TrimSpace(s.Redis.Addr) == "" {
			return fmt.Errorf("session.redis.addr required when session.store is redis")
		}
	}
	return nil
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("history.output_dir", "output")
	viper.SetDefault("classifier.model_path", "url_classifier_model.json")
	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("llm.model", "llama3-70b-8192")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.max_tokens", 512)
	viper.SetDefault("llm.timeout", 15*time.Second)
	viper.SetDefault("llm.embedding_model", "text-embedding-ada-002")
	viper.SetDefault("services.user_api_base", "http://localhost:3000/api")
	viper.SetDefault("services.domain_api_base", "http://localhost:8080")
	viper.SetDefault("services.timeout", 10*time.Second)
	viper.SetDefault("session.store", "inmemory")
	viper.SetDefault("session.ttl", 30*time.Minute)
	viper.SetDefault("session.capacity", 1000)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("PSYPLEX")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (PSYPLEX_*)

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: defaults plus env cover a full run.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.History.Validate(); err != nil {
		panic(err)
	}
	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Session.Validate(); err != nil {
		panic(err)
	}
	return &config
}
