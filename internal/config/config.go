package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Graph    GraphConfig    `yaml:"graph"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Rescan   RescanConfig   `yaml:"rescan"`
	Reply    ReplyConfig    `yaml:"reply"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// WebhookConfig holds the Graph webhook subscription settings
type WebhookConfig struct {
	VerifyToken string `yaml:"verify_token"`
}

// GraphConfig holds Facebook Graph API settings
type GraphConfig struct {
	BaseURL         string        `yaml:"base_url"`
	PageAccessToken string        `yaml:"page_access_token"`
	PageID          string        `yaml:"page_id"`
	Timeout         time.Duration `yaml:"timeout"`
}

// OpenAIConfig holds the optional reply generation model settings
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// RescanConfig controls the periodic post rescanner
type RescanConfig struct {
	CronSpec       string        `yaml:"cron_spec"`
	ActivityWindow time.Duration `yaml:"activity_window"`
}

// ReplyConfig controls the scheduled reply dispatcher
type ReplyConfig struct {
	DispatchInterval time.Duration `yaml:"dispatch_interval"`
	BatchSize        int           `yaml:"batch_size"`
}

// GetDSN builds a Postgres DSN from the database config
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "comment_sync",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
			DB:   0,
		},
		Graph: GraphConfig{
			BaseURL: "https://graph.facebook.com",
			Timeout: 10 * time.Second,
		},
		Rescan: RescanConfig{
			CronSpec:       "*/15 * * * *",
			ActivityWindow: 24 * time.Hour,
		},
		Reply: ReplyConfig{
			DispatchInterval: 10 * time.Second,
			BatchSize:        20,
		},
	}

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if p, err := strconv.Atoi(redisPort); err == nil {
			cfg.Redis.Port = p
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if verifyToken := os.Getenv("WEBHOOK_VERIFY_TOKEN"); verifyToken != "" {
		cfg.Webhook.VerifyToken = verifyToken
	}
	if token := os.Getenv("PAGE_ACCESS_TOKEN"); token != "" {
		cfg.Graph.PageAccessToken = token
	}
	if pageID := os.Getenv("PAGE_ID"); pageID != "" {
		cfg.Graph.PageID = pageID
	}
	if baseURL := os.Getenv("GRAPH_API_BASE_URL"); baseURL != "" {
		cfg.Graph.BaseURL = baseURL
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.OpenAI.APIKey = apiKey
	}
	if cronSpec := os.Getenv("RESCAN_CRON"); cronSpec != "" {
		cfg.Rescan.CronSpec = cronSpec
	}

	return cfg, nil
}
