package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	DBDriver       string        `env:"DB_DRIVER" env-default:"mysql"`
	DBHost         string        `env:"DB_HOST" env-default:"localhost"`
	DBPort         string        `env:"DB_PORT" env-default:"3306"`
	DBUser         string        `env:"DB_USER" env-default:"kanban"`
	DBPassword     string        `env:"DB_PASSWORD" env-default:"kanbanpassword"`
	DBName         string        `env:"DB_NAME" env-default:"kanban"`
	DBSSLMode      string        `env:"DB_SSLMODE" env-default:"disable"`
	RedisHost      string        `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort      string        `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	SessionSecret  string        `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`
	SessionStore   string        `env:"SESSION_STORE" env-default:"redis"`
	JWTSecret      string        `env:"JWT_SECRET" env-default:"default-jwt-secret-change-me"`
	JWTTTL         time.Duration `env:"JWT_TTL" env-default:"168h"`
	GinMode        string        `env:"GIN_MODE" env-default:"debug"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	Port           string        `env:"PORT" env-default:"8080"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"info"`
	AllowedOrigins string        `env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`

	NotifyWorkers       int    `env:"NOTIFY_WORKERS" env-default:"2"`
	NotifyBuffer        int    `env:"NOTIFY_BUFFER" env-default:"256"`
	NotifyMaxAttempts   int    `env:"NOTIFY_MAX_ATTEMPTS" env-default:"3"`
	NotifyChannelPrefix string `env:"NOTIFY_CHANNEL_PREFIX" env-default:"kanban:notifications"`

	TxMaxAttempts int `env:"TX_MAX_ATTEMPTS" env-default:"3"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "" {
		cfg.DBDriver = "mysql"
	}
	switch cfg.DBDriver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 1
	}
	if cfg.NotifyMaxAttempts <= 0 {
		cfg.NotifyMaxAttempts = 1
	}
	if cfg.TxMaxAttempts <= 0 {
		cfg.TxMaxAttempts = 1
	}

	return &cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost,
			c.DBPort,
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBSSLMode,
		)
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Origins splits ALLOWED_ORIGINS into a clean list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
