package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the service. Values come from the YAML file
// first, then environment variables override them.
type Config struct {
	Port           string        `yaml:"port"`
	GinMode        string        `yaml:"gin_mode"`
	DBDriver       string        `yaml:"db_driver"`
	DatabaseURL    string        `yaml:"database_url"`
	DBTimeout      time.Duration `yaml:"db_timeout"`
	DBMaxOpenConns int           `yaml:"db_max_open_conns"`
	JWTSecret      string        `yaml:"jwt_secret"`
	JWTTTL         time.Duration `yaml:"jwt_ttl"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RabbitMQURL    string        `yaml:"rabbitmq_url"`
	SeedFile       string        `yaml:"seed_file"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

const defaultConfigFile = "config.yaml"

func Default() *Config {
	return &Config{
		Port:           "8080",
		GinMode:        "debug",
		DBDriver:       "sqlite",
		DatabaseURL:    "quickserve.db",
		DBTimeout:      5 * time.Second,
		DBMaxOpenConns: 10,
		JWTTTL:         24 * time.Hour,
		CORSOrigins:    []string{"*"},
		SeedFile:       "seed.yaml",
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads .env (if present), the YAML file named by CONFIG_FILE (or
// config.yaml when it exists) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("GIN_MODE", &c.GinMode)
	str("DB_DRIVER", &c.DBDriver)
	str("DATABASE_URL", &c.DatabaseURL)
	str("JWT_SECRET", &c.JWTSecret)
	str("RABBITMQ_URL", &c.RabbitMQURL)
	str("SEED_FILE", &c.SeedFile)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup("CORS_ORIGIN"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORSOrigins = origins
	}

	durations := map[string]*time.Duration{"DB_TIMEOUT": &c.DBTimeout, "JWT_TTL": &c.JWTTTL}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{"DB_MAX_OPEN_CONNS": &c.DBMaxOpenConns, "RATE_LIMIT_BURST": &c.RateLimitBurst}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = f
	}
	return nil
}

// Validate checks the settings required to serve traffic.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	return nil
}

// Missing lists required settings that are unset, for the health endpoint.
func (c *Config) Missing() []string {
	missing := make([]string, 0)
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	return missing
}
