package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Renderer struct {
		ChromeBin string `yaml:"chrome_bin" env:"RENDERER_CHROME_BIN"`
		Headless  bool   `yaml:"headless" env:"RENDERER_HEADLESS"`
		Timeout   string `yaml:"timeout" env:"RENDERER_TIMEOUT"`
		Paper     string `yaml:"paper" env:"RENDERER_PAPER"`
	} `yaml:"renderer"`

	Certificates struct {
		LeaveSeed    int `yaml:"leave_seed" env:"CERT_LEAVE_SEED"`
		BonafideSeed int `yaml:"bonafide_seed" env:"CERT_BONAFIDE_SEED"`
	} `yaml:"certificates"`

	School struct {
		Name        string `yaml:"name" env:"SCHOOL_NAME"`
		Trust       string `yaml:"trust" env:"SCHOOL_TRUST"`
		Address     string `yaml:"address" env:"SCHOOL_ADDRESS"`
		Board       string `yaml:"board" env:"SCHOOL_BOARD"`
		IndexNo     string `yaml:"index_no" env:"SCHOOL_INDEX_NO"`
		UDISE       string `yaml:"udise" env:"SCHOOL_UDISE"`
		Medium      string `yaml:"medium" env:"SCHOOL_MEDIUM"`
		Affiliation string `yaml:"affiliation" env:"SCHOOL_AFFILIATION"`
		Contact     string `yaml:"contact" env:"SCHOOL_CONTACT"`
	} `yaml:"school"`

	Import struct {
		// Aliases adds accepted source headers per canonical field name.
		Aliases map[string][]string `yaml:"aliases" env:"IMPORT_ALIASES"`
	} `yaml:"import"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadDotEnv(GetEnv("CERTDESK_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv exports the variables of an env file without overriding the real environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./storage"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "certdesk"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Renderer.Headless = true
	config.Renderer.Timeout = "30s"
	config.Renderer.Paper = "A4"

	config.Certificates.LeaveSeed = 1
	config.Certificates.BonafideSeed = 1
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Certificates.LeaveSeed < 1 || config.Certificates.BonafideSeed < 1 {
		return fmt.Errorf("certificate number seeds must be at least 1")
	}

	if _, err := time.ParseDuration(config.Renderer.Timeout); err != nil {
		return fmt.Errorf("invalid renderer timeout format: %w", err)
	}

	switch strings.ToUpper(config.Renderer.Paper) {
	case "A4", "LEGAL", "LETTER":
	default:
		return fmt.Errorf("unsupported paper size %q", config.Renderer.Paper)
	}

	return nil
}

// RendererTimeout returns the parsed renderer timeout
func (c *Config) RendererTimeout() time.Duration {
	d, err := time.ParseDuration(c.Renderer.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
