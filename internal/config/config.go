package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultPort matches the port the service has always listened on.
	DefaultPort = 5000
	// DefaultAuthHeader is the request header carrying the raw API key.
	DefaultAuthHeader = "api-key"
)

// DatabaseConfig holds the database connection information.
type DatabaseConfig struct {
	Type string `yaml:"type" validate:"required,oneof=sqlite postgres mysql"`
	DSN  string `yaml:"dsn" validate:"required"`
}

// AuthConfig controls how API keys are presented.
type AuthConfig struct {
	Header string `yaml:"header" validate:"required"`
}

// AdminConfig holds configuration for the admin panel.
// The admin routes are disabled when no password is set.
type AdminConfig struct {
	Password string `yaml:"password"`
}

// Config holds the configuration for the record service.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Admin    AdminConfig    `yaml:"admin"`
	Port     int            `yaml:"port" validate:"min=1,max=65535"`
	Debug    bool           `yaml:"debug"`
}

// LoadConfig reads and parses the configuration file. It returns the config and a potential warning message.
var LoadConfig = func(path string) (*Config, string, error) {
	var config Config
	var warnings []string

	// A missing .env is the normal case outside of local development.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err == nil {
		err = yaml.Unmarshal(data, &config)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}
	// If file does not exist, we continue with an empty config and rely on environment variables.

	warnings = append(warnings, applyEnvOverrides(&config)...)

	if config.Port == 0 {
		config.Port = DefaultPort
		warnings = append(warnings, fmt.Sprintf("port not set, using default value of %d", DefaultPort))
	}
	if config.Auth.Header == "" {
		config.Auth.Header = DefaultAuthHeader
	}
	if config.Admin.Password == "" {
		warnings = append(warnings, "admin.password not set, admin routes are disabled")
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, strings.Join(warnings, "; "), nil
}

// applyEnvOverrides lets environment variables take precedence over the file.
// Values that cannot be parsed are ignored and reported as warnings.
func applyEnvOverrides(config *Config) []string {
	var warnings []string
	// DATABASE_URL is what older deployments were configured with.
	if url := os.Getenv("DATABASE_URL"); url != "" && config.Database.DSN == "" {
		config.Database.DSN = url
		if config.Database.Type == "" {
			config.Database.Type = "postgres"
		}
	}
	if dsn := os.Getenv("RECORDKEEPER_DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}
	if dbType := os.Getenv("RECORDKEEPER_DATABASE_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if port := os.Getenv("RECORDKEEPER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		} else {
			warnings = append(warnings, fmt.Sprintf("RECORDKEEPER_PORT %q is not a number, ignoring it", port))
		}
	}
	if header := os.Getenv("RECORDKEEPER_AUTH_HEADER"); header != "" {
		config.Auth.Header = header
	}
	if password := os.Getenv("RECORDKEEPER_ADMIN_PASSWORD"); password != "" {
		config.Admin.Password = password
	}
	if debug := os.Getenv("RECORDKEEPER_DEBUG"); debug != "" {
		config.Debug = (debug == "true")
	}
	return warnings
}
