package config

import (
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL    string        `envconfig:"API_BASE_URL"   default:"http://localhost:5000"`
	APILoginPath  string        `envconfig:"API_LOGIN_PATH" default:"/api/auth/login"`
	APITimeout    time.Duration `envconfig:"API_TIMEOUT"    default:"0s"` // 0 disables the client timeout
	ConsolePort   string        `envconfig:"CONSOLE_PORT"   default:":8080"`
	LogLevel      string        `envconfig:"LOG_LEVEL"      default:"info"`
	Environment   string        `envconfig:"ENVIRONMENT"    default:"development"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"console_session"`
	FlashSecret   string        `envconfig:"FLASH_SECRET"   default:"change_me_flash_secret"`
	CORSOrigins   []string      `envconfig:"CORS_ORIGINS"`
	MaxUploadMB   int64         `envconfig:"MAX_UPLOAD_MB"  default:"5"`
}

var (
	config Config
	once   sync.Once
)

// LoadConfig reads .env (when present) and the process environment once.
// Invalid values are fatal: the console cannot start without a usable API origin.
func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		if err := config.Validate(); err != nil {
			logger.Fatalf("Configuration error: %v", err)
		}

		logger.Infof("Configuration loaded: API=%s, Port=%s, LogLevel=%s, Env=%s",
			config.APIBaseURL, config.ConsolePort, config.LogLevel, config.Environment)
	})
	return &config
}

// Validate checks the values envconfig cannot express with tags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &InvalidValueError{Key: "API_BASE_URL", Value: c.APIBaseURL}
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if !strings.HasPrefix(c.APILoginPath, "/") {
		return &InvalidValueError{Key: "API_LOGIN_PATH", Value: c.APILoginPath}
	}
	if c.APITimeout < 0 {
		return &InvalidValueError{Key: "API_TIMEOUT", Value: c.APITimeout.String()}
	}
	if c.MaxUploadMB <= 0 {
		return &InvalidValueError{Key: "MAX_UPLOAD_MB", Value: "must be positive"}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the multipart memory limit for the product form.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

type InvalidValueError struct {
	Key   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return "invalid value for " + e.Key + ": " + e.Value
}
