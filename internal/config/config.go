// Package config loads service configuration from an optional YAML file, a
// .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"cv-builder/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	App       AppConfig       `yaml:"app"`
	AI        AIConfig        `yaml:"ai"`
	Chrome    ChromeConfig    `yaml:"chrome"`
	Export    ExportConfig    `yaml:"export"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Logger    logger.Config   `yaml:"logger"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
	Port string `yaml:"port"`
}

// AIConfig selects the generative-text backend. An empty key or service URL
// is not a startup error: generation requests fail with a descriptive message.
type AIConfig struct {
	Provider       string  `yaml:"provider"` // gemini or chat
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	ServiceURL     string  `yaml:"service_url"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

type ChromeConfig struct {
	Path           string `yaml:"path"`
	MaxConcurrent  int    `yaml:"max_concurrent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ExportConfig struct {
	Sink        string `yaml:"sink"` // none, filesystem or minio
	Dir         string `yaml:"dir"`
	DatabaseURL string `yaml:"database_url"`
	Attempts    int    `yaml:"attempts"`
}

type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	BucketName      string `yaml:"bucket_name"`
	Location        string `yaml:"location"`
}

type RateLimitConfig struct {
	Max               int `yaml:"max"`
	ExpirationSeconds int `yaml:"expiration_seconds"`
}

func (c AIConfig) Timeout() time.Duration     { return time.Duration(c.TimeoutSeconds) * time.Second }
func (c ChromeConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSeconds) * time.Second }
func (c RateLimitConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationSeconds) * time.Second
}

func Default() *Config {
	return &Config{
		App: AppConfig{Name: "cv-builder", Env: "development", Port: "3000"},
		AI: AIConfig{
			Provider:       "gemini",
			Model:          "gemini-2.5-flash",
			ServiceURL:     "http://ai-service:8000",
			Temperature:    0.7,
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Chrome: ChromeConfig{MaxConcurrent: 2, TimeoutSeconds: 60},
		Export: ExportConfig{Sink: "none", Dir: "resume-data/generated", Attempts: 3},
		MinIO:  MinIOConfig{BucketName: "cv-exports"},
		Logger: logger.Config{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Max:               20,
			ExpirationSeconds: 60,
		},
	}
}

// Load builds the configuration. An empty path reads DefaultPath when it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	loaded   *Config
	loadErr  error
	loadOnce sync.Once
)

// Get loads .env and the configuration once per process.
func Get() (*Config, error) {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.Debug().Err(err).Msg("no .env file loaded")
		}
		loaded, loadErr = Load(os.Getenv("CONFIG_PATH"))
	})
	return loaded, loadErr
}

func (c *Config) applyEnv() error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	num := func(dst *int, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str(&c.App.Name, "APP_NAME")
	str(&c.App.Env, "APP_ENV")
	str(&c.App.Port, "APP_PORT", "PORT")

	str(&c.AI.Provider, "AI_PROVIDER")
	str(&c.AI.APIKey, "GEMINI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY")
	str(&c.AI.Model, "AI_MODEL")
	str(&c.AI.ServiceURL, "AI_SERVICE_URL")

	str(&c.Chrome.Path, "CHROME_PATH")
	if err := num(&c.Chrome.MaxConcurrent, "CHROME_MAX_CONCURRENT"); err != nil {
		return err
	}

	str(&c.Export.Sink, "EXPORT_SINK")
	str(&c.Export.Dir, "EXPORT_DIR")
	str(&c.Export.DatabaseURL, "EXPORTS_DATABASE_URL")

	str(&c.MinIO.Endpoint, "MINIO_ENDPOINT")
	str(&c.MinIO.AccessKeyID, "MINIO_ACCESS_KEY")
	str(&c.MinIO.SecretAccessKey, "MINIO_SECRET_KEY")
	str(&c.MinIO.BucketName, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		c.MinIO.UseSSL = b
	}

	str(&c.Logger.Level, "LOG_LEVEL")
	str(&c.Logger.Format, "LOG_FORMAT")
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.App.Port) == "" {
		problems = append(problems, "app.port is required")
	}
	switch c.AI.Provider {
	case "gemini", "chat":
	default:
		problems = append(problems, fmt.Sprintf("ai.provider %q must be gemini or chat", c.AI.Provider))
	}
	switch c.Export.Sink {
	case "none", "filesystem":
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.BucketName == "" {
			problems = append(problems, "minio.endpoint and minio.bucket_name are required for the minio sink")
		}
	default:
		problems = append(problems, fmt.Sprintf("export.sink %q must be none, filesystem or minio", c.Export.Sink))
	}
	if c.Chrome.MaxConcurrent < 1 {
		problems = append(problems, "chrome.max_concurrent must be at least 1")
	}
	if c.Export.Attempts < 1 {
		problems = append(problems, "export.attempts must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// ListenAddr is the fiber listen address for the configured port.
func (c *Config) ListenAddr() string {
	if strings.Contains(c.App.Port, ":") {
		return c.App.Port
	}
	return ":" + c.App.Port
}
