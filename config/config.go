// Package config loads the harness configuration from the environment, optionally seeded from a
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
)

const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// DefaultEnvFile is the file that Load reads by default. It is fine for it not to exist.
const DefaultEnvFile = ".env"

// Config is the effective configuration for a test run.
type Config struct {
	Env        string
	UIBaseURL  string
	APIBaseURL string
	Username   string
	Password   string

	CI       bool
	LogLevel string

	Browser           string
	Headless          bool
	SlowMo            time.Duration
	ViewportWidth     int
	ViewportHeight    int
	Locale            string
	TimezoneID        string
	IgnoreHTTPSErrors bool

	Workers int
	Retries int

	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	ExpectTimeout     time.Duration
	APITimeout        time.Duration

	DataDir   string
	LogDir    string
	ReportDir string
}

// envSpec is what envconfig fills in. Fields that default differently on CI are pointers, so we
// can tell whether they were set.
type envSpec struct {
	Env        string `envconfig:"ENV"`
	UIBaseURL  string `envconfig:"UI_BASE_URL"`
	APIBaseURL string `envconfig:"API_BASE_URL"`
	Username   string `envconfig:"TEST_USERNAME"`
	Password   string `envconfig:"TEST_PASSWORD"`

	CI       bool   `envconfig:"CI"`
	LogLevel string `envconfig:"LOG_LEVEL"`

	Browser  string        `envconfig:"BROWSER"`
	Headless *bool         `envconfig:"HEADLESS"`
	SlowMo   time.Duration `envconfig:"SLOW_MO"`
	Workers  *int          `envconfig:"WORKERS"`
	Retries  *int          `envconfig:"RETRIES"`

	DataDir   string `envconfig:"DATA_DIR"`
	LogDir    string `envconfig:"LOG_DIR"`
	ReportDir string `envconfig:"REPORT_DIR"`
}

func defaultSpec() envSpec {
	return envSpec{
		Env:        EnvStaging,
		UIBaseURL:  "http://localhost:5173",
		APIBaseURL: "http://localhost:3001",
		Username:   "admin",
		Password:   "admin123",
		LogLevel:   "info",
		Browser:    "chromium",
		DataDir:    "testdata",
		LogDir:     "logs",
		ReportDir:  "reports",
	}
}

// Default returns the configuration that Load would produce with an empty environment.
func Default() Config {
	return fromSpec(defaultSpec())
}

// Load reads envFile, if it exists, and then the environment through lookup. Values from the
// environment take precedence over values from the file. A nil lookup means os.LookupEnv.
func Load(envFile string, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	fileValues := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	spec := defaultSpec()
	err := envconfig.Process("", &spec, func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
	if err != nil {
		return Config{}, err
	}

	cfg := fromSpec(spec)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromSpec(spec envSpec) Config {
	cfg := Config{
		Env:        spec.Env,
		UIBaseURL:  spec.UIBaseURL,
		APIBaseURL: spec.APIBaseURL,
		Username:   spec.Username,
		Password:   spec.Password,
		CI:         spec.CI,
		LogLevel:   spec.LogLevel,

		Browser:           spec.Browser,
		Headless:          spec.CI,
		SlowMo:            spec.SlowMo,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		Locale:            "en-IN",
		TimezoneID:        "Asia/Kolkata",
		IgnoreHTTPSErrors: true,

		Workers: runtime.NumCPU(),

		ActionTimeout:     15 * time.Second,
		NavigationTimeout: 30 * time.Second,
		ExpectTimeout:     10 * time.Second,
		APITimeout:        30 * time.Second,

		DataDir:   spec.DataDir,
		LogDir:    spec.LogDir,
		ReportDir: spec.ReportDir,
	}
	if spec.CI {
		cfg.Workers = 2
		cfg.Retries = 2
	}
	if spec.Headless != nil {
		cfg.Headless = *spec.Headless
	}
	if spec.Workers != nil {
		cfg.Workers = *spec.Workers
	}
	if spec.Retries != nil {
		cfg.Retries = *spec.Retries
	}
	return cfg
}

// Validate checks the values that can't be checked by parsing alone.
func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("Invalid ENV value: %s. Allowed values are 'local', 'staging' or 'production'.", c.Env)
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser %q, must be chromium, firefox or webkit", c.Browser)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	return nil
}

// ReportPath is where the results report for this environment is written.
func (c Config) ReportPath() string {
	return filepath.Join(c.ReportDir, c.Env, "results.yaml")
}

// DataFile returns the path of a file in the test data directory.
func (c Config) DataFile(name string) string {
	return filepath.Join(c.DataDir, name)
}
