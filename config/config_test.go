package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "http://localhost:5173", cfg.UIBaseURL)
	assert.Equal(t, "http://localhost:3001", cfg.APIBaseURL)
	assert.Equal(t, "admin", cfg.Username)
	assert.Equal(t, "admin123", cfg.Password)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Headless)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, 1920, cfg.ViewportWidth)
	assert.Equal(t, "Asia/Kolkata", cfg.TimezoneID)
	assert.Equal(t, 15*time.Second, cfg.ActionTimeout)
	assert.Equal(t, Default(), cfg)
}

func TestCIChangesDefaults(t *testing.T) {
	cfg, err := Load("", lookupFrom(map[string]string{"CI": "true"}))
	require.NoError(t, err)

	assert.True(t, cfg.Headless)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 2, cfg.Retries)
}

func TestExplicitValuesOverrideCIDefaults(t *testing.T) {
	cfg, err := Load("", lookupFrom(map[string]string{
		"CI":       "true",
		"HEADLESS": "false",
		"WORKERS":  "5",
		"RETRIES":  "0",
		"SLOW_MO":  "250ms",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.Headless)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMo)
}

func TestEnvFileIsReadAndEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ENV=local\nAPI_BASE_URL=http://api.from.file\nTEST_USERNAME=fileuser\n"), 0o600))

	cfg, err := Load(path, lookupFrom(map[string]string{"TEST_USERNAME": "envuser"}))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "http://api.from.file", cfg.APIBaseURL)
	assert.Equal(t, "envuser", cfg.Username)
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"), lookupFrom(nil))
	assert.NoError(t, err)
}

func TestInvalidEnv(t *testing.T) {
	_, err := Load("", lookupFrom(map[string]string{"ENV": "qa"}))
	assert.EqualError(t, err, "Invalid ENV value: qa. Allowed values are 'local', 'staging' or 'production'.")
}

func TestInvalidBrowser(t *testing.T) {
	_, err := Load("", lookupFrom(map[string]string{"BROWSER": "netscape"}))
	assert.Error(t, err)
}

func TestReportPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("reports", "staging", "results.yaml"), cfg.ReportPath())
	assert.Equal(t, filepath.Join("testdata", "login.json"), cfg.DataFile("login.json"))
}
