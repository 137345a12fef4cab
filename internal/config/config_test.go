package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("YOUTRACK_URL", "https://tracker.example.com")
	t.Setenv("YOUTRACK_API_TOKEN", "perm:abc123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tracker.example.com", cfg.BaseURL)
	assert.Equal(t, "perm:abc123", cfg.APIToken)
	assert.False(t, cfg.Cloud)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.False(t, cfg.Debug)
}

func TestLoad_MissingURL(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "")
	t.Setenv("YOUTRACK_API_TOKEN", "perm:abc123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTRACK_URL")
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "https://tracker.example.com")
	t.Setenv("YOUTRACK_API_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTRACK_API_TOKEN")
}

func TestLoad_TrimsTrailingSlash(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "https://tracker.example.com/")
	t.Setenv("YOUTRACK_API_TOKEN", "perm:abc123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.example.com", cfg.BaseURL)
}

func TestLoad_CloudWorkspaceName(t *testing.T) {
	t.Setenv("YOUTRACK_URL", "myorg")
	t.Setenv("YOUTRACK_API_TOKEN", "perm:abc123")
	t.Setenv("YOUTRACK_CLOUD", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://myorg.youtrack.cloud", cfg.BaseURL)
	assert.True(t, cfg.Cloud)
}

func TestLoad_BoolAndIntOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("YOUTRACK_VERIFY_SSL", "false")
	t.Setenv("YOUTRACK_MAX_RETRIES", "5")
	t.Setenv("YOUTRACK_REQUEST_TIMEOUT", "60")
	t.Setenv("YOUTRACK_MCP_DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.VerifySSL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("YOUTRACK_VERIFY_SSL", "maybe")
	t.Setenv("YOUTRACK_MAX_RETRIES", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.VerifySSL)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestAPIBaseURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://tracker.example.com"}
	assert.Equal(t, "https://tracker.example.com/api", cfg.APIBaseURL())

	// Self-hosted URLs may already include the API path.
	cfg = &Config{BaseURL: "https://tracker.example.com/youtrack/api"}
	assert.Equal(t, "https://tracker.example.com/youtrack/api", cfg.APIBaseURL())
}

func TestIssueURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://tracker.example.com"}
	assert.Equal(t, "https://tracker.example.com/issue/DEMO-123", cfg.IssueURL("DEMO-123"))
}
