package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the YouTrack connection settings. Loaded once at startup and
// immutable afterwards.
type Config struct {
	BaseURL        string
	APIToken       string
	Cloud          bool
	VerifySSL      bool
	MaxRetries     int
	RequestTimeout time.Duration
	MaxConcurrent  int
	Debug          bool
	ServerName     string
}

func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:        strings.TrimRight(os.Getenv("YOUTRACK_URL"), "/"),
		APIToken:       os.Getenv("YOUTRACK_API_TOKEN"),
		Cloud:          getEnvBoolOrDefault("YOUTRACK_CLOUD", false),
		VerifySSL:      getEnvBoolOrDefault("YOUTRACK_VERIFY_SSL", true),
		MaxRetries:     getEnvIntOrDefault("YOUTRACK_MAX_RETRIES", 3),
		RequestTimeout: time.Duration(getEnvIntOrDefault("YOUTRACK_REQUEST_TIMEOUT", 30)) * time.Second,
		MaxConcurrent:  getEnvIntOrDefault("YOUTRACK_MAX_CONCURRENT", 8),
		Debug:          getEnvBoolOrDefault("YOUTRACK_MCP_DEBUG", false),
		ServerName:     getEnvOrDefault("YOUTRACK_MCP_SERVER_NAME", "youtrack-mcp"),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("YOUTRACK_URL environment variable is required")
	}
	if cfg.Cloud && !strings.Contains(cfg.BaseURL, "://") {
		// Cloud instances may be configured by workspace name alone.
		cfg.BaseURL = fmt.Sprintf("https://%s.youtrack.cloud", cfg.BaseURL)
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("YOUTRACK_API_TOKEN environment variable is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("YOUTRACK_MAX_RETRIES must not be negative")
	}

	return cfg, nil
}

// APIBaseURL returns the REST endpoint root. Cloud instances serve the API
// under /api; self-hosted URLs may already carry a custom path.
func (c *Config) APIBaseURL() string {
	if strings.HasSuffix(c.BaseURL, "/api") {
		return c.BaseURL
	}
	return c.BaseURL + "/api"
}

// IssueURL returns the human-facing URL for an issue ID or readable ID.
func (c *Config) IssueURL(issueID string) string {
	return fmt.Sprintf("%s/issue/%s", c.BaseURL, issueID)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
