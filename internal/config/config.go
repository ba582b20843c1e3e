// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/usestring/droitfr-mcp/pkg/piste"
)

// Defaults
const (
	DefaultHTTPClientTimeoutMs = 30000
	DefaultRateLimitRPS        = 5
	DefaultRateLimitBurst      = 10
	DefaultTokenCacheMaxItems  = 8
	DefaultPageSizeValue       = 10
)

// Config holds all configuration for the MCP server.
type Config struct {
	Sandbox            bool          // PISTE_SANDBOX, default false
	ClientID           string        // PISTE_CLIENT_ID or PISTE_SANDBOX_CLIENT_ID
	ClientSecret       string        // PISTE_CLIENT_SECRET or PISTE_SANDBOX_CLIENT_SECRET
	OAuthURL           string        // PISTE_OAUTH_URL, default per environment
	APIURL             string        // PISTE_API_URL, default per environment
	HTTPClientTimeout  time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms
	RateLimitRPS       float64       // PISTE_RATE_LIMIT_RPS, default 5 (0 disables)
	RateLimitBurst     int           // PISTE_RATE_LIMIT_BURST, default 10
	TokenCacheMaxItems int           // TOKEN_CACHE_MAX_ITEMS, default 8
	MetricsAddr        string        // METRICS_ADDR, default "" (disabled)

	// Tool defaults
	DefaultPageSize int // DEFAULT_PAGE_SIZE, default 10

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
// Credentials are read from the sandbox or production variables depending on
// PISTE_SANDBOX.
func Load() *Config {
	return LoadFor(getEnvBool("PISTE_SANDBOX", false))
}

// LoadFor is Load with the environment chosen by the caller instead of
// PISTE_SANDBOX.
func LoadFor(sandbox bool) *Config {
	env := piste.EnvironmentFor(sandbox)

	idKey, secretKey := "PISTE_CLIENT_ID", "PISTE_CLIENT_SECRET"
	if sandbox {
		idKey, secretKey = "PISTE_SANDBOX_CLIENT_ID", "PISTE_SANDBOX_CLIENT_SECRET"
	}

	return &Config{
		Sandbox:            sandbox,
		ClientID:           getEnvString(idKey, ""),
		ClientSecret:       getEnvString(secretKey, ""),
		OAuthURL:           getEnvString("PISTE_OAUTH_URL", env.TokenURL),
		APIURL:             strings.TrimSuffix(getEnvString("PISTE_API_URL", env.APIURL), "/"),
		HTTPClientTimeout:  getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", DefaultHTTPClientTimeoutMs),
		RateLimitRPS:       getEnvFloat("PISTE_RATE_LIMIT_RPS", DefaultRateLimitRPS),
		RateLimitBurst:     getEnvInt("PISTE_RATE_LIMIT_BURST", DefaultRateLimitBurst),
		TokenCacheMaxItems: getEnvInt("TOKEN_CACHE_MAX_ITEMS", DefaultTokenCacheMaxItems),
		MetricsAddr:        getEnvString("METRICS_ADDR", ""),

		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", DefaultPageSizeValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Environment returns the PISTE environment described by the configuration,
// including URL overrides.
func (c *Config) Environment() piste.Environment {
	env := piste.EnvironmentFor(c.Sandbox)
	env.TokenURL = c.OAuthURL
	env.APIURL = c.APIURL
	return env
}

// LoadDotEnv copies variables from the given dotenv files into the process
// environment. Variables already set win, and missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, name := range files {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if err := os.Setenv(k, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
