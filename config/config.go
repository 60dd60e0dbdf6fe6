// config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
// It is built exactly once in main and passed down by reference;
// business code never calls os.Getenv directly.
type Config struct {
	AppEnv      string // "dev" or "prod"
	ListenAddr  string
	DatabaseURL string

	// Referral pipeline
	ReferralSecret   string
	LandingBaseURL   string
	AllowedReferrers map[string]bool // lowercase address -> allowed
	CodeLength       int

	AdminToken     string
	AllowedOrigins string

	// Presale contract reader (round/vesting mirror)
	PresaleReaderURL   string
	PresaleReaderToken string
	PresalePollEvery   time.Duration

	// R2 snapshot archive (optional)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
}

// Load reads .env (if present) and the process environment and validates
// the keys the service cannot run without.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "prod"),
		ListenAddr:         getEnv("LISTEN_ADDR", ":5300"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ReferralSecret:     os.Getenv("REFERRAL_CODE_SECRET"),
		LandingBaseURL:     strings.TrimRight(getEnv("LANDING_BASE_URL", "https://urano.io"), "/"),
		AllowedReferrers:   parseAddressList(os.Getenv("REFERRER_ALLOWLIST")),
		CodeLength:         12,
		AdminToken:         os.Getenv("ADMIN_API_TOKEN"),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		PresaleReaderURL:   os.Getenv("PRESALE_READER_URL"),
		PresaleReaderToken: os.Getenv("PRESALE_READER_TOKEN"),
		PresalePollEvery:   30 * time.Second,
		R2AccountID:        os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret:  os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:           os.Getenv("R2_BUCKET_NAME"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.ReferralSecret == "" {
		return nil, fmt.Errorf("REFERRAL_CODE_SECRET environment variable not set")
	}
	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_API_TOKEN environment variable not set")
	}

	return cfg, nil
}

// IsProduction controls the Secure flag on the attribution cookie.
func (c *Config) IsProduction() bool {
	return c.AppEnv != "dev"
}

// SnapshotsEnabled reports whether the R2 archive is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.R2Bucket != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != ""
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// parseAddressList splits a comma-separated allow-list, lowercasing each entry.
func parseAddressList(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr != "" {
			out[addr] = true
		}
	}
	return out
}
