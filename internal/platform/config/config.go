// Package config builds runtime configuration from the environment so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs to wire itself.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	AuditTopic   string

	LogLevel string
	Env      string // dev|prod

	JWTSigningKey string

	// SnapshotRefreshInterval bounds leaderboard staleness: readers see a
	// ranking at most this old.
	SnapshotRefreshInterval time.Duration

	// ReferralBaseGleams is the referee-side grant when the request does
	// not specify an amount; the referrer receives double.
	ReferralBaseGleams int64
}

// FromEnv reads configuration from environment variables, applying
// development defaults for everything optional.
func FromEnv() Config {
	return Config{
		Addr:                    getenv("ASCENT_ADDR", ":8080"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		RedisURL:                os.Getenv("REDIS_URL"),
		KafkaBrokers:            splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:              getenv("AUDIT_TOPIC", "ascent.audit"),
		LogLevel:                getenv("LOG_LEVEL", "info"),
		Env:                     getenv("ENV", "dev"),
		JWTSigningKey:           getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SnapshotRefreshInterval: getduration("SNAPSHOT_REFRESH_INTERVAL", 30*time.Second),
		ReferralBaseGleams:      getint64("REFERRAL_BASE_GLEAMS", 100),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getint64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
