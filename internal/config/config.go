package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all server configuration, read from the environment with
// logged defaults.
type Config struct {
	Port     string
	MongoURI string
	RedisURI string

	// SigningNamespace prefixes every canonical signed message so tokens
	// from other deployments never verify here.
	SigningNamespace string
	// SignatureSkew is how far a signed timestamp may drift from now.
	SignatureSkew time.Duration

	AdminUsername string
	AdminPassword string
	JWTSecret     string

	// PeriodWidth is the length of one round; GraceWindow is how long after
	// a boundary a deposit may still fold onto the previous period.
	PeriodWidth time.Duration
	GraceWindow time.Duration

	GuessThrottle  time.Duration
	SessionExpiry  time.Duration
	DefaultGuesses int
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:             envOr("PORT", "8080"),
		MongoURI:         envOr("MONGO_URI", "mongodb://localhost:27017"),
		RedisURI:         envOr("REDIS_URI", "localhost:6379"),
		SigningNamespace: envOr("SIGNING_NAMESPACE", "wordstake"),
		SignatureSkew:    envDuration("SIGNATURE_SKEW", 10*time.Minute),
		AdminUsername:    envOr("ADMIN_USERNAME", "admin"),
		AdminPassword:    envOr("ADMIN_PASSWORD", "password123"),
		JWTSecret:        envOr("JWT_SECRET", "super-secret-key-change-in-production"),
		PeriodWidth:      envDuration("PERIOD_WIDTH", time.Hour),
		GraceWindow:      envDuration("GRACE_WINDOW", 10*time.Second),
		GuessThrottle:    envDuration("GUESS_THROTTLE", 500*time.Millisecond),
		SessionExpiry:    envDuration("SESSION_EXPIRY", 30*time.Minute),
		DefaultGuesses:   envInt("DEFAULT_GUESSES", 6),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Printf("Warning: %s not set, using default", key)
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default", key, v)
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using default", key, v)
		return fallback
	}
	return n
}
