package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout of the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Backend
	BackendURL     string        // base URL of the BrainLink API (ex: https://api.brainlink.example)
	BackendTimeout time.Duration // timeout of a single backend call
	PublicURL      string        // externally visible base URL, used for share links

	// Dashboards
	PollInterval    time.Duration // content re-synchronization period (default: 10s)
	IdleThreshold   time.Duration // unmount dashboards idle for longer (default: 30m)
	JanitorInterval time.Duration // how often idle dashboards are looked for

	// Sessions
	SessionTTL   time.Duration // sliding session lifetime
	SecureCookie bool          // set the Secure cookie attribute

	// Redis (optional, empty address = in-memory sessions)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict access to specific Host headers
	AllowedCIDRS   []string // optional, restrict infra endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	AllowedOrigins []string // optional, CORS origins

	// Sign-in / sign-up rate limit, per client IP
	AuthBurst        int
	AuthRefillPerMin int
}

func Load() *Config {
	_ = godotenv.Load() // a missing .env is fine, the environment wins anyway

	listen := getenv("BRAINLINK_LISTEN_PORT", ":8080")

	cfg := &Config{
		// Server settings
		ListenPort:      listen,
		ShutdownTimeout: mustDuration("BRAINLINK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BRAINLINK_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("BRAINLINK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BRAINLINK_PRETTY_LOG", true),

		// Backend
		BackendURL:     strings.TrimRight(requireEnv("BRAINLINK_BACKEND_URL"), "/"),
		BackendTimeout: mustDuration("BRAINLINK_BACKEND_TIMEOUT", 10*time.Second),
		PublicURL:      strings.TrimRight(getenv("BRAINLINK_PUBLIC_URL", defaultPublicURL(listen)), "/"),

		// Dashboards
		PollInterval:    mustDuration("BRAINLINK_POLL_INTERVAL", 10*time.Second),
		IdleThreshold:   mustDuration("BRAINLINK_IDLE_THRESHOLD", 30*time.Minute),
		JanitorInterval: mustDuration("BRAINLINK_JANITOR_INTERVAL", time.Minute),

		// Sessions
		SessionTTL:   mustDuration("BRAINLINK_SESSION_TTL", 7*24*time.Hour),
		SecureCookie: mustBool("BRAINLINK_SECURE_COOKIE", false),

		// Redis settings
		RedisAddr:             getenv("BRAINLINK_REDIS_ADDR", ""),
		RedisUser:             getenv("BRAINLINK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("BRAINLINK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("BRAINLINK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BRAINLINK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:   parseList(getenv("BRAINLINK_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseList(getenv("BRAINLINK_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("BRAINLINK_TRUST_PROXY", false),
		AllowedOrigins: parseList(getenv("BRAINLINK_ALLOWED_ORIGINS", "")),

		AuthBurst:        getenvInt("BRAINLINK_AUTH_BURST", 10),
		AuthRefillPerMin: getenvInt("BRAINLINK_AUTH_REFILL_PER_MIN", 10),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BRAINLINK_REDIS_PASSWORD is required when BRAINLINK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// UseRedis reports whether sessions are kept in Redis.
func (c *Config) UseRedis() bool { return c.RedisAddr != "" }

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// defaultPublicURL derives a local base URL from the listen address.
// ":8080" -> "http://localhost:8080"
func defaultPublicURL(listen string) string {
	host := listen
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parseList splits a comma separated value, dropping empty entries.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
