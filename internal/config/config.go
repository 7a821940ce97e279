package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	//Auth / Security
	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	// Storage
	StoreDriver string
	DBAddr      string
	DBDebug     bool
	DBMigrate   bool

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Optional infrastructure; empty address disables the feature.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NotesCacheTTL time.Duration

	RabbitURL      string
	RabbitExchange string

	OTLPEndpoint string

	// HTTP surface
	CORSAllowedOrigins []string
	RLEnabled          bool
	RLIPLimit          int
	RLIPWindow         time.Duration
	// Auth routes (register/login) fixed-window limit, enforced in Redis.
	RLAuthLimit  int
	RLAuthWindow time.Duration

	// LegacyOpenUpdate lets any caller update any note, without a token.
	LegacyOpenUpdate bool
}

func Load() (*Config, error) {
	// .env is optional; real env vars take precedence.
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":5000"),
		JWTIssuer:      os.Getenv("JWT_ISSUER"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "noteplus.events"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive")
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}

	// Store selection. The chosen backend cannot be absent, so fail fast.
	switch cfg.StoreDriver {
	case StorePostgres:
		cfg.DBAddr = os.Getenv("DB_ADDR")
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR")
		}
		if !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
			return nil, fmt.Errorf("DB_ADDR must be a postgres:// URL")
		}
	case StoreFirestore:
		cfg.FirestoreProjectID = os.Getenv("FIRESTORE_PROJECT_ID")
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("missing required env var: FIRESTORE_PROJECT_ID")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want postgres|firestore|memory)", cfg.StoreDriver)
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBMigrate, err = getBool("DB_MIGRATE", true); err != nil {
		return nil, err
	}

	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.NotesCacheTTL, err = getDuration("NOTES_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.RLEnabled, err = getBool("RL_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.RLIPLimit, err = getInt("RL_IP_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RLIPWindow, err = getDuration("RL_IP_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RLAuthLimit, err = getInt("RL_AUTH_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.RLAuthWindow, err = getDuration("RL_AUTH_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.LegacyOpenUpdate, err = getBool("NOTES_LEGACY_OPEN_UPDATE", false); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
