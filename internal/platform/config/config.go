package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends the ledger desk can persist through.
const (
	StorageREST  = "rest"
	StoragePgSQL = "pgsql"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	StorageBackend  string
	UpstreamAPIURL  string
	UpstreamTimeout time.Duration
	DeviceName      string

	DatabaseURL   string
	EnableDBCheck bool

	RedisURL   string
	SessionTTL time.Duration

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	AdminRole          string
	PasswordHashCost   int
	CORSAllowedOrigins []string
	LoginRateLimit     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_BACKEND", StorageREST)
	viper.SetDefault("UPSTREAM_API_URL", "http://localhost:8000/api")
	viper.SetDefault("UPSTREAM_TIMEOUT", "15s")
	viper.SetDefault("DEVICE_NAME", "ledger-desk")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_TTL", "12h")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "ledger-desk")
	viper.SetDefault("ADMIN_ROLE", "admin")
	viper.SetDefault("PASSWORD_HASH_COST", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		StorageBackend: strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_BACKEND"))),
		UpstreamAPIURL: strings.TrimRight(viper.GetString("UPSTREAM_API_URL"), "/"),
		DeviceName:     viper.GetString("DEVICE_NAME"),
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		RedisURL:       viper.GetString("REDIS_URL"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		AdminRole:      viper.GetString("ADMIN_ROLE"),
		LoginRateLimit: viper.GetString("LOGIN_RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageBackend {
	case StorageREST:
		if cfg.UpstreamAPIURL == "" {
			log.Println("Warning: UPSTREAM_API_URL not set. The REST backend cannot reach the persistence service.")
		}
	case StoragePgSQL:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	default:
		log.Printf("Warning: Unknown STORAGE_BACKEND ('%s'). Defaulting to %s.\n", cfg.StorageBackend, StorageREST)
		cfg.StorageBackend = StorageREST
	}

	cfg.PasswordHashCost = viper.GetInt("PASSWORD_HASH_COST")
	cfg.UpstreamTimeout = durationOr("UPSTREAM_TIMEOUT", 15*time.Second)
	cfg.SessionTTL = durationOr("SESSION_TTL", 12*time.Hour)
	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", 12*time.Hour)

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "ledger-desk"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	if cfg.AdminRole == "" {
		cfg.AdminRole = "admin"
	}
	if cfg.LoginRateLimit == "" {
		cfg.LoginRateLimit = "5-M"
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Sessions are kept in memory and lost on restart.")
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
