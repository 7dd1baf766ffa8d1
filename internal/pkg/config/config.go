package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Rehash RehashConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	// Legacy cipher material; only needed to verify credentials written
	// before bcrypt, or when PasswordScheme is legacy-aes.
	CipherKey string `env:"CIPHER_KEY, default=0123456789ABCDEF0123456789ABCDEF"`
	CipherIV  string `env:"CIPHER_IV,  default=0123456789ABCDEF"`

	PasswordScheme string `env:"PASSWORD_SCHEME, default=bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST,     default=10"`

	// Sign-in and sign-up limits per client IP, in requests per second.
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
	RateBurst int     `env:"AUTH_RATE_BURST, default=10"`

	AdminSeedPath string `env:"ADMIN_SEED_PATH, default=config/users.yaml"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=watchlist"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,           default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,             default=0"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT,   default=5s"`
	IOTimeout    time.Duration `env:"REDIS_IO_TIMEOUT,     default=1s"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,      default=20"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS, default=2"`
	CatalogTTL   time.Duration `env:"CATALOG_CACHE_TTL,    default=5m"`
}

type RehashConfig struct {
	Workers int `env:"REHASH_WORKERS, default=4"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if len(cfg.Auth.CipherKey) != 32 || len(cfg.Auth.CipherIV) != 16 {
		return nil, errors.New("CIPHER_KEY must be 32 bytes and CIPHER_IV 16 bytes")
	}
	return &cfg, nil
}
