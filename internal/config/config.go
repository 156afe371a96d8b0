package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Identity names the deployment. The name doubles as the admin token issuer.
type Identity struct {
	Name string `env:"APP_NAME" envDefault:"trivia-api"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}

// App holds core runtime configuration shared across services.
type App struct {
	Identity

	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:5000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	RequestTimeout          time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`

	Postgres   Postgres
	Redis      Redis
	Security   Security
	RateLimit  RateLimit
	CORS       CORS
	Migrations Migrations
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders a postgres:// URL for pgx. Credentials are escaped, so
// passwords may contain spaces, quotes or '@'.
func (p Postgres) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redis backs the rate limiter. An empty address disables it.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Security stores secrets for signing and auth.
type Security struct {
	AdminJWTSecret string        `env:"ADMIN_JWT_SECRET" envDefault:""`
	AdminTokenTTL  time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`
}

// AdminGuardEnabled reports whether question writes require an admin token.
func (s Security) AdminGuardEnabled() bool {
	return s.AdminJWTSecret != ""
}

// RateLimit configures the per-IP limiter on write, search and quiz routes.
type RateLimit struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Migrations controls schema management at boot.
type Migrations struct {
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"false"`
}

// AdminToken is what cmd/admintoken needs to mint tokens the API accepts.
type AdminToken struct {
	Identity
	Security Security
}

// LoadAdminToken parses only the identity and security settings, so no
// database settings are required.
func LoadAdminToken() (*AdminToken, error) {
	cfg := &AdminToken{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse admin token config: %w", err)
	}
	return cfg, nil
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.RateLimit.Requests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimit.Window)
	}
	return cfg, nil
}
