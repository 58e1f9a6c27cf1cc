package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Config is shared by both entry points. Every field can be set by flag or
// environment variable; flags win.
type Config struct {
	Host            string        `name:"host" env:"HOST" help:"Interface to listen on (empty for all)."`
	Port            int           `name:"port" env:"PORT" default:"5000" help:"Port to listen on."`
	DBPath          string        `name:"db-path" env:"DB_PATH" default:"database.sqlite" help:"Local SQLite database file, created if absent."`
	DatabaseURL     string        `name:"database-url" env:"DATABASE_URL" help:"Connection string of the distributed database. Takes precedence over --db-path."`
	APIPrefix       string        `name:"api-prefix" env:"API_PREFIX" default:"${api_prefix}" help:"Path prefix for the API routes."`
	CORSOrigins     []string      `name:"cors-origins" env:"CORS_ORIGINS" default:"*" help:"Allowed CORS origins, comma separated. * allows any."`
	Debug           bool          `name:"debug" env:"DEBUG" help:"Enable debug logging."`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" help:"Grace period for in-flight requests on shutdown."`

	ResendAPIKey string   `name:"resend-api-key" env:"RESEND_API_KEY" help:"Resend API key for new-feedback e-mails."`
	NotifyFrom   string   `name:"notify-from" env:"NOTIFY_FROM" help:"Sender address for new-feedback e-mails."`
	NotifyTo     []string `name:"notify-to" env:"NOTIFY_TO" help:"Recipients of new-feedback e-mails, comma separated."`
}

// Defaults carries the per-entry-point values that differ between the server
// process and the edge function.
type Defaults struct {
	Name        string
	Description string
	APIPrefix   string
}

// Load parses args (without the program name) over the environment. A .env
// file in the working directory is read first if present; variables already
// set in the environment are not overridden.
func Load(args []string, d Defaults) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name(d.Name),
		kong.Description(d.Description),
		kong.UsageOnError(),
		kong.Vars{"api_prefix": d.APIPrefix},
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}

	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)
	return &cfg, nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// normalizePrefix yields "" or a path with a leading and no trailing slash.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
