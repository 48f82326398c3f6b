package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (DASH_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"Dashboard server listen address"`
	CatalogURL  string `default:"http://localhost:8001" usage:"Base URL of the product catalog service" flag:"catalog-url"`
	CartURL     string `default:"http://localhost:8002" usage:"Base URL of the cart service" flag:"cart-url"`
	OrderURL    string `default:"http://localhost:8003" usage:"Base URL of the order service" flag:"order-url"`
	SessionFile string `default:"" usage:"Path for persisting the session user ID (empty = new session each run)" flag:"session-file"`

	PollInterval   time.Duration `default:"5s"  usage:"Interval between background refresh cycles" flag:"poll-interval"`
	RequestTimeout time.Duration `default:"10s" usage:"Per-request timeout for upstream calls" flag:"request-timeout"`

	CORS     CORSConfig
	Graceful GracefulConfig
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
	MaxAge  int      `default:"86400" usage:"Preflight cache duration in seconds" flag:"cors-max-age"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "DASH",
		Files:     []string{"config.yaml", "/etc/dashboard/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names like PORT to the DASH_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
