package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/drblury/routeweaver/router"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, e.g.
// ROUTEWEAVER_ADDR or ROUTEWEAVER_DOCS_TITLE.
const EnvPrefix = "ROUTEWEAVER"

const productionEnvironment = "production"

// Config is the application configuration.
type Config struct {
	Environment     string        `mapstructure:"environment"`
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Docs            DocsConfig    `mapstructure:"docs"`
	Router          router.Config `mapstructure:"router"`
}

// DocsConfig controls the generated document and where it is served.
type DocsConfig struct {
	Title       string   `mapstructure:"title"`
	Version     string   `mapstructure:"version"`
	Description string   `mapstructure:"description"`
	Servers     []string `mapstructure:"servers"`
	SpecPath    string   `mapstructure:"spec_path"`
	UIPath      string   `mapstructure:"ui_path"`
	UI          string   `mapstructure:"ui"`
	// ValidateRequests checks requests against the generated document before
	// routing. Controller schemas coerce string input; this check does not.
	ValidateRequests bool `mapstructure:"validate_requests"`
}

// Production reports whether the documentation surface must stay hidden.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, productionEnvironment)
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Environment:     "development",
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Docs: DocsConfig{
			Title:    "API",
			Version:  "1.0.0",
			SpecPath: "/swagger",
			UIPath:   "/api-docs",
			UI:       "swagger",
		},
		Router: router.Config{
			Timeout:         30 * time.Second,
			QuietdownRoutes: []string{"/healthz", "/readyz"},
			HideHeaders:     []string{"Authorization", "Cookie"},
		},
	}
}

// LoadConfig builds a Config from defaults, the optional YAML, JSON or TOML
// configFile, the given dotenv files (".env" when none are given) and the
// environment. Later sources win. APP_ENV is accepted for the environment.
// Missing files are skipped.
func LoadConfig(configFile string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("app: load %s: %w", path, err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("environment", EnvPrefix+"_ENVIRONMENT", "APP_ENV"); err != nil {
		return Config{}, fmt.Errorf("app: bind environment: %w", err)
	}

	if configFile != "" && fileExists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("app: read %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("app: decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("environment", cfg.Environment)
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)

	v.SetDefault("docs.title", cfg.Docs.Title)
	v.SetDefault("docs.version", cfg.Docs.Version)
	v.SetDefault("docs.description", cfg.Docs.Description)
	v.SetDefault("docs.servers", cfg.Docs.Servers)
	v.SetDefault("docs.spec_path", cfg.Docs.SpecPath)
	v.SetDefault("docs.ui_path", cfg.Docs.UIPath)
	v.SetDefault("docs.ui", cfg.Docs.UI)
	v.SetDefault("docs.validate_requests", cfg.Docs.ValidateRequests)

	v.SetDefault("router.timeout", cfg.Router.Timeout)
	v.SetDefault("router.quietdown_routes", cfg.Router.QuietdownRoutes)
	v.SetDefault("router.hide_headers", cfg.Router.HideHeaders)
	v.SetDefault("router.cors.origins", cfg.Router.CORS.Origins)
	v.SetDefault("router.cors.methods", cfg.Router.CORS.Methods)
	v.SetDefault("router.cors.headers", cfg.Router.CORS.Headers)
	v.SetDefault("router.cors.allow_credentials", cfg.Router.CORS.AllowCredentials)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
