package router

import "time"

// Config controls the application middleware chain. Field tags match the keys
// read by viper when the configuration is loaded from files or environment.
type Config struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
	QuietdownRoutes []string      `mapstructure:"quietdown_routes"`
	HideHeaders     []string      `mapstructure:"hide_headers"`
}

// CORSConfig lists the allowed origins, methods and headers. CORS handling is
// off while Origins is empty; "*" allows any origin.
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	Methods          []string `mapstructure:"methods"`
	Headers          []string `mapstructure:"headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}
