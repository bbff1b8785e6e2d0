package config

import "time"

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Crawl     CrawlConfig     `yaml:"crawl"`
	HomeDir   string          `yaml:"home_dir"`
	Security  SecurityConfig  `yaml:"security"`
	Auth      AuthConfig      `yaml:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host      string    `yaml:"host" validate:"required"`
	Port      int       `yaml:"port" validate:"min=1,max=65535"`
	StaticDir string    `yaml:"static_dir"`
	TLS       TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS configuration
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file" validate:"required_if=Enabled true"`
	KeyFile  string `yaml:"key_file" validate:"required_if=Enabled true"`
}

type CrawlConfig struct {
	DefaultDepth int           `yaml:"default_depth" validate:"min=1,ltefield=MaxDepth"`
	MaxDepth     int           `yaml:"max_depth" validate:"min=2,max=32"`
	MaxEntries   int           `yaml:"max_entries" validate:"min=1,max=10000"`
	Workers      int           `yaml:"workers" validate:"min=0,max=1024"`
	Timeout      time.Duration `yaml:"timeout" validate:"min=0"`
}

type SecurityConfig struct {
	RateLimitRPS   float64  `yaml:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst int      `yaml:"rate_limit_burst" validate:"min=0"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedIPs     []string `yaml:"allowed_ips" validate:"dive,ip|cidr"`
}

type AuthConfig struct {
	Enabled     bool          `yaml:"enabled"`
	SecretKey   string        `yaml:"secret_key"`
	TokenExpiry time.Duration `yaml:"token_expiry" validate:"min=0"`
}

type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name"`
	TraceExporter string `yaml:"trace_exporter" validate:"oneof=none stdout otlp"`
	OTLPEndpoint  string `yaml:"otlp_endpoint" validate:"required_if=TraceExporter otlp"`
	OTLPInsecure  bool   `yaml:"otlp_insecure"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 3001,
		},
		Crawl: CrawlConfig{
			DefaultDepth: 2,
			MaxDepth:     8,
			MaxEntries:   100,
			Timeout:      30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 200,
		},
		Auth: AuthConfig{
			TokenExpiry: 90 * 24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "fsgraph",
			TraceExporter: "none",
			OTLPEndpoint:  "localhost:4317",
			OTLPInsecure:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
