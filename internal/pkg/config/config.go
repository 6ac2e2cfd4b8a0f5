package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Geoapify  GeoapifyConfig  `mapstructure:"geoapify"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Fuel      FuelConfig      `mapstructure:"fuel"`
}

type ServerConfig struct {
	Port               int    `mapstructure:"port"`
	ReadTimeout        int    `mapstructure:"read_timeout"`
	WriteTimeout       int    `mapstructure:"write_timeout"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
	CORSOrigins        string `mapstructure:"cors_origins"`
	OpenAPIPath        string `mapstructure:"openapi_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	Enabled   bool   `mapstructure:"enabled"`
}

// GeoapifyConfig configures the geocoding, routing and places gateways.
type GeoapifyConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxRetries        int     `mapstructure:"max_retries"`
}

func (g GeoapifyConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// GeminiConfig configures the LLM completion gateway. An empty APIKey disables it.
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// FuelConfig holds fuel-station discovery limits and the vehicle economy used
// for savings. Units are meters for search radius, kilometers for distance,
// liters for volume.
type FuelConfig struct {
	Category            string  `mapstructure:"category"`
	SearchRadiusM       float64 `mapstructure:"search_radius_m"`
	MaxSamples          int     `mapstructure:"max_samples"`
	MaxRouteDistanceKm  float64 `mapstructure:"max_route_distance_km"`
	MaxResults          int     `mapstructure:"max_results"`
	QueryTimeoutSeconds int     `mapstructure:"query_timeout_seconds"`
	PriceBasePerLiter   float64 `mapstructure:"price_base_per_liter"`
	PriceSpreadPerLiter float64 `mapstructure:"price_spread_per_liter"`
	KmPerLiter          float64 `mapstructure:"km_per_liter"`
	PricePerLiter       float64 `mapstructure:"price_per_liter"`
}

func (f FuelConfig) QueryTimeout() time.Duration {
	return time.Duration(f.QueryTimeoutSeconds) * time.Second
}

// Load reads configuration from .env, config file and environment variables.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("server.cors_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("server.openapi_path", "api/openapi.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fleet")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "fuelroute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "route-optimization")
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("geoapify.api_key", "")
	v.SetDefault("geoapify.base_url", "https://api.geoapify.com")
	v.SetDefault("geoapify.timeout_seconds", 30)
	v.SetDefault("geoapify.requests_per_second", 5)
	v.SetDefault("geoapify.max_retries", 3)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout_seconds", 30)
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.max_output_tokens", 100)
	v.SetDefault("fuel.category", "service.vehicle.fuel")
	v.SetDefault("fuel.search_radius_m", 5000)
	v.SetDefault("fuel.max_samples", 20)
	v.SetDefault("fuel.max_route_distance_km", 1.5)
	v.SetDefault("fuel.max_results", 20)
	v.SetDefault("fuel.query_timeout_seconds", 10)
	v.SetDefault("fuel.price_base_per_liter", 0.85)
	v.SetDefault("fuel.price_spread_per_liter", 0.16)
	v.SetDefault("fuel.km_per_liter", 8.5)
	v.SetDefault("fuel.price_per_liter", 0.92)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: FUELROUTE_GEOAPIFY_API_KEY → geoapify.api_key
	v.SetEnvPrefix("FUELROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.Enabled && c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required when temporal is enabled")
	}
	if c.Geoapify.APIKey == "" {
		errs = append(errs, "geoapify.api_key is required")
	}
	if c.Geoapify.BaseURL == "" {
		errs = append(errs, "geoapify.base_url is required")
	}
	if c.Geoapify.TimeoutSeconds <= 0 {
		errs = append(errs, "geoapify.timeout_seconds must be positive")
	}
	if c.Geoapify.RequestsPerSecond <= 0 {
		errs = append(errs, "geoapify.requests_per_second must be positive")
	}
	if c.Gemini.BaseURL == "" {
		errs = append(errs, "gemini.base_url is required")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("gemini.temperature must be 0-2, got %g", c.Gemini.Temperature))
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		errs = append(errs, "gemini.max_output_tokens must be positive")
	}
	if c.Fuel.SearchRadiusM <= 0 {
		errs = append(errs, "fuel.search_radius_m must be positive")
	}
	if c.Fuel.MaxSamples <= 0 {
		errs = append(errs, "fuel.max_samples must be positive")
	}
	if c.Fuel.MaxResults <= 0 {
		errs = append(errs, "fuel.max_results must be positive")
	}
	if c.Fuel.QueryTimeoutSeconds <= 0 {
		errs = append(errs, "fuel.query_timeout_seconds must be positive")
	}
	if c.Fuel.KmPerLiter <= 0 {
		errs = append(errs, "fuel.km_per_liter must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
