package model

import "time"

// Config is the complete degreeplan configuration
type Config struct {
	API          APIConfig          `yaml:"api" mapstructure:"api"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// APIConfig controls access to the Requirements API
type APIConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls caching of API responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig throttles requests per API host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the fetch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig selects where selections and plans are persisted
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "file" or "postgres"
	Path   string `yaml:"path" mapstructure:"path"`     // File store location
	DSN    string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // "text", "json" or "yaml"
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "http://localhost:8000/api",
			Timeout:      15 * time.Second,
			UserAgent:    "degreeplan/0.3",
			MaxBodyBytes: 5 * 1024 * 1024,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskDir:   defaultDir("cache"),
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 4,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Store: StoreConfig{
			Driver: "file",
			Path:   defaultDir("state.yaml"),
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
