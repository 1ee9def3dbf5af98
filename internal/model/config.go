package model

import "time"

// Config is the complete rumorscope configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Evidence    EvidenceConfig    `yaml:"evidence" mapstructure:"evidence"`
	Translate   TranslateConfig   `yaml:"translate" mapstructure:"translate"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// HTTPConfig holds settings shared by every outbound client
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// EvidenceConfig configures the external evidence lookups
type EvidenceConfig struct {
	FactCheckAPIKey   string   `yaml:"factcheck_api_key,omitempty" mapstructure:"factcheck_api_key"`
	FactCheckToken    string   `yaml:"factcheck_token,omitempty" mapstructure:"factcheck_token"`
	FactCheckBaseURL  string   `yaml:"factcheck_base_url" mapstructure:"factcheck_base_url"`
	SearchAPIKey      string   `yaml:"search_api_key,omitempty" mapstructure:"search_api_key"`
	SearchEngineID    string   `yaml:"search_engine_id,omitempty" mapstructure:"search_engine_id"`
	SearchBaseURL     string   `yaml:"search_base_url" mapstructure:"search_base_url"`
	SiteScopes        []string `yaml:"site_scopes" mapstructure:"site_scopes"`
	LanguageCode      string   `yaml:"language_code" mapstructure:"language_code"`
	RequestsPerSecond float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int      `yaml:"burst" mapstructure:"burst"`
	Concurrency       int      `yaml:"concurrency" mapstructure:"concurrency"`
}

// TranslateConfig configures the output translator
type TranslateConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "", openai, ollama, google
	Model    string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey   string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// StoreConfig configures where check records are appended
type StoreConfig struct {
	Driver        string `yaml:"driver" mapstructure:"driver"` // sqlite, redis, none
	Path          string `yaml:"path" mapstructure:"path"`
	RedisAddr     string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPassword string `yaml:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int    `yaml:"redis_db" mapstructure:"redis_db"`
	RedisStream   string `yaml:"redis_stream" mapstructure:"redis_stream"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	Debug        bool          `yaml:"debug" mapstructure:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig configures the evidence lookup cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"` // Enables the disk layer when set
}

// ConcurrencyConfig bounds batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// ScoringConfig lists the markers that make an evidence source authoritative
type ScoringConfig struct {
	AuthoritativeSources []string `yaml:"authoritative_sources" mapstructure:"authoritative_sources"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultSiteScopes is the authoritative-site allow-list, in query order
var DefaultSiteScopes = []string{
	"site:mohfw.gov.in",
	"site:who.int",
	"site:cdc.gov",
	"site:icmr.gov.in",
	"site:aiims.edu",
}

// DefaultAuthoritativeSources are matched case-insensitively against evidence sources
var DefaultAuthoritativeSources = []string{
	"mohfw.gov.in",
	"who.int",
	"cdc.gov",
	"icmr.gov.in",
	"government",
}

// DefaultConfig returns a configuration that works without any API keys
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "rumorscope/0.1 (+https://github.com/ppiankov/rumorscope)",
		},
		Evidence: EvidenceConfig{
			FactCheckBaseURL:  "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			SearchBaseURL:     "https://www.googleapis.com/customsearch/v1",
			SiteScopes:        append([]string(nil), DefaultSiteScopes...),
			LanguageCode:      "en",
			RequestsPerSecond: 5,
			Burst:             5,
			Concurrency:       4,
		},
		Translate: TranslateConfig{
			Timeout: 30,
		},
		Store: StoreConfig{
			Driver:      "sqlite",
			Path:        "rumorscope.db",
			RedisStream: "misinformation_checks",
		},
		Server: ServerConfig{
			Addr:         ":5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Scoring: ScoringConfig{
			AuthoritativeSources: append([]string(nil), DefaultAuthoritativeSources...),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
