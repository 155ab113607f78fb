package model

import (
	"fmt"
	"time"
)

// Config is the complete service configuration
type Config struct {
	Network      string             `yaml:"network" mapstructure:"network"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Signer       SignerConfig       `yaml:"signer" mapstructure:"signer"`
	Chain        ChainConfig        `yaml:"chain" mapstructure:"chain"`
	Voucher      VoucherConfig      `yaml:"voucher" mapstructure:"voucher"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Chat         ChatConfig         `yaml:"chat" mapstructure:"chat"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Catalog      CatalogConfig      `yaml:"catalog" mapstructure:"catalog"`
	Proxy        ProxyConfig        `yaml:"proxy" mapstructure:"proxy"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"`   // development, production
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// SignerConfig holds the voucher signing key (hex, 0x-prefixed or bare)
type SignerConfig struct {
	PrivateKey string `yaml:"private_key" mapstructure:"private_key"`
}

// ChainConfig configures reads against the chain RPC endpoint
type ChainConfig struct {
	RPCURL         string            `yaml:"rpc_url" mapstructure:"rpc_url"`
	Timeout        time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	ResourceWallet string            `yaml:"resource_wallet" mapstructure:"resource_wallet"`
	TokenAddress   string            `yaml:"token_address" mapstructure:"token_address"`
	Contract       string            `yaml:"contract" mapstructure:"contract"`
	Deployments    map[string]string `yaml:"deployments" mapstructure:"deployments"` // chain ID -> Brolli address
}

// VoucherConfig bounds voucher issuance
type VoucherConfig struct {
	MaxBatch int `yaml:"max_batch" mapstructure:"max_batch"`
	Workers  int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig selects and configures the chat completion provider
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (rule-based)
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ChatConfig bounds the chat endpoint
type ChatConfig struct {
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit"`
	MaxSnippets  int `yaml:"max_snippets" mapstructure:"max_snippets"`
}

// CacheConfig configures the chat response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"` // empty: memory only
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitingConfig configures per-client request limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 disables
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CatalogConfig points at an on-disk catalog override
type CatalogConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // empty: built-in catalog
}

// ProxyConfig routes outbound RPC and LLM traffic. Empty values fall back
// to HTTP_PROXY / HTTPS_PROXY / NO_PROXY.
type ProxyConfig struct {
	HTTP    string `yaml:"http" mapstructure:"http"`
	HTTPS   string `yaml:"https" mapstructure:"https"`
	NoProxy string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Network: "baseSepolia",
		Server: ServerConfig{
			Addr:              ":3001",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Mode:  "development",
			Level: "info",
		},
		Chain: ChainConfig{
			Timeout:     10 * time.Second,
			Deployments: map[string]string{},
		},
		Voucher: VoucherConfig{
			MaxBatch: 100,
			Workers:  4,
		},
		LLM: LLMConfig{
			Provider:    "",
			Model:       "gpt-4o-mini",
			Timeout:     30,
			MaxTokens:   320,
			Temperature: 0.3,
		},
		Chat: ChatConfig{
			HistoryLimit: 12,
			MaxSnippets:  5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         10,
		},
	}
}

// Validate checks value ranges that would otherwise fail at request time
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Voucher.MaxBatch <= 0 {
		return fmt.Errorf("voucher.max_batch must be positive")
	}
	if c.Voucher.Workers <= 0 {
		return fmt.Errorf("voucher.workers must be positive")
	}
	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("chat.history_limit cannot be negative")
	}
	if c.Chat.MaxSnippets <= 0 {
		return fmt.Errorf("chat.max_snippets must be positive")
	}
	if c.RateLimiting.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limiting.requests_per_second cannot be negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	return nil
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	out := *c
	if out.Signer.PrivateKey != "" {
		out.Signer.PrivateKey = "<redacted>"
	}
	if out.LLM.APIKey != "" {
		out.LLM.APIKey = "<redacted>"
	}
	return &out
}
