package model

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero batch", func(c *Config) { c.Voucher.MaxBatch = 0 }, "voucher.max_batch"},
		{"zero workers", func(c *Config) { c.Voucher.Workers = 0 }, "voucher.workers"},
		{"negative history", func(c *Config) { c.Chat.HistoryLimit = -1 }, "chat.history_limit"},
		{"zero snippets", func(c *Config) { c.Chat.MaxSnippets = 0 }, "chat.max_snippets"},
		{"negative rate", func(c *Config) { c.RateLimiting.RequestsPerSecond = -1 }, "rate_limiting"},
		{"hot temperature", func(c *Config) { c.LLM.Temperature = 2.5 }, "llm.temperature"},
		{"cache without ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache needs no ttl: %v", err)
	}
}

func TestConfigRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Signer.PrivateKey = "0xsecret"
	cfg.LLM.APIKey = "sk-secret"

	r := cfg.Redacted()
	if r.Signer.PrivateKey != "<redacted>" || r.LLM.APIKey != "<redacted>" {
		t.Errorf("secrets not redacted: %q %q", r.Signer.PrivateKey, r.LLM.APIKey)
	}
	if cfg.Signer.PrivateKey != "0xsecret" {
		t.Error("Redacted modified the original")
	}
}
