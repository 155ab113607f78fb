package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/brolli/brolli/internal/model"
)

// legacyEnv lists the environment names the deployed web app already uses.
// The BROLLI_ form of each key is checked first.
var legacyEnv = map[string][]string{
	"network":               {"BROLLI_NETWORK", "NETWORK", "NEXT_PUBLIC_TARGET_NETWORK"},
	"signer.private_key":    {"BROLLI_SIGNER_PRIVATE_KEY", "LICENSE_SIGNER_PRIVATE_KEY"},
	"chain.resource_wallet": {"BROLLI_CHAIN_RESOURCE_WALLET", "X402_RESOURCE_WALLET"},
	"chain.rpc_url":         {"BROLLI_CHAIN_RPC_URL", "BROLLI_RPC_URL"},
	"chain.contract":        {"BROLLI_CHAIN_CONTRACT", "BROLLI_CONTRACT_ADDRESS"},
}

// configureEnv maps BROLLI_SERVER_ADDR to server.addr and so on, plus the
// legacy names
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("BROLLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)
}

func bindLegacyEnv(v *viper.Viper) {
	for key, names := range legacyEnv {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
}

// setDefaults registers every field of def so that env overrides reach
// Unmarshal even when no config file mentions the key.
func setDefaults(v *viper.Viper, def *model.Config) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	flatten(v, "", tree)
	return nil
}

func flatten(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok && len(sub) > 0 {
			flatten(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// loadConfig resolves flags > env > config file > defaults
func loadConfig() (*model.Config, error) {
	return loadConfigFrom(viper.GetViper())
}

func loadConfigFrom(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := setDefaults(v, cfg); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
