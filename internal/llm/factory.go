package llm

import (
	"fmt"
	"strings"
)

// NewProvider builds the provider named by config.Provider. An empty name
// disables the LLM and yields a nil Provider with no error.
func NewProvider(config Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch strings.ToLower(config.Provider) {
	case "":
		return nil, nil
	case "openai":
		p, err = wrap(NewOpenAIProvider(config))
	case "anthropic", "claude":
		p, err = wrap(NewAnthropicProvider(config))
	case "ollama":
		p, err = wrap(NewOllamaProvider(config))
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", strings.ToLower(config.Provider), err)
	}
	return p, nil
}

// wrap keeps a failed constructor's typed nil pointer out of the interface
func wrap[T Provider](p T, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
