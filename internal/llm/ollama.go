package llm

import (
	"fmt"
	"os"
	"strings"
)

const defaultOllamaURL = "http://localhost:11434"

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI-compatible /v1 endpoint. BaseURL falls back to OLLAMA_BASE_URL.
func NewOllamaProvider(config Config) (*OpenAIProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}

	// Ollama ignores the key but the client always sends one
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}

	if config.Timeout == 0 {
		config.Timeout = 60 // Ollama can be slower for local models
	}
	return newOpenAICompatible("ollama", config, apiKey, baseURL), nil
}
