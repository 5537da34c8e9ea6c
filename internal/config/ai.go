package config

import "os"

// AIConfig holds the generation backend configuration.
type AIConfig struct {
	APIKey    string `json:"-"` // never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the generation backend configuration from env.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:     envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		TimeoutMS: envInt("GEMINI_TIMEOUT_MS", 60000),
	}
}

// IsEnabled returns true if the generation backend is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint for the model.
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
