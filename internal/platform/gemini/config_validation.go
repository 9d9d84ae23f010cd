package gemini

import (
	"fmt"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/generation"
)

// validateConfig checks the settings the generator cannot run without.
// The API key is optional at config load time so API-only processes start
// without one; it becomes mandatory here.
func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", generation.ErrInvalidConfig)
	}

	if cfg.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests per minute cannot be negative", generation.ErrInvalidConfig)
	}

	return nil
}
