package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/generation"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by the generator.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to write a blog post for a topic.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	models contentGenerator

	// limiter throttles outbound calls; nil means unlimited.
	limiter *rate.Limiter

	// baseDelay is the first retry delay before backoff and jitter.
	baseDelay time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new instance of GeminiGenerator with the provided dependencies.
//
// Parameters:
//   - ctx: Context for client construction
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized GeminiGenerator or an error if initialization fails
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models), nil
}

// newGenerator wires a generator around any contentGenerator.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) *GeminiGenerator {
	g := &GeminiGenerator{
		logger:    logger.With(slog.String("component", "gemini_generator")),
		config:    cfg,
		models:    models,
		baseDelay: time.Duration(max(cfg.RetryDelaySeconds, 1)) * time.Second,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return g
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, topic string) (string, error) {
	prompt, err := buildPrompt(topic)
	if err != nil {
		return "", err
	}

	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"topic", topic,
		"prompt_length", len(prompt))

	return g.callGeminiWithRetry(ctx, prompt)
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff retry logic.
//
// It attempts the call up to config.MaxRetries+1 times, using exponential backoff
// with jitter between retries for transient errors. Permanent errors (like content
// being blocked by safety filters) are returned immediately without retrying.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		attemptNum := attempt + 1

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("%w: rate limiter: %v", generation.ErrTransientFailure, err)
			}
		}

		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1,
			"model", g.config.ModelName)

		text, err := g.callGemini(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attemptNum,
				"content_length", len(text))
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !errors.Is(err, generation.ErrTransientFailure) {
			g.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"error", err)
			return "", err
		}
		lastErr = err

		if attempt >= maxRetries {
			break
		}

		delay := g.backoff(attempt)
		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}

	g.logger.WarnContext(ctx, "Maximum retry attempts reached",
		"max_retries", maxRetries)
	return "", fmt.Errorf("exceeded maximum retry attempts (%d): %w", maxRetries, lastErr)
}

// callGemini performs one request and classifies its failure.
func (g *GeminiGenerator) callGemini(ctx context.Context, prompt string) (string, error) {
	temperature := g.config.Temperature
	resp, err := g.models.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: &temperature})
	if err != nil {
		return "", classifyAPIError(err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", generation.ErrEmptyContent
	}

	return text.String(), nil
}

// classifyAPIError marks client errors other than throttling and timeouts as
// permanent and everything else as transient.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code == http.StatusRequestTimeout:
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}

	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	g.rngMu.Lock()
	jitterFactor := 0.5 + g.rng.Float64()*0.5
	g.rngMu.Unlock()

	return time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * jitterFactor)
}
