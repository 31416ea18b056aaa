// Package genai wraps the OpenAI chat completions API behind a small
// text-generation interface with bounded retry.
package genai

import (
	"context"
	"errors"
	neturl "net/url"
	"strings"
	"time"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/tsundoku-app/core/internal/config"
	"go.uber.org/zap"
)

// Request is one text-generation call.
type Request struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Generator produces text from a prompt. Implementations must return an
// error for empty output so callers can fall back.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

const (
	// DefaultRetries is the number of additional attempts after the first.
	DefaultRetries = 2
	// baseDelay is multiplied by the attempt number for linear backoff.
	baseDelay = time.Second

	defaultMaxTokens   = 200
	defaultTemperature = 0.7
)

var errEmptyResponse = errors.New("empty response from model")

// Client calls the OpenAI chat completions API.
type Client struct {
	api     openaiclient.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a Client from config.
func New(cfg config.OpenAIConfig, logger *zap.Logger) *Client {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		// SDK-level retries are disabled; the retry policy lives in
		// GenerateWithRetry.
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeBaseURL(cfg.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}

	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &Client{
		api:     openaiclient.NewClient(opts...),
		model:   model,
		timeout: timeout,
		logger:  logger.Named("GenAI"),
	}
}

// Generate performs a single chat completion with one user message.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.UserMessage(req.Prompt),
		},
		MaxTokens:   openaiclient.Int(int64(maxTokens)),
		Temperature: openaiclient.Float(temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// GenerateWithRetry wraps a Generator with bounded linear-backoff retry.
// All failures are retried uniformly; after exhausting the retries the
// final error is logged and "" is returned.
func GenerateWithRetry(ctx context.Context, g Generator, req Request, retries int, logger *zap.Logger) string {
	return generateWithRetry(ctx, g, req, retries, logger, time.Sleep)
}

func generateWithRetry(ctx context.Context, g Generator, req Request, retries int, logger *zap.Logger, sleep func(time.Duration)) string {
	if retries < 0 {
		retries = DefaultRetries
	}

	var lastErr error
	for attempt := 1; attempt <= retries+1; attempt++ {
		text, err := g.Generate(ctx, req)
		if err == nil {
			return text
		}
		lastErr = err

		if attempt > retries {
			break
		}
		if logger != nil {
			logger.Warn("generation retry",
				zap.Int("attempt", attempt),
				zap.Int("retries", retries),
				zap.Error(err),
			)
		}
		sleep(time.Duration(attempt) * baseDelay)
	}

	if logger != nil {
		logger.Error("generation failed after retries",
			zap.Int("retries", retries),
			zap.Error(lastErr),
		)
	}
	return ""
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
