package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("language model API key is not configured")

// VendorError wraps a failure reported by the language model vendor.
type VendorError struct {
	Err error
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("language model request failed: %v", e.Err)
}

func (e *VendorError) Unwrap() error { return e.Err }

// Completer sends a single prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds the vendor settings used by Client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client is a Completer backed by the OpenAI chat completions API.
type Client struct {
	api    *openai.Client
	cfg    Config
	cache  Cache
	logger *zap.Logger
}

// NewClient creates a client. A nil cache disables caching.
func NewClient(cfg Config, cache Cache, logger *zap.Logger) *Client {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{cfg: cfg, cache: cache, logger: logger}
	if cfg.APIKey != "" {
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			apiCfg.BaseURL = cfg.BaseURL
		}
		c.api = openai.NewClientWithConfig(apiCfg)
	}
	return c
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.api != nil
}

// Complete sends prompt as a single user message. Replies are cached by
// model and prompt when a cache is configured.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}

	key := cacheKey(c.cfg.Model, prompt)
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("llm cache lookup failed", zap.Error(err))
	} else if ok {
		c.logger.Debug("llm cache hit", zap.String("key", key))
		return cached, nil
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Error("llm request failed",
			zap.String("model", c.cfg.Model),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return "", &VendorError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &VendorError{Err: errors.New("response contained no choices")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Info("llm request completed",
		zap.String("model", c.cfg.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("latency", time.Since(start)))

	if err := c.cache.Set(ctx, key, text); err != nil {
		c.logger.Warn("llm cache store failed", zap.Error(err))
	}
	return text, nil
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "muawin:llm:" + hex.EncodeToString(sum[:])
}
