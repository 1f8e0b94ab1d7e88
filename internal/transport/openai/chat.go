package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
	"github.com/vibefinder/vibefinder/internal/metrics"
)

var (
	_ domain.ChatModel     = (*ChatModel)(nil)
	_ domain.HealthChecker = (*ChatModel)(nil)
)

// ChatModel is a chat completion provider using the OpenAI-compatible API
// (OpenRouter and friends). One instance serves one pipeline role so metrics
// can tell the two call sites apart.
type ChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	stop        []string
	role        string
	logger      *zap.Logger
}

// ChatConfig holds the chat completion provider settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	StopTokens  []string
	Role        string
	Logger      *zap.Logger
}

// NewChatModel creates an OpenAI-compatible chat completion provider.
func NewChatModel(cfg *ChatConfig) *ChatModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ChatModel{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		stop:        cfg.StopTokens,
		role:        cfg.Role,
		logger:      cfg.Logger,
	}
}

// HealthCheck verifies the provider is reachable by listing models.
func (c *ChatModel) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return parseAPIError(err, domain.ErrLLMProvider)
	}
	return nil
}

// Complete implements domain.ChatModel. Issues one chat completion and
// returns the first choice verbatim.
func (c *ChatModel) Complete(ctx context.Context, prompt string) (domain.ChatResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stop:        c.stop,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, c.role, "error").Inc()
		return domain.ChatResult{}, parseAPIError(err, domain.ErrLLMProvider)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, c.role, "error").Inc()
		return domain.ChatResult{}, fmt.Errorf("empty completion response: %w", domain.ErrLLMProvider)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, c.role, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model, c.role).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.model, c.role, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, c.role, "completion").Add(float64(usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.model, c.role, "total").Add(float64(usage.TotalTokens))
	}

	return domain.ChatResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}
