package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"startup-sim/internal/config"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrAIGenerationFailed is returned when the AI backend fails to produce text.
var ErrAIGenerationFailed = errors.New("AI text generation failed")

// GenerationParams are per-request sampling parameters. Pointers
// distinguish 0/0.0 from "not set".
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// UsageInfo holds token usage and estimated cost for one request.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCostUSD float64
}

// AIClient is the transport to the AI backend behind the scenario oracle.
type AIClient interface {
	// GenerateText generates text from a system prompt and user input.
	// kind labels the request for metrics (initialize, month, advisor).
	GenerateText(ctx context.Context, kind string, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error)
}

// NewAIClient builds an AIClient for the configured provider.
func NewAIClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	switch cfg.AIProvider {
	case "openai":
		return newOpenAIClient(cfg, logger), nil
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AIProvider)
	}
}

// --- OpenAI-compatible client ---

type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(cfg *config.Config, logger *zap.Logger) *openAIClient {
	clientConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	clientConfig.BaseURL = cfg.AIBaseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	return &openAIClient{
		client: openaigo.NewClientWithConfig(clientConfig),
		model:  cfg.AIModel,
		logger: logger.Named("OpenAIClient"),
	}
}

func (c *openAIClient) GenerateText(ctx context.Context, kind string, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(systemPrompt) == "" {
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: system prompt is empty", ErrAIGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleUser,
			Content: userInput,
		})
	}

	startTime := time.Now()
	c.logger.Debug("Sending request to AI",
		zap.String("model", c.model),
		zap.String("kind", kind),
		zap.Int("systemPromptBytes", len(systemPrompt)),
		zap.Int("userInputBytes", len(userInput)),
	)

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openaigo.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: float32Val(params.Temperature),
			MaxTokens:   intVal(params.MaxTokens),
			TopP:        float32Val(params.TopP),
		},
	)

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("AI API error", zap.Duration("duration", duration), zap.String("kind", kind), zap.Error(err))
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Error("AI API returned empty response", zap.Duration("duration", duration), zap.String("kind", kind))
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "success"}).Inc()
	oracleRequestDuration.With(prometheus.Labels{"model": c.model, "kind": kind}).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	c.logger.Debug("AI response received",
		zap.Duration("duration", duration),
		zap.String("kind", kind),
		zap.Int("responseChars", len(generatedText)),
	)

	if resp.Usage.TotalTokens > 0 {
		usageInfo.PromptTokens = resp.Usage.PromptTokens
		usageInfo.CompletionTokens = resp.Usage.CompletionTokens
		usageInfo.TotalTokens = resp.Usage.TotalTokens
		usageInfo.EstimatedCostUSD = calculateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		observeUsage(c.model, usageInfo)
	}

	return generatedText, usageInfo, nil
}

// --- Ollama client ---

type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

func newOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{Timeout: cfg.AITimeout}

	// api.NewClient expects the base URL without a /v1 suffix.
	ollamaBaseURL := strings.TrimSuffix(cfg.AIBaseURL, "/v1")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", ollamaBaseURL, err)
	}

	client := api.NewClient(parsedURL, httpClient)
	logger.Info("Ollama client created", zap.String("baseURL", ollamaBaseURL), zap.String("model", cfg.AIModel))

	return &ollamaClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger.Named("OllamaClient"),
	}, nil
}

func (c *ollamaClient) GenerateText(ctx context.Context, kind string, systemPrompt string, userInput string, params GenerationParams) (string, UsageInfo, error) {
	usageInfo := UsageInfo{} // Ollama runs locally, cost stays zero

	if strings.TrimSpace(systemPrompt) == "" {
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: system prompt is empty", ErrAIGenerationFailed)
	}

	messages := []api.Message{
		{Role: "system", Content: systemPrompt},
	}
	if userInput != "" {
		messages = append(messages, api.Message{Role: "user", Content: userInput})
	}

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": params.Temperature,
			"top_p":       params.TopP,
			"num_predict": intVal(params.MaxTokens),
		},
	}

	startTime := time.Now()
	var responseText string
	var promptTokens, completionTokens int

	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseText = resp.Message.Content
		if resp.PromptEvalCount > 0 {
			promptTokens = resp.PromptEvalCount
		}
		if resp.EvalCount > 0 {
			completionTokens = resp.EvalCount
		}
		return nil
	})

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Ollama API error", zap.Duration("duration", duration), zap.String("kind", kind), zap.Error(err))
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if strings.TrimSpace(responseText) == "" {
		oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	oracleRequestsTotal.With(prometheus.Labels{"model": c.model, "kind": kind, "status": "success"}).Inc()
	oracleRequestDuration.With(prometheus.Labels{"model": c.model, "kind": kind}).Observe(duration.Seconds())

	// Ollama does not always report token counts; fall back to a tiktoken
	// estimate so the histograms stay meaningful.
	if promptTokens == 0 || completionTokens == 0 {
		if tke, encErr := tiktoken.GetEncoding("cl100k_base"); encErr == nil {
			if promptTokens == 0 {
				promptTokens = len(tke.Encode(systemPrompt, nil, nil)) + len(tke.Encode(userInput, nil, nil))
			}
			if completionTokens == 0 {
				completionTokens = len(tke.Encode(responseText, nil, nil))
			}
		}
	}
	usageInfo.PromptTokens = promptTokens
	usageInfo.CompletionTokens = completionTokens
	usageInfo.TotalTokens = promptTokens + completionTokens
	observeUsage(c.model, usageInfo)

	return responseText, usageInfo, nil
}

func observeUsage(model string, usage UsageInfo) {
	oraclePromptTokens.With(prometheus.Labels{"model": model}).Observe(float64(usage.PromptTokens))
	oracleCompletionTokens.With(prometheus.Labels{"model": model}).Observe(float64(usage.CompletionTokens))
	if usage.EstimatedCostUSD > 0 {
		oracleEstimatedCostUSD.With(prometheus.Labels{"model": model}).Add(usage.EstimatedCostUSD)
	}
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 1.0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
