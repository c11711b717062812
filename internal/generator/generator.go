// Package generator asks a chat-completion endpoint for a commit message.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

// Error categories surfaced to the user.
var (
	// ErrMissingCredential means no API key is configured; nothing was sent.
	ErrMissingCredential = errors.New("API key not configured")
	// ErrAuthentication means the endpoint rejected the API key.
	ErrAuthentication = errors.New("invalid API key")
	// ErrGeneration covers every other transport or service failure.
	ErrGeneration = errors.New("failed to generate commit message")
)

// Fixed request parameters.
const (
	SystemPrompt      = "You are an expert developer who writes clear, concise Git commit messages based on code activity."
	MaxTokens         = 150
	Temperature       = float32(0.3)
	FallbackMessage   = "Update code"
	DefaultConfidence = 0.8
)

// Config holds what the generator needs to reach the endpoint.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Generator produces commit-message suggestions.
type Generator struct {
	cfg    Config
	client *openai.Client
}

// New creates a generator. The client is built lazily so a missing key never
// touches the network.
func New(cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = models.DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = models.DefaultBaseURL
	}
	g := &Generator{cfg: cfg}
	if strings.TrimSpace(cfg.APIKey) != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		if cfg.HTTPClient != nil {
			clientConfig.HTTPClient = cfg.HTTPClient
		}
		g.client = openai.NewClientWithConfig(clientConfig)
	}
	return g
}

// Generate sends prompt as a single chat completion. It makes one attempt,
// with no retry and no timeout beyond ctx.
func (g *Generator) Generate(ctx context.Context, prompt string) (*models.CommitMessage, error) {
	if g.client == nil {
		return nil, ErrMissingCredential
	}

	req := openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	log.Debug().Str("model", g.cfg.Model).Int("promptChars", len(prompt)).Msg("openai request")

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("completion failed")
		return nil, classify(err)
	}

	message := ""
	if len(resp.Choices) > 0 {
		message = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	if message == "" {
		message = FallbackMessage
	}

	log.Debug().
		Int("promptTokens", resp.Usage.PromptTokens).
		Int("completionTokens", resp.Usage.CompletionTokens).
		Msg("openai response")

	return &models.CommitMessage{
		Message:    message,
		Confidence: DefaultConfidence,
	}, nil
}

// classify maps a client error to ErrAuthentication or ErrGeneration.
func classify(err error) error {
	if statusCode(err) == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
