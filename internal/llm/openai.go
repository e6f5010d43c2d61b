package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/antoniostano/asistente/internal/logging"
)

const emptyCompletionText = "No pude generar una respuesta. Inténtalo de nuevo."

// OpenAIGateway generates text through the OpenAI chat completion API.
type OpenAIGateway struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIGateway(cfg Config) *OpenAIGateway {
	clientConfig := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" && baseURL != "https://api.openai.com/v1" {
		clientConfig.BaseURL = baseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIGateway{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: float32(temperature),
	}
}

func (g *OpenAIGateway) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	logging.Info().
		Str("model", g.model).
		Int("max_tokens", maxTokens).
		Int("prompt_chars", len(prompt)).
		Msg("sending prompt to openai")

	started := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		kind := Classify(upstreamDetail(err))
		logging.Error().Err(err).Str("kind", string(kind)).Msg("openai completion failed")
		return "", &Error{Kind: kind, Err: err}
	}

	if len(resp.Choices) == 0 {
		logging.Warn().Msg("openai returned no choices")
		return emptyCompletionText, nil
	}

	content := resp.Choices[0].Message.Content
	logging.Info().
		Int("chars", len(content)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Dur("took", time.Since(started)).
		Msg("openai completion received")
	return content, nil
}

// upstreamDetail flattens the parts of an OpenAI error that carry its code.
func upstreamDetail(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%v %s %s", apiErr.Code, apiErr.Type, apiErr.Message)
	}
	return err.Error()
}
